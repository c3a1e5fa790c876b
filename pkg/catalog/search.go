package catalog

import (
	"sort"
	"time"

	"github.com/apex/log"

	"github.com/panoptes-data/pandata/pkg/catalog/model"
)

// DefaultSearchRadius is the half side length, in degrees, of the box used
// for coordinate searches when none is given.
const DefaultSearchRadius = 10.0

// defaultSearchStart is the beginning of archive data; searches with no
// start date begin here.
var defaultSearchStart = time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)

// SearchOptions narrows an observation search. Zero values fall back to
// the archive-wide defaults: a 10 degree radius, a start of 2018-01-01, an
// end of now, and a minimum of one image. Searches are done in a square
// box, so Radius is half the length of the side of the box.
type SearchOptions struct {
	RA     float64
	Dec    float64
	Radius float64

	StartDate time.Time
	EndDate   time.Time

	UnitIDs      []string
	Status       []string
	MinNumImages int

	// SkipCoords disables the coordinate box filter, for searches by
	// unit or date alone.
	SkipCoords bool
}

// Search filters obs down to the rows matching opts and returns them
// sorted by observation time.
func Search(obs []model.Observation, opts SearchOptions) []model.Observation {
	if opts.Radius == 0 {
		opts.Radius = DefaultSearchRadius
	}
	if opts.StartDate.IsZero() {
		opts.StartDate = defaultSearchStart
	}
	if opts.EndDate.IsZero() {
		opts.EndDate = time.Now().UTC()
	}
	if opts.MinNumImages < 1 {
		opts.MinNumImages = 1
	}

	log.WithField("total", len(obs)).Debug("Filtering observations")

	var matched []model.Observation
	for _, o := range obs {
		if !opts.SkipCoords && !inBox(o, opts) {
			continue
		}

		if o.Time.Before(opts.StartDate) || o.Time.After(opts.EndDate) {
			continue
		}

		if o.NumImages < opts.MinNumImages {
			continue
		}

		if len(opts.UnitIDs) > 0 && !contains(opts.UnitIDs, o.UnitID) {
			continue
		}

		if len(opts.Status) > 0 && !contains(opts.Status, o.Status) {
			continue
		}

		matched = append(matched, o)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Time.Before(matched[j].Time)
	})

	log.WithField("matched", len(matched)).Debug("Observations after filtering")

	return matched
}

func inBox(o model.Observation, opts SearchOptions) bool {
	return o.RAMount >= opts.RA-opts.Radius &&
		o.RAMount <= opts.RA+opts.Radius &&
		o.DecMount >= opts.Dec-opts.Radius &&
		o.DecMount <= opts.Dec+opts.Radius
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
