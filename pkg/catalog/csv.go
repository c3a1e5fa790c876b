package catalog

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/jszwec/csvutil"
	"github.com/pkg/errors"

	"github.com/panoptes-data/pandata/pkg/catalog/model"
	"github.com/panoptes-data/pandata/pkg/paths"
)

// badM42Suffix is a known-bad field name in the archive export: the M42
// field was recorded with its coordinate string instead of its name.
const badM42Suffix = "00:00:42+00:00"

// DecodeObservations decodes an observations CSV export and normalizes the
// rows: parse the time column, derive per-image exposure time, slug the
// field name for use in local paths, and repair the known-bad M42
// field name.
func DecodeObservations(data []byte) ([]model.Observation, error) {
	var obs []model.Observation
	if err := csvutil.Unmarshal(data, &obs); err != nil {
		return nil, errors.Wrap(err, "unable to decode observations csv")
	}

	for i := range obs {
		o := &obs[i]

		if o.TimeRaw != "" {
			t, err := paths.ParseTime(o.TimeRaw)
			if err != nil {
				return nil, err
			}
			o.Time = t
		}

		if strings.HasSuffix(o.FieldName, badM42Suffix) {
			o.FieldName = "M42"
		}
		o.FieldSlug = slug.Make(o.FieldName)

		if o.NumImages > 0 {
			o.Exptime = o.TotalExptime / float64(o.NumImages)
		}
	}

	return obs, nil
}

// DecodeImageMetadata decodes a per-sequence image metadata CSV export.
func DecodeImageMetadata(data []byte) ([]model.ImageMetadata, error) {
	var images []model.ImageMetadata
	if err := csvutil.Unmarshal(data, &images); err != nil {
		return nil, errors.Wrap(err, "unable to decode image metadata csv")
	}

	for i := range images {
		img := &images[i]
		if img.TimeRaw == "" {
			continue
		}

		t, err := paths.ParseTime(img.TimeRaw)
		if err != nil {
			return nil, err
		}
		img.Time = t
	}

	return images, nil
}
