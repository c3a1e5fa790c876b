/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/apex/log"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/panoptes-data/pandata/pkg/catalog"
	"github.com/panoptes-data/pandata/pkg/catalog/model"
	"github.com/panoptes-data/pandata/pkg/catalog/stor"
	"github.com/panoptes-data/pandata/pkg/paths"
)

var (
	searchRA           float64
	searchDec          float64
	searchRadius       float64
	searchUnitID       string
	searchStartDate    string
	searchEndDate      string
	searchMinNumImages int
	searchStatus       []string
	searchNoCoords     bool
	searchOffline      bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search for observations",
	Long: `Search the observations table. Results are filtered by a coordinate box
around --ra/--dec (unless --no-coords), a date range and the unit id. The
fetched table is cached locally so --offline searches keep working without
network access.`,
	Run: func(cmd *cobra.Command, args []string) {
		opts := catalog.SearchOptions{
			RA:           searchRA,
			Dec:          searchDec,
			Radius:       searchRadius,
			MinNumImages: searchMinNumImages,
			Status:       searchStatus,
			SkipCoords:   searchNoCoords,
		}

		if searchUnitID != "" {
			opts.UnitIDs = []string{searchUnitID}
		}

		var err error
		if searchStartDate != "" {
			if opts.StartDate, err = paths.ParseTime(searchStartDate); err != nil {
				log.Fatalf("Unparseable start-date: %s", err)
			}
		}
		if searchEndDate != "" {
			if opts.EndDate, err = paths.ParseTime(searchEndDate); err != nil {
				log.Fatalf("Unparseable end-date: %s", err)
			}
		}

		results := catalog.Search(loadObservations(cmd), opts)
		if len(results) == 0 {
			fmt.Println("No results found.")
			return
		}

		printObservationsTable(results)
	},
}

// loadObservations fetches the observations table, keeping the local cache
// fresh. With --offline (or when the fetch fails) the cache is used instead.
func loadObservations(cmd *cobra.Command) []model.Observation {
	dbPath, err := stor.DefaultDBPath()
	if err != nil {
		log.Fatalf("Unable to determine cache location: %s", err)
	}

	stors := stor.NewGormStors(stor.MustConnectSqlite(dbPath))

	if !searchOffline {
		obs, err := catalog.NewClient(catalog.DefaultSettings()).Observations(cmd.Context())
		if err == nil {
			if err := stors.ObservationStor.SaveObservations(obs); err != nil {
				log.WithError(err).Warn("Unable to update local cache")
			}
			return obs
		}
		log.WithError(err).Warn("Fetch failed, falling back to local cache")
	}

	obs, err := stors.ObservationStor.AllObservations()
	if err != nil {
		log.Fatalf("Unable to read local cache: %s", err)
	}

	return obs
}

func printObservationsTable(results []model.Observation) {
	table := uitable.New()
	table.AddRow("SEQUENCE ID", "FIELD", "UNIT", "RA", "DEC", "IMAGES", "EXPTIME", "TOTAL", "TIME")

	for _, o := range results {
		table.AddRow(o.SequenceID, o.FieldName, o.UnitID,
			fmt.Sprintf("%.3f", o.RAMount), fmt.Sprintf("%.3f", o.DecMount),
			o.NumImages, fmt.Sprintf("%.1f", o.Exptime), fmt.Sprintf("%.1f", o.TotalExptime),
			o.Time.Format("2006-01-02 15:04:05"))
	}

	fmt.Println(table)
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Float64Var(&searchRA, "ra", 0, "RA in degrees for the search center")
	searchCmd.Flags().Float64Var(&searchDec, "dec", 0, "Dec in degrees for the search center")
	searchCmd.Flags().Float64Var(&searchRadius, "radius", catalog.DefaultSearchRadius,
		"Half side length of the search box in degrees")
	searchCmd.Flags().StringVarP(&searchUnitID, "unit-id", "u", "", "Unit ID to include")
	searchCmd.Flags().StringVar(&searchStartDate, "start-date", "", "Start date in form YYYY-MM-DD")
	searchCmd.Flags().StringVar(&searchEndDate, "end-date", "", "End date in form YYYY-MM-DD, defaults to now")
	searchCmd.Flags().IntVarP(&searchMinNumImages, "min-num-images", "m", 1, "Minimum number of images")
	searchCmd.Flags().StringSliceVar(&searchStatus, "status", nil, "Observation status values to include")
	searchCmd.Flags().BoolVar(&searchNoCoords, "no-coords", false, "Skip the coordinate box filter")
	searchCmd.Flags().BoolVar(&searchOffline, "offline", false, "Search the local cache without fetching")
}
