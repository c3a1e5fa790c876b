/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"

	"github.com/panoptes-data/pandata/pkg/catalog"
	"github.com/panoptes-data/pandata/pkg/catalog/model"
	"github.com/panoptes-data/pandata/pkg/observations"
	"github.com/panoptes-data/pandata/pkg/paths"
)

var (
	metadataSequenceID string
	metadataUnitID     string
	metadataStartDate  string
	metadataEndDate    string
	metadataOutputDir  string
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Download observation metadata as CSV",
	Long: `Download image metadata. Given --sequence-id, writes the metadata for that
observation. Given --unit-id and a date range, writes the metadata for every
observation the unit made in the range.`,
	Run: func(cmd *cobra.Command, args []string) {
		settings := catalog.DefaultSettings()
		client := catalog.NewClient(settings)

		switch {
		case metadataSequenceID != "":
			outputFn := filepath.Join(metadataOutputDir, fmt.Sprintf("%s-metadata.csv", metadataSequenceID))

			obsInfo, err := observations.NewObservationInfo(cmd.Context(), client, settings, metadataSequenceID, "")
			if err != nil {
				log.Fatalf("Error downloading metadata for %s: %s", metadataSequenceID, err)
			}

			writeMetadataCSV(outputFn, obsInfo.ImageMetadata())
			fmt.Printf("Metadata saved to %s\n", outputFn)

		case metadataUnitID != "":
			if metadataStartDate == "" {
				log.Fatalf("Must provide a start-date when using unit-id")
			}

			startDate, err := paths.ParseTime(metadataStartDate)
			if err != nil {
				log.Fatalf("Unparseable start-date: %s", err)
			}

			endDate := time.Now().UTC()
			if metadataEndDate != "" {
				if endDate, err = paths.ParseTime(metadataEndDate); err != nil {
					log.Fatalf("Unparseable end-date: %s", err)
				}
			}

			obs, err := client.Observations(cmd.Context())
			if err != nil {
				log.Fatalf("Unable to fetch observations: %s", err)
			}

			results := catalog.Search(obs, catalog.SearchOptions{
				UnitIDs:    []string{metadataUnitID},
				StartDate:  startDate,
				EndDate:    endDate,
				SkipCoords: true,
			})

			var rows []model.ImageMetadata
			for _, o := range results {
				obsInfo, err := observations.NewObservationInfo(cmd.Context(), client, settings, o.SequenceID, "")
				if err != nil {
					log.WithError(err).Warnf("Error in %s", o.SequenceID)
					continue
				}
				rows = append(rows, obsInfo.ImageMetadata()...)
			}

			outputFn := filepath.Join(metadataOutputDir, fmt.Sprintf("%s-%s-%s-metadata.csv",
				metadataUnitID,
				paths.FlattenTime(startDate)[:8],
				paths.FlattenTime(endDate)[:8]))

			writeMetadataCSV(outputFn, rows)
			fmt.Printf("Metadata saved to %s\n", outputFn)

		default:
			log.Fatalf("Must provide either a sequence-id or a unit-id")
		}
	},
}

func writeMetadataCSV(outputFn string, rows []model.ImageMetadata) {
	data, err := csvutil.Marshal(rows)
	if err != nil {
		log.Fatalf("Unable to encode metadata: %s", err)
	}

	if err := os.WriteFile(outputFn, data, 0644); err != nil {
		log.Fatalf("Unable to write %s: %s", outputFn, err)
	}
}

func init() {
	rootCmd.AddCommand(metadataCmd)

	metadataCmd.Flags().StringVarP(&metadataSequenceID, "sequence-id", "s", "",
		"Sequence ID for the observation")
	metadataCmd.Flags().StringVarP(&metadataUnitID, "unit-id", "u", "",
		"Unit ID, used with a date range to download all metadata for a unit")
	metadataCmd.Flags().StringVar(&metadataStartDate, "start-date", "",
		"Start date in form YYYY-MM-DD")
	metadataCmd.Flags().StringVar(&metadataEndDate, "end-date", "",
		"End date in form YYYY-MM-DD, defaults to now")
	metadataCmd.Flags().StringVarP(&metadataOutputDir, "output-dir", "o", ".",
		"Output directory for the metadata file")
}
