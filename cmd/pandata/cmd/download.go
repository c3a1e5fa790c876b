/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/panoptes-data/pandata/pkg/catalog"
	"github.com/panoptes-data/pandata/pkg/downloader"
	"github.com/panoptes-data/pandata/pkg/observations"
)

var (
	downloadOutputDir  string
	downloadImageQuery string
	downloadNoProgress bool
	downloadFailFast   bool
)

var downloadCmd = &cobra.Command{
	Use:   "download <sequence-id>",
	Short: "Download all FITS images for an observation",
	Long: `Download all FITS images for the observation with the given sequence id.
Images go to a directory named after the sequence id unless --output-dir
is given. Already downloaded images are skipped.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sequenceID := args[0]

		settings := catalog.DefaultSettings()
		client := catalog.NewClient(settings)

		obsInfo, err := observations.NewObservationInfo(cmd.Context(), client, settings, sequenceID, downloadImageQuery)
		if err != nil {
			log.Fatalf("Unable to load observation %s: %s", sequenceID, err)
		}

		fmt.Printf("Found %d images for %s.\n", len(obsInfo.ImageMetadata()), sequenceID)

		d := downloader.New(downloader.WithProgress(!downloadNoProgress))
		localFiles, err := obsInfo.DownloadImages(cmd.Context(), d, downloadOutputDir, !downloadFailFast)
		if err != nil {
			log.Fatalf("Error downloading images for %s: %s", sequenceID, err)
		}

		fmt.Printf("Downloaded %d images.\n", len(localFiles))
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadOutputDir, "output-dir", "o", "",
		"Output directory for images, defaults to the sequence id")
	downloadCmd.Flags().StringVarP(&downloadImageQuery, "image-query", "q", `status != "ERROR"`,
		"Query for images, eg 'status != \"ERROR\"'")
	downloadCmd.Flags().BoolVar(&downloadNoProgress, "no-progress", false,
		"Disable the per-file progress bar")
	downloadCmd.Flags().BoolVar(&downloadFailFast, "fail-fast", false,
		"Stop on the first failed image instead of warning and continuing")
}
