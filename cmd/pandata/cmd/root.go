/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/panoptes-data/pandata/pkg/config"
	"github.com/panoptes-data/pandata/pkg/plog"
)

var (
	cfgFile string
	logFile string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pandata",
	Short: "Access PANOPTES observation data",
	Long: `pandata is a client for the PANOPTES observation archive. It searches the
observations table, downloads observation metadata and fetches the image
files for an observation sequence.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		plog.Setup(verbose)

		if logFile != "" {
			if err := plog.LogToFile(logFile); err != nil {
				log.Fatalf("Failed opening log file %s: %s", logFile, err)
			}
		}

		if cfgFile != "" {
			if err := config.LoadFromPath(cfgFile); err != nil {
				log.Fatalf("Failed loading configuration file %s: %s", cfgFile, err)
			}
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "dotenv config file with archive settings")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write log output to this file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
