// Package catalog provides access to the PANOPTES observation archive
// metadata: the observations table, the per-sequence image metadata table,
// and searches over them.
package catalog

import (
	"github.com/panoptes-data/pandata/pkg/config"
)

const (
	// ImgBaseURLKey configures the base URL images are served from.
	ImgBaseURLKey = "PANDATA_IMG_BASE_URL"

	// ImgMetadataURLKey configures the per-sequence image metadata endpoint.
	ImgMetadataURLKey = "PANDATA_IMG_METADATA_URL"

	// ObservationsURLKey configures where the observations table is fetched from.
	ObservationsURLKey = "PANDATA_OBSERVATIONS_URL"

	DefaultImgBaseURL      = "https://storage.googleapis.com"
	DefaultImgMetadataURL  = "https://us-central1-panoptes-exp.cloudfunctions.net/get-observation-metadata"
	DefaultObservationsURL = "https://storage.googleapis.com/panoptes-exp.appspot.com/observations.csv"
)

// Settings holds the archive endpoints the catalog talks to.
type Settings struct {
	ImgBaseURL      string
	ImgMetadataURL  string
	ObservationsURL string
}

// SettingsFromConfig resolves the archive endpoints from c, falling back
// to the public archive defaults for any key not set.
func SettingsFromConfig(c config.Configer) Settings {
	return Settings{
		ImgBaseURL:      c.GetKeyWithDefault(ImgBaseURLKey, DefaultImgBaseURL),
		ImgMetadataURL:  c.GetKeyWithDefault(ImgMetadataURLKey, DefaultImgMetadataURL),
		ObservationsURL: c.GetKeyWithDefault(ObservationsURLKey, DefaultObservationsURL),
	}
}

// DefaultSettings returns the settings resolved from the package-level config.
func DefaultSettings() Settings {
	return SettingsFromConfig(config.GetConfig())
}
