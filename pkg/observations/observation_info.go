// Package observations ties the catalog and the downloader together: given
// a sequence id it loads the image metadata for that observation and can
// fetch the image files themselves.
package observations

import (
	"context"
	"fmt"
	"strings"

	"github.com/apex/log"

	"github.com/panoptes-data/pandata/pkg/catalog"
	"github.com/panoptes-data/pandata/pkg/catalog/model"
	"github.com/panoptes-data/pandata/pkg/downloader"
)

const (
	// imageBucket is the public bucket raw images are served from.
	imageBucket = "panoptes-images"

	// imageFileExt is the extension of archived raw images.
	imageFileExt = ".fits.fz"
)

// MetadataFetcher is the part of the catalog client ObservationInfo needs.
type MetadataFetcher interface {
	ImageMetadata(ctx context.Context, sequenceID string) ([]model.ImageMetadata, error)
}

// ObservationInfo holds the image metadata and derived image URLs of one
// observation sequence.
type ObservationInfo struct {
	sequenceID string
	settings   catalog.Settings
	images     []model.ImageMetadata
	imageList  []string
}

// NewObservationInfo loads the image metadata for sequenceID, optionally
// narrowed by imageQuery (see catalog.ParseImageQuery), and derives the
// image URL list from the row uids.
func NewObservationInfo(ctx context.Context, fetcher MetadataFetcher, settings catalog.Settings, sequenceID, imageQuery string) (*ObservationInfo, error) {
	if len(strings.Split(sequenceID, "_")) != 3 {
		return nil, fmt.Errorf("malformed sequence id: %q", sequenceID)
	}

	query, err := catalog.ParseImageQuery(imageQuery)
	if err != nil {
		return nil, err
	}

	images, err := fetcher.ImageMetadata(ctx, sequenceID)
	if err != nil {
		return nil, err
	}

	images = query.Filter(images)

	o := &ObservationInfo{
		sequenceID: sequenceID,
		settings:   settings,
		images:     images,
	}

	// Image uids flatten to storage paths by swapping the separators,
	// eg PAN012_358d0f_20180824T040118 -> PAN012/358d0f/20180824T040118.
	for _, img := range images {
		o.imageList = append(o.imageList, fmt.Sprintf("%s/%s/%s%s",
			o.settings.ImgBaseURL,
			imageBucket,
			strings.ReplaceAll(img.UID, "_", "/"),
			imageFileExt))
	}

	log.WithField("sequence_id", sequenceID).
		WithField("num_images", len(images)).
		Debug("Loaded observation info")

	return o, nil
}

func (o *ObservationInfo) SequenceID() string {
	return o.sequenceID
}

// ImageMetadata returns the metadata rows, post image-query filtering.
func (o *ObservationInfo) ImageMetadata() []model.ImageMetadata {
	return o.images
}

// ImageList returns the raw image URLs for the observation.
func (o *ObservationInfo) ImageList() []string {
	return o.imageList
}

// DownloadImages fetches every image of the observation into outputDir,
// which defaults to a directory named after the sequence id. Already
// downloaded files are skipped. With warnOnError set a failed image is
// logged and the rest continue.
func (o *ObservationInfo) DownloadImages(ctx context.Context, d *downloader.Downloader, outputDir string, warnOnError bool) ([]string, error) {
	if outputDir == "" {
		outputDir = o.sequenceID
	}

	return d.DownloadAll(ctx, o.imageList, outputDir, warnOnError)
}

func (o *ObservationInfo) String() string {
	return fmt.Sprintf("Obs: seq_id=%s num_images=%d", o.sequenceID, len(o.images))
}
