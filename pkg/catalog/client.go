package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"github.com/panoptes-data/pandata/pkg/catalog/model"
)

// ErrCatalogAPI marks failures talking to the archive metadata endpoints.
var ErrCatalogAPI = errors.New("catalog api")

// Client fetches the archive metadata tables. The archive exports them as
// CSV, so each call is a GET followed by a decode.
type Client struct {
	settings Settings
	c        *resty.Client
}

func NewClient(settings Settings) *Client {
	return &Client{
		settings: settings,
		c:        resty.New(),
	}
}

// Observations fetches and decodes the full observations table.
func (c *Client) Observations(ctx context.Context) ([]model.Observation, error) {
	body, err := c.get(ctx, c.settings.ObservationsURL)
	if err != nil {
		return nil, err
	}

	return DecodeObservations(body)
}

// ImageMetadata fetches the image metadata rows for the given sequence.
func (c *Client) ImageMetadata(ctx context.Context, sequenceID string) ([]model.ImageMetadata, error) {
	resp, err := c.c.R().
		SetContext(ctx).
		SetQueryParam("sequence_id", sequenceID).
		Get(c.settings.ImgMetadataURL)
	if err != nil {
		return nil, errors.Join(ErrCatalogAPI, err)
	}

	if resp.IsError() {
		return nil, errors.Join(ErrCatalogAPI,
			fmt.Errorf("(HTTP Status: %d) fetching image metadata for %s", resp.StatusCode(), sequenceID))
	}

	return DecodeImageMetadata(resp.Body())
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.c.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.Join(ErrCatalogAPI, err)
	}

	if resp.IsError() {
		return nil, errors.Join(ErrCatalogAPI,
			fmt.Errorf("(HTTP Status: %d) fetching %s", resp.StatusCode(), url))
	}

	return resp.Body(), nil
}
