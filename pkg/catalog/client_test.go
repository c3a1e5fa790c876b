package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientObservations(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/observations.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(observationsCSV))
	}))
	defer ts.Close()

	client := NewClient(Settings{ObservationsURL: ts.URL + "/observations.csv"})

	obs, err := client.Observations(context.Background())
	require.NoError(t, err)
	require.Len(t, obs, 3)
	require.Equal(t, "PAN012_358d0f_20180824T035917", obs[0].SequenceID)
}

func TestClientObservationsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewClient(Settings{ObservationsURL: ts.URL})

	_, err := client.Observations(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCatalogAPI)
	require.Contains(t, err.Error(), "HTTP Status: 500")
}

func TestClientImageMetadata(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "PAN012_358d0f_20180824T035917", r.URL.Query().Get("sequence_id"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(imageMetadataCSV))
	}))
	defer ts.Close()

	client := NewClient(Settings{ImgMetadataURL: ts.URL})

	images, err := client.ImageMetadata(context.Background(), "PAN012_358d0f_20180824T035917")
	require.NoError(t, err)
	require.Len(t, images, 2)
	require.Equal(t, "PAN012_358d0f_20180824T040118", images[0].UID)
}

func TestClientImageMetadataError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer ts.Close()

	client := NewClient(Settings{ImgMetadataURL: ts.URL})

	_, err := client.ImageMetadata(context.Background(), "PAN999_000000_20200101T000000")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrCatalogAPI)
	require.Contains(t, err.Error(), "PAN999_000000_20200101T000000")
}
