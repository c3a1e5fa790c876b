package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestDownloader(opts ...Option) *Downloader {
	base := []Option{WithRetryInterval(time.Millisecond), WithProgress(false)}
	return New(append(base, opts...)...)
}

func TestDownloadFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("image bytes"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "PAN012", "20180824T040118.fits.fz")

	d := newTestDownloader()
	require.NoError(t, d.DownloadFile(context.Background(), ts.URL, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "image bytes", string(data))

	// The temp file is gone once the download lands.
	_, err = os.Stat(dest + ".incomplete")
	require.True(t, os.IsNotExist(err))
}

func TestDownloadFileSkipsExisting(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("new bytes"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "image.fits.fz")
	require.NoError(t, os.WriteFile(dest, []byte("old bytes"), 0o644))

	d := newTestDownloader()
	require.NoError(t, d.DownloadFile(context.Background(), ts.URL, dest))

	require.Equal(t, int32(0), requests.Load())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "old bytes", string(data))
}

func TestDownloadFileResumesIncomplete(t *testing.T) {
	var rangeHeader string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader = r.Header.Get("Range")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte(" bytes"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "image.fits.fz")
	require.NoError(t, os.WriteFile(dest+".incomplete", []byte("image"), 0o644))

	d := newTestDownloader()
	require.NoError(t, d.DownloadFile(context.Background(), ts.URL, dest))

	require.Equal(t, "bytes=5-", rangeHeader)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "image bytes", string(data))
}

func TestDownloadFileRetriesServerErrors(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) < 3 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("finally"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "image.fits.fz")

	d := newTestDownloader()
	require.NoError(t, d.DownloadFile(context.Background(), ts.URL, dest))
	require.Equal(t, int32(3), requests.Load())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "finally", string(data))
}

func TestDownloadFileDoesNotRetryClientErrors(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "image.fits.fz")

	d := newTestDownloader()
	err := d.DownloadFile(context.Background(), ts.URL, dest)
	require.Error(t, err)
	require.Equal(t, int32(1), requests.Load())

	var downloadErr *DownloadError
	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, http.StatusNotFound, downloadErr.StatusCode)
}

func TestDownloadFileGivesUpAfterRetries(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "image.fits.fz")

	d := newTestDownloader(WithMaxRetries(2))
	err := d.DownloadFile(context.Background(), ts.URL, dest)
	require.Error(t, err)
	require.Equal(t, int32(3), requests.Load())

	var downloadErr *DownloadError
	require.ErrorAs(t, err, &downloadErr)
	require.Equal(t, http.StatusInternalServerError, downloadErr.StatusCode)
}

func TestDownloadFileCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("bytes"))
	}))
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := newTestDownloader()
	err := d.DownloadFile(ctx, ts.URL, filepath.Join(t.TempDir(), "image.fits.fz"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDownloadAll(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, "contents of %s", r.URL.Path)
	}))
	defer ts.Close()

	outputDir := filepath.Join(t.TempDir(), "PAN012_358d0f_20180824T035917")
	urls := []string{
		ts.URL + "/PAN012/358d0f/20180824T035917/20180824T040118.fits.fz",
		ts.URL + "/PAN012/358d0f/20180824T035917/20180824T040335.fits.fz",
	}

	d := newTestDownloader()
	localPaths, err := d.DownloadAll(context.Background(), urls, outputDir, false)
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(outputDir, "20180824T040118.fits.fz"),
		filepath.Join(outputDir, "20180824T040335.fits.fz"),
	}, localPaths)

	for _, p := range localPaths {
		_, err := os.Stat(p)
		require.NoError(t, err)
	}
}

func TestDownloadAllSkipsExisting(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte("fits"))
	}))
	defer ts.Close()

	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "a.fits.fz"), []byte("already here"), 0o644))

	urls := []string{ts.URL + "/a.fits.fz", ts.URL + "/b.fits.fz"}

	d := newTestDownloader()
	localPaths, err := d.DownloadAll(context.Background(), urls, outputDir, false)
	require.NoError(t, err)
	require.Len(t, localPaths, 2)
	require.Equal(t, int32(1), requests.Load())

	data, err := os.ReadFile(filepath.Join(outputDir, "a.fits.fz"))
	require.NoError(t, err)
	require.Equal(t, "already here", string(data))
}

func TestDownloadAllWarnOnError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.fits.fz" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("fits"))
	}))
	defer ts.Close()

	urls := []string{ts.URL + "/bad.fits.fz", ts.URL + "/good.fits.fz"}

	// warnOnError keeps going past the failed file.
	d := newTestDownloader()
	localPaths, err := d.DownloadAll(context.Background(), urls, t.TempDir(), true)
	require.NoError(t, err)
	require.Len(t, localPaths, 1)
	require.Equal(t, "good.fits.fz", filepath.Base(localPaths[0]))

	// Without it the first failure aborts.
	_, err = d.DownloadAll(context.Background(), urls, t.TempDir(), false)
	require.Error(t, err)

	var downloadErr *DownloadError
	require.ErrorAs(t, err, &downloadErr)
}

func TestFileNameFromURL(t *testing.T) {
	var tests = []struct {
		name        string
		url         string
		errExpected bool
		expected    string
	}{
		{name: "bucket url", url: "https://storage.googleapis.com/panoptes-images/PAN012/358d0f/20180824T035917/20180824T040118.fits.fz", expected: "20180824T040118.fits.fz"},
		{name: "query string ignored", url: "http://example.com/image.fits?alt=media", expected: "image.fits"},
		{name: "no file name", url: "http://example.com/", errExpected: true},
		{name: "bare host", url: "http://example.com", errExpected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			name, err := fileNameFromURL(test.url)
			if test.errExpected {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.expected, name)
		})
	}
}

func TestExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.fits.fz"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.fits.fz.incomplete"), []byte("b"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.fits.fz"), []byte("c"), 0o644))

	found, err := existingFiles(dir)
	require.NoError(t, err)
	require.True(t, found["a.fits.fz"])
	require.True(t, found["c.fits.fz"])
	require.False(t, found["b.fits.fz.incomplete"])
	require.False(t, found["sub"])

	// A directory that does not exist yet is just empty.
	found, err = existingFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Empty(t, found)
}
