// Package downloader fetches archive image files over HTTP. Downloads go
// to an .incomplete temp file that is renamed into place on success, can
// resume a partial transfer with a Range request, and are retried with
// exponential backoff on transient failures.
package downloader

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
)

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = 10 * time.Second
	downloadTimeout      = 10 * time.Minute
)

// Downloader downloads files sequentially. It is safe to reuse across
// downloads but performs no coordination of its own; callers wanting
// parallelism run multiple Downloaders.
type Downloader struct {
	client        *http.Client
	maxRetries    int
	retryInterval time.Duration
	showProgress  bool
}

type Option func(*Downloader)

func WithMaxRetries(n int) Option {
	return func(d *Downloader) { d.maxRetries = n }
}

func WithRetryInterval(interval time.Duration) Option {
	return func(d *Downloader) { d.retryInterval = interval }
}

func WithProgress(show bool) Option {
	return func(d *Downloader) { d.showProgress = show }
}

func WithHTTPClient(c *http.Client) Option {
	return func(d *Downloader) { d.client = c }
}

func New(opts ...Option) *Downloader {
	d := &Downloader{
		client:        &http.Client{Timeout: downloadTimeout},
		maxRetries:    defaultMaxRetries,
		retryInterval: defaultRetryInterval,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// DownloadError is returned when a file could not be fetched. StatusCode
// is zero for network-level failures.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download of %s failed with HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download of %s failed: %s", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// DownloadFile fetches rawURL into dest. An existing dest is left alone
// and counts as success. A leftover dest+".incomplete" from an earlier
// interrupted run is resumed.
func (d *Downloader) DownloadFile(ctx context.Context, rawURL, dest string) error {
	if fileExists(dest) {
		log.WithField("dest", dest).Debug("File already downloaded, skipping")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return errors.Wrapf(err, "unable to create directory for %s", dest)
	}

	incompletePath := dest + ".incomplete"
	if err := d.httpDownload(ctx, rawURL, incompletePath); err != nil {
		return err
	}

	if err := os.Rename(incompletePath, dest); err != nil {
		return errors.Wrapf(err, "unable to move %s into place", incompletePath)
	}

	return nil
}

// DownloadAll fetches each URL in urls into outputDir, named by the final
// URL path segment. Files already present in outputDir are skipped. When
// warnOnError is true a failed file is logged and the rest continue,
// otherwise the first failure aborts. The returned list holds the local
// paths of every file that is present after the call.
func (d *Downloader) DownloadAll(ctx context.Context, urls []string, outputDir string, warnOnError bool) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "unable to create output directory %s", outputDir)
	}

	existing, err := existingFiles(outputDir)
	if err != nil {
		return nil, err
	}

	log.WithField("count", len(urls)).WithField("output_dir", outputDir).Info("Downloading images")

	var localPaths []string
	for _, rawURL := range urls {
		name, err := fileNameFromURL(rawURL)
		if err != nil {
			if warnOnError {
				log.WithError(err).Warnf("Skipping %s", rawURL)
				continue
			}
			return localPaths, err
		}

		dest := filepath.Join(outputDir, name)
		if existing[name] {
			log.WithField("file", name).Debug("Already present, skipping")
			localPaths = append(localPaths, dest)
			continue
		}

		if err := d.DownloadFile(ctx, rawURL, dest); err != nil {
			if warnOnError {
				log.WithError(err).Warnf("Failed to download %s", rawURL)
				continue
			}
			return localPaths, err
		}

		localPaths = append(localPaths, dest)
	}

	return localPaths, nil
}

func (d *Downloader) httpDownload(ctx context.Context, rawURL, filePath string) error {
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrapf(err, "unable to open %s", filePath)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return errors.Wrapf(err, "unable to stat %s", filePath)
	}
	resumeSize := fileInfo.Size()

	startTime := time.Now()

	var lastErr error
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return &DownloadError{URL: rawURL, Err: err}
		}

		if resumeSize > 0 {
			req.Header.Set("Range", fmt.Sprintf("bytes=%d-", resumeSize))
			log.WithField("url", rawURL).WithField("resume_size", resumeSize).
				Debug("Resuming download from byte position")
		}

		resp, err := d.client.Do(req)
		if err != nil {
			lastErr = &DownloadError{URL: rawURL, Err: err}
			if attempt == d.maxRetries {
				return lastErr
			}
			if err := sleepBackoff(ctx, attempt+1, d.retryInterval); err != nil {
				return err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			lastErr = &DownloadError{URL: rawURL, StatusCode: resp.StatusCode}
			if !retryableStatus(resp.StatusCode) || attempt == d.maxRetries {
				return lastErr
			}
			if err := sleepBackoff(ctx, attempt+1, d.retryInterval); err != nil {
				return err
			}
			continue
		}

		var w io.Writer = file
		var bar *fileProgressBar
		if d.showProgress {
			bar = newFileProgressBar(filepath.Base(filePath), resp.ContentLength)
			w = bar.wrap(file)
		}

		written, err := io.Copy(w, &contextReader{ctx: ctx, r: resp.Body})
		resp.Body.Close()
		if bar != nil {
			bar.finish()
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			lastErr = &DownloadError{URL: rawURL, Err: err}
			if attempt == d.maxRetries {
				return lastErr
			}

			// Continue from whatever made it to disk.
			resumeSize += written
			if err := sleepBackoff(ctx, attempt+1, d.retryInterval); err != nil {
				return err
			}
			continue
		}

		log.WithField("url", rawURL).
			WithField("bytes", resumeSize+written).
			WithField("duration_ms", time.Since(startTime).Milliseconds()).
			Debug("Download completed")

		return nil
	}

	return lastErr
}

// fileNameFromURL returns the final path segment of rawURL.
func fileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrapf(err, "unparseable url %s", rawURL)
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("url %s has no file name", rawURL)
	}

	return name, nil
}

func retryableStatus(statusCode int) bool {
	return statusCode >= 500 || statusCode == http.StatusTooManyRequests || statusCode == http.StatusRequestTimeout
}

func sleepBackoff(ctx context.Context, attempt int, baseDelay time.Duration) error {
	// Cap at 30 seconds to avoid extremely long delays.
	delay := time.Duration(math.Min(float64(baseDelay)*math.Pow(2, float64(attempt-1)), float64(30*time.Second)))

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func fileExists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// contextReader wraps an io.Reader so a long copy notices cancellation.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, cr.ctx.Err()
	default:
		return cr.r.Read(p)
	}
}
