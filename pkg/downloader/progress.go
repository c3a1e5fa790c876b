package downloader

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// fileProgressBar renders a byte progress bar for a single file download.
// A size of -1 renders an indeterminate spinner-style bar.
type fileProgressBar struct {
	bar *progressbar.ProgressBar
}

func newFileProgressBar(filename string, size int64) *fileProgressBar {
	description := filename
	if len(description) > 50 {
		description = description[:47] + "..."
	}

	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionThrottle(100*time.Millisecond),
	)

	return &fileProgressBar{bar: bar}
}

// wrap returns a writer that forwards to w while advancing the bar.
func (b *fileProgressBar) wrap(w io.Writer) io.Writer {
	return io.MultiWriter(w, b.bar)
}

func (b *fileProgressBar) finish() {
	_ = b.bar.Finish()
}
