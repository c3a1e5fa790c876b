package downloader

import (
	"os"
	"strings"
	"sync"

	"github.com/saracen/walker"
)

// existingFiles returns the base names of the files already present under
// dir, so DownloadAll can skip them. Leftover .incomplete files do not
// count; those get resumed. A missing dir just means nothing exists yet.
func existingFiles(dir string) (map[string]bool, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return map[string]bool{}, nil
	}

	var mu sync.Mutex
	found := make(map[string]bool)

	// The walk callback runs concurrently per entry.
	err := walker.Walk(dir, func(pathname string, fi os.FileInfo) error {
		if fi.IsDir() || strings.HasSuffix(pathname, ".incomplete") {
			return nil
		}

		mu.Lock()
		found[fi.Name()] = true
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}
