package paths

import "fmt"

// InvalidPathError is returned when a path string does not match the
// PANOPTES storage layout. It carries the offending input for diagnostics.
type InvalidPathError struct {
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid path received: %q", e.Path)
}

// InvalidTimestampError is returned when a supplied or extracted timestamp
// value cannot be parsed.
type InvalidTimestampError struct {
	Value string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp: %q", e.Value)
}

// InvalidHeaderError is returned when a FITS header is missing the keys
// needed to identify an image, or a key holds a malformed value.
type InvalidHeaderError struct {
	Key   string
	Value string
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("header key %s missing or malformed: %q", e.Key, e.Value)
}
