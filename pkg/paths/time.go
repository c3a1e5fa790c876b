package paths

import "time"

// FlatTimeLayout is the canonical flattened timestamp form used in every
// identifier and storage path, eg 20180824T035917.
const FlatTimeLayout = "20060102T150405"

// timeLayouts are the accepted input forms for ParseTime, tried in order.
// Layouts without a zone are taken as UTC.
var timeLayouts = []string{
	FlatTimeLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"20060102",
}

// FlattenTime returns the canonical flattened form of t, eg 20180824T035917.
// The time is rendered in UTC with no separators and no zone suffix.
func FlattenTime(t time.Time) string {
	return t.UTC().Format(FlatTimeLayout)
}

// ParseTime parses s into a UTC timestamp. It accepts the flattened layout
// along with the common ISO-ish forms. A value that matches none of the
// layouts returns an InvalidTimestampError.
func ParseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, &InvalidTimestampError{Value: s}
}
