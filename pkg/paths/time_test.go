package paths

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTime(t *testing.T) {
	var tests = []struct {
		name        string
		value       string
		errExpected bool
		expected    time.Time
	}{
		{name: "flattened", value: "20180824T035917", expected: time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)},
		{name: "rfc3339", value: "2018-08-24T03:59:17Z", expected: time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)},
		{name: "rfc3339 with offset", value: "2018-08-24T05:59:17+02:00", expected: time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)},
		{name: "iso without zone", value: "2018-08-24T03:59:17", expected: time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)},
		{name: "space separated with offset", value: "2018-08-24 03:59:17+00:00", expected: time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)},
		{name: "space separated", value: "2018-08-24 03:59:17", expected: time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)},
		{name: "date only", value: "2018-08-24", expected: time.Date(2018, 8, 24, 0, 0, 0, 0, time.UTC)},
		{name: "flat date only", value: "20180824", expected: time.Date(2018, 8, 24, 0, 0, 0, 0, time.UTC)},
		{name: "garbage", value: "not a time", errExpected: true},
		{name: "empty", value: "", errExpected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			parsed, err := ParseTime(test.value)
			if test.errExpected {
				var invalidTimestamp *InvalidTimestampError
				require.ErrorAs(t, err, &invalidTimestamp)
				require.Equal(t, test.value, invalidTimestamp.Value)
				return
			}

			require.NoError(t, err)
			require.True(t, test.expected.Equal(parsed), "got %s, expected %s", parsed, test.expected)
			require.Equal(t, time.UTC, parsed.Location())
		})
	}
}

func TestFlattenTime(t *testing.T) {
	require.Equal(t, "20180824T035917", FlattenTime(time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)))

	// Zoned times flatten to their UTC equivalent.
	cest := time.FixedZone("CEST", 2*60*60)
	require.Equal(t, "20180824T035917", FlattenTime(time.Date(2018, 8, 24, 5, 59, 17, 0, cest)))
}

func TestFlattenTimeRoundTrip(t *testing.T) {
	original := time.Date(2021, 12, 31, 23, 59, 58, 0, time.UTC)

	parsed, err := ParseTime(FlattenTime(original))
	require.NoError(t, err)
	require.True(t, original.Equal(parsed))
}
