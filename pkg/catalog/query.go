package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/panoptes-data/pandata/pkg/catalog/model"
)

// ImageQuery filters image metadata rows. Queries are written as one or
// more comparisons joined with "and", eg:
//
//	status != "ERROR"
//	status == "MATCHED" and exptime >= 30
//
// The comparable fields are uid, sequence_id, status (string compare) and
// exptime (numeric compare). An empty query matches every row.
type ImageQuery struct {
	matches []imageMatch
}

type imageMatch struct {
	field string
	op    string
	value string
}

var comparisonMatcher = regexp.MustCompile(`^\s*(\w+)\s*(==|!=|>=|<=|>|<|=)\s*(.+?)\s*$`)

// ParseImageQuery parses q into an ImageQuery. An unknown field, an
// unknown operator or an unparseable comparison is an error.
func ParseImageQuery(q string) (*ImageQuery, error) {
	query := &ImageQuery{}

	if strings.TrimSpace(q) == "" {
		return query, nil
	}

	for _, clause := range strings.Split(q, " and ") {
		m := comparisonMatcher.FindStringSubmatch(clause)
		if m == nil {
			return nil, fmt.Errorf("unparseable image query clause: %q", clause)
		}

		match := imageMatch{
			field: m[1],
			op:    m[2],
			value: strings.Trim(m[3], `"'`),
		}

		if match.op == "=" {
			match.op = "=="
		}

		switch match.field {
		case "uid", "sequence_id", "status", "exptime":
		default:
			return nil, fmt.Errorf("unknown image query field: %q", match.field)
		}

		if match.field == "exptime" {
			if _, err := strconv.ParseFloat(match.value, 64); err != nil {
				return nil, fmt.Errorf("exptime comparison needs a number, got %q", match.value)
			}
		}

		query.matches = append(query.matches, match)
	}

	return query, nil
}

// Match reports whether img satisfies every clause of the query.
func (q *ImageQuery) Match(img model.ImageMetadata) bool {
	for _, m := range q.matches {
		if !m.eval(img) {
			return false
		}
	}
	return true
}

// Filter returns the rows of images matching the query.
func (q *ImageQuery) Filter(images []model.ImageMetadata) []model.ImageMetadata {
	if len(q.matches) == 0 {
		return images
	}

	var matched []model.ImageMetadata
	for _, img := range images {
		if q.Match(img) {
			matched = append(matched, img)
		}
	}
	return matched
}

func (m imageMatch) eval(img model.ImageMetadata) bool {
	switch m.field {
	case "uid":
		return evalStringMatch(img.UID, m.value, m.op)
	case "sequence_id":
		return evalStringMatch(img.SequenceID, m.value, m.op)
	case "status":
		return evalStringMatch(img.Status, m.value, m.op)
	case "exptime":
		val, _ := strconv.ParseFloat(m.value, 64)
		return evalFloatMatch(img.Exptime, val, m.op)
	default:
		return false
	}
}

func evalStringMatch(val1, val2, op string) bool {
	switch op {
	case "==":
		return val1 == val2
	case "!=":
		return val1 != val2
	case ">":
		return val1 > val2
	case "<":
		return val1 < val2
	case ">=":
		return val1 >= val2
	case "<=":
		return val1 <= val2
	default:
		return false
	}
}

func evalFloatMatch(val1, val2 float64, op string) bool {
	switch op {
	case "==":
		return val1 == val2
	case "!=":
		return val1 != val2
	case ">":
		return val1 > val2
	case "<":
		return val1 < val2
	case ">=":
		return val1 >= val2
	case "<=":
		return val1 <= val2
	default:
		return false
	}
}
