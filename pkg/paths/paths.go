package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/panoptes-data/pandata/pkg/fits"
)

// pathMatcher matches the storage layout for images taken with a PANOPTES
// unit. A fully formed path looks as follows:
//
//	gs://bucket/PAN012/FieldName/358d0f/20180824T035917/20180824T040118.fits
//
// where the pieces are:
//
//	unit_id       - literal PAN followed by exactly 3 digits
//	field_name    - optional legacy field name, free form
//	camera_id     - 6 characters over [0-9a-gA-G]
//	sequence_time - flattened start time of the observation sequence
//	image_time    - flattened start time of this image
//
// Segments are separated by "/" or "_", so the underscore-joined id form
// (PAN012_358d0f_20180824T035917_20180824T040118) matches as well. Some
// image files carry a redundant full image id between the sequence and
// image times (eg .../20180824T035917/PAN012_358d0f_20180824T035917_<image_time>.fits);
// that segment is matched and discarded. Anything before the unit id and
// anything after the image time (such as a file extension) is ignored.
//
// The field name group is lazily optional so it only consumes a segment
// when the fixed-format segments cannot match without one; otherwise the
// redundant full id would be mistaken for a field name.
var pathMatcher = regexp.MustCompile(
	`^(?P<pre_info>.*?)` +
		`(?P<unit_id>PAN\d{3})` +
		`(?:[/_](?P<field_name>.*?))??` +
		`[/_](?P<camera_id>[0-9a-gA-G]{6})` +
		`[/_](?P<sequence_time>\d{8}T\d{6})` +
		`(?:[/_]PAN\d{3}_[0-9a-gA-G]{6}_\d{8}T\d{6}_?)?` +
		`[/_]?(?P<image_time>\d{8}T\d{6})` +
		`(?P<post_info>.*)$`)

// PathInfo identifies one imaging exposure's place in the storage
// hierarchy. It is immutable after construction; all the id and path
// helpers are pure functions of its fields.
type PathInfo struct {
	unitID       string
	cameraID     string
	fieldName    string
	sequenceTime time.Time
	imageTime    time.Time
}

// Parse builds a PathInfo from a storage path. The whole string must match
// the layout described on pathMatcher, otherwise an InvalidPathError
// carrying the input is returned.
func Parse(path string) (*PathInfo, error) {
	m := pathMatcher.FindStringSubmatch(path)
	if m == nil {
		return nil, &InvalidPathError{Path: path}
	}

	group := func(name string) string {
		return m[pathMatcher.SubexpIndex(name)]
	}

	sequenceTime, err := ParseTime(group("sequence_time"))
	if err != nil {
		return nil, err
	}

	imageTime, err := ParseTime(group("image_time"))
	if err != nil {
		return nil, err
	}

	return &PathInfo{
		unitID:       group("unit_id"),
		cameraID:     group("camera_id"),
		fieldName:    group("field_name"),
		sequenceTime: sequenceTime,
		imageTime:    imageTime,
	}, nil
}

// New builds a PathInfo from explicit field values. The timestamps may be
// time.Time values or strings in any of the layouts ParseTime accepts.
// Unlike Parse, the unit and camera ids are accepted as given without any
// shape checks.
func New(unitID, cameraID, fieldName string, sequenceTime, imageTime any) (*PathInfo, error) {
	seq, err := toTime(sequenceTime)
	if err != nil {
		return nil, err
	}

	img, err := toTime(imageTime)
	if err != nil {
		return nil, err
	}

	return &PathInfo{
		unitID:       unitID,
		cameraID:     cameraID,
		fieldName:    fieldName,
		sequenceTime: seq,
		imageTime:    img,
	}, nil
}

// FromHeader builds a PathInfo from a FITS-style header mapping. It first
// tries to parse the FILENAME value as a storage path. If that fails with
// an InvalidPathError it falls back to the SEQID and IMAGEID keys, each an
// underscore-joined unit_id_camera_id_timestamp triple. A missing or
// malformed fallback key returns an InvalidHeaderError.
func FromHeader(header map[string]string) (*PathInfo, error) {
	info, err := Parse(header["FILENAME"])
	if err == nil {
		return info, nil
	}

	var invalidPath *InvalidPathError
	if !errors.As(err, &invalidPath) {
		return nil, err
	}

	sequenceID := header["SEQID"]
	seqParts := strings.Split(sequenceID, "_")
	if len(seqParts) != 3 {
		return nil, &InvalidHeaderError{Key: "SEQID", Value: sequenceID}
	}

	imageID := header["IMAGEID"]
	imgParts := strings.Split(imageID, "_")
	if len(imgParts) != 3 {
		return nil, &InvalidHeaderError{Key: "IMAGEID", Value: imageID}
	}

	sequenceTime, err := ParseTime(seqParts[2])
	if err != nil {
		return nil, err
	}

	imageTime, err := ParseTime(imgParts[2])
	if err != nil {
		return nil, err
	}

	return &PathInfo{
		unitID:       seqParts[0],
		cameraID:     seqParts[1],
		sequenceTime: sequenceTime,
		imageTime:    imageTime,
	}, nil
}

// FromFITSFile reads the primary header of the named FITS file and builds
// a PathInfo from it using the same logic as FromHeader.
func FromFITSFile(name string) (*PathInfo, error) {
	header, err := fits.ReadHeaderFile(name)
	if err != nil {
		return nil, err
	}

	return FromHeader(header.Map())
}

func (p *PathInfo) UnitID() string {
	return p.unitID
}

func (p *PathInfo) CameraID() string {
	return p.cameraID
}

func (p *PathInfo) FieldName() string {
	return p.fieldName
}

func (p *PathInfo) SequenceTime() time.Time {
	return p.sequenceTime
}

func (p *PathInfo) ImageTime() time.Time {
	return p.imageTime
}

// SequenceID returns the id of the observation sequence this image belongs
// to, eg PAN012_358d0f_20180824T035917.
func (p *PathInfo) SequenceID() string {
	return fmt.Sprintf("%s_%s_%s", p.unitID, p.cameraID, FlattenTime(p.sequenceTime))
}

// ImageID returns the id of this image, eg PAN012_358d0f_20180824T040118.
func (p *PathInfo) ImageID() string {
	return fmt.Sprintf("%s_%s_%s", p.unitID, p.cameraID, FlattenTime(p.imageTime))
}

// FullID returns the full id with the default underscore separator.
func (p *PathInfo) FullID() string {
	return p.FullIDWithSep("_")
}

// FullIDWithSep returns the full id joined with the given separator.
func (p *PathInfo) FullIDWithSep(sep string) string {
	return strings.Join([]string{
		p.unitID,
		p.cameraID,
		FlattenTime(p.sequenceTime),
		FlattenTime(p.imageTime),
	}, sep)
}

// AsPath returns the canonical storage path for the image,
// unit_id/camera_id/sequence_time/image_time. If ext is non-empty it is
// appended to the final segment with a "." separator, and if base is
// non-empty the result is rooted there. This is pure string construction
// and never touches the filesystem.
func (p *PathInfo) AsPath(base, ext string) string {
	imageStr := FlattenTime(p.imageTime)
	if ext != "" {
		imageStr = imageStr + "." + strings.TrimPrefix(ext, ".")
	}

	fullPath := filepath.Join(p.unitID, p.cameraID, FlattenTime(p.sequenceTime), imageStr)
	if base != "" {
		fullPath = filepath.Join(base, fullPath)
	}

	return fullPath
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return ParseTime(t)
	default:
		return time.Time{}, &InvalidTimestampError{Value: fmt.Sprintf("%v", v)}
	}
}
