package model

import "time"

// ImageMetadata is one row of the per-sequence image metadata table served
// by the archive metadata endpoint. These rows are not cached locally, so
// there are no gorm tags.
type ImageMetadata struct {
	UID        string    `csv:"uid" json:"uid"`
	SequenceID string    `csv:"sequence_id" json:"sequence_id"`
	TimeRaw    string    `csv:"time" json:"-"`
	Time       time.Time `csv:"-" json:"time"`
	Exptime    float64   `csv:"exptime" json:"exptime"`
	Status     string    `csv:"status" json:"status"`
}
