package model

import (
	"time"
)

// Observation is one row of the archive observations table. The csv tags
// match the column names in the remote observations.csv export (the camera
// id column is exported as camera_camera_id), and the gorm tags shape the
// local cache table.
type Observation struct {
	ID           int       `csv:"-" json:"id" gorm:"primarykey"`
	UUID         string    `csv:"-" json:"uuid"`
	SequenceID   string    `csv:"sequence_id" json:"sequence_id" gorm:"uniqueIndex"`
	UnitID       string    `csv:"unit_id" json:"unit_id" gorm:"index"`
	CameraID     string    `csv:"camera_camera_id" json:"camera_id"`
	FieldName    string    `csv:"field_name" json:"field_name"`
	FieldSlug    string    `csv:"-" json:"field_slug"`
	TimeRaw      string    `csv:"time" json:"-" gorm:"-"`
	Time         time.Time `csv:"-" json:"time" gorm:"index"`
	NumImages    int       `csv:"num_images" json:"num_images"`
	TotalExptime float64   `csv:"total_exptime" json:"total_exptime"`
	Exptime      float64   `csv:"-" json:"exptime"`
	RAMount      float64   `csv:"coordinates_mount_ra" json:"coordinates_mount_ra"`
	DecMount     float64   `csv:"coordinates_mount_dec" json:"coordinates_mount_dec"`
	Status       string    `csv:"status" json:"status"`
	CreatedAt    time.Time `csv:"-" json:"created_at"`
	UpdatedAt    time.Time `csv:"-" json:"updated_at"`
}
