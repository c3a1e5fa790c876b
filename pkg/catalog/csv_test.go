package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const observationsCSV = `sequence_id,unit_id,camera_camera_id,field_name,time,num_images,total_exptime,coordinates_mount_ra,coordinates_mount_dec,status
PAN012_358d0f_20180824T035917,PAN012,358d0f,Hd189733,2018-08-24 03:59:17+00:00,10,1200,300.18,22.71,MATCHED
PAN001_14d3bd_20191105T060256,PAN001,14d3bd,Wasp 104b,2019-11-05 06:02:56+00:00,40,4800,160.60,7.43,MATCHED
PAN008_358d0f_20200110T081314,PAN008,358d0f,M42 00:00:42+00:00,2020-01-10 08:13:14+00:00,0,0,83.82,-5.39,ERROR
`

const imageMetadataCSV = `uid,sequence_id,time,exptime,status
PAN012_358d0f_20180824T040118,PAN012_358d0f_20180824T035917,2018-08-24 04:01:18+00:00,120,MATCHED
PAN012_358d0f_20180824T040335,PAN012_358d0f_20180824T035917,2018-08-24 04:03:35+00:00,120,ERROR
`

func TestDecodeObservations(t *testing.T) {
	obs, err := DecodeObservations([]byte(observationsCSV))
	require.NoError(t, err)
	require.Len(t, obs, 3)

	first := obs[0]
	require.Equal(t, "PAN012_358d0f_20180824T035917", first.SequenceID)
	require.Equal(t, "PAN012", first.UnitID)
	require.Equal(t, "358d0f", first.CameraID)
	require.Equal(t, "Hd189733", first.FieldName)
	require.Equal(t, "hd189733", first.FieldSlug)
	require.True(t, first.Time.Equal(time.Date(2018, 8, 24, 3, 59, 17, 0, time.UTC)))
	require.Equal(t, 10, first.NumImages)
	require.Equal(t, 120.0, first.Exptime)
	require.Equal(t, 300.18, first.RAMount)
	require.Equal(t, 22.71, first.DecMount)
	require.Equal(t, "MATCHED", first.Status)

	// Field names with spaces get a path-safe slug.
	require.Equal(t, "wasp-104b", obs[1].FieldSlug)

	// The known-bad M42 field name is repaired, and a zero image count
	// must not blow up the per-image exposure derivation.
	require.Equal(t, "M42", obs[2].FieldName)
	require.Equal(t, "m42", obs[2].FieldSlug)
	require.Equal(t, 0.0, obs[2].Exptime)
}

func TestDecodeObservationsBadTime(t *testing.T) {
	csv := "sequence_id,unit_id,camera_camera_id,field_name,time,num_images,total_exptime,coordinates_mount_ra,coordinates_mount_dec,status\n" +
		"PAN012_358d0f_20180824T035917,PAN012,358d0f,Hd189733,never,1,120,0,0,MATCHED\n"

	_, err := DecodeObservations([]byte(csv))
	require.Error(t, err)
}

func TestDecodeImageMetadata(t *testing.T) {
	images, err := DecodeImageMetadata([]byte(imageMetadataCSV))
	require.NoError(t, err)
	require.Len(t, images, 2)

	require.Equal(t, "PAN012_358d0f_20180824T040118", images[0].UID)
	require.Equal(t, "PAN012_358d0f_20180824T035917", images[0].SequenceID)
	require.True(t, images[0].Time.Equal(time.Date(2018, 8, 24, 4, 1, 18, 0, time.UTC)))
	require.Equal(t, 120.0, images[0].Exptime)
	require.Equal(t, "MATCHED", images[0].Status)
	require.Equal(t, "ERROR", images[1].Status)
}

func TestDecodeImageMetadataEmpty(t *testing.T) {
	images, err := DecodeImageMetadata([]byte("uid,sequence_id,time,exptime,status\n"))
	require.NoError(t, err)
	require.Empty(t, images)
}
