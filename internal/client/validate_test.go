package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateVideoFile(t *testing.T) {
	cases := []struct {
		name, contentType string
		ok                bool
	}{
		{"demo.mp4", "video/mp4", true},
		{"clip.MOV", "", true},
		{"clip.bin", "video/quicktime", true},
		{"clip.avi", "application/octet-stream", true},
		{"clip.bin", "video/x-msvideo", true},
		{"notes.txt", "text/plain", false},
		{"clip.mkv", "video/x-matroska", false},
	}
	for _, tc := range cases {
		err := ValidateVideoFile(tc.name, tc.contentType)
		if tc.ok {
			assert.NoError(t, err, tc.name)
		} else {
			assert.ErrorIs(t, err, ErrUnsupportedFile, tc.name)
		}
	}
}

func TestValidateSenderEmail(t *testing.T) {
	assert.NoError(t, ValidateSenderEmail(""))
	assert.NoError(t, ValidateSenderEmail("ann@x.io"))
	assert.ErrorIs(t, ValidateSenderEmail("ann@x"), ErrInvalidEmail)
	assert.ErrorIs(t, ValidateSenderEmail("ann x@y.io"), ErrInvalidEmail)
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatFileSize(0))
	assert.Equal(t, "512 Bytes", FormatFileSize(512))
	assert.Equal(t, "1.5 KB", FormatFileSize(1536))
	assert.Equal(t, "5 MB", FormatFileSize(5*1024*1024))
	assert.Equal(t, "1.25 GB", FormatFileSize(1342177280))
}

func TestDetectContentType(t *testing.T) {
	dir := t.TempDir()

	// minimal ISO BMFF header with an mp4 brand
	mp4 := filepath.Join(dir, "clip.bin")
	require.NoError(t, os.WriteFile(mp4, []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom"), 0o600))
	ct, err := DetectContentType(mp4)
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", ct)

	mov := filepath.Join(dir, "clip.mov")
	require.NoError(t, os.WriteFile(mov, []byte{0x01, 0x02, 0x03, 0x04}, 0o600))
	ct, err = DetectContentType(mov)
	require.NoError(t, err)
	assert.Equal(t, "video/quicktime", ct)

	_, err = DetectContentType(filepath.Join(dir, "missing.mp4"))
	assert.Error(t, err)
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mov")
	require.NoError(t, os.WriteFile(path, []byte{0x01, 0x02, 0x03}, 0o600))

	f, closer, err := OpenFile(path)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, "clip.mov", f.Name)
	assert.Equal(t, int64(3), f.Size)
	assert.Equal(t, "video/quicktime", f.ContentType)
}
