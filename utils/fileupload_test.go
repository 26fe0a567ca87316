package utils

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func header(filename string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: filename, Size: size}
}

func TestValidateImageFile(t *testing.T) {
	tests := []struct {
		name         string
		fileHeader   *multipart.FileHeader
		expectedCode string
	}{
		{"valid png", header("jacket.png", 1024), ""},
		{"valid jpg", header("jacket.jpg", 1024), ""},
		{"valid jpeg", header("jacket.jpeg", 1024), ""},
		{"uppercase extension", header("JACKET.PNG", 1024), ""},
		{"exactly at size limit", header("jacket.png", MaxFileSize), ""},
		{"over size limit", header("jacket.png", MaxFileSize+1), "FILE_TOO_LARGE"},
		{"gif rejected", header("jacket.gif", 1024), "INVALID_FILE_FORMAT"},
		{"pdf rejected", header("document.pdf", 1024), "INVALID_FILE_FORMAT"},
		{"no extension", header("jacket", 1024), "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImageFile(tt.fileHeader)
			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			uploadErr, ok := err.(*FileUploadError)
			assert.True(t, ok, "expected a FileUploadError")
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
		})
	}
}

func TestBuildImageKey(t *testing.T) {
	key := BuildImageKey("jacket.png")
	assert.True(t, strings.HasPrefix(key, "orders/"))
	assert.True(t, strings.HasSuffix(key, "_jacket.png"))

	// path components are stripped to the base name
	key = BuildImageKey("../secret/jacket.png")
	assert.True(t, strings.HasSuffix(key, "_jacket.png"))
	assert.NotContains(t, key, "..")

	// keys are unique across calls for the same filename
	assert.NotEqual(t, BuildImageKey("jacket.png"), BuildImageKey("jacket.png"))
}

func TestImageContentType(t *testing.T) {
	assert.Equal(t, "image/png", ImageContentType("jacket.png"))
	assert.Equal(t, "image/jpeg", ImageContentType("jacket.jpg"))
	assert.Equal(t, "image/jpeg", ImageContentType("jacket.JPEG"))
	assert.Equal(t, "image/png", ImageContentType("unknown.bin"))
}
