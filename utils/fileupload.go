package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"
)

const (
	// MaxFileSize is 10MB in bytes
	MaxFileSize = 10 * 1024 * 1024
)

// Allowed image extensions for order reference photos
var allowedImageFormats = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateImageFile validates the uploaded file format and size
func ValidateImageFile(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxFileSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxFileSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedImageFormats[ext]; !ok {
		return &FileUploadError{
			Code:    "INVALID_FILE_FORMAT",
			Message: "Only png, jpg and jpeg files are allowed",
		}
	}

	return nil
}

// BuildImageKey generates a unique S3 key for an order image.
// Format: orders/{timestamp}_{filename}
func BuildImageKey(filename string) string {
	return fmt.Sprintf("orders/%d_%s", time.Now().UnixNano(), filepath.Base(filename))
}

// ImageContentType returns the MIME type for an allowed image filename,
// defaulting to image/png
func ImageContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := allowedImageFormats[ext]; ok {
		return contentType
	}
	return "image/png"
}
