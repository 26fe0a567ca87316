package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"

	"github.com/sdp-tech/upcy-api/utils"
)

// MockImageService is an in-memory ImageService implementation for testing
type MockImageService struct {
	uploadedImages map[string][]byte // map of image key to file content
	mu             sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		uploadedImages: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// UploadImage validates the file and stores its bytes in memory
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	imageKey := fmt.Sprintf("orders/mock_%s", fileHeader.Filename)

	m.mu.Lock()
	m.uploadedImages[imageKey] = content
	m.mu.Unlock()

	return imageKey, nil
}

// GetImageURL returns a stable fake URL for a stored image
func (m *MockImageService) GetImageURL(imageKey string) (string, error) {
	if imageKey == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.uploadedImages[imageKey]
	m.mu.RUnlock()

	if !exists {
		// Keys created outside this mock (seeded test data) still resolve
		return fmt.Sprintf("https://mock-s3.example.com/%s", imageKey), nil
	}

	return fmt.Sprintf("https://mock-s3.example.com/%s?presigned=true", imageKey), nil
}

// DeleteImage removes an image from the in-memory store
func (m *MockImageService) DeleteImage(imageKey string) error {
	if imageKey == "" {
		return nil
	}

	m.mu.Lock()
	delete(m.uploadedImages, imageKey)
	m.mu.Unlock()

	return nil
}

// HasImage reports whether a key was uploaded through this mock
func (m *MockImageService) HasImage(imageKey string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedImages[imageKey]
	return exists
}
