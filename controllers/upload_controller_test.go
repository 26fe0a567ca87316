package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/models"
	"github.com/sdp-tech/upcy-api/services"
)

// multipartImage builds a multipart body with a single "image" part
func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func setupUploadTest(t *testing.T) (*services.MockImageService, models.User) {
	t.Helper()

	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{Auth0ID: "auth0|uploader", Name: "Uploader", Email: "uploader@example.com", Role: models.RoleCustomer}
	require.NoError(t, db.Create(&user).Error)

	mock := services.NewMockImageService()
	mock.SetAsMockForTesting()
	t.Cleanup(func() { services.SetImageService(nil) })

	return mock, user
}

func TestUploadOrderImage_Success(t *testing.T) {
	mock, user := setupUploadTest(t)

	router := setupTestRouter()
	router.POST("/orders/images", mockAuthMiddleware(user.Auth0ID, user.Role, "mock-token"), UploadOrderImage)

	body, contentType := multipartImage(t, "jacket.png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/orders/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)

	s3Key, ok := response["s3_key"].(string)
	require.True(t, ok)
	assert.True(t, mock.HasImage(s3Key), "uploaded key should be stored")
	assert.NotEmpty(t, response["image_url"])
}

func TestUploadOrderImage_MissingFile(t *testing.T) {
	_, user := setupUploadTest(t)

	router := setupTestRouter()
	router.POST("/orders/images", mockAuthMiddleware(user.Auth0ID, user.Role, "mock-token"), UploadOrderImage)

	req := httptest.NewRequest(http.MethodPost, "/orders/images", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadOrderImage_RejectedFormat(t *testing.T) {
	mock, user := setupUploadTest(t)

	router := setupTestRouter()
	router.POST("/orders/images", mockAuthMiddleware(user.Auth0ID, user.Role, "mock-token"), UploadOrderImage)

	body, contentType := multipartImage(t, "document.pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/orders/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mock.HasImage("orders/mock_document.pdf"))
}

func TestUploadOrderImage_StorageNotConfigured(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	user := models.User{Auth0ID: "auth0|uploader", Name: "Uploader", Email: "uploader@example.com", Role: models.RoleCustomer}
	require.NoError(t, db.Create(&user).Error)

	services.SetImageService(nil)

	router := setupTestRouter()
	router.POST("/orders/images", mockAuthMiddleware(user.Auth0ID, user.Role, "mock-token"), UploadOrderImage)

	body, contentType := multipartImage(t, "jacket.png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/orders/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
