package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/middleware"
	"github.com/sdp-tech/upcy-api/models"
	"github.com/sdp-tech/upcy-api/services"
	"github.com/sdp-tech/upcy-api/utils"
)

// currentUser resolves the authenticated account from the JWT subject.
// It writes the error response itself and returns false when the caller
// has no profile yet.
func currentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Could not extract user information"})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "User profile not found. Please create a profile first."})
		return nil, false
	}

	return &user, true
}

// respondServiceError translates the service error taxonomy to the HTTP
// contract: validation 400, not found 404, permission 403, everything
// else 500. Bodies are always {"message": ...}.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var permissionErr *services.PermissionError
	var upstreamErr *services.UpstreamError
	var uploadErr *utils.FileUploadError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Message})
	case errors.As(err, &uploadErr):
		c.JSON(http.StatusBadRequest, gin.H{"message": uploadErr.Message})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Message})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, gin.H{"message": permissionErr.Message})
	case errors.As(err, &upstreamErr):
		c.JSON(http.StatusInternalServerError, gin.H{"message": upstreamErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}
