package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sdp-tech/upcy-api/services"
)

// UploadOrderImage handles POST /api/orders/images - uploads a reference
// photo to blob storage before order creation. The returned key is passed
// in the images field of the order payload, keeping blob I/O outside the
// order transaction.
func UploadOrderImage(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "An image file is required"})
		return
	}

	imageService := services.GetImageService()
	if imageService == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Image storage is not configured"})
		return
	}

	s3Key, err := imageService.UploadImage(fileHeader)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	imageURL, err := imageService.GetImageURL(s3Key)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"s3_key":    s3Key,
		"image_url": imageURL,
	})
}
