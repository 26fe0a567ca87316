package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/middleware"
	"github.com/sdp-tech/upcy-api/models"
	"github.com/sdp-tech/upcy-api/services"
)

// UpdateUserRequest represents the request body for updating a profile
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty"`
}

// isUniqueViolation detects duplicate-key failures from both PostgreSQL
// and SQLite error strings
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// CreateUser handles POST /api/users - creates a profile from Auth0
// userinfo. The account role comes from the role custom claim and defaults
// to customer.
func CreateUser(c *gin.Context) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Could not extract user ID from token"})
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Access token not found"})
		return
	}

	cfg := config.GetConfig()
	auth0Service := services.NewAuth0Service(cfg)
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch user information from Auth0"})
		return
	}

	if userInfo.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email not provided by Auth0"})
		return
	}
	if userInfo.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name not provided by Auth0"})
		return
	}

	role := middleware.GetRoleClaim(c)
	if role != models.RoleReformer && role != models.RoleAdmin {
		role = models.RoleCustomer
	}

	user := models.User{
		Auth0ID: auth0ID,
		Name:    userInfo.Name,
		Email:   userInfo.Email,
		Role:    role,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "A user with this Auth0 ID or email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetMyProfile handles GET /api/users/me - returns the caller's profile
func GetMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMyProfile handles PUT /api/users/me - updates the caller's profile
func UpdateMyProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, user)
		return
	}

	db := config.GetDB()
	if err := db.Model(user).Updates(updates).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "A user with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user profile"})
		return
	}

	if err := db.First(user, user.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch updated profile"})
		return
	}

	c.JSON(http.StatusOK, user)
}
