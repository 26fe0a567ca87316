package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/models"
)

// CreateMarketRequest represents the request body for opening a market
type CreateMarketRequest struct {
	Name      string `json:"name" binding:"required"`
	Introduce string `json:"introduce"`
}

// CreateServiceRequest represents the request body for adding an offering
type CreateServiceRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content"`
	BasicPrice int    `json:"basic_price" binding:"gte=0"`
}

// CreateMaterialRequest represents the request body for adding a material
type CreateMaterialRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateOptionRequest represents the request body for adding an option
type CreateOptionRequest struct {
	Name    string `json:"name" binding:"required"`
	Content string `json:"content"`
	Price   int    `json:"price" binding:"gte=0"`
}

// requireReformer loads the caller and rejects non-reformer accounts
func requireReformer(c *gin.Context) (*models.User, bool) {
	user, ok := currentUser(c)
	if !ok {
		return nil, false
	}
	if !user.IsReformer() {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only reformers can manage markets"})
		return nil, false
	}
	return user, true
}

// ownedService loads a service by UUID and checks the caller owns its market
func ownedService(c *gin.Context, user *models.User) (*models.Service, bool) {
	serviceUUID, err := uuid.Parse(c.Param("service_uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid service_uuid"})
		return nil, false
	}

	db := config.GetDB()
	var service models.Service
	if err := db.Preload("Market").Where("service_uuid = ?", serviceUUID).First(&service).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Service not found"})
		return nil, false
	}

	if service.Market.ReformerID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"message": "You do not own this service"})
		return nil, false
	}

	return &service, true
}

// CreateMarket handles POST /api/markets - opens the caller's market
// (reformers only, one per account)
func CreateMarket(c *gin.Context) {
	user, ok := requireReformer(c)
	if !ok {
		return
	}

	var req CreateMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	market := models.Market{
		Name:       req.Name,
		Introduce:  req.Introduce,
		ReformerID: user.ID,
	}

	db := config.GetDB()
	if err := db.Create(&market).Error; err != nil {
		if isUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "You already have a market"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create market"})
		return
	}

	c.JSON(http.StatusCreated, market)
}

// GetMyMarket handles GET /api/markets/me - returns the caller's market
// with its offerings
func GetMyMarket(c *gin.Context) {
	user, ok := requireReformer(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var market models.Market
	err := db.Preload("Services").Preload("Services.Materials").Preload("Services.Options").
		Where("reformer_id = ?", user.ID).First(&market).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "You have not opened a market yet"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load market"})
		return
	}

	c.JSON(http.StatusOK, market)
}

// CreateService handles POST /api/markets/services - adds an offering to
// the caller's market
func CreateService(c *gin.Context) {
	user, ok := requireReformer(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	db := config.GetDB()
	var market models.Market
	if err := db.Where("reformer_id = ?", user.ID).First(&market).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "You have not opened a market yet"})
		return
	}

	service := models.Service{
		MarketID:   market.ID,
		Title:      req.Title,
		Content:    req.Content,
		BasicPrice: req.BasicPrice,
	}

	if err := db.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetService handles GET /api/markets/services/:service_uuid - public
// detail of an offering with its materials and options
func GetService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("service_uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid service_uuid"})
		return
	}

	db := config.GetDB()
	var service models.Service
	err = db.Preload("Materials").Preload("Options").
		Where("service_uuid = ?", serviceUUID).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load service"})
		return
	}

	c.JSON(http.StatusOK, service)
}

// CreateMaterial handles POST /api/markets/services/:service_uuid/materials
func CreateMaterial(c *gin.Context) {
	user, ok := requireReformer(c)
	if !ok {
		return
	}

	service, ok := ownedService(c, user)
	if !ok {
		return
	}

	var req CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	material := models.Material{
		ServiceID: service.ID,
		Name:      req.Name,
	}

	if err := config.GetDB().Create(&material).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create material"})
		return
	}

	c.JSON(http.StatusCreated, material)
}

// CreateOption handles POST /api/markets/services/:service_uuid/options
func CreateOption(c *gin.Context) {
	user, ok := requireReformer(c)
	if !ok {
		return
	}

	service, ok := ownedService(c, user)
	if !ok {
		return
	}

	var req CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	option := models.Option{
		ServiceID: service.ID,
		Name:      req.Name,
		Content:   req.Content,
		Price:     req.Price,
	}

	if err := config.GetDB().Create(&option).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create option"})
		return
	}

	c.JSON(http.StatusCreated, option)
}
