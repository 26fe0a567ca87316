package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/models"
	"github.com/sdp-tech/upcy-api/services"
)

// orderDateLayout is the wire format for request dates and date filters
const orderDateLayout = "2006-01-02"

// TransactionOptionRequest is the exchange-method part of an order payload
type TransactionOptionRequest struct {
	Mode            string `json:"mode" binding:"required"`
	DeliveryAddress string `json:"delivery_address"`
	DeliveryName    string `json:"delivery_name"`
	DeliveryPhone   string `json:"delivery_phone"`
}

// CreateOrderRequest represents the request body for creating an order.
// Images are S3 keys returned by the image upload endpoint.
type CreateOrderRequest struct {
	ServiceUUID       string                   `json:"service_uuid" binding:"required,uuid"`
	TransactionOption TransactionOptionRequest `json:"transaction_option" binding:"required"`
	Materials         []string                 `json:"materials"`
	AdditionalOptions []string                 `json:"additional_options"`
	ServicePrice      int                      `json:"service_price" binding:"gte=0"`
	OptionPrice       int                      `json:"option_price" binding:"gte=0"`
	TotalPrice        int                      `json:"total_price" binding:"gte=0"`
	ExtraMaterial     string                   `json:"extra_material"`
	AdditionalRequest string                   `json:"additional_request"`
	RequestDate       string                   `json:"request_date" binding:"required"`
	ContactLink       *string                  `json:"contact_link"`
	Images            []string                 `json:"images"`
}

// OrderProjection is the read shape returned by the order endpoints
type OrderProjection struct {
	OrderUUID         string   `json:"order_uuid"`
	OrderStatus       string   `json:"order_status"`
	OrderDate         string   `json:"order_date"`
	ServiceUUID       *string  `json:"service_uuid,omitempty"`
	ServiceTitle      string   `json:"service_title,omitempty"`
	ServicePrice      int      `json:"service_price"`
	OptionPrice       int      `json:"option_price"`
	TotalPrice        int      `json:"total_price"`
	Transaction       string   `json:"transaction,omitempty"`
	ExtraMaterial     string   `json:"extra_material,omitempty"`
	AdditionalRequest string   `json:"additional_request,omitempty"`
	ContactLink       *string  `json:"contact_link,omitempty"`
	Images            []string `json:"images,omitempty"`
}

// projectOrder flattens an order aggregate for the API. Image keys become
// presigned URLs when the image service is initialized.
func projectOrder(order *models.Order) OrderProjection {
	projection := OrderProjection{
		OrderUUID:         order.OrderUUID.String(),
		OrderStatus:       order.CurrentStatus(),
		OrderDate:         order.RequestDate.Format(orderDateLayout),
		ServicePrice:      order.ServicePrice,
		OptionPrice:       order.OptionPrice,
		TotalPrice:        order.TotalPrice,
		ExtraMaterial:     order.ExtraMaterial,
		AdditionalRequest: order.AdditionalRequest,
		ContactLink:       order.ContactLink,
	}

	if order.Service != nil {
		serviceUUID := order.Service.ServiceUUID.String()
		projection.ServiceUUID = &serviceUUID
		projection.ServiceTitle = order.Service.Title
	}

	if order.Transaction != nil {
		projection.Transaction = order.Transaction.Mode
	}

	imageService := services.GetImageService()
	for _, image := range order.Images {
		if imageService != nil {
			if url, err := imageService.GetImageURL(image.S3Key); err == nil && url != "" {
				projection.Images = append(projection.Images, url)
				continue
			}
		}
		projection.Images = append(projection.Images, image.S3Key)
	}

	return projection
}

// parseUUIDList parses a list of string identifiers, failing on the first
// malformed one
func parseUUIDList(values []string) ([]uuid.UUID, bool) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// CreateOrder handles POST /api/orders - creates a new order (customers only)
func CreateOrder(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	serviceUUID, err := uuid.Parse(req.ServiceUUID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid service_uuid"})
		return
	}

	materialUUIDs, ok := parseUUIDList(req.Materials)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid material identifier"})
		return
	}

	optionUUIDs, ok := parseUUIDList(req.AdditionalOptions)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid option identifier"})
		return
	}

	requestDate, err := time.Parse(orderDateLayout, req.RequestDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "request_date must be formatted as YYYY-MM-DD"})
		return
	}

	db := config.GetDB()
	orderService := services.NewOrderService(db, services.NewCatalogService(db))

	order, err := orderService.CreateOrder(user, services.CreateOrderInput{
		ServiceUUID:   serviceUUID,
		MaterialUUIDs: materialUUIDs,
		OptionUUIDs:   optionUUIDs,
		Transaction: services.TransactionInput{
			Mode:            req.TransactionOption.Mode,
			DeliveryAddress: req.TransactionOption.DeliveryAddress,
			DeliveryName:    req.TransactionOption.DeliveryName,
			DeliveryPhone:   req.TransactionOption.DeliveryPhone,
		},
		ServicePrice:      req.ServicePrice,
		OptionPrice:       req.OptionPrice,
		TotalPrice:        req.TotalPrice,
		ExtraMaterial:     req.ExtraMaterial,
		AdditionalRequest: req.AdditionalRequest,
		RequestDate:       requestDate,
		ContactLink:       req.ContactLink,
		ImageKeys:         req.Images,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_uuid":   order.OrderUUID.String(),
		"order_status": order.CurrentStatus(),
		"order_date":   order.RequestDate.Format(orderDateLayout),
	})
}
