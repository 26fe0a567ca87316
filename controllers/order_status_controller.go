package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/services"
)

// UpdateOrderStatusRequest represents the request body for a status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateDeliveryRequest represents the request body for courier tracking
// updates. Omitted fields are left untouched.
type UpdateDeliveryRequest struct {
	Company        *string `json:"delivery_company"`
	TrackingNumber *string `json:"delivery_tracking_number"`
}

// UpdateOrderStatus handles PATCH /api/orders/:order_uuid/status - appends
// a status entry to the order's history (owning reformer only)
func UpdateOrderStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	orderUUID, err := uuid.Parse(c.Param("order_uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order_uuid"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	db := config.GetDB()
	orderService := services.NewOrderService(db, services.NewCatalogService(db))

	order, err := orderService.SetStatus(orderUUID, user, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order_uuid":   order.OrderUUID.String(),
		"order_status": order.CurrentStatus(),
	})
}

// UpdateDeliveryInformation handles
// PATCH /api/orders/transactions/:transaction_uuid/delivery - upserts the
// courier tracking record for a delivery order (owning reformer only)
func UpdateDeliveryInformation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	transactionUUID, err := uuid.Parse(c.Param("transaction_uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid transaction_uuid"})
		return
	}

	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request data: " + err.Error()})
		return
	}

	db := config.GetDB()
	orderService := services.NewOrderService(db, services.NewCatalogService(db))

	info, err := orderService.UpdateDeliveryInformation(transactionUUID, user, req.Company, req.TrackingNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"delivery_company":         info.Company,
		"delivery_tracking_number": info.TrackingNumber,
	})
}
