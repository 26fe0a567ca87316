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

// ListOrders handles GET /api/orders - lists visible orders, filtered.
// The type query parameter selects the customer or reformer view.
func ListOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	role := c.DefaultQuery("type", models.RoleCustomer)

	filters := services.OrderFilters{
		Status:      c.Query("status"),
		Transaction: c.Query("transaction"),
		Sort:        c.Query("sort"),
	}

	if value := c.Query("start_date"); value != "" {
		startDate, err := time.Parse(orderDateLayout, value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "start_date must be formatted as YYYY-MM-DD"})
			return
		}
		filters.StartDate = &startDate
	}

	if value := c.Query("end_date"); value != "" {
		endDate, err := time.Parse(orderDateLayout, value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "end_date must be formatted as YYYY-MM-DD"})
			return
		}
		filters.EndDate = &endDate
	}

	queryService := services.NewOrderQueryService(config.GetDB())
	orders, err := queryService.ListOrders(user, role, filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projectOrders(orders))
}

// ListServiceOrders handles GET /api/orders/services/:service_uuid -
// lists every order placed against one offering (owning reformer only).
// No orders is an empty list, not an error.
func ListServiceOrders(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	serviceUUID, err := uuid.Parse(c.Param("service_uuid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid service_uuid"})
		return
	}

	queryService := services.NewOrderQueryService(config.GetDB())
	orders, err := queryService.ListServiceOrders(serviceUUID, user)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, projectOrders(orders))
}

// projectOrders maps a result set to its API shape, never returning nil
func projectOrders(orders []models.Order) []OrderProjection {
	projections := make([]OrderProjection, 0, len(orders))
	for i := range orders {
		projections = append(projections, projectOrder(&orders[i]))
	}
	return projections
}
