package main

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/controllers"
	"github.com/sdp-tech/upcy-api/models"
	"github.com/sdp-tech/upcy-api/services"
	"github.com/sdp-tech/upcy-api/tests/testutil"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Market{},
		&models.Service{},
		&models.Material{},
		&models.Option{},
		&models.Order{},
		&models.TransactionOption{},
		&models.DeliveryInformation{},
		&models.OrderState{},
		&models.OrderImage{},
	))

	config.SetDB(db)
	return db
}

// setupIntegrationRouter mounts the real route table with mock auth for one
// persona, so a flow can be driven as different callers against one database
func setupIntegrationRouter(user models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	api := router.Group("/api")
	api.GET("/health", healthCheck)
	api.GET("/markets/services/:service_uuid", controllers.GetService)

	authorized := api.Group("")
	authorized.Use(testutil.MockAuthMiddleware(user.Auth0ID, user.Role, "mock-token"))
	{
		authorized.GET("/users/me", controllers.GetMyProfile)
		authorized.PUT("/users/me", controllers.UpdateMyProfile)

		authorized.POST("/orders", controllers.CreateOrder)
		authorized.GET("/orders", controllers.ListOrders)
		authorized.GET("/orders/services/:service_uuid", controllers.ListServiceOrders)
		authorized.POST("/orders/images", controllers.UploadOrderImage)
		authorized.PATCH("/orders/:order_uuid/status", controllers.UpdateOrderStatus)
		authorized.PATCH("/orders/transactions/:transaction_uuid/delivery", controllers.UpdateDeliveryInformation)

		authorized.POST("/markets", controllers.CreateMarket)
		authorized.GET("/markets/me", controllers.GetMyMarket)
		authorized.POST("/markets/services", controllers.CreateService)
		authorized.POST("/markets/services/:service_uuid/materials", controllers.CreateMaterial)
		authorized.POST("/markets/services/:service_uuid/options", controllers.CreateOption)
	}

	return router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if len(w.Body.Bytes()) > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

// TestOrderLifecycle drives the whole marketplace flow end to end: the
// reformer opens a market and an offering, the customer uploads a photo and
// places a delivery order against it, and the reformer works the order
// through its status history and courier tracking.
func TestOrderLifecycle(t *testing.T) {
	db := setupIntegrationDB(t)

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()
	t.Cleanup(func() { services.SetImageService(nil) })

	reformer := models.User{Auth0ID: "auth0|reformer", Name: "Reformer", Email: "reformer@example.com", Role: models.RoleReformer}
	customer := models.User{Auth0ID: "auth0|customer", Name: "Customer", Email: "customer@example.com", Role: models.RoleCustomer}
	require.NoError(t, db.Create(&reformer).Error)
	require.NoError(t, db.Create(&customer).Error)

	asReformer := setupIntegrationRouter(reformer)
	asCustomer := setupIntegrationRouter(customer)

	// reformer opens a market and publishes an offering
	w, _ := doJSON(t, asReformer, http.MethodPost, "/api/markets", map[string]interface{}{
		"name":      "Jeans Atelier",
		"introduce": "Denim reform studio",
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())

	w, serviceResp := doJSON(t, asReformer, http.MethodPost, "/api/markets/services", map[string]interface{}{
		"title":       "Denim jacket reform",
		"content":     "Full jacket rework",
		"basic_price": 500,
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
	serviceUUID := serviceResp["service_uuid"].(string)

	w, materialResp := doJSON(t, asReformer, http.MethodPost, "/api/markets/services/"+serviceUUID+"/materials",
		map[string]interface{}{"name": "Denim"})
	require.Equal(t, http.StatusCreated, w.Code)
	materialUUID := materialResp["material_uuid"].(string)

	w, optionResp := doJSON(t, asReformer, http.MethodPost, "/api/markets/services/"+serviceUUID+"/options",
		map[string]interface{}{"name": "Custom embroidery", "price": 300})
	require.Equal(t, http.StatusCreated, w.Code)
	optionUUID := optionResp["option_uuid"].(string)

	// the offering is publicly browsable
	w, publicResp := doJSON(t, asCustomer, http.MethodGet, "/api/markets/services/"+serviceUUID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Denim jacket reform", publicResp["title"])

	// customer uploads a reference photo first
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", "jacket.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake png bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/orders/images", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	asCustomer.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, "Response body: %s", rec.Body.String())

	var uploadResp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploadResp))
	s3Key := uploadResp["s3_key"].(string)

	// customer places a delivery order against the offering
	w, orderResp := doJSON(t, asCustomer, http.MethodPost, "/api/orders", map[string]interface{}{
		"service_uuid": serviceUUID,
		"transaction_option": map[string]interface{}{
			"mode":             models.TransactionDelivery,
			"delivery_address": "12 Mapo-daero",
			"delivery_name":    "Kim",
			"delivery_phone":   "010-1234-5678",
		},
		"materials":          []string{materialUUID},
		"additional_options": []string{optionUUID},
		"service_price":      500,
		"option_price":       300,
		"total_price":        800,
		"request_date":       "2025-06-15",
		"images":             []string{s3Key},
	})
	require.Equal(t, http.StatusCreated, w.Code, "Response body: %s", w.Body.String())
	orderUUID := orderResp["order_uuid"].(string)
	assert.Equal(t, models.OrderStatusPending, orderResp["order_status"])

	// both sides see the order in their own view, nobody else's
	w, _ = doJSON(t, asCustomer, http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var customerOrders []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &customerOrders))
	require.Len(t, customerOrders, 1)
	assert.Equal(t, float64(800), customerOrders[0]["total_price"])

	w, _ = doJSON(t, asReformer, http.MethodGet, "/api/orders?type=reformer", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reformerOrders []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reformerOrders))
	require.Len(t, reformerOrders, 1)

	w, _ = doJSON(t, asReformer, http.MethodGet, "/api/orders/services/"+serviceUUID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// customers cannot move the order along
	w, _ = doJSON(t, asCustomer, http.MethodPatch, "/api/orders/"+orderUUID+"/status",
		map[string]interface{}{"status": models.OrderStatusAccepted})
	require.Equal(t, http.StatusForbidden, w.Code)

	// the reformer works the order through its lifecycle
	for _, status := range []string{
		models.OrderStatusAccepted,
		models.OrderStatusReceived,
		models.OrderStatusProduced,
		models.OrderStatusDeliver,
	} {
		w, statusResp := doJSON(t, asReformer, http.MethodPatch, "/api/orders/"+orderUUID+"/status",
			map[string]interface{}{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
		assert.Equal(t, status, statusResp["order_status"])
	}

	// every step is kept in the append-only history
	var order models.Order
	require.NoError(t, db.Preload("States").Where("order_uuid = ?", orderUUID).First(&order).Error)
	assert.Len(t, order.States, 5)
	assert.Equal(t, models.OrderStatusDeliver, order.CurrentStatus())

	// reformer records the courier tracking data
	var transaction models.TransactionOption
	require.NoError(t, db.Where("order_id = ?", order.ID).First(&transaction).Error)

	w, deliveryResp := doJSON(t, asReformer, http.MethodPatch,
		"/api/orders/transactions/"+transaction.TransactionUUID.String()+"/delivery",
		map[string]interface{}{
			"delivery_company":         "CJ Logistics",
			"delivery_tracking_number": "1588-1255-0042",
		})
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.Equal(t, "CJ Logistics", deliveryResp["delivery_company"])

	// and closes the order out
	w, _ = doJSON(t, asReformer, http.MethodPatch, "/api/orders/"+orderUUID+"/status",
		map[string]interface{}{"status": models.OrderStatusEnd})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, asCustomer, http.MethodGet, "/api/orders?status=end", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var closedOrders []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &closedOrders))
	assert.Len(t, closedOrders, 1)
}

// TestHealthEndpointIntegration tests /api/health with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	setupIntegrationDB(t)
	router := setupIntegrationRouter(models.User{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, true, response["success"])
}
