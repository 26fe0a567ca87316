package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sdp-tech/upcy-api/config"
	"github.com/sdp-tech/upcy-api/controllers"
	"github.com/sdp-tech/upcy-api/middleware"
	"github.com/sdp-tech/upcy-api/models"
	"github.com/sdp-tech/upcy-api/services"
)

func main() {
	log.Println("Starting UPCY marketplace API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	err = db.AutoMigrate(
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
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize blob storage
	s3Service, err := services.InitS3Service()
	if err != nil {
		log.Fatalf("Failed to initialize S3 service: %v", err)
	}
	services.InitImageService(s3Service)

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with CORS and the full route table.
// Split out of main so tests can mount the same routes with mock auth.
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.GET("/health", healthCheck)
		api.GET("/markets/services/:service_uuid", controllers.GetService)

		authorized := api.Group("")
		authorized.Use(middleware.EnsureValidToken(cfg))
		{
			// Profiles
			authorized.POST("/users", controllers.CreateUser)
			authorized.GET("/users/me", controllers.GetMyProfile)
			authorized.PUT("/users/me", controllers.UpdateMyProfile)

			// Orders
			authorized.POST("/orders", controllers.CreateOrder)
			authorized.GET("/orders", controllers.ListOrders)
			authorized.GET("/orders/services/:service_uuid", controllers.ListServiceOrders)
			authorized.POST("/orders/images", controllers.UploadOrderImage)
			authorized.PATCH("/orders/:order_uuid/status", controllers.UpdateOrderStatus)
			authorized.PATCH("/orders/transactions/:transaction_uuid/delivery", controllers.UpdateDeliveryInformation)

			// Catalog
			authorized.POST("/markets", controllers.CreateMarket)
			authorized.GET("/markets/me", controllers.GetMyMarket)
			authorized.POST("/markets/services", controllers.CreateService)
			authorized.POST("/markets/services/:service_uuid/materials", controllers.CreateMaterial)
			authorized.POST("/markets/services/:service_uuid/options", controllers.CreateOption)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "UPCY marketplace API is running",
	})
}
