// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/marketquery/backend/internal/config"
	"github.com/marketquery/backend/internal/handlers"
	"github.com/marketquery/backend/internal/middleware"
	"github.com/marketquery/backend/internal/services"
	"github.com/marketquery/backend/internal/storage"
	"github.com/marketquery/backend/internal/utils"
)

func Initialize(db *gorm.DB, store *storage.Store, cfg *config.Config) *gin.Engine {
	// Initialize services
	authService := services.NewAuthService(db, cfg)
	productService := services.NewProductService(db, store)
	statsService := services.NewStatsService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, store)
	statsHandler := handlers.NewStatsHandler(statsService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		// Authentication and account routes
		auth := api.Group("/auth")
		{
			public := auth.Group("")
			public.Use(middleware.AuthRateLimit())
			{
				public.POST("/register", authHandler.Register)
				public.POST("/login", authHandler.Login)
			}

			protected := auth.Group("")
			protected.Use(middleware.AuthRequired(), middleware.UsageLog(db))
			{
				protected.GET("/stats", statsHandler.GetStats)
				protected.GET("/profile", authHandler.GetProfile)
				protected.PUT("/profile", authHandler.UpdateProfile)
				protected.PUT("/password", authHandler.ChangePassword)
				protected.PUT("/reset-apikey", authHandler.ResetApiKey)

				admin := protected.Group("/admin")
				admin.Use(middleware.AdminRequired())
				{
					admin.GET("/users", authHandler.GetAllUsers)
					admin.DELETE("/users/:id", authHandler.DeleteUser)
				}
			}
		}

		// Product routes
		products := api.Group("/products")
		{
			// External read-only surface, keyed by API key
			external := products.Group("/external")
			external.Use(middleware.ApiKeyRequired(db))
			{
				external.GET("/all", productHandler.GetAllProducts)
				external.GET("/:id", productHandler.GetProductById)
			}

			protected := products.Group("")
			protected.Use(middleware.AuthRequired(), middleware.UsageLog(db))
			{
				protected.GET("", productHandler.GetAllProducts)
				protected.GET("/:id", productHandler.GetProductById)

				admin := protected.Group("")
				admin.Use(middleware.AdminRequired())
				{
					admin.POST("", productHandler.CreateProduct)
					admin.PUT("/:id", productHandler.UpdateProduct)
					admin.DELETE("/:id", productHandler.DeleteProduct)
				}
			}
		}
	}

	// Serve uploaded product images
	r.Static("/uploads", store.Dir())

	return r
}
