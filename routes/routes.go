// File: /routes/routes.go
package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"reabastece-api/config"
	"reabastece-api/controllers"
	"reabastece-api/middleware"
	"reabastece-api/repositories"
	"reabastece-api/services"
)

// NewRouter builds the engine with the global middleware chain and every route.
// Background work started for the routes stops when ctx is done.
func NewRouter(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger, emailService *services.EmailService) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		middleware.CORS(),
		middleware.SecurityHeaders(),
		middleware.ErrorHandler(log),
	)

	SetupRoutes(ctx, r, db, cfg, log, emailService)
	return r
}

func SetupRoutes(ctx context.Context, r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger, emailService *services.EmailService) {
	// Repositories
	vehicleRepo := repositories.NewVehicleRepository(db)
	refuelingRepo := repositories.NewRefuelingRepository(db)
	usageRepo := repositories.NewUsageRepository(db)

	// Services
	authService := services.NewAuthService(db, cfg.JWTSecret, log)
	vehicleService := services.NewVehicleService(vehicleRepo, log)
	refuelingService := services.NewRefuelingService(refuelingRepo, vehicleRepo, log)
	usageService := services.NewUsageService(usageRepo, vehicleRepo, log)
	dashboardService := services.NewDashboardService(vehicleRepo, refuelingRepo, usageRepo)

	// Controllers
	authController := controllers.NewAuthController(authService, emailService, log)
	vehicleController := controllers.NewVehicleController(vehicleService)
	refuelingController := controllers.NewRefuelingController(refuelingService)
	usageController := controllers.NewUsageController(usageService)
	dashboardController := controllers.NewDashboardController(dashboardService, authService, emailService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1
	v1 := r.Group("/api/v1")
	v1.Use(middleware.ValidateJSON())

	v1.GET("/fuel-types", controllers.GetFuelTypes)

	// Auth routes (public)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(ctx, cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/logout", authController.Logout)
	}

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		protected.GET("/auth/me", authController.Me)

		vehicles := protected.Group("/vehicles")
		{
			vehicles.GET("", vehicleController.GetVehicles)
			vehicles.POST("", vehicleController.CreateVehicle)
			vehicles.GET("/:id", vehicleController.GetVehicle)
			vehicles.PUT("/:id", vehicleController.UpdateVehicle)
			vehicles.DELETE("/:id", vehicleController.DeleteVehicle)
		}

		refuelings := protected.Group("/refuelings")
		{
			refuelings.GET("", refuelingController.GetRefuelings)
			refuelings.POST("", refuelingController.CreateRefueling)
			refuelings.GET("/:id", refuelingController.GetRefueling)
			refuelings.PUT("/:id", refuelingController.UpdateRefueling)
			refuelings.DELETE("/:id", refuelingController.DeleteRefueling)
		}

		usage := protected.Group("/usage")
		{
			usage.GET("", usageController.GetUsage)
			usage.POST("", usageController.CreateUsage)
			usage.POST("/derive", usageController.DeriveUsage)
			usage.GET("/:id", usageController.GetUsageRecord)
			usage.PUT("/:id", usageController.UpdateUsage)
			usage.DELETE("/:id", usageController.DeleteUsage)
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("", dashboardController.GetDashboard)
			dashboard.POST("/email", dashboardController.EmailDashboard)
		}
	}
}
