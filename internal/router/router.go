// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/demotrack/demotrack-backend/internal/config"
	"github.com/demotrack/demotrack-backend/internal/handlers"
	"github.com/demotrack/demotrack-backend/internal/middleware"
	"github.com/demotrack/demotrack-backend/internal/services"
	"github.com/demotrack/demotrack-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	activityService := services.NewActivityService(db)
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Warn("S3 session failed, falling back to local photo URLs")
		storageService = services.NewLocalStorageService(cfg)
	}

	authService := services.NewAuthService(db, cfg, activityService)
	teamService := services.NewTeamService(db, activityService, storageService)
	productService := services.NewProductService(db, activityService)
	itemTrackingService := services.NewItemTrackingService(db, activityService)
	loanService := services.NewLoanService(db, cfg, activityService)
	demoCaseService := services.NewDemoCaseService(db, cfg, activityService)
	importService := services.NewImportService(db, activityService)
	exportService := services.NewExportService(db, cfg, activityService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	teamHandler := handlers.NewTeamHandler(teamService)
	productHandler := handlers.NewProductHandler(productService, itemTrackingService, importService)
	loanHandler := handlers.NewLoanHandler(loanService)
	demoCaseHandler := handlers.NewDemoCaseHandler(demoCaseService)
	activityHandler := handlers.NewActivityHandler(activityService, exportService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Prometheus scrape endpoint
	r.GET("/metrics", middleware.MetricsHandler())

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
			auth.POST("/change-password", middleware.AuthRequired(), authHandler.ChangePassword)
		}

		// Everything below requires a logged-in team member
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Dashboard
			protected.GET("/dashboard/stats", loanHandler.GetDashboardStats)

			// Product routes
			products := protected.Group("/products")
			{
				products.GET("", productHandler.GetProducts)
				products.GET("/grouped", productHandler.GetGroupedInventory)
				products.POST("", productHandler.CreateProduct)
				products.POST("/import/preview", productHandler.PreviewImport)
				products.POST("/import", productHandler.Import)
				products.GET("/:id", productHandler.GetProduct)
				products.PUT("/:id", productHandler.UpdateProduct)
				products.DELETE("/:id", productHandler.DeleteProduct)
				products.GET("/:id/availability", productHandler.GetAvailability)
				products.POST("/:id/split", productHandler.SplitToItems)
				products.POST("/:id/merge", productHandler.MergeToArticle)
				products.PUT("/:id/serial-number", productHandler.UpdateSerialNumber)
				products.PUT("/:id/case", demoCaseHandler.AssignProduct)
				products.POST("/:id/lend", loanHandler.LendProduct)
			}

			// Loan routes
			loans := protected.Group("/loans")
			{
				loans.GET("", loanHandler.GetLoans)
				loans.GET("/grouped", loanHandler.GetGroupedLoans)
				loans.POST("/:id/return", loanHandler.ReturnLoan)
				loans.POST("/bulk-return", loanHandler.BulkReturn)
				loans.POST("/fix-case-data", middleware.AdminRequired(), loanHandler.FixCaseData)
			}

			// Demo case routes
			demoCases := protected.Group("/demo-cases")
			{
				demoCases.GET("", demoCaseHandler.GetCases)
				demoCases.POST("", demoCaseHandler.CreateCase)
				demoCases.GET("/:id", demoCaseHandler.GetCase)
				demoCases.PUT("/:id", demoCaseHandler.UpdateCase)
				demoCases.DELETE("/:id", demoCaseHandler.DeleteCase)
				demoCases.POST("/:id/lend", loanHandler.LendCase)
			}

			// Team routes
			team := protected.Group("/team")
			{
				team.GET("", teamHandler.GetMembers)
				team.GET("/active", teamHandler.GetActiveMembers)
				team.GET("/:id", teamHandler.GetMember)
				team.POST("/:id/photo", middleware.UploadRateLimit(), teamHandler.UploadPhoto)

				// Member management is admin-only
				admin := team.Group("")
				admin.Use(middleware.AdminRequired())
				{
					admin.POST("", teamHandler.CreateMember)
					admin.PUT("/:id", teamHandler.UpdateMember)
					admin.DELETE("/:id", teamHandler.DeactivateMember)
					admin.POST("/:id/reset-password", teamHandler.ResetPassword)
				}
			}

			// Activity trail
			activity := protected.Group("/activity")
			{
				activity.GET("", activityHandler.GetActivity)
				activity.GET("/export", activityHandler.ExportCSV)
			}

			// Inventory export
			protected.GET("/inventory/export", activityHandler.ExportInventoryXLSX)
		}
	}

	return r
}
