package routes

import (
	"github.com/gin-gonic/gin"

	coreport "github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/domain/port/core"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/handler"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/adapter/api/middleware"
	"github.com/Kashif-Rezwi/genie-ai-server-sub003/internal/infrastructure/metrics"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	ledgerHandler *handler.LedgerHandler,
	transferHandler *handler.TransferHandler,
	batchHandler *handler.BatchHandler,
	analyticsHandler *handler.AnalyticsHandler,
	healthHandler *handler.HealthHandler,
) {
	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	userRoutes := router.Group("/users")
	{
		// GET /users/:userId/balance
		userRoutes.GET("/:userId/balance", ledgerHandler.GetBalance)

		// GET /users/:userId/transactions
		userRoutes.GET("/:userId/transactions", ledgerHandler.GetHistory)

		// POST /users/:userId/credits/purchase
		userRoutes.POST("/:userId/credits/purchase", ledgerHandler.AddCredits)

		// POST /users/:userId/credits/usage
		userRoutes.POST("/:userId/credits/usage", ledgerHandler.DeductCredits)

		// GET /users/:userId/analytics/spending
		userRoutes.GET("/:userId/analytics/spending", analyticsHandler.SpendingPattern)
	}

	// POST /transfers
	router.POST("/transfers", transferHandler.Transfer)

	// GET /analytics/overview
	router.GET("/analytics/overview", analyticsHandler.Overview)

	// POST /admin/batch-grants
	adminRoutes := router.Group("/admin")
	{
		adminRoutes.POST("/batch-grants", batchHandler.Grant)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS())
}
