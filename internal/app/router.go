package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"shuttle/internal/handler"
	"shuttle/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	TapHandler   *handler.TapHandler
	RiderHandler *handler.RiderHandler
	AdminHandler *handler.AdminHandler
	RedisClient  *redis.Client
	NewRelicApp  *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Tap events.
		v1.POST("/taps", deps.TapHandler.Tap)

		// Shuttle shift settlement.
		v1.POST("/shuttles/:id/end-shift", deps.TapHandler.EndShift)

		// Rider account and wallet routes.
		riders := v1.Group("/riders")
		{
			riders.POST("/register", deps.RiderHandler.Register)
			riders.POST("/login", deps.RiderHandler.Login)
			riders.GET("/:id/balance", deps.RiderHandler.GetBalance)
			riders.POST("/:id/funds", deps.RiderHandler.AddFunds)
			riders.GET("/:id/history", deps.RiderHandler.GetHistory)
			riders.GET("/:id/reconcile", deps.RiderHandler.Reconcile)
		}

		// Admin routes.
		admin := v1.Group("/admin")
		{
			admin.POST("/stops", deps.AdminHandler.CreateStop)
			admin.GET("/stops", deps.AdminHandler.ListStops)
			admin.POST("/shuttles", deps.AdminHandler.CreateShuttle)
			admin.GET("/shuttles", deps.AdminHandler.ListShuttles)
			admin.POST("/routes", deps.AdminHandler.CreateRoute)
			admin.GET("/routes", deps.AdminHandler.ListRoutes)
			admin.POST("/routes/:id/stops", deps.AdminHandler.AddRouteStop)
			admin.GET("/routes/:id/stops", deps.AdminHandler.ListRouteStops)
			admin.POST("/riders/:id/adjust", deps.AdminHandler.AdjustBalance)
			admin.GET("/riders", deps.AdminHandler.ListRiders)
			admin.GET("/transactions", deps.AdminHandler.ListTransactions)
		}
	}

	return router
}
