package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/roofleads/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *slog.Logger) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(PublicPathCORSMiddleware(), handler.MethodNotAllowed)
	router.NoRoute(handler.NotFound)

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// The address widget is embedded on tenant sites under its short path
	router.GET("/search", PublicCORSMiddleware(), handler.Search)

	v1 := router.Group("/api/v1")
	{
		public := v1.Group("", PublicCORSMiddleware())
		{
			public.GET("/search", handler.Search)
			public.GET("/tenants/:tenant", handler.GetTenant)
			public.GET("/photos", handler.Photos)
			public.GET("/streetview", handler.StreetView)
			public.POST("/leads", handler.CreateLead)
			public.POST("/flow-leads", handler.CreateFlowLead)
			public.POST("/business-users", handler.CreateBusinessUser)
		}

		v1.POST("/auth/login", handler.Login)

		dashboard := v1.Group("/dashboard", AuthMiddleware(handler.auth))
		{
			dashboard.GET("/leads", handler.ListLeads)
			dashboard.GET("/prospects", handler.ListProspects)
			dashboard.PATCH("/prospects/status", handler.UpdateProspectStatus)
			dashboard.POST("/prospects/status", handler.UpdateProspectStatus)
			dashboard.GET("/projects", handler.ListProjects)
			dashboard.GET("/tags", handler.ListTags)
			dashboard.GET("/stats", handler.Stats)
			dashboard.GET("/settings", handler.Settings)
		}
	}

	return router
}
