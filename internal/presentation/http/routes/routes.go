// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nabondance/trailhead-banner-go/internal/application/container"
	"github.com/nabondance/trailhead-banner-go/internal/presentation/http/handlers"
	"github.com/nabondance/trailhead-banner-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogging(container.Logger))

	bannerHandlers := handlers.NewBannerHandlers(container.BannerService, container.Logger)
	systemHandlers := handlers.NewSystemHandlers(container.StatsService)

	api := r.Group("/api/v1")
	{
		api.POST("/banner", bannerHandlers.GenerateBanner)
		api.GET("/banner/:username", bannerHandlers.GenerateDefaultBanner)
		api.GET("/health", systemHandlers.Health)
		api.GET("/stats", systemHandlers.Stats)
	}

	return r
}
