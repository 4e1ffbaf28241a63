// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/nabondance/trailhead-banner-go/internal/application/services"
	"github.com/nabondance/trailhead-banner-go/internal/domain/banner"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/manager"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/persistence/counters"
	thclient "github.com/nabondance/trailhead-banner-go/internal/infrastructure/trailhead"
	"github.com/nabondance/trailhead-banner-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies.
type Container struct {
	BannerService *services.BannerService
	StatsService  *services.StatsService

	CacheManager *manager.Manager
	Counters     *counters.Repository
	Logger       *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services from config.
func NewContainer(cacheManager *manager.Manager, logger *logging.ChanneledLogger) *Container {
	client := thclient.NewClient(config.TrailheadProfileAPIURL, config.TrailheadMobileAPIURL, config.TrailheadClientTimeout, logger)
	gateway := thclient.NewGateway(client, cacheManager.QueryCache(), config.QueryCacheTTL, logger)

	resolver := assets.NewResolver(cacheManager.BlobStore(), config.AssetFetchTimeout, logger)
	fonts := banner.Fonts(config.FontPath)
	renderer := banner.NewRenderer(config.BannerWidth, config.BannerHeight, resolver, fonts, logger)

	// Counter persistence is optional: a broken database disables counting
	// instead of blocking startup.
	repo, err := counters.NewRepository(config.CounterDBPath, logger)
	if err != nil {
		if logger != nil {
			logger.System().Warn("Generation counters disabled", "error", err.Error())
		}
		repo = nil
	}

	return &Container{
		BannerService: services.NewBannerService(gateway, renderer, repo, logger),
		StatsService:  services.NewStatsService(repo, cacheManager),
		CacheManager:  cacheManager,
		Counters:      repo,
		Logger:        logger,
	}
}

// Shutdown releases held resources in reverse dependency order.
func (c *Container) Shutdown() {
	if c.Counters != nil {
		c.Counters.Close()
	}
	if c.CacheManager != nil {
		c.CacheManager.Shutdown()
	}
}
