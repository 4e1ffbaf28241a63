package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabondance/trailhead-banner-go/internal/application/container"
	"github.com/nabondance/trailhead-banner-go/internal/application/services"
	"github.com/nabondance/trailhead-banner-go/internal/domain/banner"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	thclient "github.com/nabondance/trailhead-banner-go/internal/infrastructure/trailhead"
	"github.com/nabondance/trailhead-banner-go/internal/presentation/http/server"
)

type noFetcher struct{}

func (noFetcher) Fetch(ctx context.Context, q thclient.Query) (json.RawMessage, error) {
	return nil, context.Canceled
}

func newTestContainer(t *testing.T, logger *logging.ChanneledLogger) *container.Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gateway := thclient.NewGateway(noFetcher{}, nil, time.Minute, logger)
	resolver := assets.NewResolver(nil, 5*time.Second, logger)
	renderer := banner.NewRenderer(1584, 396, resolver, banner.NewFontRegistry(""), logger)

	return &container.Container{
		BannerService: services.NewBannerService(gateway, renderer, nil, logger),
		StatsService:  services.NewStatsService(nil, nil),
		Logger:        logger,
	}
}

func newQuietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToConsole = false
	cfg.OutputToFile = true
	cfg.LogDirectory = t.TempDir()
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func TestNewServerListensOnConfiguredPort(t *testing.T) {
	s := server.New("8123", newTestContainer(t, newQuietLogger(t)))
	assert.Equal(t, ":8123", s.Addr())
}

func TestServerHandlerServesHealth(t *testing.T) {
	s := server.New("0", newTestContainer(t, newQuietLogger(t)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerStopIsGraceful(t *testing.T) {
	s := server.New("0", newTestContainer(t, newQuietLogger(t)))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestServerStopWithoutLogger(t *testing.T) {
	s := server.New("0", newTestContainer(t, nil))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
