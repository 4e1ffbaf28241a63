// Package manager provides centralized access to the banner service caches:
// the blob asset store and the query response cache.
package manager

import (
	"sync"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/interfaces"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/stores"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/pkg/config"
)

// Manager bundles both cache levels. Either level may be nil when its
// backend failed to initialize; callers probe with the Has* methods and
// treat absence as a valid, non-exceptional state.
type Manager struct {
	blob  interfaces.BlobStore
	query interfaces.QueryCache

	queryStore *stores.MemoryQueryCache
	logger     *logging.ChanneledLogger
}

var (
	globalInstance *Manager
	globalOnce     sync.Once
)

// NewManager initializes both cache levels from the central configuration.
// A blob store failure is logged and leaves the asset cache absent rather
// than failing startup.
func NewManager(logger *logging.ChanneledLogger) *Manager {
	m := &Manager{logger: logger}

	blob, err := stores.NewFileBlobStore(config.AssetCacheDir, config.AssetMemoryEntries, logger)
	if err != nil {
		if logger != nil {
			logger.Cache().Warn("Asset blob store unavailable", "error", err.Error())
		}
	} else {
		m.blob = blob
	}

	m.queryStore = stores.NewMemoryQueryCache(logger)
	m.queryStore.StartCleanupRoutine(config.QueryCacheCleanupInterval)
	m.query = m.queryStore

	if logger != nil {
		logger.Cache().Info("Cache manager initialized",
			"assetCache", m.HasBlobStore(),
			"queryCache", m.HasQueryCache(),
			"assetCacheDir", config.AssetCacheDir,
		)
	}
	return m
}

// Global returns the process-wide cache manager, initializing it lazily.
func Global(logger *logging.ChanneledLogger) *Manager {
	globalOnce.Do(func() {
		globalInstance = NewManager(logger)
	})
	return globalInstance
}

// BlobStore returns the asset cache, which may be nil.
func (m *Manager) BlobStore() interfaces.BlobStore { return m.blob }

// QueryCache returns the response cache, which may be nil.
func (m *Manager) QueryCache() interfaces.QueryCache { return m.query }

// HasBlobStore reports whether the asset cache is available.
func (m *Manager) HasBlobStore() bool { return m != nil && m.blob != nil }

// HasQueryCache reports whether the response cache is available.
func (m *Manager) HasQueryCache() bool {
	if m == nil || m.query == nil {
		return false
	}
	if avail, ok := m.query.(interfaces.Availability); ok {
		return avail.IsAvailable()
	}
	return true
}

// Shutdown stops background cache routines.
func (m *Manager) Shutdown() {
	if m.queryStore != nil {
		m.queryStore.Stop()
	}
}
