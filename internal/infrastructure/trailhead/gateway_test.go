package trailhead

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/stores"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   []string
	fail    map[string]error
	delayed map[string]time.Duration
}

func (f *fakeFetcher) Fetch(_ context.Context, query Query) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query.Name)
	f.mu.Unlock()

	if d, ok := f.delayed[query.Name]; ok {
		time.Sleep(d)
	}
	if err, ok := f.fail[query.Name]; ok {
		return nil, err
	}
	return json.RawMessage(fmt.Sprintf(`{"from":%q}`, query.Name)), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestGatewayPreservesInputOrder(t *testing.T) {
	fetcher := &fakeFetcher{delayed: map[string]time.Duration{
		// The first query finishes last; ordering must still mirror input.
		QueryRank: 30 * time.Millisecond,
	}}
	gw := NewGateway(fetcher, nil, time.Minute, nil)

	queries := CatalogSubset("astro", []string{QueryRank, QueryBadges, QueryMvp})
	result, err := gw.PerformQueriesWithCache(context.Background(), queries, "astro")
	require.NoError(t, err)

	require.Len(t, result.Responses, 3)
	assert.JSONEq(t, fmt.Sprintf(`{"from":%q}`, QueryRank), string(result.Responses[0]))
	assert.JSONEq(t, fmt.Sprintf(`{"from":%q}`, QueryBadges), string(result.Responses[1]))
	assert.JSONEq(t, fmt.Sprintf(`{"from":%q}`, QueryMvp), string(result.Responses[2]))
}

func TestGatewayCacheHitSkipsLiveFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := stores.NewMemoryQueryCache(nil)
	defer cache.Stop()
	gw := NewGateway(fetcher, cache, time.Minute, nil)

	queries := CatalogSubset("astro", []string{QueryMvp})

	first, err := gw.PerformQueriesWithCache(context.Background(), queries, "astro")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Summary.Misses)
	assert.Equal(t, 1, fetcher.callCount())

	// The write-through is asynchronous; give it a beat.
	require.Eventually(t, func() bool {
		return cache.Stats().Sets == 1
	}, time.Second, 5*time.Millisecond)

	second, err := gw.PerformQueriesWithCache(context.Background(), queries, "astro")
	require.NoError(t, err)
	assert.Equal(t, 1, second.Summary.Hits)
	assert.Equal(t, 1.0, second.Summary.HitRate)
	assert.Equal(t, 1, fetcher.callCount(), "cache hit must not reach the live API")
	assert.JSONEq(t, string(first.Responses[0]), string(second.Responses[0]))
}

func TestGatewayLogsCacheTelemetry(t *testing.T) {
	logDir := t.TempDir()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToConsole = false
	cfg.OutputToFile = true
	cfg.LogDirectory = logDir
	cfg.DefaultLevel = slog.LevelDebug
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	fetcher := &fakeFetcher{}
	cache := stores.NewMemoryQueryCache(nil)
	defer cache.Stop()
	gw := NewGateway(fetcher, cache, time.Minute, logger)

	queries := CatalogSubset("astro", []string{QueryMvp})
	_, err = gw.PerformQueriesWithCache(context.Background(), queries, "astro")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return cache.Stats().Sets == 1 }, time.Second, 5*time.Millisecond)
	_, err = gw.PerformQueriesWithCache(context.Background(), queries, "astro")
	require.NoError(t, err)

	cacheLog, err := os.ReadFile(filepath.Join(logDir, "cache.log"))
	require.NoError(t, err)
	assert.Contains(t, string(cacheLog), "Cache miss")
	assert.Contains(t, string(cacheLog), "Cache hit")

	perfLog, err := os.ReadFile(filepath.Join(logDir, "performance.log"))
	require.NoError(t, err)
	assert.Contains(t, string(perfLog), "cacheHitRatio")
}

func TestGatewayLogsBatchFailure(t *testing.T) {
	logDir := t.TempDir()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToConsole = false
	cfg.OutputToFile = true
	cfg.LogDirectory = logDir
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)

	fetcher := &fakeFetcher{fail: map[string]error{QueryMvp: errors.New("upstream down")}}
	gw := NewGateway(fetcher, nil, time.Minute, logger)

	_, err = gw.PerformQueriesWithCache(context.Background(), CatalogSubset("astro", []string{QueryMvp}), "astro")
	require.Error(t, err)

	queryLog, err := os.ReadFile(filepath.Join(logDir, "query.log"))
	require.NoError(t, err)
	assert.Contains(t, string(queryLog), "upstream down")
}

func TestGatewayKeyIsolatesUsers(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := stores.NewMemoryQueryCache(nil)
	defer cache.Stop()
	gw := NewGateway(fetcher, cache, time.Minute, nil)

	_, err := gw.PerformQueriesWithCache(context.Background(), CatalogSubset("alice", []string{QueryMvp}), "alice")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return cache.Stats().Sets == 1 }, time.Second, 5*time.Millisecond)

	_, err = gw.PerformQueriesWithCache(context.Background(), CatalogSubset("bob", []string{QueryMvp}), "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.callCount(), "different users never share cache entries")
}

func TestGatewayLiveFailurePropagates(t *testing.T) {
	wantErr := errors.New("profile not found")
	fetcher := &fakeFetcher{fail: map[string]error{QueryRank: wantErr}}
	gw := NewGateway(fetcher, nil, time.Minute, nil)

	_, err := gw.PerformQueriesWithCache(context.Background(),
		CatalogSubset("astro", []string{QueryRank, QueryMvp}), "astro")
	assert.ErrorIs(t, err, wantErr)
}

func TestGatewayWithoutCacheStillWorks(t *testing.T) {
	fetcher := &fakeFetcher{}
	gw := NewGateway(fetcher, nil, time.Minute, nil)

	result, err := gw.PerformQueriesWithCache(context.Background(),
		CatalogSubset("astro", []string{QueryMvp, QueryBadges}), "astro")
	require.NoError(t, err)
	assert.False(t, result.Summary.CacheAvailable)
	assert.Equal(t, 2, result.Summary.Misses)
}

func TestOperationNameExtraction(t *testing.T) {
	q := Query{Name: "FALLBACK", Document: "query GetMvpStatus($slug: String!) { profile { isMvp } }"}
	assert.Equal(t, "GetMvpStatus", q.OperationName())

	q = Query{Name: "FALLBACK", Document: "{ profile { isMvp } }"}
	assert.Equal(t, "FALLBACK", q.OperationName())
}

func TestHashVariablesStable(t *testing.T) {
	a := hashVariables(map[string]any{"slug": "astro", "count": 30})
	b := hashVariables(map[string]any{"count": 30, "slug": "astro"})
	assert.Equal(t, a, b, "hash must not depend on map iteration order")

	c := hashVariables(map[string]any{"slug": "other", "count": 30})
	assert.NotEqual(t, a, c)
}
