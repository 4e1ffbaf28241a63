package trailhead

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/interfaces"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/performance"
)

// QueryTiming is the per-query timing breakdown of a batch.
type QueryTiming struct {
	Query      string `json:"query"`
	CacheHit   bool   `json:"cacheHit"`
	DurationMs int64  `json:"durationMs"`
}

// CacheSummary reports batch-level cache telemetry. Observability only,
// never correctness.
type CacheSummary struct {
	TotalQueries    int     `json:"totalQueries"`
	Hits            int     `json:"hits"`
	Misses          int     `json:"misses"`
	HitRate         float64 `json:"hitRate"`
	AvgHitMs        float64 `json:"avgHitMs"`
	AvgMissMs       float64 `json:"avgMissMs"`
	CacheAvailable  bool    `json:"cacheAvailable"`
	WriteThroughTTL string  `json:"writeThroughTtl"`
}

// BatchResult carries the responses of a query batch, ordered exactly like
// the input queries regardless of completion order.
type BatchResult struct {
	Responses []json.RawMessage
	Timings   []QueryTiming
	Summary   CacheSummary
}

// Gateway wraps a Fetcher with the query response cache.
type Gateway struct {
	fetcher Fetcher
	cache   interfaces.QueryCache
	ttl     time.Duration
	logger  *logging.ChanneledLogger
}

// NewGateway creates a gateway. cache may be nil, in which case every
// query goes straight to the live fetcher.
func NewGateway(fetcher Fetcher, cache interfaces.QueryCache, ttl time.Duration, logger *logging.ChanneledLogger) *Gateway {
	return &Gateway{fetcher: fetcher, cache: cache, ttl: ttl, logger: logger}
}

// PerformQueriesWithCache executes all queries concurrently. Each query
// first consults the response cache; a miss falls through to the live
// fetcher and writes back asynchronously, never blocking the response.
// A live-fetch failure propagates to the caller.
func (g *Gateway) PerformQueriesWithCache(ctx context.Context, queries []Query, username string) (*BatchResult, error) {
	result := &BatchResult{
		Responses: make([]json.RawMessage, len(queries)),
		Timings:   make([]QueryTiming, len(queries)),
	}

	cacheUsable := g.cacheAvailable()
	marker := performance.StartMarker("query:batch", username)

	eg, egCtx := errgroup.WithContext(ctx)
	for i, query := range queries {
		eg.Go(func() error {
			start := time.Now()
			key := g.cacheKey(username, query)

			if cacheUsable {
				value, ok := g.cache.Get(key)
				if g.logger != nil {
					g.logger.LogCacheOperation("query:get", key, ok, time.Since(start))
				}
				if ok {
					result.Responses[i] = json.RawMessage(value)
					result.Timings[i] = QueryTiming{Query: query.Name, CacheHit: true, DurationMs: time.Since(start).Milliseconds()}
					return nil
				}
			}

			data, err := g.fetcher.Fetch(egCtx, query)
			if err != nil {
				return err
			}
			result.Responses[i] = data
			result.Timings[i] = QueryTiming{Query: query.Name, CacheHit: false, DurationMs: time.Since(start).Milliseconds()}

			if cacheUsable {
				value := make([]byte, len(data))
				copy(value, data)
				go g.cache.SetWithTTL(key, value, g.ttl)
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		marker.SetError(err)
		marker.Complete()
		if g.logger != nil {
			g.logger.LogError(logging.ChannelQuery, marker.Operation, err)
		}
		return nil, err
	}

	// Marker counters are folded in after the wait; the Add methods are
	// not safe for concurrent use.
	for _, t := range result.Timings {
		if t.CacheHit {
			marker.AddCacheHit()
		} else {
			marker.AddCacheMiss()
		}
	}
	marker.Complete()

	result.Summary = g.summarize(result.Timings, cacheUsable)
	if g.logger != nil {
		g.logger.Query().Info("Query batch completed",
			"username", username,
			"queries", result.Summary.TotalQueries,
			"hits", result.Summary.Hits,
			"misses", result.Summary.Misses,
		)
		g.logger.Perf().Debug("Query batch timing",
			"operation", marker.Operation,
			"durationMs", marker.Ms(),
			"cacheHitRatio", marker.GetCacheHitRatio(),
		)
	}
	return result, nil
}

func (g *Gateway) cacheAvailable() bool {
	if g.cache == nil {
		return false
	}
	if avail, ok := g.cache.(interfaces.Availability); ok {
		return avail.IsAvailable()
	}
	return true
}

// cacheKey derives the response cache key from the username, the operation
// name extracted from the query text, and a hash of the variables.
func (g *Gateway) cacheKey(username string, query Query) string {
	return fmt.Sprintf("th:%s:%s:%x", username, query.OperationName(), hashVariables(query.Variables))
}

// hashVariables produces a stable digest of the variables map by hashing
// keys in sorted order.
func hashVariables(vars map[string]any) uint64 {
	h := fnv.New64a()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		value, _ := json.Marshal(vars[k])
		h.Write(value)
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func (g *Gateway) summarize(timings []QueryTiming, cacheUsable bool) CacheSummary {
	summary := CacheSummary{
		TotalQueries:    len(timings),
		CacheAvailable:  cacheUsable,
		WriteThroughTTL: g.ttl.String(),
	}
	var hitMs, missMs int64
	for _, t := range timings {
		if t.CacheHit {
			summary.Hits++
			hitMs += t.DurationMs
		} else {
			summary.Misses++
			missMs += t.DurationMs
		}
	}
	if summary.TotalQueries > 0 {
		summary.HitRate = float64(summary.Hits) / float64(summary.TotalQueries)
	}
	if summary.Hits > 0 {
		summary.AvgHitMs = float64(hitMs) / float64(summary.Hits)
	}
	if summary.Misses > 0 {
		summary.AvgMissMs = float64(missMs) / float64(summary.Misses)
	}
	return summary
}
