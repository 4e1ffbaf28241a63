package services

import (
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/manager"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/persistence/counters"
)

// ServiceStats is the payload of the stats endpoint: generation counters
// plus query-cache telemetry.
type ServiceStats struct {
	TotalGenerations int64  `json:"totalGenerations"`
	UniqueUsernames  int64  `json:"uniqueUsernames"`
	LastGeneratedAt  string `json:"lastGeneratedAt,omitempty"`
	QueryCache       any    `json:"queryCache,omitempty"`
}

// StatsService aggregates operational statistics.
type StatsService struct {
	counters *counters.Repository
	cache    *manager.Manager
}

// NewStatsService wires the stats service. Either dependency may be nil;
// the matching section is simply omitted.
func NewStatsService(repo *counters.Repository, cache *manager.Manager) *StatsService {
	return &StatsService{counters: repo, cache: cache}
}

// Collect gathers the current statistics snapshot.
func (s *StatsService) Collect() (*ServiceStats, error) {
	out := &ServiceStats{}
	if s.counters != nil {
		stats, err := s.counters.GetStats()
		if err != nil {
			return nil, err
		}
		out.TotalGenerations = stats.TotalGenerations
		out.UniqueUsernames = stats.UniqueUsernames
		out.LastGeneratedAt = stats.LastGeneratedAt
	}
	if s.cache != nil && s.cache.HasQueryCache() {
		out.QueryCache = s.cache.QueryCache().Stats()
	}
	return out, nil
}
