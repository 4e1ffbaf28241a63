// Package performance provides performance measurement utilities for the
// banner pipeline: per-operation markers with cache correlation.
package performance

import (
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation   string         `json:"operation"` // e.g., "banner:render", "asset:resolve"
	Username    string         `json:"username,omitempty"`
	StartTime   time.Time      `json:"startTime"`
	EndTime     time.Time      `json:"endTime"`
	Duration    time.Duration  `json:"duration"`
	Success     bool           `json:"success"`
	Error       string         `json:"error,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CacheHits   int            `json:"cacheHits"`
	CacheMisses int            `json:"cacheMisses"`
	Completed   bool           `json:"completed"`
}

// StartMarker begins a measurement for the named operation.
func StartMarker(operation, username string) *Marker {
	return &Marker{
		Operation: operation,
		Username:  username,
		StartTime: time.Now(),
		Success:   true,
	}
}

// Complete marks the operation as finished and calculates final metrics
func (m *Marker) Complete() {
	if m.Completed {
		return // Prevent double completion
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetError sets an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// AddMetadata adds key-value metadata to the marker
func (m *Marker) AddMetadata(key string, value any) {
	if m.Metadata == nil {
		m.Metadata = make(map[string]any)
	}
	m.Metadata[key] = value
}

// AddCacheHit increments the cache hit counter
func (m *Marker) AddCacheHit() {
	m.CacheHits++
}

// AddCacheMiss increments the cache miss counter
func (m *Marker) AddCacheMiss() {
	m.CacheMisses++
}

// GetCacheHitRatio returns the cache hit ratio (0.0 to 1.0)
func (m *Marker) GetCacheHitRatio() float64 {
	total := m.CacheHits + m.CacheMisses
	if total == 0 {
		return 0.0
	}
	return float64(m.CacheHits) / float64(total)
}

// Ms returns the elapsed duration in whole milliseconds. Valid after
// Complete; before that it measures against the current time.
func (m *Marker) Ms() int64 {
	if m.Completed {
		return m.Duration.Milliseconds()
	}
	return time.Since(m.StartTime).Milliseconds()
}
