// Package interfaces defines the cache contracts of the banner service:
// an append-mostly blob store for fetched assets and a TTL-bound
// key-value cache for query responses.
package interfaces

import (
	"errors"
	"time"
)

// ErrNotFound is returned by BlobStore.Get when no entry exists for a path.
var ErrNotFound = errors.New("blob not found")

// BlobStore is the asset cache. Entries are content-immutable: once written,
// a path is never updated — cache busting relies on key change. Concurrent
// writers racing on the same path are tolerated (last write wins).
type BlobStore interface {
	// Put stores bytes under path and returns a retrievable location.
	Put(path string, data []byte) (string, error)

	// Get returns the stored bytes, or ErrNotFound.
	Get(path string) ([]byte, error)
}

// QueryCacheStats carries the hit/miss telemetry of the query cache.
type QueryCacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Evicted int64 `json:"evicted"`
}

// QueryCache is the response cache in front of the Trailhead API.
// A miss is a normal outcome, never an error; cache failures are always
// non-fatal to the caller.
type QueryCache interface {
	Get(key string) ([]byte, bool)
	SetWithTTL(key string, value []byte, ttl time.Duration)
	Stats() QueryCacheStats
}

// Availability is implemented by cache backends that may be absent at
// runtime. Callers must treat unavailability as a valid state and skip
// straight to live fetch.
type Availability interface {
	IsAvailable() bool
}
