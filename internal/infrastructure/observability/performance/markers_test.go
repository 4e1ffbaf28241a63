package performance

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkerCacheCounters(t *testing.T) {
	m := StartMarker("query:batch", "astro")

	assert.Equal(t, 0.0, m.GetCacheHitRatio(), "no observations yet")

	m.AddCacheHit()
	m.AddCacheHit()
	m.AddCacheHit()
	m.AddCacheMiss()

	assert.Equal(t, 3, m.CacheHits)
	assert.Equal(t, 1, m.CacheMisses)
	assert.InDelta(t, 0.75, m.GetCacheHitRatio(), 1e-9)
}

func TestMarkerCompleteIsIdempotent(t *testing.T) {
	m := StartMarker("banner:render", "astro")
	m.Complete()
	first := m.Duration

	m.Complete()
	assert.Equal(t, first, m.Duration)
	assert.True(t, m.Completed)
	assert.GreaterOrEqual(t, m.Ms(), int64(0))
}

func TestMarkerSetError(t *testing.T) {
	m := StartMarker("banner:render", "astro")
	assert.True(t, m.Success)

	m.SetError(nil)
	assert.True(t, m.Success, "nil error keeps the marker successful")

	m.SetError(errors.New("encode failed"))
	assert.False(t, m.Success)
	assert.Equal(t, "encode failed", m.Error)
}

func TestMarkerMetadata(t *testing.T) {
	m := StartMarker("asset:resolve", "")
	m.AddMetadata("tier", "superbadges")
	m.AddMetadata("bytes", 1024)

	assert.Equal(t, "superbadges", m.Metadata["tier"])
	assert.Equal(t, 1024, m.Metadata["bytes"])
}
