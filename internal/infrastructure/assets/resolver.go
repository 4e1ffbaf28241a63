// Package assets resolves logical image references (remote URLs) to bytes
// and decoded bitmaps, backed by the two-level asset cache.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/caching/interfaces"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

// Cache tiers. The cropped tier holds pre-trimmed certification logos so
// the crop computation runs at most once per asset.
const (
	TierRanks               = "ranks"
	TierCertifications      = "certifications"
	TierCertificationsCrop  = "certifications_cropped"
	TierSuperbadges         = "superbadges"
	TierBackgrounds         = "backgrounds"
	TierStamps              = "stamps"
	TierAgentblazer         = "agentblazer"
	browserUserAgent        = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	imageAcceptHeader       = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"
	maxRemoteAssetSizeBytes = 16 << 20
)

// Resolver fetches remote assets through the blob cache.
type Resolver struct {
	blob       interfaces.BlobStore
	httpClient *http.Client
	logger     *logging.ChanneledLogger
}

// NewResolver creates a resolver. blob may be nil, which disables caching
// but keeps resolution working.
func NewResolver(blob interfaces.BlobStore, timeout time.Duration, logger *logging.ChanneledLogger) *Resolver {
	return &Resolver{
		blob:       blob,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// CacheKey derives the blob filename for a reference. Certification logo
// URLs are identified by their query parameters, not their path, so the
// key is synthesized from id+oid+lastMod; everything else keys on the
// verbatim base filename.
func CacheKey(reference string) string {
	u, err := url.Parse(reference)
	if err != nil {
		return sanitizeKey(reference)
	}

	q := u.Query()
	if id := q.Get("id"); id != "" {
		oid := q.Get("oid")
		lastMod := q.Get("lastMod")
		return sanitizeKey(strings.Trim(fmt.Sprintf("%s-%s-%s", id, oid, lastMod), "-"))
	}

	base := path.Base(u.Path)
	if base == "." || base == "/" || base == "" {
		return sanitizeKey(reference)
	}
	return sanitizeKey(base)
}

func sanitizeKey(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, s)
}

// Resolve returns the bytes behind reference, reading through the blob
// cache. On a miss the remote origin is fetched with browser headers and
// the primary tier is populated synchronously before returning. Total
// failure produces the typed image-fetch error that components downgrade
// to a warning.
func (r *Resolver) Resolve(ctx context.Context, reference, tier string) ([]byte, error) {
	const op = "assets.Resolve"

	if reference == "" {
		return nil, bannererrors.ImageFetch(op, errors.New("empty image reference"))
	}

	key := tier + "/" + CacheKey(reference)
	if r.blob != nil {
		if data, err := r.blob.Get(key); err == nil {
			if r.logger != nil {
				r.logger.Asset().Debug("Asset cache hit", "key", key)
			}
			return data, nil
		} else if !errors.Is(err, interfaces.ErrNotFound) && r.logger != nil {
			r.logger.Asset().Warn("Asset cache read failed", "key", key, "error", err.Error())
		}
	}

	data, err := r.fetch(ctx, reference)
	if err != nil {
		return nil, bannererrors.ImageFetch(op, err)
	}

	if r.blob != nil {
		if _, err := r.blob.Put(key, data); err != nil && r.logger != nil {
			// Cache population failure must never fail the render.
			r.logger.Asset().Warn("Asset cache write failed", "key", key, "error", err.Error())
		}
	}
	return data, nil
}

// StoreDerived writes a derived asset (e.g. a cropped copy) to the cache.
// Best effort: failures are logged and swallowed.
func (r *Resolver) StoreDerived(tier, key string, data []byte) {
	if r.blob == nil {
		return
	}
	if _, err := r.blob.Put(tier+"/"+key, data); err != nil && r.logger != nil {
		r.logger.Asset().Warn("Derived asset write failed", "tier", tier, "key", key, "error", err.Error())
	}
}

// GetCached returns a cached blob without any remote fetch.
func (r *Resolver) GetCached(tier, key string) ([]byte, bool) {
	if r.blob == nil {
		return nil, false
	}
	data, err := r.blob.Get(tier + "/" + key)
	if err != nil {
		return nil, false
	}
	return data, true
}

func (r *Resolver) fetch(ctx context.Context, reference string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reference, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", imageAcceptHeader)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d", reference, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteAssetSizeBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch %s: empty body", reference)
	}
	return data, nil
}
