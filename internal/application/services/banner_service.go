package services

import (
	"context"
	"encoding/json"
	"regexp"
	"time"

	"github.com/nabondance/trailhead-banner-go/internal/domain/banner"
	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/performance"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/persistence/counters"
	thclient "github.com/nabondance/trailhead-banner-go/internal/infrastructure/trailhead"
)

// Trailhead usernames are URL slugs.
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,80}$`)

// GenerateResult is the full outcome of one banner generation, combining
// the render output with the upstream cache telemetry.
type GenerateResult struct {
	trailhead.RenderResult
	Username     string                 `json:"username"`
	CacheSummary thclient.CacheSummary  `json:"cacheSummary"`
	QueryTimings []thclient.QueryTiming `json:"queryTimings"`
	GeneratedAt  time.Time              `json:"generatedAt"`
}

// BannerService orchestrates a banner generation: dependency calculation,
// the cached query batch, payload decoding and the render itself.
type BannerService struct {
	gateway  *thclient.Gateway
	renderer *banner.Renderer
	counters *counters.Repository
	logger   *logging.ChanneledLogger
}

// NewBannerService wires the banner orchestration service. counters may be
// nil when generation counting is disabled.
func NewBannerService(gateway *thclient.Gateway, renderer *banner.Renderer, repo *counters.Repository, logger *logging.ChanneledLogger) *BannerService {
	return &BannerService{gateway: gateway, renderer: renderer, counters: repo, logger: logger}
}

// Generate produces a banner for username with the given options.
func (s *BannerService) Generate(ctx context.Context, username string, opts trailhead.BannerOptions) (*GenerateResult, error) {
	if !usernamePattern.MatchString(username) {
		return nil, bannererrors.UserInput("banner.generate", "invalid username")
	}
	opts = opts.Normalize()

	marker := performance.StartMarker("banner_generate", username)

	required := CalculateRequiredQueries(opts)
	queries := thclient.CatalogSubset(username, required)
	batch, err := s.gateway.PerformQueriesWithCache(ctx, queries, username)
	if err != nil {
		marker.SetError(err)
		marker.Complete()
		return nil, err
	}
	marker.AddMetadata("queries", len(queries))

	data := decodeProfileData(queries, batch.Responses)

	result, err := s.renderer.Render(ctx, username, data, opts)
	if err != nil {
		marker.SetError(err)
		marker.Complete()
		return nil, err
	}

	if s.counters != nil {
		s.counters.RecordGeneration(username)
	}
	marker.Complete()

	if s.logger != nil {
		s.logger.Banner().Info("banner generated",
			"username", username,
			"queries", len(queries),
			"cacheHits", batch.Summary.Hits,
			"warnings", len(result.Warnings),
			"totalMs", marker.Ms())
	}

	return &GenerateResult{
		RenderResult: *result,
		Username:     username,
		CacheSummary: batch.Summary,
		QueryTimings: batch.Timings,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

// decodeProfileData maps each raw response onto its ProfileData slot.
// Responses line up with the query batch by index. A payload that fails to
// decode leaves its slot nil, which the matching component degrades on.
func decodeProfileData(queries []thclient.Query, responses []json.RawMessage) *trailhead.ProfileData {
	data := &trailhead.ProfileData{}
	for i, q := range queries {
		if i >= len(responses) || len(responses[i]) == 0 {
			continue
		}
		raw := responses[i]
		switch q.Name {
		case thclient.QueryRank:
			var env struct {
				Profile struct {
					TrailheadStats struct {
						Rank                *trailhead.Rank `json:"rank"`
						EarnedPointsSum     int             `json:"earnedPointsSum"`
						EarnedBadgesCount   int             `json:"earnedBadgesCount"`
						CompletedTrailCount int             `json:"completedTrailCount"`
					} `json:"trailheadStats"`
					LearnerStatusLevels []trailhead.LearnerStatusLevel `json:"learnerStatusLevels"`
				} `json:"profile"`
			}
			if json.Unmarshal(raw, &env) == nil {
				data.Rank = &trailhead.RankData{
					Rank:                env.Profile.TrailheadStats.Rank,
					EarnedPointsSum:     env.Profile.TrailheadStats.EarnedPointsSum,
					EarnedBadgesCount:   env.Profile.TrailheadStats.EarnedBadgesCount,
					CompletedTrailCount: env.Profile.TrailheadStats.CompletedTrailCount,
					LearnerStatusLevels: env.Profile.LearnerStatusLevels,
				}
			}
		case thclient.QueryBadges:
			var env struct {
				Profile trailhead.BadgesData `json:"profile"`
			}
			if json.Unmarshal(raw, &env) == nil {
				data.Badges = &env.Profile
			}
		case thclient.QueryCertifications:
			var env struct {
				Profile struct {
					Credential trailhead.CertificationsData `json:"credential"`
				} `json:"profile"`
			}
			if json.Unmarshal(raw, &env) == nil {
				data.Certifications = &env.Profile.Credential
			}
		case thclient.QuerySuperbadges:
			var env struct {
				Profile trailhead.SuperbadgesData `json:"profile"`
			}
			if json.Unmarshal(raw, &env) == nil {
				data.Superbadges = &env.Profile
			}
		case thclient.QueryMvp:
			var env struct {
				Profile trailhead.MvpData `json:"profile"`
			}
			if json.Unmarshal(raw, &env) == nil {
				data.Mvp = &env.Profile
			}
		case thclient.QueryStamps:
			var env struct {
				Profile struct {
					CommunityStamps trailhead.StampsData `json:"communityStamps"`
				} `json:"profile"`
			}
			if json.Unmarshal(raw, &env) == nil {
				data.Stamps = &env.Profile.CommunityStamps
			}
		}
	}
	return data
}
