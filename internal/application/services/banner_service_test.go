package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabondance/trailhead-banner-go/internal/domain/banner"
	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
	thclient "github.com/nabondance/trailhead-banner-go/internal/infrastructure/trailhead"
)

type stubFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	calls     []string
}

func (f *stubFetcher) Fetch(ctx context.Context, q thclient.Query) (json.RawMessage, error) {
	f.mu.Lock()
	f.calls = append(f.calls, q.Name)
	f.mu.Unlock()
	body, ok := f.responses[q.Name]
	if !ok {
		return nil, fmt.Errorf("unexpected query %s", q.Name)
	}
	return json.RawMessage(body), nil
}

func TestCalculateRequiredQueries(t *testing.T) {
	tests := []struct {
		name string
		opts trailhead.BannerOptions
		want []string
	}{
		{
			name: "badge count only",
			opts: trailhead.BannerOptions{DisplayBadgeCount: true},
			want: []string{thclient.QueryRank, thclient.QueryBadges, thclient.QueryMvp},
		},
		{
			name: "empty options fetch everything",
			opts: trailhead.BannerOptions{},
			want: []string{
				thclient.QueryRank,
				thclient.QueryBadges,
				thclient.QueryCertifications,
				thclient.QuerySuperbadges,
				thclient.QueryMvp,
				thclient.QueryStamps,
			},
		},
		{
			name: "defaults fetch everything except stamps",
			opts: trailhead.DefaultBannerOptions(),
			want: []string{
				thclient.QueryRank,
				thclient.QueryBadges,
				thclient.QueryCertifications,
				thclient.QuerySuperbadges,
				thclient.QueryMvp,
			},
		},
		{
			name: "agentblazer needs the rank payload",
			opts: trailhead.BannerOptions{DisplayAgentblazer: true},
			want: []string{thclient.QueryRank, thclient.QueryMvp},
		},
		{
			name: "stamps opt in",
			opts: trailhead.BannerOptions{DisplayStamps: true},
			want: []string{thclient.QueryMvp, thclient.QueryStamps},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateRequiredQueries(tt.opts))
		})
	}
}

func TestDecodeProfileData(t *testing.T) {
	queries := thclient.CatalogSubset("alice", []string{
		thclient.QueryRank, thclient.QueryBadges, thclient.QueryMvp,
	})
	responses := []json.RawMessage{
		json.RawMessage(`{"profile":{"trailheadStats":{"rank":{"title":"Ranger","imageUrl":"https://x/ranger.png"},"earnedPointsSum":100,"earnedBadgesCount":5,"completedTrailCount":2},"learnerStatusLevels":[{"statusName":"Agentblazer Status","title":"Innovator"}]}}`),
		json.RawMessage(`{"profile":{"trailheadStats":{"earnedBadgesCount":5}}}`),
		json.RawMessage(`{"profile":{"isMvp":true}}`),
	}

	data := decodeProfileData(queries, responses)

	require.NotNil(t, data.Rank)
	require.NotNil(t, data.Rank.Rank)
	assert.Equal(t, "Ranger", data.Rank.Rank.Title)
	assert.Equal(t, 100, data.Rank.EarnedPointsSum)
	require.Len(t, data.Rank.LearnerStatusLevels, 1)

	require.NotNil(t, data.Badges)
	assert.Equal(t, 5, data.Badges.TrailheadStats.EarnedBadgesCount)

	require.NotNil(t, data.Mvp)
	assert.True(t, data.Mvp.IsMvp)

	assert.Nil(t, data.Certifications)
	assert.Nil(t, data.Superbadges)
	assert.Nil(t, data.Stamps)
}

func TestDecodeProfileDataToleratesGarbage(t *testing.T) {
	queries := thclient.CatalogSubset("alice", []string{thclient.QueryMvp})
	data := decodeProfileData(queries, []json.RawMessage{json.RawMessage(`{{{`)})
	assert.Nil(t, data.Mvp)
}

func newTestBannerService(fetcher thclient.Fetcher) *BannerService {
	gateway := thclient.NewGateway(fetcher, nil, time.Minute, nil)
	resolver := assets.NewResolver(nil, 5*time.Second, nil)
	renderer := banner.NewRenderer(1584, 396, resolver, banner.NewFontRegistry(""), nil)
	return NewBannerService(gateway, renderer, nil, nil)
}

func TestGenerateRejectsInvalidUsername(t *testing.T) {
	svc := newTestBannerService(&stubFetcher{})

	for _, username := range []string{"", "has space", "semi;colon", "sla/sh"} {
		_, err := svc.Generate(context.Background(), username, trailhead.BannerOptions{})
		require.Error(t, err, username)
		assert.True(t, bannererrors.IsKind(err, bannererrors.KindUserInput), username)
	}
}

func TestGenerateMinimalBanner(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		thclient.QueryRank: `{"profile":{"trailheadStats":{"earnedPointsSum":1200,"earnedBadgesCount":10,"completedTrailCount":3}}}`,
		thclient.QueryMvp:  `{"profile":{"isMvp":false}}`,
	}}
	svc := newTestBannerService(fetcher)

	opts := trailhead.BannerOptions{DisplayPointCount: true, DisplayWatermark: true}
	result, err := svc.Generate(context.Background(), "alice", opts)
	require.NoError(t, err)

	assert.Equal(t, "alice", result.Username)
	assert.NotEmpty(t, result.Hash)
	assert.Contains(t, result.ImageURL, "data:image/png;base64,")
	assert.ElementsMatch(t, []string{thclient.QueryRank, thclient.QueryMvp}, fetcher.calls)
	assert.Equal(t, 2, result.CacheSummary.TotalQueries)
}

func TestGenerateEmptyOptionsFetchesEverything(t *testing.T) {
	fetcher := &stubFetcher{responses: map[string]string{
		thclient.QueryRank:           `{"profile":{"trailheadStats":{"earnedPointsSum":1200,"earnedBadgesCount":10,"completedTrailCount":3}}}`,
		thclient.QueryBadges:         `{"profile":{"trailheadStats":{"earnedBadgesCount":10}}}`,
		thclient.QueryCertifications: `{"profile":{"credential":{"certifications":[]}}}`,
		thclient.QuerySuperbadges:    `{"profile":{"earnedAwards":{"edges":[]}}}`,
		thclient.QueryMvp:            `{"profile":{"isMvp":false}}`,
		thclient.QueryStamps:         `{"profile":{"communityStamps":{"totalCount":0}}}`,
	}}
	svc := newTestBannerService(fetcher)

	result, err := svc.Generate(context.Background(), "alice", trailhead.BannerOptions{})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		thclient.QueryRank,
		thclient.QueryBadges,
		thclient.QueryCertifications,
		thclient.QuerySuperbadges,
		thclient.QueryMvp,
		thclient.QueryStamps,
	}, fetcher.calls)
	assert.Equal(t, 6, result.CacheSummary.TotalQueries)
}

func TestGeneratePropagatesFetchFailure(t *testing.T) {
	svc := newTestBannerService(&stubFetcher{responses: map[string]string{}})

	_, err := svc.Generate(context.Background(), "alice", trailhead.BannerOptions{DisplayBadgeCount: true})
	require.Error(t, err)
}
