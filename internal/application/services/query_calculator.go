// Package services holds the stateless application services that sit
// between the HTTP surface and the banner pipeline.
package services

import (
	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
	thclient "github.com/nabondance/trailhead-banner-go/internal/infrastructure/trailhead"
)

// queryOrder lists every upstream query in catalog order, keeping the
// batch deterministic.
var queryOrder = []string{
	thclient.QueryRank,
	thclient.QueryBadges,
	thclient.QueryCertifications,
	thclient.QuerySuperbadges,
	thclient.QueryMvp,
	thclient.QueryStamps,
}

// CalculateRequiredQueries maps the requested banner options to the
// minimal set of upstream queries. MVP status is always fetched; every
// other query is included only when at least one component that reads its
// payload is visible. Empty options fail open: when no display option is
// selected, the full set is fetched rather than silently dropping data.
func CalculateRequiredQueries(opts trailhead.BannerOptions) []string {
	if !anyDisplaySelected(opts) {
		out := make([]string, len(queryOrder))
		copy(out, queryOrder)
		return out
	}

	needs := map[string]bool{
		thclient.QueryMvp: true,
		thclient.QueryRank: opts.DisplayRankLogo ||
			opts.DisplayPointCount ||
			opts.DisplayTrailCount ||
			opts.DisplayBadgeCount ||
			opts.DisplayAgentblazer,
		thclient.QueryBadges:         opts.DisplayBadgeCount,
		thclient.QueryCertifications: opts.DisplayCertifications,
		thclient.QuerySuperbadges:    opts.DisplaySuperbadges,
		thclient.QueryStamps:         opts.DisplayStamps,
	}

	out := make([]string, 0, len(queryOrder))
	for _, name := range queryOrder {
		if needs[name] {
			out = append(out, name)
		}
	}
	return out
}

func anyDisplaySelected(opts trailhead.BannerOptions) bool {
	return opts.DisplayRankLogo ||
		opts.DisplayBadgeCount ||
		opts.DisplayPointCount ||
		opts.DisplayTrailCount ||
		opts.DisplaySuperbadges ||
		opts.DisplayCertifications ||
		opts.DisplayMvp ||
		opts.DisplayAgentblazer ||
		opts.DisplayStamps
}
