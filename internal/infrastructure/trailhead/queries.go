// Package trailhead provides the outbound Trailhead API client and the
// response-caching gateway in front of it.
package trailhead

import "regexp"

// Query names used across the service. The dependency calculator maps
// banner options onto this set.
const (
	QueryRank           = "GET_TRAILBLAZER_RANK"
	QueryBadges         = "GET_TRAILHEAD_BADGES"
	QueryCertifications = "GET_TRAILHEAD_CERTIFICATIONS"
	QuerySuperbadges    = "GET_USER_SUPERBADGES"
	QueryMvp            = "GET_MVP_STATUS"
	QueryStamps         = "GET_EVENT_STAMPS"
)

// Query is a single GraphQL request: a fixed document plus its variables.
type Query struct {
	Name      string
	Document  string
	Variables map[string]any
}

var operationNamePattern = regexp.MustCompile(`(?:query|mutation)\s+(\w+)`)

// OperationName extracts the operation name from the query document,
// falling back to the catalog name when the document carries none.
func (q Query) OperationName() string {
	if m := operationNamePattern.FindStringSubmatch(q.Document); m != nil {
		return m[1]
	}
	return q.Name
}

const rankDocument = `query GetTrailblazerRank($slug: String!, $hasSlug: Boolean!) {
  profile(slug: $slug) @include(if: $hasSlug) {
    __typename
    ... on PublicProfile {
      trailheadStats {
        rank { title imageUrl }
        earnedPointsSum
        earnedBadgesCount
        completedTrailCount
      }
      learnerStatusLevels { statusName title level imageUrl }
    }
  }
}`

const badgesDocument = `query GetTrailheadBadges($slug: String!, $hasSlug: Boolean!) {
  profile(slug: $slug) @include(if: $hasSlug) {
    __typename
    ... on PublicProfile {
      trailheadStats { earnedBadgesCount }
    }
  }
}`

const certificationsDocument = `query GetTrailheadCertifications($slug: String!) {
  profile(slug: $slug) {
    __typename
    ... on PublicProfile {
      credential {
        certifications {
          title
          dateCompleted
          status { title expired }
          logoUrl
          product
        }
      }
    }
  }
}`

const superbadgesDocument = `query GetUserSuperbadges($slug: String!, $count: Int) {
  profile(slug: $slug) {
    __typename
    ... on PublicProfile {
      earnedAwards(first: $count, awardType: SUPERBADGE) {
        edges {
          node {
            award { title icon }
          }
        }
      }
    }
  }
}`

const mvpDocument = `query GetMvpStatus($slug: String!) {
  profile(slug: $slug) {
    __typename
    ... on PublicProfile { isMvp }
  }
}`

const stampsDocument = `query GetEventStamps($slug: String!, $count: Int) {
  profile(slug: $slug) {
    __typename
    ... on PublicProfile {
      communityStamps(first: $count) {
        totalCount
        edges {
          node { name eventDate iconUrl }
        }
      }
    }
  }
}`

// Catalog returns the full query set for a username, in stable order.
func Catalog(username string) []Query {
	vars := map[string]any{"slug": username, "hasSlug": true}
	return []Query{
		{Name: QueryRank, Document: rankDocument, Variables: vars},
		{Name: QueryBadges, Document: badgesDocument, Variables: vars},
		{Name: QueryCertifications, Document: certificationsDocument, Variables: map[string]any{"slug": username}},
		{Name: QuerySuperbadges, Document: superbadgesDocument, Variables: map[string]any{"slug": username, "count": 30}},
		{Name: QueryMvp, Document: mvpDocument, Variables: map[string]any{"slug": username}},
		{Name: QueryStamps, Document: stampsDocument, Variables: map[string]any{"slug": username, "count": 50}},
	}
}

// CatalogSubset returns the catalog entries whose names appear in names,
// preserving catalog order.
func CatalogSubset(username string, names []string) []Query {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []Query
	for _, q := range Catalog(username) {
		if wanted[q.Name] {
			out = append(out, q)
		}
	}
	return out
}
