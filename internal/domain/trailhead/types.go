// Package trailhead defines the inbound data contracts of the Trailhead
// GraphQL boundary. The banner pipeline only reads documented fields and
// tolerates any payload being absent or empty.
package trailhead

// Rank is the profile rank payload.
type Rank struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
}

// LearnerStatusLevel is one entry of the profile's learner status levels
// (the Agentblazer program reports its tier here).
type LearnerStatusLevel struct {
	StatusName string `json:"statusName"`
	Title      string `json:"title"`
	Level      int    `json:"level"`
	ImageURL   string `json:"imageUrl"`
}

// RankData is the response of the trailblazer rank query.
type RankData struct {
	Rank                *Rank                `json:"rank"`
	EarnedPointsSum     int                  `json:"earnedPointsSum"`
	EarnedBadgesCount   int                  `json:"earnedBadgesCount"`
	CompletedTrailCount int                  `json:"completedTrailCount"`
	LearnerStatusLevels []LearnerStatusLevel `json:"learnerStatusLevels"`
}

// CertificationStatus describes whether a certification is current.
type CertificationStatus struct {
	Expired bool   `json:"expired"`
	Title   string `json:"title"`
}

// Certification is a single earned certification.
type Certification struct {
	Title         string              `json:"title"`
	Status        CertificationStatus `json:"status"`
	LogoURL       string              `json:"logoUrl"`
	DateCompleted string              `json:"dateCompleted"`
	Product       string              `json:"product"`
}

// CertificationsData is the response of the certifications query.
type CertificationsData struct {
	Certifications []Certification `json:"certifications"`
}

// BadgesData is the response of the trailhead badges query.
type BadgesData struct {
	TrailheadStats struct {
		EarnedBadgesCount int `json:"earnedBadgesCount"`
	} `json:"trailheadStats"`
}

// SuperbadgeAward is the award node of an earned superbadge.
type SuperbadgeAward struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
}

// SuperbadgesData is the response of the earned awards query, filtered to
// superbadges upstream.
type SuperbadgesData struct {
	EarnedAwards struct {
		Edges []struct {
			Node struct {
				Award SuperbadgeAward `json:"award"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"earnedAwards"`
}

// MvpData is the response of the MVP status query.
type MvpData struct {
	IsMvp bool `json:"isMvp"`
}

// Stamp is a single community event stamp.
type Stamp struct {
	EventDate string `json:"eventDate"`
	IconURL   string `json:"iconUrl"`
	Name      string `json:"name"`
}

// StampsData is the response of the event stamps query.
type StampsData struct {
	TotalCount int `json:"totalCount"`
	Edges      []struct {
		Node Stamp `json:"node"`
	} `json:"edges"`
}

// ProfileData aggregates every per-domain payload the renderer consumes.
// Any field may be nil; the matching component degrades instead of failing.
type ProfileData struct {
	Rank           *RankData           `json:"rank,omitempty"`
	Badges         *BadgesData         `json:"badges,omitempty"`
	Certifications *CertificationsData `json:"certifications,omitempty"`
	Superbadges    *SuperbadgesData    `json:"superbadges,omitempty"`
	Mvp            *MvpData            `json:"mvp,omitempty"`
	Stamps         *StampsData         `json:"stamps,omitempty"`
}
