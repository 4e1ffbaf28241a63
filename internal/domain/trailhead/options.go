package trailhead

// BannerOptions is the flat, immutable-per-render configuration record.
// Unknown JSON keys are ignored; missing booleans keep their zero value
// unless a documented default says otherwise (applied in Normalize).
type BannerOptions struct {
	// Background selection. BackgroundImageURL wins over BackgroundLibrary,
	// which wins over BackgroundColor.
	BackgroundColor    string `json:"backgroundColor"`
	BackgroundLibrary  string `json:"backgroundLibrary"`
	BackgroundImageURL string `json:"backgroundImageUrl"`

	TextColor string `json:"textColor"`

	// Component visibility.
	DisplayRankLogo       bool `json:"displayRankLogo"`
	DisplayBadgeCount     bool `json:"displayBadgeCount"`
	DisplayPointCount     bool `json:"displayPointCount"`
	DisplayTrailCount     bool `json:"displayTrailCount"`
	DisplaySuperbadges    bool `json:"displaySuperbadges"`
	DisplayCertifications bool `json:"displayCertifications"`
	DisplayMvp            bool `json:"displayMvp"`
	DisplayAgentblazer    bool `json:"displayAgentblazer"`
	DisplayStamps         bool `json:"displayStamps"`
	DisplayWatermark      bool `json:"displayWatermark"`
	DisplayGenerationDate bool `json:"displayGenerationDate"`

	// Counter layout: comma-free ordered list of "badges", "points", "trails".
	CounterOrder []string `json:"counterOrder"`

	// Certification filtering and sorting.
	IncludeExpiredCertifications bool   `json:"includeExpiredCertifications"`
	CertificationsSort           string `json:"certificationsSort"` // "date" or "alpha"
	LastNCertifications          int    `json:"lastNCertifications"`

	// Superbadge row alignment: "left", "center" or "right".
	SuperbadgeAlignment string `json:"superbadgeAlignment"`

	// Output encoding: "png" (default) or "webp".
	OutputFormat string `json:"outputFormat"`
}

// DefaultBannerOptions returns the options used when the caller supplies
// nothing: every component visible, expired certifications excluded.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{
		BackgroundColor:       "#032d60",
		TextColor:             "#ffffff",
		DisplayRankLogo:       true,
		DisplayBadgeCount:     true,
		DisplayPointCount:     true,
		DisplayTrailCount:     true,
		DisplaySuperbadges:    true,
		DisplayCertifications: true,
		DisplayMvp:            true,
		DisplayAgentblazer:    true,
		DisplayWatermark:      true,
		CounterOrder:          []string{"badges", "points", "trails"},
		CertificationsSort:    "date",
		SuperbadgeAlignment:   "center",
		OutputFormat:          "png",
	}
}

// Normalize fills documented defaults into partially specified options.
func (o BannerOptions) Normalize() BannerOptions {
	if o.BackgroundColor == "" {
		o.BackgroundColor = "#032d60"
	}
	if o.TextColor == "" {
		o.TextColor = "#ffffff"
	}
	if len(o.CounterOrder) == 0 {
		o.CounterOrder = []string{"badges", "points", "trails"}
	}
	if o.CertificationsSort == "" {
		o.CertificationsSort = "date"
	}
	if o.SuperbadgeAlignment == "" {
		o.SuperbadgeAlignment = "center"
	}
	if o.OutputFormat == "" {
		o.OutputFormat = "png"
	}
	return o
}

// RenderTimings is the phase-level plus per-component timing breakdown.
type RenderTimings struct {
	PrepareMs  int64                       `json:"prepareMs"`
	RenderMs   int64                       `json:"renderMs"`
	EncodeMs   int64                       `json:"encodeMs"`
	TotalMs    int64                       `json:"totalMs"`
	Components map[string]map[string]int64 `json:"components"`
}

// RenderResult is the outcome of a banner render. Warnings carry the
// degraded-success detail; Hash is the SHA-256 digest of the encoded bytes.
type RenderResult struct {
	ImageURL string        `json:"imageUrl"`
	Warnings []string      `json:"warnings"`
	Hash     string        `json:"hash"`
	Timings  RenderTimings `json:"timings"`
}
