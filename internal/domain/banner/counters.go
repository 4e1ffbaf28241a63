package banner

import (
	"context"
	"fmt"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
)

const (
	counterValueSize = 34.0
	counterLabelSize = 18.0
	counterLineGap   = 14.0
)

type counterLine struct {
	value string
	label string
}

// CountersComponent draws the badge/point/trail counters in a column under
// the rank logo. Its horizontal position depends on the rank logo's
// prepared width even when the logo is suppressed from rendering.
type CountersComponent struct {
	prepared

	rankLogo *RankLogoComponent
	lines    []counterLine
	textHex  string

	valueFace text.Face
	labelFace text.Face

	canvasWidth int
}

// NewCountersComponent creates the counters component anchored to the rank
// logo's prepared geometry.
func NewCountersComponent(rankLogo *RankLogoComponent) *CountersComponent {
	return &CountersComponent{rankLogo: rankLogo}
}

func (c *CountersComponent) Name() string { return "counters" }

func (c *CountersComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	c.canvasWidth = in.Width
	c.textHex = "#ffffff"
	if hexColorPattern.MatchString(in.Options.TextColor) {
		c.textHex = in.Options.TextColor
	}

	var rank *trailhead.RankData
	var badges *trailhead.BadgesData
	if in.Data != nil {
		rank = in.Data.Rank
		badges = in.Data.Badges
	}

	for _, kind := range in.Options.CounterOrder {
		switch kind {
		case "badges":
			if !in.Options.DisplayBadgeCount {
				continue
			}
			count, ok := badgeCount(rank, badges)
			if !ok {
				c.warnf("badge count unavailable")
				continue
			}
			c.lines = append(c.lines, counterLine{value: formatCount(count), label: "badges"})
		case "points":
			if !in.Options.DisplayPointCount || rank == nil {
				continue
			}
			c.lines = append(c.lines, counterLine{value: formatCount(rank.EarnedPointsSum), label: "points"})
		case "trails":
			if !in.Options.DisplayTrailCount || rank == nil {
				continue
			}
			c.lines = append(c.lines, counterLine{value: formatCount(rank.CompletedTrailCount), label: "trails"})
		}
	}

	if len(c.lines) == 0 {
		return nil
	}
	if !in.Fonts.IsAvailable() {
		c.warnf("counters suppressed: no usable font")
		return nil
	}
	c.valueFace = in.Fonts.Bold(counterValueSize)
	c.labelFace = in.Fonts.Regular(counterLabelSize)
	c.setShouldRender(true)
	return nil
}

func (c *CountersComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() {
		return nil
	}

	// Centered under the reserved rank logo footprint.
	centerX := float64(c.canvasWidth) - bannerMargin - c.rankLogo.PreparedWidth()/2
	y := bannerMargin + c.rankLogo.PreparedHeight() + counterValueSize + counterLineGap

	dc.SetHexColor(c.textHex)
	for _, line := range c.lines {
		dc.SetFont(c.valueFace)
		dc.DrawStringAnchored(line.value, centerX, y, 0.5, 0)
		dc.SetFont(c.labelFace)
		dc.DrawStringAnchored(line.label, centerX, y+counterLabelSize+4, 0.5, 0)
		y += counterValueSize + counterLabelSize + counterLineGap + 10
	}
	return nil
}

func badgeCount(rank *trailhead.RankData, badges *trailhead.BadgesData) (int, bool) {
	if badges != nil {
		return badges.TrailheadStats.EarnedBadgesCount, true
	}
	if rank != nil {
		return rank.EarnedBadgesCount, true
	}
	return 0, false
}

// formatCount renders an integer with thousands separators.
func formatCount(n int) string {
	if n < 0 {
		return "-" + formatCount(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return formatCount(n/1000) + fmt.Sprintf(",%03d", n%1000)
}
