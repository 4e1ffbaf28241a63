package banner

import (
	"context"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

const (
	mvpRibbonWidth  = 120.0
	mvpRibbonHeight = 34.0
	mvpLabelSize    = 20.0
	mvpRibbonColor  = "#b8860b"
)

// MvpComponent draws a small MVP ribbon under the rank logo for profiles
// in the Salesforce MVP program.
type MvpComponent struct {
	prepared

	rankLogo *RankLogoComponent
	face     text.Face
	width    float64
}

// NewMvpComponent creates the MVP component. It reads the rank logo
// geometry at render time so the ribbon sits under the logo area.
func NewMvpComponent(rankLogo *RankLogoComponent) *MvpComponent {
	return &MvpComponent{rankLogo: rankLogo}
}

func (c *MvpComponent) Name() string { return "mvp" }

func (c *MvpComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	if !in.Options.DisplayMvp {
		return nil
	}
	if in.Data == nil || in.Data.Mvp == nil || !in.Data.Mvp.IsMvp {
		return nil
	}
	if !in.Fonts.IsAvailable() {
		c.warnf("no usable font, skipping mvp ribbon")
		return nil
	}
	c.face = in.Fonts.Bold(mvpLabelSize)
	c.width = float64(in.Width)
	c.setShouldRender(true)
	return nil
}

func (c *MvpComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() {
		return nil
	}

	// Centered under whatever horizontal slot the rank logo reserves,
	// even when the logo itself is suppressed.
	centerX := c.width - bannerMargin - c.rankLogo.PreparedWidth()/2
	top := bannerMargin + c.rankLogo.PreparedHeight() + 96

	dc.SetHexColor(mvpRibbonColor)
	dc.DrawRoundedRectangle(centerX-mvpRibbonWidth/2, top, mvpRibbonWidth, mvpRibbonHeight, 6)
	if err := dc.Fill(); err != nil {
		return err
	}

	dc.SetFont(c.face)
	dc.SetHexColor("#ffffff")
	dc.DrawStringAnchored("MVP", centerX, top+mvpRibbonHeight/2, 0.5, 0.35)
	return nil
}
