package banner

import (
	"context"
	"image"
	"time"

	"github.com/gogpu/gg"

	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
)

const (
	bannerMargin = 40.0

	// rankLogoHeightRatio sizes the rank logo against the canvas height.
	rankLogoHeightRatio = 0.35
)

// RankLogoComponent draws the trailblazer rank logo in the top-right
// corner. Its prepared width is read by the counters component even when
// the logo itself is suppressed, so the column stays put.
type RankLogoComponent struct {
	prepared

	img    image.Image
	x, y   float64
	width  float64
	height float64
}

// NewRankLogoComponent creates the rank logo component.
func NewRankLogoComponent() *RankLogoComponent {
	return &RankLogoComponent{}
}

func (c *RankLogoComponent) Name() string { return "rank_logo" }

func (c *RankLogoComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	c.height = float64(in.Height) * rankLogoHeightRatio
	// Reserve a square footprint until the real aspect ratio is known.
	c.width = c.height

	if in.Data == nil || in.Data.Rank == nil || in.Data.Rank.Rank == nil || in.Data.Rank.Rank.ImageURL == "" {
		c.warnf("rank logo unavailable: no rank data")
		return nil
	}

	// Geometry is prepared even when the logo is suppressed: the counters
	// column keys off the reserved width.
	img, err := in.Assets.ResolveImage(ctx, in.Data.Rank.Rank.ImageURL, assets.TierRanks)
	if err != nil {
		c.warnf("failed to get rank logo image: %v", err)
		return nil
	}

	bounds := img.Bounds()
	if bounds.Dy() > 0 {
		c.width = c.height * float64(bounds.Dx()) / float64(bounds.Dy())
	}
	c.x = float64(in.Width) - bannerMargin - c.width
	c.y = bannerMargin
	c.img = img
	c.setShouldRender(in.Options.DisplayRankLogo)
	return nil
}

func (c *RankLogoComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() || c.img == nil {
		return nil
	}
	dc.DrawImageEx(gg.ImageBufFromImage(c.img), gg.DrawImageOptions{
		X:         c.x,
		Y:         c.y,
		DstWidth:  c.width,
		DstHeight: c.height,
	})
	return nil
}

// PreparedWidth returns the horizontal footprint reserved for the logo,
// valid whether or not the logo renders.
func (c *RankLogoComponent) PreparedWidth() float64 { return c.width }

// PreparedHeight returns the vertical footprint reserved for the logo.
func (c *RankLogoComponent) PreparedHeight() float64 { return c.height }
