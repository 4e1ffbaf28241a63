package banner

import (
	"context"
	"image"
	"sort"
	"sync"
	"time"

	"github.com/gogpu/gg"
	"golang.org/x/sync/errgroup"

	"github.com/nabondance/trailhead-banner-go/internal/domain/layout"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
)

const (
	superbadgeHeightRatio = 0.25
	superbadgeAreaRatio   = 0.7
	superbadgeScale       = 0.9
)

type superbadgeIcon struct {
	title string
	img   image.Image
}

// SuperbadgesComponent draws the earned superbadge icons in a single row
// along the bottom of the banner. When the row does not fit, spacing goes
// negative so the icons overlap and exactly fill the available width.
type SuperbadgesComponent struct {
	prepared

	icons    []superbadgeIcon
	row      layout.Row
	logoSize float64
	x        float64
	y        float64
}

// NewSuperbadgesComponent creates the superbadges component.
func NewSuperbadgesComponent() *SuperbadgesComponent {
	return &SuperbadgesComponent{}
}

func (c *SuperbadgesComponent) Name() string { return "superbadges" }

func (c *SuperbadgesComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	if !in.Options.DisplaySuperbadges {
		return nil
	}
	if in.Data == nil || in.Data.Superbadges == nil {
		c.warnf("no superbadge data available")
		return nil
	}
	edges := in.Data.Superbadges.EarnedAwards.Edges
	if len(edges) == 0 {
		return nil
	}

	fetchStart := time.Now()
	results := make([]*superbadgeIcon, len(edges))
	var mu sync.Mutex
	var failed []string

	g, gctx := errgroup.WithContext(ctx)
	for i, edge := range edges {
		award := edge.Node.Award
		g.Go(func() error {
			img, err := in.Assets.ResolveImage(gctx, award.Icon, assets.TierSuperbadges)
			if err != nil {
				mu.Lock()
				failed = append(failed, award.Title)
				mu.Unlock()
				return nil
			}
			results[i] = &superbadgeIcon{title: award.Title, img: img}
			return nil
		})
	}
	g.Wait()
	c.recordTiming("icon_fetch_ms", time.Since(fetchStart).Milliseconds())

	sort.Strings(failed)
	for _, title := range failed {
		c.warnf("failed to get superbadge icon for %q", title)
	}

	for _, icon := range results {
		if icon != nil {
			c.icons = append(c.icons, *icon)
		}
	}
	if len(c.icons) == 0 {
		return nil
	}

	c.logoSize = float64(in.Height) * superbadgeHeightRatio * superbadgeScale
	availableWidth := float64(in.Width) * superbadgeAreaRatio
	alignment := layout.ParseAlignment(in.Options.SuperbadgeAlignment)
	c.row = layout.ComputeRow(len(c.icons), c.logoSize, availableWidth, alignment)

	c.x = bannerMargin + c.row.StartX
	c.y = float64(in.Height) - bannerMargin - c.logoSize
	c.setShouldRender(true)
	return nil
}

func (c *SuperbadgesComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() {
		return nil
	}
	x := c.x
	for _, icon := range c.icons {
		w, h := fitWithin(icon.img, c.logoSize, c.logoSize)
		dc.DrawImageEx(gg.ImageBufFromImage(icon.img), gg.DrawImageOptions{
			X:         x + (c.logoSize-w)/2,
			Y:         c.y + (c.logoSize-h)/2,
			DstWidth:  w,
			DstHeight: h,
		})
		x += c.logoSize + c.row.Spacing
	}
	return nil
}
