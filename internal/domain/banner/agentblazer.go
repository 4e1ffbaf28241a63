package banner

import (
	"context"
	"strings"
	"time"

	"github.com/gogpu/gg"

	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
)

const agentblazerHeightRatio = 0.18

// AgentblazerComponent draws the Agentblazer status badge in the top-left
// corner when the profile carries an Agentblazer learner status level.
type AgentblazerComponent struct {
	prepared

	img    *gg.ImageBuf
	x      float64
	y      float64
	width  float64
	height float64
}

// NewAgentblazerComponent creates the agentblazer component.
func NewAgentblazerComponent() *AgentblazerComponent {
	return &AgentblazerComponent{}
}

func (c *AgentblazerComponent) Name() string { return "agentblazer" }

func (c *AgentblazerComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	if !in.Options.DisplayAgentblazer {
		return nil
	}
	if in.Data == nil || in.Data.Rank == nil {
		return nil
	}

	level := agentblazerLevel(in.Data.Rank.LearnerStatusLevels)
	if level == nil || level.ImageURL == "" {
		return nil
	}

	img, err := in.Assets.ResolveImage(ctx, level.ImageURL, assets.TierAgentblazer)
	if err != nil {
		c.warnf("failed to get agentblazer badge: %v", err)
		return nil
	}

	c.height = float64(in.Height) * agentblazerHeightRatio
	bounds := img.Bounds()
	c.width = c.height
	if bounds.Dy() > 0 {
		c.width = c.height * float64(bounds.Dx()) / float64(bounds.Dy())
	}
	c.x = bannerMargin
	c.y = bannerMargin
	c.img = gg.ImageBufFromImage(img)
	c.setShouldRender(true)
	return nil
}

// agentblazerLevel picks the Agentblazer entry out of the learner status
// levels, if the profile has one.
func agentblazerLevel(levels []trailhead.LearnerStatusLevel) *trailhead.LearnerStatusLevel {
	for i := range levels {
		if strings.Contains(levels[i].StatusName, "Agentblazer") {
			return &levels[i]
		}
	}
	return nil
}

func (c *AgentblazerComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() {
		return nil
	}
	dc.DrawImageEx(c.img, gg.DrawImageOptions{
		X:         c.x,
		Y:         c.y,
		DstWidth:  c.width,
		DstHeight: c.height,
	})
	return nil
}
