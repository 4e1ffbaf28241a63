package banner

import (
	"context"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
)

const (
	watermarkText = "trailhead-banner"
	watermarkSize = 14.0
)

// Now returns the current time for the generation-date stamp. Tests swap
// it out to keep rendered output stable.
var Now = time.Now

// WatermarkComponent draws the site credit in the bottom-right corner,
// optionally followed by the generation date.
type WatermarkComponent struct {
	prepared

	face    text.Face
	label   string
	textHex string
	x       float64
	y       float64
}

// NewWatermarkComponent creates the watermark component.
func NewWatermarkComponent() *WatermarkComponent {
	return &WatermarkComponent{}
}

func (c *WatermarkComponent) Name() string { return "watermark" }

func (c *WatermarkComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	if !in.Options.DisplayWatermark {
		return nil
	}
	if !in.Fonts.IsAvailable() {
		c.warnf("no usable font, skipping watermark")
		return nil
	}

	c.label = watermarkText
	if in.Options.DisplayGenerationDate {
		c.label += " · " + Now().UTC().Format("2006-01-02")
	}
	c.face = in.Fonts.Regular(watermarkSize)
	c.textHex = "#ffffff"
	if hexColorPattern.MatchString(in.Options.TextColor) {
		c.textHex = in.Options.TextColor
	}
	c.x = float64(in.Width) - 12
	c.y = float64(in.Height) - 10
	c.setShouldRender(true)
	return nil
}

func (c *WatermarkComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() {
		return nil
	}
	dc.SetFont(c.face)
	dc.SetHexColor(c.textHex)
	dc.DrawStringAnchored(c.label, c.x, c.y, 1, 0)
	return nil
}
