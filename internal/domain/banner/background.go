package banner

import (
	"context"
	"image"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gogpu/gg"

	"github.com/nabondance/trailhead-banner-go/internal/domain/bannererrors"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// gradientLibrary is the built-in background set selectable by name.
var gradientLibrary = map[string][2]string{
	"dusk":     {"#0b1026", "#4b3f72"},
	"ocean":    {"#032d60", "#0d9dda"},
	"sunrise":  {"#ff8f6b", "#ffd66b"},
	"forest":   {"#0b3d2e", "#2e8b57"},
	"mountain": {"#2c3e50", "#95a5a6"},
}

// BackgroundComponent paints the canvas base layer: a user image, a
// library gradient, or a solid color (in that priority order).
type BackgroundComponent struct {
	prepared

	width  int
	height int

	img      image.Image
	gradient *[2]string
	color    string
}

// NewBackgroundComponent creates the background component.
func NewBackgroundComponent() *BackgroundComponent {
	return &BackgroundComponent{}
}

func (c *BackgroundComponent) Name() string { return "background" }

// Prepare resolves the background source. An unsupported custom image type
// is a hard user-input error: it reflects bad input, not transient infra
// failure, so it surfaces to the caller before any canvas work.
func (c *BackgroundComponent) Prepare(ctx context.Context, in *RenderInput) error {
	start := time.Now()
	defer func() { c.recordTiming("prepare_ms", time.Since(start).Milliseconds()) }()

	c.width, c.height = in.Width, in.Height
	c.color = "#032d60"
	c.setShouldRender(true)

	opts := in.Options

	if opts.BackgroundImageURL != "" {
		if err := validateBackgroundType(opts.BackgroundImageURL); err != nil {
			return err
		}
		img, err := in.Assets.ResolveImage(ctx, opts.BackgroundImageURL, assets.TierBackgrounds)
		if err != nil {
			c.warnf("background image unavailable, falling back to color: %v", err)
		} else {
			// Cover-scale during prepare so render stays a plain draw.
			c.img = imaging.Fill(img, in.Width, in.Height, imaging.Center, imaging.Lanczos)
			return nil
		}
	}

	if opts.BackgroundLibrary != "" {
		if stops, ok := gradientLibrary[strings.ToLower(opts.BackgroundLibrary)]; ok {
			c.gradient = &stops
			return nil
		}
		c.warnf("unknown background library %q, falling back to color", opts.BackgroundLibrary)
	}

	if opts.BackgroundColor != "" {
		if hexColorPattern.MatchString(opts.BackgroundColor) {
			c.color = opts.BackgroundColor
		} else {
			c.warnf("invalid background color %q, using default", opts.BackgroundColor)
		}
	}
	return nil
}

// validateBackgroundType rejects custom background URLs that are not
// png or jpeg.
func validateBackgroundType(reference string) error {
	ext := strings.ToLower(path.Ext(strings.SplitN(reference, "?", 2)[0]))
	switch ext {
	case ".png", ".jpg", ".jpeg":
		return nil
	default:
		return bannererrors.UserInput("banner.background",
			"unsupported background image type "+ext+" (png and jpeg only)")
	}
}

func (c *BackgroundComponent) Render(dc *gg.Context) error {
	if !c.ShouldRender() {
		return nil
	}

	switch {
	case c.img != nil:
		dc.DrawImage(gg.ImageBufFromImage(c.img), 0, 0)
	case c.gradient != nil:
		brush := gg.NewLinearGradientBrush(0, 0, float64(c.width), float64(c.height)).
			AddColorStop(0, gg.Hex(c.gradient[0])).
			AddColorStop(1, gg.Hex(c.gradient[1]))
		dc.SetFillBrush(brush)
		dc.DrawRectangle(0, 0, float64(c.width), float64(c.height))
		if err := dc.Fill(); err != nil {
			return err
		}
	default:
		dc.SetHexColor(c.color)
		dc.DrawRectangle(0, 0, float64(c.width), float64(c.height))
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	return nil
}
