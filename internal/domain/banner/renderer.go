package banner

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/chai2010/webp"
	"github.com/gogpu/gg"
	"golang.org/x/sync/errgroup"

	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/performance"
)

// Renderer composes a banner out of the component set. Prepares run
// concurrently, renders run sequentially in fixed z-order so later
// components always paint over earlier ones.
type Renderer struct {
	width  int
	height int
	assets *assets.Resolver
	fonts  *FontRegistry
	logger *logging.ChanneledLogger
}

// NewRenderer creates a renderer for a fixed canvas size.
func NewRenderer(width, height int, resolver *assets.Resolver, fonts *FontRegistry, logger *logging.ChanneledLogger) *Renderer {
	return &Renderer{
		width:  width,
		height: height,
		assets: resolver,
		fonts:  fonts,
		logger: logger,
	}
}

// components builds a fresh component set in z-order: background first,
// watermark last. Fresh instances per call keep renders independent.
func (r *Renderer) components() []Component {
	rankLogo := NewRankLogoComponent()
	return []Component{
		NewBackgroundComponent(),
		rankLogo,
		NewCountersComponent(rankLogo),
		NewAgentblazerComponent(),
		NewCertificationsComponent(),
		NewSuperbadgesComponent(),
		NewMvpComponent(rankLogo),
		NewWatermarkComponent(),
	}
}

// Render prepares all components in parallel, paints them in z-order and
// encodes the canvas. A component Prepare error aborts the whole render;
// anything recoverable surfaces as warnings on a successful result.
func (r *Renderer) Render(ctx context.Context, username string, data *trailhead.ProfileData, opts trailhead.BannerOptions) (*trailhead.RenderResult, error) {
	marker := performance.StartMarker("banner_render", username)
	total := time.Now()

	in := &RenderInput{
		Username: username,
		Data:     data,
		Options:  opts,
		Assets:   r.assets,
		Fonts:    r.fonts,
		Width:    r.width,
		Height:   r.height,
		Logger:   r.logger,
	}
	comps := r.components()

	prepStart := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, comp := range comps {
		g.Go(func() error {
			if err := comp.Prepare(gctx, in); err != nil {
				return fmt.Errorf("prepare %s: %w", comp.Name(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		marker.SetError(err)
		marker.Complete()
		return nil, err
	}
	prepareMs := time.Since(prepStart).Milliseconds()

	dc := gg.NewContext(r.width, r.height)
	renderStart := time.Now()
	componentTimings := make(map[string]map[string]int64, len(comps))
	var warnings []string
	for _, comp := range comps {
		compStart := time.Now()
		if err := comp.Render(dc); err != nil {
			marker.SetError(err)
			marker.Complete()
			return nil, fmt.Errorf("render %s: %w", comp.Name(), err)
		}
		timings := comp.Timings()
		timings["render_ms"] = time.Since(compStart).Milliseconds()
		componentTimings[comp.Name()] = timings
		warnings = append(warnings, comp.Warnings()...)
	}
	renderMs := time.Since(renderStart).Milliseconds()

	encodeStart := time.Now()
	encoded, mime, err := r.encode(dc, opts.OutputFormat)
	if err != nil {
		marker.SetError(err)
		marker.Complete()
		return nil, err
	}
	encodeMs := time.Since(encodeStart).Milliseconds()

	sum := sha256.Sum256(encoded)
	result := &trailhead.RenderResult{
		ImageURL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(encoded),
		Warnings: warnings,
		Hash:     hex.EncodeToString(sum[:]),
		Timings: trailhead.RenderTimings{
			PrepareMs:  prepareMs,
			RenderMs:   renderMs,
			EncodeMs:   encodeMs,
			TotalMs:    time.Since(total).Milliseconds(),
			Components: componentTimings,
		},
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}

	marker.AddMetadata("warnings", len(result.Warnings))
	marker.AddMetadata("format", opts.OutputFormat)
	marker.Complete()
	if r.logger != nil {
		r.logger.Perf().Debug("banner render complete",
			"username", username,
			"totalMs", marker.Ms(),
			"warnings", len(result.Warnings))
	}
	return result, nil
}

func (r *Renderer) encode(dc *gg.Context, format string) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case "webp":
		if err := webp.Encode(&buf, dc.Image(), &webp.Options{Lossless: true}); err != nil {
			return nil, "", fmt.Errorf("encode webp: %w", err)
		}
		return buf.Bytes(), "image/webp", nil
	default:
		if err := dc.EncodePNG(&buf); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
}
