// Package banner implements the banner composition pipeline: eight visual
// components sharing a prepare/render contract, composed by the Renderer
// in a fixed z-order.
package banner

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gg"

	"github.com/nabondance/trailhead-banner-go/internal/domain/trailhead"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/assets"
	"github.com/nabondance/trailhead-banner-go/internal/infrastructure/observability/logging"
)

// RenderInput bundles everything a component may read during Prepare.
// Components never mutate the domain data and never touch the canvas
// during the prepare phase.
type RenderInput struct {
	Username string
	Data     *trailhead.ProfileData
	Options  trailhead.BannerOptions
	Assets   *assets.Resolver
	Fonts    *FontRegistry
	Width    int
	Height   int
	Logger   *logging.ChanneledLogger
}

// Component is the shared contract of every visual feature. Prepare is
// concurrency-safe against other components (each owns its own prepared
// state) and side-effect-free on the canvas; Render draws sequentially.
// Prepare returns an error only for hard user-input/config problems that
// make continuing meaningless; recoverable failures degrade the component
// via shouldRender=false plus a warning.
type Component interface {
	Name() string
	Prepare(ctx context.Context, in *RenderInput) error
	Render(dc *gg.Context) error
	ShouldRender() bool
	Warnings() []string
	Timings() map[string]int64
}

// prepared is the state shared by all components: the shouldRender flag,
// accumulated warnings and a timings map. Created fresh per render call,
// consumed exactly once by the matching Render.
type prepared struct {
	mu           sync.Mutex
	shouldRender bool
	warnings     []string
	timings      map[string]int64
}

func (p *prepared) ShouldRender() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.shouldRender
}

func (p *prepared) setShouldRender(v bool) {
	p.mu.Lock()
	p.shouldRender = v
	p.mu.Unlock()
}

// Warnings always returns a non-nil slice, even for degenerate state.
func (p *prepared) Warnings() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.warnings))
	copy(out, p.warnings)
	return out
}

func (p *prepared) warnf(format string, args ...any) {
	p.mu.Lock()
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
	p.mu.Unlock()
}

// Timings always returns a non-nil map.
func (p *prepared) Timings() map[string]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]int64, len(p.timings))
	for k, v := range p.timings {
		out[k] = v
	}
	return out
}

func (p *prepared) recordTiming(phase string, ms int64) {
	p.mu.Lock()
	if p.timings == nil {
		p.timings = make(map[string]int64)
	}
	p.timings[phase] = ms
	p.mu.Unlock()
}
