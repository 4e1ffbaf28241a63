package banner

import (
	"os"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// FontRegistry is the lazily-initialized font singleton. The embedded Go
// fonts are the substitution fallback when no custom font file is
// configured; a failed load leaves the registry unavailable and text
// components degrade with a warning instead of failing the banner.
type FontRegistry struct {
	regular *text.FontSource
	bold    *text.FontSource
	err     error
	once    sync.Once

	customPath string
}

var (
	globalFonts     *FontRegistry
	globalFontsOnce sync.Once
)

// Fonts returns the process-wide font registry for the given custom font
// path ("" selects the embedded Go fonts).
func Fonts(customPath string) *FontRegistry {
	globalFontsOnce.Do(func() {
		globalFonts = &FontRegistry{customPath: customPath}
	})
	return globalFonts
}

// NewFontRegistry creates an isolated registry, used by tests.
func NewFontRegistry(customPath string) *FontRegistry {
	return &FontRegistry{customPath: customPath}
}

func (f *FontRegistry) load() {
	f.once.Do(func() {
		if f.customPath != "" {
			data, err := os.ReadFile(f.customPath)
			if err == nil {
				if source, serr := text.NewFontSource(data); serr == nil {
					f.regular = source
					f.bold = source
					return
				}
			}
			// Fall back to the embedded fonts when the custom file is bad.
		}

		f.regular, f.err = text.NewFontSource(goregular.TTF)
		if f.err != nil {
			return
		}
		f.bold, f.err = text.NewFontSource(gobold.TTF)
	})
}

// IsAvailable probes whether faces can be produced.
func (f *FontRegistry) IsAvailable() bool {
	if f == nil {
		return false
	}
	f.load()
	return f.err == nil && f.regular != nil
}

// Regular returns a regular face at the given point size, or nil when the
// registry is unavailable.
func (f *FontRegistry) Regular(points float64) text.Face {
	if !f.IsAvailable() {
		return nil
	}
	return f.regular.Face(points)
}

// Bold returns a bold face at the given point size, or nil when the
// registry is unavailable.
func (f *FontRegistry) Bold(points float64) text.Face {
	if !f.IsAvailable() {
		return nil
	}
	if f.bold == nil {
		return f.regular.Face(points)
	}
	return f.bold.Face(points)
}
