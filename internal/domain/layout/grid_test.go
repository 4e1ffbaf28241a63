package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGridFitsAvailableHeight(t *testing.T) {
	tests := []struct {
		name            string
		itemCount       int
		availableWidth  float64
		availableHeight float64
	}{
		{"single item", 1, 1584, 300},
		{"one full line", 15, 1584, 300},
		{"two lines", 25, 1584, 300},
		{"tight height forces downscale", 40, 800, 150},
		{"very tight", 100, 400, 120},
		{"narrow column", 10, 90, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ComputeGrid(tt.itemCount, DefaultCertLogoBox, tt.availableWidth, tt.availableHeight, 5)

			require.GreaterOrEqual(t, g.NumLines, 1)
			assert.LessOrEqual(t, g.Scale, 1.0)
			totalHeight := float64(g.NumLines)*(g.LogoHeight+5) - 5
			assert.LessOrEqual(t, totalHeight, tt.availableHeight,
				"grid height must never exceed available height")

			// Uniform scale: width and height shrink together.
			assert.Equal(t, g.LogoWidth, g.LogoHeight)

			// Every line fits the available width.
			for line := 0; line < g.NumLines; line++ {
				count := g.ItemsOnLine(line, tt.itemCount)
				require.Greater(t, count, 0)
				lineWidth := float64(count)*(g.LogoWidth+5) - 5
				assert.LessOrEqual(t, g.PerLineStartX[line]+lineWidth, tt.availableWidth+1e-9)
			}
		})
	}
}

func TestComputeGridTwentyFiveItems(t *testing.T) {
	// 25 certifications in a 1584x300 area with 5px spacing pack into two
	// lines, each centered on its own item count.
	g := ComputeGrid(25, DefaultCertLogoBox, 1584, 300, 5)

	require.Equal(t, 2, g.NumLines)
	assert.Equal(t, 15, g.MaxLogosPerLine)
	assert.Equal(t, 15, g.ItemsOnLine(0, 25))
	assert.Equal(t, 10, g.ItemsOnLine(1, 25))
	require.Len(t, g.PerLineStartX, 2)

	// The partial second line centers using only its own 10 items, so it
	// starts further right than the full first line.
	assert.Greater(t, g.PerLineStartX[1], g.PerLineStartX[0])

	firstLineWidth := 15*(g.LogoWidth+5) - 5
	assert.InDelta(t, (1584-firstLineWidth)/2, g.PerLineStartX[0], 1e-9)
	secondLineWidth := 10*(g.LogoWidth+5) - 5
	assert.InDelta(t, (1584-secondLineWidth)/2, g.PerLineStartX[1], 1e-9)
}

func TestComputeGridDegenerateInput(t *testing.T) {
	assert.Equal(t, 0, ComputeGrid(0, 100, 1584, 300, 5).NumLines)
	assert.Equal(t, 0, ComputeGrid(-3, 100, 1584, 300, 5).NumLines)
	assert.Equal(t, 0, ComputeGrid(10, 100, 0, 300, 5).NumLines)
	assert.Equal(t, 0, ComputeGrid(10, 100, 1584, -1, 5).NumLines)
}

func TestComputeGridZeroBoxUsesDefault(t *testing.T) {
	g := ComputeGrid(5, 0, 1584, 300, 5)
	assert.Equal(t, DefaultCertLogoBox, g.LogoWidth)
}

func TestItemsOnLineOutOfRange(t *testing.T) {
	g := ComputeGrid(25, 100, 1584, 300, 5)
	assert.Equal(t, 0, g.ItemsOnLine(-1, 25))
	assert.Equal(t, 0, g.ItemsOnLine(g.NumLines, 25))
}
