// Package layout holds the pure geometry functions behind the banner:
// grid packing for certification logos and row compression for superbadges.
// No I/O, no canvas access.
package layout

import "math"

// DefaultCertLogoBox is the unscaled square box size for certification logos.
const DefaultCertLogoBox = 100.0

// gridScaleStep is the uniform shrink factor applied per iteration until the
// grid fits the available height.
const gridScaleStep = 0.9

// Grid describes a packed logo grid. Scale is uniform across all items.
type Grid struct {
	LogoWidth       float64
	LogoHeight      float64
	Scale           float64
	NumLines        int
	MaxLogosPerLine int
	// PerLineStartX holds the starting X offset of every line, relative to
	// the available area origin. Each line is centered independently, so the
	// last (possibly partial) line centers on its own item count.
	PerLineStartX []float64
}

// ComputeGrid packs itemCount equal-size square boxes into the available
// area. It starts at scale 1.0 and multiplies by 0.9 until the total height
// fits; the scale strictly decreases each iteration, so the search always
// terminates. Total rendered area never exceeds the available bounds.
func ComputeGrid(itemCount int, boxWidth, availableWidth, availableHeight, spacing float64) Grid {
	if itemCount <= 0 || availableWidth <= 0 || availableHeight <= 0 {
		return Grid{Scale: 1.0}
	}
	if boxWidth <= 0 {
		boxWidth = DefaultCertLogoBox
	}

	scale := 1.0
	var logoSize float64
	var perLine, numLines int

	for {
		logoSize = boxWidth * scale
		perLine = int((availableWidth + spacing) / (logoSize + spacing))
		if perLine < 1 {
			perLine = 1
		}
		numLines = (itemCount + perLine - 1) / perLine

		totalHeight := float64(numLines)*(logoSize+spacing) - spacing
		if totalHeight <= availableHeight {
			break
		}
		scale *= gridScaleStep
	}

	startX := make([]float64, numLines)
	for line := 0; line < numLines; line++ {
		count := perLine
		if line == numLines-1 {
			count = itemCount - perLine*(numLines-1)
		}
		lineWidth := float64(count)*(logoSize+spacing) - spacing
		startX[line] = math.Max(0, (availableWidth-lineWidth)/2)
	}

	return Grid{
		LogoWidth:       logoSize,
		LogoHeight:      logoSize,
		Scale:           scale,
		NumLines:        numLines,
		MaxLogosPerLine: perLine,
		PerLineStartX:   startX,
	}
}

// ItemsOnLine returns how many items the given zero-based line holds.
func (g Grid) ItemsOnLine(line, itemCount int) int {
	if line < 0 || line >= g.NumLines {
		return 0
	}
	if line == g.NumLines-1 {
		return itemCount - g.MaxLogosPerLine*(g.NumLines-1)
	}
	return g.MaxLogosPerLine
}
