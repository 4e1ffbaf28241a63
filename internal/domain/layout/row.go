package layout

// DefaultRowSpacing is the spacing between superbadge logos before any
// compression kicks in.
const DefaultRowSpacing = 10.0

// Alignment selects where a non-compressed row starts inside the available
// width.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment maps a user-supplied string to an Alignment, defaulting to
// center for anything unrecognized.
func ParseAlignment(s string) Alignment {
	switch Alignment(s) {
	case AlignLeft, AlignCenter, AlignRight:
		return Alignment(s)
	default:
		return AlignCenter
	}
}

// Row describes a single row of fixed-size logos. Spacing may be negative,
// which produces deliberate visual overlap when the row had to be
// compressed to fit.
type Row struct {
	Spacing    float64
	StartX     float64
	Compressed bool
}

// ComputeRow lays out itemCount fixed-size logos inside availableWidth.
// If the row overflows at the default spacing, spacing is reduced (possibly
// below zero) so the row exactly fits, and the row starts at the left edge
// regardless of the requested alignment.
func ComputeRow(itemCount int, logoSize, availableWidth float64, alignment Alignment) Row {
	if itemCount <= 0 {
		return Row{Spacing: DefaultRowSpacing}
	}

	totalWidth := float64(itemCount)*logoSize + float64(itemCount-1)*DefaultRowSpacing
	if totalWidth > availableWidth {
		spacing := DefaultRowSpacing
		if itemCount > 1 {
			spacing = (availableWidth - float64(itemCount)*logoSize) / float64(itemCount-1)
		}
		return Row{Spacing: spacing, StartX: 0, Compressed: true}
	}

	var startX float64
	switch alignment {
	case AlignLeft:
		startX = 0
	case AlignRight:
		startX = availableWidth - totalWidth
	default:
		startX = (availableWidth - totalWidth) / 2
	}
	return Row{Spacing: DefaultRowSpacing, StartX: startX}
}
