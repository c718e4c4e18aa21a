package canvas

import (
	"math"
	"strconv"
)

// ItemBounds is the rendered vertical extent of one list item.
type ItemBounds struct {
	ID     string  `json:"id"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Mid returns the vertical midpoint.
func (b ItemBounds) Mid() float64 { return (b.Top + b.Bottom) / 2 }

// ComputeDropIndex returns the list index a dragged item should be inserted at
// when released at pointerY. bounds follow list order; the item with excludeID
// (the drag source) is skipped but still counts toward indices. The result is
// the index of the nearest item whose midpoint lies below the pointer, or
// len(bounds) when the pointer is below every midpoint.
func ComputeDropIndex(pointerY float64, excludeID string, bounds []ItemBounds) int {
	best := len(bounds)
	bestDist := math.Inf(1)
	for i, b := range bounds {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		mid := b.Mid()
		if mid <= pointerY {
			continue
		}
		if d := mid - pointerY; d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// FlowLayout derives item bounds from the implicit vertical stacking layout.
type FlowLayout struct {
	Top float64 `json:"top"`
	Gap float64 `json:"gap"`
}

// Bounds stacks items top to bottom using Size.Height.
func (l FlowLayout) Bounds(items []ComponentInstance) []ItemBounds {
	out := make([]ItemBounds, len(items))
	y := l.Top
	for i, item := range items {
		out[i] = ItemBounds{ID: item.ID, Top: y, Bottom: y + item.Size.Height}
		y = out[i].Bottom + l.Gap
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
