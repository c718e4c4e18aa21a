package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeDropIndexEmpty(t *testing.T) {
	assert.Equal(t, 0, ComputeDropIndex(0, "", nil))
	assert.Equal(t, 0, ComputeDropIndex(500, "x", []ItemBounds{}))
}

func TestComputeDropIndex(t *testing.T) {
	bounds := []ItemBounds{
		{ID: "a", Top: 0, Bottom: 80},    // mid 40
		{ID: "b", Top: 96, Bottom: 196},  // mid 146
		{ID: "c", Top: 212, Bottom: 292}, // mid 252
	}
	cases := []struct {
		name    string
		pointer float64
		exclude string
		want    int
	}{
		{"above everything", -10, "", 0},
		{"upper half of first", 30, "", 0},
		{"lower half of first", 50, "", 1},
		{"between b and c", 200, "", 2},
		{"below everything", 400, "", 3},
		{"skips dragged item", 30, "a", 1},
		{"exactly on midpoint goes after", 146, "", 2},
		{"dragged last item still counts", 260, "c", 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComputeDropIndex(tc.pointer, tc.exclude, bounds))
		})
	}
}

func TestComputeDropIndexTieBreaksByDistance(t *testing.T) {
	// out-of-order bounds (e.g. mid-animation) pick the nearest midpoint below the pointer
	bounds := []ItemBounds{
		{ID: "a", Top: 300, Bottom: 400},
		{ID: "b", Top: 100, Bottom: 200},
	}
	assert.Equal(t, 1, ComputeDropIndex(120, "", bounds))
}

func TestFlowLayoutBounds(t *testing.T) {
	items := []ComponentInstance{
		{ID: "x", Size: Size{Height: 80}},
		{ID: "y", Size: Size{Height: 100}},
	}
	got := FlowLayout{Top: 10, Gap: 8}.Bounds(items)
	assert.Equal(t, []ItemBounds{
		{ID: "x", Top: 10, Bottom: 90},
		{ID: "y", Top: 98, Bottom: 198},
	}, got)
}

func TestLayoutDropIndexExcludesDragSource(t *testing.T) {
	e := newTestEngine()
	x, _ := e.InsertNew("Input")
	_, _ = e.InsertNew("Input")
	e.BeginDrag(x.ID)
	// pointer inside x's upper half would normally target 0
	assert.Equal(t, 1, e.LayoutDropIndex(10, FlowLayout{}))
	e.CancelDrag()
	assert.Equal(t, 0, e.LayoutDropIndex(10, FlowLayout{}))
}
