package canvas

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-designer/components/ids"
	"github.com/goliatone/go-designer/components/schema"
)

func newTestEngine() *Engine {
	return NewEngine(EngineOptions{Catalog: NewRegistry(), IDs: ids.NewSequence()})
}

func order(items []ComponentInstance) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestInsertNewDefaults(t *testing.T) {
	e := newTestEngine()
	input, err := e.InsertNew("Input")
	require.NoError(t, err)
	assert.Equal(t, "cmp-1", input.ID)
	assert.Equal(t, Size{Width: FillWidth, Height: 80}, input.Size)
	assert.Empty(t, input.Props)

	area, err := e.InsertNew("TextArea")
	require.NoError(t, err)
	assert.Equal(t, 100.0, area.Size.Height)

	btn, err := e.InsertNew("Button")
	require.NoError(t, err)
	assert.Equal(t, "按钮", btn.Props["children"])

	selected, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, btn.ID, selected.ID)
	assert.Equal(t, []string{"cmp-1", "cmp-2", "cmp-3"}, order(e.Components()))
}

func TestInsertNewIDsUnique(t *testing.T) {
	e := NewEngine(EngineOptions{})
	const n = 200
	seen := map[string]struct{}{}
	for i := 0; i < n; i++ {
		inst, err := e.InsertNew("Input")
		require.NoError(t, err)
		seen[inst.ID] = struct{}{}
	}
	assert.Equal(t, n, e.Len())
	assert.Len(t, seen, n)
}

func TestInsertUnknownTypeFailsClosed(t *testing.T) {
	e := newTestEngine()
	_, err := e.InsertNew("Nope")
	assert.ErrorIs(t, err, ErrUnknownComponentType)
	assert.True(t, IsRejection(err))
	assert.Equal(t, 0, e.Len())
}

func TestInsertNewAtClamps(t *testing.T) {
	e := newTestEngine()
	a, _ := e.InsertNew("Input")
	b, _ := e.InsertNewAt("Card", 0)
	c, _ := e.InsertNewAt("Card", 99)
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, order(e.Components()))
}

// canvas list [X(h=80), Y(h=100), Z(h=80)]; drag X to after Z.
func TestDragFirstItemBelowLast(t *testing.T) {
	e := newTestEngine()
	x, _ := e.InsertNew("Input")
	y, _ := e.InsertNew("TextArea")
	z, _ := e.InsertNew("Input")

	require.True(t, e.BeginDrag(x.ID))
	layout := FlowLayout{Gap: 16}
	bounds := layout.Bounds(e.Components())
	target := e.DropIndex(bounds[2].Bottom+10, bounds)
	assert.Equal(t, 3, target)

	list, changed := e.EndDrag(target)
	assert.True(t, changed)
	assert.Equal(t, []string{y.ID, z.ID, x.ID}, order(list))
	_, dragging := e.Dragging()
	assert.False(t, dragging)
}

func TestCommitReorderAdjustsTarget(t *testing.T) {
	e := newTestEngine()
	a, _ := e.InsertNew("Input")
	b, _ := e.InsertNew("Input")
	c, _ := e.InsertNew("Input")

	list, changed := e.CommitReorder(a.ID, 2)
	assert.True(t, changed)
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, order(list))

	list, changed = e.CommitReorder(c.ID, 0)
	assert.True(t, changed)
	assert.Equal(t, []string{c.ID, b.ID, a.ID}, order(list))
}

func TestCommitReorderNoops(t *testing.T) {
	e := newTestEngine()
	a, _ := e.InsertNew("Input")
	b, _ := e.InsertNew("Input")

	list, changed := e.CommitReorder(a.ID, 0)
	assert.False(t, changed)
	assert.Equal(t, []string{a.ID, b.ID}, order(list))

	list, changed = e.CommitReorder(a.ID, 1)
	assert.False(t, changed, "slot right after itself is the same position")
	assert.Equal(t, []string{a.ID, b.ID}, order(list))

	list, changed = e.CommitReorder("missing", 0)
	assert.False(t, changed)
	assert.Equal(t, []string{a.ID, b.ID}, order(list))
}

func TestCommitReorderInverseRestoresOrder(t *testing.T) {
	for from := 0; from < 5; from++ {
		for target := 0; target <= 5; target++ {
			t.Run(fmt.Sprintf("%d_to_%d", from, target), func(t *testing.T) {
				e := newTestEngine()
				for i := 0; i < 5; i++ {
					_, err := e.InsertNew("Input")
					require.NoError(t, err)
				}
				original := order(e.Components())
				id := original[from]

				list, _ := e.CommitReorder(id, target)
				current := indexOf(order(list), id)
				back := from
				if from > current {
					back = from + 1
				}
				list, _ = e.CommitReorder(id, back)
				assert.Equal(t, original, order(list))
			})
		}
	}
}

func TestMoveToUsesFinalPosition(t *testing.T) {
	e := newTestEngine()
	a, _ := e.InsertNew("Input")
	b, _ := e.InsertNew("Input")
	c, _ := e.InsertNew("Input")
	list, changed := e.MoveTo(a.ID, 2)
	assert.True(t, changed)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, order(list))
	list, _ = e.MoveTo(a.ID, 0)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, order(list))
}

func TestDeleteItemClearsSelection(t *testing.T) {
	e := newTestEngine()
	a, _ := e.InsertNew("Input")
	b, _ := e.InsertNew("Input")
	require.True(t, e.Select(a.ID))
	require.True(t, e.BeginDrag(a.ID))

	list, changed := e.DeleteItem(a.ID)
	assert.True(t, changed)
	assert.Equal(t, []string{b.ID}, order(list))
	_, ok := e.Selected()
	assert.False(t, ok)

	// drag-end arriving after the delete is a no-op
	list, changed = e.EndDrag(0)
	assert.False(t, changed)
	assert.Equal(t, []string{b.ID}, order(list))

	_, changed = e.DeleteItem(a.ID)
	assert.False(t, changed)
}

func TestUpdatePropertyCoercesDeclaredProps(t *testing.T) {
	e := newTestEngine()
	inst, _ := e.InsertNew("Rate")

	changed, err := e.UpdateProperty(inst.ID, "count", "7")
	require.NoError(t, err)
	assert.True(t, changed)
	got, _ := e.Component(inst.ID)
	assert.Equal(t, 7.0, got.Props["count"])

	_, err = e.UpdateProperty(inst.ID, "count", "many")
	assert.ErrorIs(t, err, schema.ErrInvalidValue)
	got, _ = e.Component(inst.ID)
	assert.Equal(t, 7.0, got.Props["count"], "rejected update leaves state untouched")

	changed, err = e.UpdateProperty(inst.ID, "custom", []any{"x"})
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = e.UpdateProperty("missing", "count", 1)
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestUpdateSize(t *testing.T) {
	e := newTestEngine()
	inst, _ := e.InsertNew("Card")
	_, err := e.UpdateProperty(inst.ID, SizeProperty, map[string]any{"height": 240.0})
	require.NoError(t, err)
	got, _ := e.Component(inst.ID)
	assert.Equal(t, Size{Width: FillWidth, Height: 240}, got.Size)

	_, err = e.UpdateProperty(inst.ID, SizeProperty, Size{Width: "320", Height: 50})
	require.NoError(t, err)
	got, _ = e.Component(inst.ID)
	assert.Equal(t, Length("320"), got.Size.Width)

	_, err = e.UpdateProperty(inst.ID, SizeProperty, "small")
	require.NoError(t, err)
	got, _ = e.Component(inst.ID)
	assert.Equal(t, "small", got.Props["size"])
	assert.Equal(t, float64(50), got.Size.Height)

	divider, _ := e.InsertNew("Divider")
	_, err = e.UpdateProperty(divider.ID, SizeProperty, "big")
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestUpdateEvent(t *testing.T) {
	e := newTestEngine()
	inst, _ := e.InsertNew("Button")
	assert.True(t, e.UpdateEvent(inst.ID, "onClick", `api.message.info("hi")`))
	got, _ := e.Component(inst.ID)
	assert.Equal(t, `api.message.info("hi")`, got.Events["onClick"])
	assert.True(t, e.UpdateEvent(inst.ID, "onClick", ""))
	got, _ = e.Component(inst.ID)
	assert.Nil(t, got.Events)
	assert.False(t, e.UpdateEvent("missing", "onClick", "x"))
}

func TestSnapshotsAreIsolated(t *testing.T) {
	e := newTestEngine()
	inst, _ := e.InsertNew("Input")
	snapshot := e.Components()
	snapshot[0].Props["placeholder"] = "mutated"
	_, err := e.UpdateProperty(inst.ID, "placeholder", "live")
	require.NoError(t, err)
	assert.Equal(t, "mutated", snapshot[0].Props["placeholder"])
	got, _ := e.Component(inst.ID)
	assert.Equal(t, "live", got.Props["placeholder"])
}

func TestSetComponentsRejectsDuplicates(t *testing.T) {
	e := newTestEngine()
	existing, _ := e.InsertNew("Input")
	err := e.SetComponents([]ComponentInstance{{ID: "a", Type: "Input"}, {ID: "a", Type: "Card"}})
	assert.ErrorIs(t, err, ErrDuplicateComponentID)
	assert.Equal(t, []string{existing.ID}, order(e.Components()))
	assert.ErrorIs(t, e.SetComponents([]ComponentInstance{{Type: "Input"}}), ErrMissingComponentID)
}

func TestSetComponentsRoundTrip(t *testing.T) {
	e := newTestEngine()
	_, _ = e.InsertNew("Input")
	_, _ = e.InsertNew("Table")
	saved := e.Components()

	other := newTestEngine()
	require.NoError(t, other.SetComponents(saved))
	assert.Equal(t, saved, other.Components())
	_, ok := other.Selected()
	assert.False(t, ok)
}

func TestPreviewRestoresDesign(t *testing.T) {
	e := newTestEngine()
	a, _ := e.InsertNew("Input")
	require.True(t, e.EnterPreview())
	assert.False(t, e.EnterPreview())
	_, err := e.UpdateProperty(a.ID, "placeholder", "typed in preview")
	require.NoError(t, err)
	_, _ = e.InsertNew("Card")
	require.True(t, e.ExitPreview())
	list := e.Components()
	assert.Equal(t, []string{a.ID}, order(list))
	assert.Empty(t, list[0].Props)
	assert.False(t, e.Previewing())
}

func indexOf(list []string, id string) int {
	for i, v := range list {
		if v == id {
			return i
		}
	}
	return -1
}

func TestSetComponentsRejectsUnknownType(t *testing.T) {
	e := newTestEngine()
	err := e.SetComponents([]ComponentInstance{{ID: "a", Type: "Input"}, {ID: "b", Type: "Hologram"}})
	assert.ErrorIs(t, err, ErrUnknownComponentType)
	assert.Empty(t, e.Components())
}
