package chartjs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/chart"
	"finboard/internal/view"
)

func TestRenderEmbedsConfig(t *testing.T) {
	doc, err := view.ParseString(`<html><body><div id="categoryChart"></div></body></html>`)
	require.NoError(t, err)

	b := chart.NewBinder(doc, New(), nil)
	b.RenderCategoryChart([]string{"Food", "Rent"}, []any{"12.5", 30})

	slot, ok := doc.ResolveSlot(chart.SlotCategory)
	require.True(t, ok)
	canvases := slot.Children()
	require.Len(t, canvases, 1)
	assert.Equal(t, "canvas", canvases[0].Tag())

	kind, _ := canvases[0].Attr("data-chart-type")
	assert.Equal(t, "pie", kind)

	raw, ok := canvases[0].Attr(ConfigAttr)
	require.True(t, ok)
	var cfg map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &cfg))
	data := cfg["data"].(map[string]any)
	assert.Equal(t, []any{"Food", "Rent"}, data["labels"])
	ds := data["datasets"].([]any)[0].(map[string]any)
	assert.Equal(t, []any{12.5, 30.0}, ds["data"])
}

func TestRenderNilTarget(t *testing.T) {
	err := New().Render(nil, chart.PieConfig([]string{"A"}, []float64{1}))
	assert.Error(t, err)
}
