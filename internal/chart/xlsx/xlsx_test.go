package xlsx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"finboard/internal/chart"
	"finboard/internal/core"
	"finboard/internal/view"
)

const slots = `<html><body>
<div id="categoryChart"></div>
<div id="incomeCategoryChart"></div>
<div id="monthlyChart"></div>
</body></html>`

func TestWorkbookFromDashboard(t *testing.T) {
	doc, err := view.ParseString(slots)
	require.NoError(t, err)

	wb := NewWorkbook()
	defer wb.Close()

	chart.NewBinder(doc, wb, nil).RenderDashboard(core.Dashboard{
		Categories:       core.Series{Labels: []string{"Food", "Rent"}, Values: []any{"12.5", 30}},
		IncomeCategories: core.Series{Labels: []string{"Salary"}, Values: []any{0}},
		Monthly:          core.MonthlySeries{Months: []string{"Jan", "Feb"}, Income: []any{100, "x"}, Expense: []any{40}},
	})

	// zero-sum income pie is skipped
	assert.Equal(t, []string{chart.SlotCategory, chart.SlotMonthly}, wb.Sheets())

	var buf bytes.Buffer
	_, err = wb.WriteTo(&buf)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{chart.SlotCategory, chart.SlotMonthly}, f.GetSheetList())

	v, err := f.GetCellValue(chart.SlotCategory, "B2")
	require.NoError(t, err)
	assert.Equal(t, "12.5", v)

	header, err := f.GetCellValue(chart.SlotMonthly, "C1")
	require.NoError(t, err)
	assert.Equal(t, chart.LabelExpense, header)

	missing, err := f.GetCellValue(chart.SlotMonthly, "C3")
	require.NoError(t, err)
	assert.Equal(t, "0", missing)

	width, err := f.GetColWidth(chart.SlotCategory, "A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, width)
}

func TestRenderMarksSlot(t *testing.T) {
	doc, err := view.ParseString(slots)
	require.NoError(t, err)
	slot, ok := doc.ResolveSlot(chart.SlotCategory)
	require.True(t, ok)

	wb := NewWorkbook()
	defer wb.Close()
	require.NoError(t, wb.Render(slot, chart.PieConfig([]string{"A"}, []float64{1})))

	children := slot.Children()
	require.Len(t, children, 1)
	sheet, _ := children[0].Attr("data-sheet")
	assert.Equal(t, chart.SlotCategory, sheet)
}

func TestRenderNilTarget(t *testing.T) {
	wb := NewWorkbook()
	defer wb.Close()
	assert.Error(t, wb.Render(nil, chart.PieConfig([]string{"A"}, []float64{1})))
}
