package chart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"finboard/internal/core"
	"finboard/internal/view"
)

type call struct {
	slot string
	cfg  Config
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) Render(target *view.Element, cfg Config) error {
	r.calls = append(r.calls, call{slot: target.ID(), cfg: cfg})
	return r.err
}

const dashboardView = `<html><body>
<div id="categoryChart"></div>
<div id="incomeCategoryChart"></div>
<div id="monthlyChart"></div>
</body></html>`

func newView(t *testing.T, markup string) *view.Document {
	t.Helper()
	doc, err := view.ParseString(markup)
	if err != nil {
		t.Fatalf("parse view: %v", err)
	}
	return doc
}

func TestPieGuards(t *testing.T) {
	cases := []struct {
		name   string
		labels []string
		values []any
		calls  int
	}{
		{"empty labels", []string{}, []any{1, 2}, 0},
		{"nil labels", nil, []any{1}, 0},
		{"zero sum", []string{"A", "B"}, []any{0, "0"}, 0},
		{"unparseable values sum to zero", []string{"A"}, []any{"x"}, 0},
		{"single numeric string", []string{"A"}, []any{"5"}, 1},
		{"negative and positive cancel", []string{"A", "B"}, []any{5, -5}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			b := NewBinder(newView(t, dashboardView), rec, nil)
			b.RenderCategoryChart(tc.labels, tc.values)
			if len(rec.calls) != tc.calls {
				t.Fatalf("expected %d render calls, got %d", tc.calls, len(rec.calls))
			}
		})
	}
}

func TestPieConfiguration(t *testing.T) {
	rec := &recorder{}
	b := NewBinder(newView(t, dashboardView), rec, nil)
	b.RenderCategoryChart([]string{"A"}, []any{"5"})

	if len(rec.calls) != 1 {
		t.Fatalf("expected one call, got %d", len(rec.calls))
	}
	got := rec.calls[0]
	if got.slot != SlotCategory {
		t.Fatalf("rendered into %q", got.slot)
	}
	cfg := got.cfg
	if cfg.Type != TypePie || len(cfg.Data.Datasets) != 1 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if d := cfg.Data.Datasets[0].Data; len(d) != 1 || d[0] != 5 {
		t.Fatalf("expected normalized [5], got %v", d)
	}
	if !cfg.Options.Responsive || cfg.Options.MaintainAspectRatio {
		t.Fatalf("unexpected sizing options %+v", cfg.Options)
	}
	if cfg.Options.Plugins.Legend.Position != LegendBottom {
		t.Fatalf("legend should be below the plot")
	}
	if cfg.Options.Scales != nil {
		t.Fatalf("pie should not carry scales")
	}
}

func TestIncomeCategoryUsesOwnSlot(t *testing.T) {
	rec := &recorder{}
	b := NewBinder(newView(t, dashboardView), rec, nil)
	b.RenderIncomeCategoryChart([]string{"Salary", "Bonus"}, []any{1000, "250.5"})
	if len(rec.calls) != 1 || rec.calls[0].slot != SlotIncomeCategory {
		t.Fatalf("unexpected calls %+v", rec.calls)
	}
	if d := rec.calls[0].cfg.Data.Datasets[0].Data; d[1] != 250.5 {
		t.Fatalf("unexpected data %v", d)
	}
}

func TestMonthlyRendersZeroValues(t *testing.T) {
	rec := &recorder{}
	b := NewBinder(newView(t, dashboardView), rec, nil)
	b.RenderMonthlyChart([]string{"Jan"}, []any{0}, []any{0})
	if len(rec.calls) != 1 {
		t.Fatalf("zero months must still render, got %d calls", len(rec.calls))
	}
	cfg := rec.calls[0].cfg
	if cfg.Type != TypeBar || len(cfg.Data.Datasets) != 2 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Data.Datasets[0].Label != LabelIncome || cfg.Data.Datasets[1].Label != LabelExpense {
		t.Fatalf("unexpected dataset labels")
	}
	if cfg.Options.Scales == nil || !cfg.Options.Scales.Y.BeginAtZero {
		t.Fatalf("y axis must begin at zero")
	}
}

func TestMonthlyNormalizesIndependently(t *testing.T) {
	rec := &recorder{}
	b := NewBinder(newView(t, dashboardView), rec, nil)
	b.RenderMonthlyChart([]string{"2025-01", "2025-02"}, []any{"10", nil}, []any{"bad", 7.5, 3})
	cfg := rec.calls[0].cfg
	if in := cfg.Data.Datasets[0].Data; len(in) != 2 || in[0] != 10 || in[1] != 0 {
		t.Fatalf("unexpected income %v", in)
	}
	if ex := cfg.Data.Datasets[1].Data; len(ex) != 3 || ex[0] != 0 || ex[1] != 7.5 {
		t.Fatalf("mismatched lengths are passed through untouched, got %v", ex)
	}
}

func TestMonthlyGuards(t *testing.T) {
	rec := &recorder{}
	b := NewBinder(newView(t, dashboardView), rec, nil)
	b.RenderMonthlyChart(nil, []any{1}, []any{1})
	b.RenderMonthlyChart([]string{}, nil, nil)
	if len(rec.calls) != 0 {
		t.Fatalf("empty months must not render")
	}
}

func TestMissingSlotIsNoOp(t *testing.T) {
	rec := &recorder{}
	b := NewBinder(newView(t, `<html><body><div id="other"></div></body></html>`), rec, nil)
	b.RenderCategoryChart([]string{"A"}, []any{1})
	b.RenderIncomeCategoryChart([]string{"A"}, []any{1})
	b.RenderMonthlyChart([]string{"Jan"}, []any{1}, []any{1})
	b.Dispose(SlotMonthly)
	if len(rec.calls) != 0 {
		t.Fatalf("no slot, no render; got %d calls", len(rec.calls))
	}
}

func TestRendererErrorIsSwallowed(t *testing.T) {
	rec := &recorder{err: errors.New("canvas lost")}
	b := NewBinder(newView(t, dashboardView), rec, nil)
	b.RenderCategoryChart([]string{"A"}, []any{1})
	if len(rec.calls) != 1 {
		t.Fatalf("renderer should have been invoked once")
	}
}

func TestNilCollaborators(t *testing.T) {
	b := NewBinder(nil, nil, nil)
	b.RenderCategoryChart([]string{"A"}, []any{1})
	b.RenderMonthlyChart([]string{"Jan"}, []any{1}, []any{1})

	b = NewBinder(newView(t, dashboardView), nil, nil)
	b.RenderCategoryChart([]string{"A"}, []any{1})
}

func TestRenderDashboardAndDispose(t *testing.T) {
	doc := newView(t, dashboardView)
	var count int
	r := RendererFunc(func(target *view.Element, cfg Config) error {
		count++
		target.Append("canvas")
		return nil
	})
	b := NewBinder(doc, r, nil)
	d := core.Dashboard{
		Categories:       core.Series{Labels: []string{"Food"}, Values: []any{12}},
		IncomeCategories: core.Series{Labels: []string{"Salary"}, Values: []any{0}},
		Monthly:          core.MonthlySeries{Months: []string{"Jan"}, Income: []any{0}, Expense: []any{0}},
	}
	b.RenderDashboard(d)
	if count != 2 {
		t.Fatalf("expected category and monthly renders, got %d", count)
	}

	b.RenderDashboard(d)
	slot, _ := doc.ResolveSlot(SlotCategory)
	if len(slot.Children()) != 2 {
		t.Fatalf("second render without dispose should stack drawings")
	}
	b.Dispose(SlotCategory)
	if len(slot.Children()) != 0 {
		t.Fatalf("dispose should clear the slot")
	}
}

func TestConfigJSON(t *testing.T) {
	raw, err := BarConfig([]string{"Jan"}, []float64{1}, []float64{2}).JSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(raw)
	for _, want := range []string{
		`"type":"bar"`,
		`"backgroundColor":"#36a2eb"`,
		`"maintainAspectRatio":false`,
		`"legend":{"position":"bottom"}`,
		`"scales":{"y":{"beginAtZero":true}}`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}

	var decoded map[string]any
	pie, _ := PieConfig([]string{"A", "B"}, []float64{1, 2}).JSON()
	if err := json.Unmarshal(pie, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	ds := decoded["data"].(map[string]any)["datasets"].([]any)[0].(map[string]any)
	if colors, ok := ds["backgroundColor"].([]any); !ok || len(colors) != 2 {
		t.Fatalf("pie colours should be a per-slice array, got %v", ds["backgroundColor"])
	}
	if _, ok := decoded["options"].(map[string]any)["scales"]; ok {
		t.Fatalf("pie should omit scales")
	}
}

func TestPaletteCycles(t *testing.T) {
	p := Palette(8)
	if len(p) != 8 || p[6] != p[0] || p[7] != p[1] {
		t.Fatalf("palette should cycle, got %v", p)
	}
}
