// Package chart decides whether a dashboard chart should be drawn and hands
// a fixed configuration to a rendering capability.
//
// Every guard failure is a silent no-op: a view missing one chart slot, or a
// series with nothing to show, must not break the rest of the page.
package chart

import (
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/view"
)

// View resolves named target slots in the current page.
type View interface {
	ResolveSlot(id string) (*view.Element, bool)
}

// Renderer draws a configuration onto a resolved slot.
type Renderer interface {
	Render(target *view.Element, cfg Config) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(target *view.Element, cfg Config) error

func (f RendererFunc) Render(target *view.Element, cfg Config) error {
	return f(target, cfg)
}

// Binder connects normalized series to slots of one view.
//
// Render calls are one-shot constructions: rendering into a slot twice
// without Dispose stacks drawings. Keeping slots clean is the caller's job.
type Binder struct {
	view     View
	renderer Renderer
	logger   *log.Logger
}

// NewBinder creates a binder. A nil logger discards output.
func NewBinder(v View, r Renderer, logger *log.Logger) *Binder {
	if logger == nil {
		logger = log.Discard()
	}
	return &Binder{view: v, renderer: r, logger: logger.WithComponent(log.ComponentChart)}
}

// RenderCategoryChart draws the expense-by-category pie.
func (b *Binder) RenderCategoryChart(labels []string, values []any) {
	b.renderPie(SlotCategory, labels, values)
}

// RenderIncomeCategoryChart draws the income-by-category pie.
func (b *Binder) RenderIncomeCategoryChart(labels []string, values []any) {
	b.renderPie(SlotIncomeCategory, labels, values)
}

// RenderMonthlyChart draws income against expense per month. Unlike the
// pies, an all-zero month set still renders.
func (b *Binder) RenderMonthlyChart(months []string, incomeVals, expenseVals []any) {
	if len(months) == 0 {
		return
	}
	target, ok := b.resolve(SlotMonthly)
	if !ok {
		return
	}
	cfg := BarConfig(months, core.Normalize(incomeVals), core.Normalize(expenseVals))
	b.draw(target, SlotMonthly, cfg)
}

// RenderDashboard invokes the three renderers independently.
func (b *Binder) RenderDashboard(d core.Dashboard) {
	b.RenderCategoryChart(d.Categories.Labels, d.Categories.Values)
	b.RenderIncomeCategoryChart(d.IncomeCategories.Labels, d.IncomeCategories.Values)
	b.RenderMonthlyChart(d.Monthly.Months, d.Monthly.Income, d.Monthly.Expense)
}

// Dispose removes whatever a previous render left in the slot.
func (b *Binder) Dispose(slotID string) {
	target, ok := b.resolve(slotID)
	if !ok {
		return
	}
	target.Clear()
	b.logger.Debug("chart disposed", log.FieldSlot, slotID, log.FieldOperation, log.OpDispose)
}

func (b *Binder) renderPie(slotID string, labels []string, values []any) {
	if len(labels) == 0 {
		return
	}
	target, ok := b.resolve(slotID)
	if !ok {
		return
	}
	normalized := core.Normalize(values)
	if core.Sum(normalized) == 0 {
		b.logger.Debug("pie skipped, values sum to zero", log.FieldSlot, slotID)
		return
	}
	b.draw(target, slotID, PieConfig(labels, normalized))
}

func (b *Binder) resolve(slotID string) (*view.Element, bool) {
	if b.view == nil {
		return nil, false
	}
	target, ok := b.view.ResolveSlot(slotID)
	if !ok {
		b.logger.Debug("chart slot not in view", log.FieldSlot, slotID)
		return nil, false
	}
	return target, true
}

func (b *Binder) draw(target *view.Element, slotID string, cfg Config) {
	if b.renderer == nil {
		return
	}
	if err := b.renderer.Render(target, cfg); err != nil {
		fields := log.NewFields().
			WithChart(slotID, string(cfg.Type), cfg.Points()).
			WithOperation(log.OpRender).
			WithError(err)
		b.logger.Warn("chart renderer rejected configuration", fields.ToSlice()...)
		return
	}
	b.logger.Debug("chart rendered", log.FieldSlot, slotID, log.FieldChartType, string(cfg.Type), log.FieldPoints, cfg.Points())
}
