package http

import (
	"errors"
	"net/http"
	"path"
	"slices"
	"strings"

	"finboard/internal/chart"
	"finboard/internal/chart/echarts"
	"finboard/internal/chart/snapshot"
	"finboard/internal/chart/xlsx"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/middleware/security"
	"finboard/internal/prefs"
	"finboard/internal/view"
)

const exportFile = "export.xlsx"

// slotDocument returns a bare document declaring the given chart slots.
func slotDocument(slots ...string) *view.Document {
	doc := view.New()
	body := doc.Body()
	for _, slot := range slots {
		body.Append("div", view.Attr("id", slot))
	}
	return doc
}

// chartConfig runs the binder against a single slot and returns the
// configuration it would draw. ok is false when a guard declined.
func chartConfig(d core.Dashboard, slot string, logger *log.Logger) (cfg chart.Config, ok bool) {
	capture := chart.RendererFunc(func(target *view.Element, c chart.Config) error {
		if target.ID() == slot {
			cfg, ok = c, true
		}
		return nil
	})
	chart.NewBinder(slotDocument(slot), capture, logger).RenderDashboard(d)
	return cfg, ok
}

// handleChart serves /charts/{slot}.html, /charts/{slot}.png and
// /charts/export.xlsx.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if file == exportFile {
		s.handleExport(w, r)
		return
	}
	ext := path.Ext(file)
	slot := strings.TrimSuffix(file, ext)
	if !slices.Contains(chart.Slots, slot) || (ext != ".html" && ext != ".png") {
		NotFoundError("unknown chart").Write(w)
		return
	}

	ctx := r.Context()
	logger := log.FromContext(ctx)
	d, err := s.readDashboard(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Dashboard read failed", log.FieldError, err.Error(), log.FieldSlot, slot)
		ErrorResponse(http.StatusBadGateway, "dashboard source unavailable").Write(w)
		return
	}
	cfg, ok := chartConfig(d, slot, logger)
	if !ok {
		NotFoundError("nothing to draw for " + slot).Write(w)
		return
	}

	switch ext {
	case ".html":
		page := echarts.New(s.mirror.Read(ctx) == prefs.Dark)
		page.Title = slot
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Security-Policy", security.ChartPageCSP)
		if err := page.WritePage(w, cfg); err != nil {
			logger.ErrorContext(ctx, "Chart page render failed", log.FieldError, err.Error(), log.FieldSlot, slot)
		}
	case ".png":
		if s.snapshots == nil || !s.snapshots.Enabled() {
			ErrorResponse(http.StatusServiceUnavailable, "snapshots are disabled").Write(w)
			return
		}
		png, err := s.snapshots.PNG(ctx, cfg)
		if err != nil {
			logger.ErrorContext(ctx, "Chart snapshot failed", log.FieldError, err.Error(), log.FieldSlot, slot)
			status := http.StatusInternalServerError
			if errors.Is(err, snapshot.ErrDisabled) {
				status = http.StatusServiceUnavailable
			}
			ErrorResponse(status, "snapshot failed").Write(w)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-cache")
		_, _ = w.Write(png)
	}
}

// handleExport writes every drawable chart into one workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	d, err := s.readDashboard(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Dashboard read failed", log.FieldError, err.Error(), log.FieldOperation, log.OpExport)
		ErrorResponse(http.StatusBadGateway, "dashboard source unavailable").Write(w)
		return
	}

	wb := xlsx.NewWorkbook()
	defer wb.Close()
	chart.NewBinder(slotDocument(chart.Slots...), wb, logger).RenderDashboard(d)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard.xlsx"`)
	n, err := wb.WriteTo(w)
	if err != nil {
		logger.ErrorContext(ctx, "Workbook write failed", log.FieldError, err.Error(), log.FieldOperation, log.OpExport)
		return
	}
	logger.InfoContext(ctx, "Workbook exported",
		log.FieldOperation, log.OpExport,
		"sheets", len(wb.Sheets()),
		"bytes", n,
	)
}
