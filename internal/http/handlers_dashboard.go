package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"finboard/internal/chart"
	"finboard/internal/chart/chartjs"
	"finboard/internal/chart/echarts"
	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/middleware/security"
	"finboard/internal/notify"
	"finboard/internal/prefs"
	"finboard/internal/source"
	"finboard/internal/view"
)

const readTimeout = 5 * time.Second

type indexData struct {
	Title     string
	Banners   template.HTML
	ToggleID  string
	Slots     []string
	Writable  bool
	Snapshots bool
}

func (s *Server) readDashboard(ctx context.Context) (core.Dashboard, error) {
	if s.reader == nil {
		return core.Dashboard{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	return s.reader.ReadDashboard(ctx)
}

// handleIndex renders the dashboard: the page template is parsed into a
// document, the charts are bound into its slots and the stored theme is
// applied before the document is written out.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", log.FieldPath, r.URL.Path)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	d, err := s.readDashboard(ctx)
	if err != nil {
		// The page still renders; the binder guards leave the slots empty.
		logger.ErrorContext(ctx, "Dashboard read failed", log.FieldError, err.Error(), log.FieldOperation, log.OpRead)
		d = core.Dashboard{}
	}

	s.board.Active()
	var banners bytes.Buffer
	if err := s.board.Render(&banners); err != nil {
		logger.ErrorContext(ctx, "Banner render failed", log.FieldError, err.Error())
	}

	var page bytes.Buffer
	data := indexData{
		Title:     "Dashboard",
		Banners:   template.HTML(banners.String()),
		ToggleID:  prefs.ToggleID,
		Slots:     chart.Slots,
		Writable:  s.writer != nil,
		Snapshots: s.snapshots != nil && s.snapshots.Enabled(),
	}
	if err := s.templates.ExecuteTemplate(&page, "index.html", data); err != nil {
		logger.ErrorContext(ctx, "Index template execution failed", log.FieldError, err.Error(), "template", "index.html")
		InternalServerError("template error").Write(w)
		return
	}

	doc, err := view.Parse(&page)
	if err != nil {
		logger.ErrorContext(ctx, "Index document parse failed", log.FieldError, err.Error())
		InternalServerError("template error").Write(w)
		return
	}
	theme := s.mirror.Read(ctx)
	chart.NewBinder(doc, s.pageRenderer(theme), logger).RenderDashboard(d)

	toggle, _ := doc.ResolveSlot(prefs.ToggleID)
	s.mirror.Apply(doc.Body(), toggle, theme)

	if s.renderer == RendererECharts {
		w.Header().Set("Content-Security-Policy", security.EmbeddedChartsCSP)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := doc.Render(w); err != nil {
		logger.ErrorContext(ctx, "Index write failed", log.FieldError, err.Error())
	}
}

func (s *Server) pageRenderer(theme prefs.Theme) chart.Renderer {
	if s.renderer == RendererECharts {
		return echarts.New(theme == prefs.Dark)
	}
	return chartjs.New()
}

// handleBannersPartial returns the banner container as it stands now,
// including any banner mid-way through its fallback fade.
func (s *Server) handleBannersPartial(w http.ResponseWriter, r *http.Request) {
	s.board.Active()
	var buf bytes.Buffer
	if err := s.board.Render(&buf); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Banner render failed", log.FieldError, err.Error())
		InternalServerError("banner render failed").Write(w)
		return
	}
	NewHTMXResponse().HTML(buf.Bytes()).Write(w)
}

func (s *Server) handlePostBanner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		logger.WarnContext(ctx, "Banner request parse error", log.FieldError, err.Error())
		BadRequestError("malformed request body").Write(w)
		return
	}
	msg, err := ParseBannerMessage(p)
	if err != nil {
		UnprocessableEntityError(err.Error()).Write(w)
		return
	}

	banner := s.board.Post(msg)
	logger.InfoContext(ctx, "Banner posted over HTTP",
		log.FieldBannerID, banner.ID,
		log.FieldCategory, string(msg.Category),
		"scheduled", banner.Scheduled(),
	)

	if p.IsJSON() {
		writeJSON(w, r, http.StatusCreated, map[string]any{
			"id":        banner.ID,
			"scheduled": banner.Scheduled(),
			"delay_ms":  banner.Delay.Milliseconds(),
		})
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	var buf bytes.Buffer
	if err := s.board.Render(&buf); err != nil {
		logger.ErrorContext(ctx, "Banner render failed", log.FieldError, err.Error())
	}
	NewHTMXResponse().
		Status(http.StatusCreated).
		TriggerBannerPosted(banner.ID, string(msg.Category)).
		Retarget("#banner-region").
		HTML(buf.Bytes()).
		Write(w)
}

// handleThemeToggle flips the stored preference. The page itself is
// re-rendered with the new theme on the redirect or HTMX refresh.
func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	theme := s.mirror.Toggle(r.Context(), nil, nil)
	if isHTMX(r) {
		NewHTMXResponse().
			TriggerThemeChanged(string(theme)).
			Refresh().
			Text(theme.Label()).
			Write(w)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.readDashboard(r.Context())
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Dashboard read failed", log.FieldError, err.Error(), log.FieldOperation, log.OpRead)
		writeJSONError(w, r, http.StatusBadGateway, "dashboard source unavailable")
		return
	}
	writeJSON(w, r, http.StatusOK, d)
}

func (s *Server) handlePutDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	if s.writer == nil {
		w.Header().Set("Allow", http.MethodGet)
		writeJSONError(w, r, http.StatusMethodNotAllowed, source.ErrReadOnly.Error())
		return
	}
	d, err := DecodeDashboard(w, r)
	if err != nil {
		writeJSONError(w, r, http.StatusBadRequest, "invalid dashboard document: "+err.Error())
		return
	}
	if err := s.writer.ReplaceDashboard(ctx, d); err != nil {
		logger.ErrorContext(ctx, "Dashboard replace failed", log.FieldError, err.Error(), log.FieldOperation, log.OpReplace)
		if errors.Is(err, source.ErrReadOnly) {
			w.Header().Set("Allow", http.MethodGet)
			writeJSONError(w, r, http.StatusMethodNotAllowed, err.Error())
			return
		}
		writeJSONError(w, r, http.StatusInternalServerError, "dashboard replace failed")
		return
	}
	logger.InfoContext(ctx, "Dashboard replaced",
		log.FieldOperation, log.OpReplace,
		"categories", len(d.Categories.Labels),
		"months", len(d.Monthly.Months),
	)
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerDashboardReplaced().
		Write(w)
}

// PostBanner posts m to the board. The AMQP consumer feeds banners through it.
func (s *Server) PostBanner(_ context.Context, m notify.Message) *notify.Banner {
	return s.board.Post(m)
}
