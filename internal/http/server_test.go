package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"finboard/internal/chart"
	"finboard/internal/chart/snapshot"
	"finboard/internal/core"
	"finboard/internal/notify"
	"finboard/internal/prefs"
	"finboard/internal/source/memory"
)

// idleScheduler never fires, so banners stay Visible for the whole test.
type idleScheduler struct{}

func (idleScheduler) AfterFunc(time.Duration, func()) {}
func (idleScheduler) NextFrame(func())                {}

type failingReader struct{}

func (failingReader) ReadDashboard(context.Context) (core.Dashboard, error) {
	return core.Dashboard{}, errors.New("feed unreadable")
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type countingPages struct {
	mu    sync.Mutex
	calls int
}

func (p *countingPages) WritePage(w io.Writer, cfg chart.Config) error {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	_, err := io.WriteString(w, "<html>"+string(cfg.Type)+"</html>")
	return err
}

func sampleDashboard() core.Dashboard {
	return core.Dashboard{
		Categories:       core.Series{Labels: []string{"Food", "Rent"}, Values: []any{"12.5", 900}},
		IncomeCategories: core.Series{Labels: []string{"Salary"}, Values: []any{0}},
		Monthly: core.MonthlySeries{
			Months:  []string{"Jan", "Feb"},
			Income:  []any{100, "n/a"},
			Expense: []any{40, 0},
		},
	}
}

type testEnv struct {
	srv   *Server
	store *memory.Store
	prefs *prefs.MemoryStore
}

func newTestServer(t *testing.T, mutate func(*Options)) *testEnv {
	t.Helper()
	store := memory.New(sampleDashboard())
	prefStore := prefs.NewMemoryStore()
	timer := notify.NewTimer(idleScheduler{}, nil, notify.Timings{}, nil)
	o := Options{
		Reader: store,
		Writer: store,
		Board:  notify.NewBoard(timer, nil),
		Mirror: prefs.NewMirror(prefStore, nil),
	}
	if mutate != nil {
		mutate(&o)
	}
	srv := NewServer(":0", o)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: store, prefs: prefStore}
}

func (e *testEnv) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rdr)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rec, req)
	return rec
}

var form = map[string]string{"Content-Type": "application/x-www-form-urlencoded"}

func TestIndexBindsChartsAndTheme(t *testing.T) {
	env := newTestServer(t, nil)

	rec := env.do(http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("index status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if strings.Count(body, `class="chart-canvas"`) != 2 {
		t.Fatalf("expected category pie and monthly bar only:\n%s", body)
	}
	if !strings.Contains(body, `data-chart-type="pie"`) || !strings.Contains(body, `data-chart-type="bar"`) {
		t.Fatalf("chart types missing")
	}
	if !strings.Contains(body, `id="themeToggle"`) || !strings.Contains(body, ">Dark</button>") {
		t.Fatalf("light theme should label the toggle Dark")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("request id header missing")
	}

	env.prefs.Set(context.Background(), prefs.Key, "dark")
	body = env.do(http.MethodGet, "/", "", nil).Body.String()
	if !strings.Contains(body, prefs.DarkClass) || !strings.Contains(body, ">Light</button>") {
		t.Fatalf("stored dark theme not applied")
	}
}

func TestIndexSurvivesSourceFailure(t *testing.T) {
	env := newTestServer(t, func(o *Options) { o.Reader = failingReader{} })
	rec := env.do(http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "chart-canvas") {
		t.Fatalf("no chart should be drawn without data")
	}
}

func TestPostBanner(t *testing.T) {
	env := newTestServer(t, nil)

	rec := env.do(http.MethodPost, "/banners", "message=", form)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty text: status=%d", rec.Code)
	}

	rec = env.do(http.MethodPost, "/banners", "message=Saved&category=success", form)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("plain form should redirect, got %d", rec.Code)
	}

	hx := map[string]string{"Content-Type": form["Content-Type"], "HX-Request": "true"}
	rec = env.do(http.MethodPost, "/banners", "message=Heads+up&category=error&autohide=0", hx)
	if rec.Code != http.StatusCreated {
		t.Fatalf("htmx post status=%d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), `"category":"danger"`) {
		t.Fatalf("trigger missing category: %s", rec.Header().Get("HX-Trigger"))
	}
	if !strings.Contains(rec.Body.String(), "alert alert-danger fade show") || !strings.Contains(rec.Body.String(), `data-autohide="0"`) {
		t.Fatalf("unexpected partial %s", rec.Body.String())
	}

	rec = env.do(http.MethodPost, "/banners", `{"text":"From JSON","dismissible":true}`, map[string]string{"Content-Type": "application/json"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("json post status=%d", rec.Code)
	}
	var out struct {
		ID        string `json:"id"`
		Scheduled bool   `json:"scheduled"`
		DelayMs   int64  `json:"delay_ms"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.ID == "" || !out.Scheduled || out.DelayMs != 4000 {
		t.Fatalf("unexpected response %+v", out)
	}

	partial := env.do(http.MethodGet, "/ui/banners", "", nil).Body.String()
	if strings.Count(partial, `role="alert"`) != 3 || !strings.Contains(partial, notify.ClassDismissible) {
		t.Fatalf("partial should list three banners:\n%s", partial)
	}
}

func TestThemeToggle(t *testing.T) {
	env := newTestServer(t, nil)
	ctx := context.Background()

	rec := env.do(http.MethodPost, "/theme/toggle", "", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status=%d", rec.Code)
	}
	if v, _, _ := env.prefs.Get(ctx, prefs.Key); v != "dark" {
		t.Fatalf("stored %q", v)
	}

	rec = env.do(http.MethodPost, "/theme/toggle", "", map[string]string{"HX-Request": "true"})
	if rec.Header().Get("HX-Refresh") != "true" || rec.Body.String() != "Dark" {
		t.Fatalf("htmx toggle: refresh=%q body=%q", rec.Header().Get("HX-Refresh"), rec.Body.String())
	}
	if v, _, _ := env.prefs.Get(ctx, prefs.Key); v != "light" {
		t.Fatalf("stored %q", v)
	}
}

func TestDashboardAPI(t *testing.T) {
	env := newTestServer(t, nil)

	rec := env.do(http.MethodGet, "/api/dashboard", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Food"`) {
		t.Fatalf("get: %d %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodPut, "/api/dashboard", `{"categories":{"labels":["A"],"values":[1.25]}}`, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("put status=%d body=%s", rec.Code, rec.Body.String())
	}
	d, _ := env.store.ReadDashboard(context.Background())
	if len(d.Categories.Labels) != 1 || core.Normalize(d.Categories.Values)[0] != 1.25 {
		t.Fatalf("dashboard not replaced: %+v", d)
	}

	rec = env.do(http.MethodPut, "/api/dashboard", `{"bogus":1}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field should be rejected, got %d", rec.Code)
	}

	ro := newTestServer(t, func(o *Options) { o.Writer = nil })
	rec = ro.do(http.MethodPut, "/api/dashboard", `{}`, nil)
	if rec.Code != http.StatusMethodNotAllowed || rec.Header().Get("Allow") != http.MethodGet {
		t.Fatalf("read-only source: status=%d allow=%q", rec.Code, rec.Header().Get("Allow"))
	}
}

func TestChartPages(t *testing.T) {
	env := newTestServer(t, nil)

	rec := env.do(http.MethodGet, "/charts/monthlyChart.html", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "echarts") {
		t.Fatalf("monthly page: %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "unsafe-inline") {
		t.Fatalf("chart pages need the relaxed CSP")
	}

	tests := []struct {
		target string
		want   int
	}{
		{"/charts/incomeCategoryChart.html", http.StatusNotFound},
		{"/charts/unknown.html", http.StatusNotFound},
		{"/charts/categoryChart.svg", http.StatusNotFound},
		{"/charts/categoryChart.png", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		if got := env.do(http.MethodGet, tt.target, "", nil).Code; got != tt.want {
			t.Errorf("%s: got %d want %d", tt.target, got, tt.want)
		}
	}
}

func TestChartSnapshot(t *testing.T) {
	pages := &countingPages{}
	fake := func(_ context.Context, html []byte, w, h int) ([]byte, error) {
		return append([]byte("PNG:"), html...), nil
	}
	env := newTestServer(t, func(o *Options) {
		o.Snapshots = snapshot.New(pages, nil, nil, snapshot.WithCapture(fake))
	})

	rec := env.do(http.MethodGet, "/charts/categoryChart.png", "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status=%d type=%s", rec.Code, rec.Header().Get("Content-Type"))
	}
	if rec.Body.String() != "PNG:<html>pie</html>" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestExportWorkbook(t *testing.T) {
	env := newTestServer(t, nil)

	rec := env.do(http.MethodGet, "/charts/export.xlsx", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex(chart.SlotCategory); idx < 0 {
		t.Fatalf("category sheet missing: %v", f.GetSheetList())
	}
	if idx, _ := f.GetSheetIndex(chart.SlotIncomeCategory); idx >= 0 {
		t.Fatalf("zero-sum income pie should be skipped")
	}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestServer(t, func(o *Options) { o.Checks = []HealthChecker{pinger{}} })
	if rec := env.do(http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Fatalf("healthz: %d %s", rec.Code, rec.Body.String())
	}
	if rec := env.do(http.MethodGet, "/readyz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("readyz: %d %s", rec.Code, rec.Body.String())
	}

	down := newTestServer(t, func(o *Options) { o.Checks = []HealthChecker{pinger{err: errors.New("db locked")}} })
	rec := down.do(http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusServiceUnavailable || !strings.Contains(rec.Body.String(), "db locked") {
		t.Fatalf("readyz should fail: %d %s", rec.Code, rec.Body.String())
	}
}

func TestSuspiciousAndStatic(t *testing.T) {
	env := newTestServer(t, nil)
	if rec := env.do(http.MethodGet, "/.env", "", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("probe should be rejected, got %d", rec.Code)
	}
	rec := env.do(http.MethodGet, "/static/charts.js", "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Cache-Control") == "" {
		t.Fatalf("static: %d", rec.Code)
	}
}

func TestIndexWithEChartsFrames(t *testing.T) {
	env := newTestServer(t, func(o *Options) { o.PageRenderer = RendererECharts })
	rec := env.do(http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if strings.Count(rec.Body.String(), `class="chart-frame"`) != 2 {
		t.Fatalf("expected two embedded chart frames")
	}
	if !strings.Contains(rec.Header().Get("Content-Security-Policy"), "unsafe-inline") {
		t.Fatalf("embedded frames need the relaxed policy")
	}
}
