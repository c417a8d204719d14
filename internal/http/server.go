package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"finboard/internal/chart/snapshot"
	"finboard/internal/log"
	"finboard/internal/middleware/ratelimit"
	"finboard/internal/middleware/security"
	"finboard/internal/middleware/trace"
	"finboard/internal/notify"
	"finboard/internal/prefs"
	"finboard/internal/source"
	appweb "finboard/web"
)

// HealthChecker is a dependency probed by /readyz.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Options wires the server's collaborators. Writer, Snapshots and Checks
// may be left empty.
type Options struct {
	Reader    source.DashboardReader
	Writer    source.DashboardWriter
	Board     *notify.Board
	Mirror    *prefs.Mirror
	Snapshots *snapshot.Service
	Checks    []HealthChecker
	Logger    *log.Logger

	// PageRenderer picks how the dashboard page draws its charts:
	// RendererChartJS (default) or RendererECharts.
	PageRenderer string

	RateLimitPerMinute int
}

// Dashboard page renderers.
const (
	RendererChartJS = "chartjs"
	RendererECharts = "echarts"
)

type Server struct {
	http.Server
	templates *template.Template
	reader    source.DashboardReader
	writer    source.DashboardWriter
	board     *notify.Board
	mirror    *prefs.Mirror
	snapshots *snapshot.Service
	checks    []HealthChecker
	logger    *log.Logger
	renderer  string

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, o Options) *Server {
	logger := o.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	board := o.Board
	if board == nil {
		board = notify.NewBoard(notify.NewTimer(nil, nil, notify.Timings{}, logger), logger)
	}
	mirror := o.Mirror
	if mirror == nil {
		mirror = prefs.NewMirror(prefs.NewMemoryStore(), logger)
	}

	detector := security.NewDetector()
	s := &Server{
		reader:    o.Reader,
		writer:    o.Writer,
		board:     board,
		mirror:    mirror,
		snapshots: o.Snapshots,
		checks:    o.Checks,
		logger:    logger,
		renderer:  o.PageRenderer,
		limiter:   ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: o.RateLimitPerMinute}, logger),
		detector:  detector,
		tracer:    trace.NewMiddleware(logger, detector.ExtractClientIP),
		started:   time.Now(),
	}

	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err.Error())
	}
	s.templates = t

	mux := http.NewServeMux()
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err.Error())
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ui/banners", s.handleBannersPartial)
	mux.HandleFunc("POST /banners", s.handlePostBanner)
	mux.HandleFunc("POST /theme/toggle", s.handleThemeToggle)
	mux.HandleFunc("GET /api/dashboard", s.handleGetDashboard)
	mux.HandleFunc("PUT /api/dashboard", s.handlePutDashboard)
	mux.HandleFunc("GET /charts/{file}", s.handleChart)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	var h http.Handler = mux
	h = s.limiter.Middleware(detector.ExtractClientIP, http.MethodPost, http.MethodPut)(h)
	h = detector.Middleware(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = log.RequestIDMiddleware(trace.FromRequest)(h)
	h = log.Middleware(logger)(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Board returns the banner board the server renders.
func (s *Server) Board() *notify.Board { return s.board }

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
