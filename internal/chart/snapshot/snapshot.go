// Package snapshot turns chart configurations into PNG images by loading the
// ECharts page in headless Chrome and taking a screenshot.
package snapshot

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"finboard/internal/cache"
	"finboard/internal/chart"
	"finboard/internal/log"
)

const (
	DefaultWidth   = 900
	DefaultHeight  = 480
	captureTimeout = 20 * time.Second
	settleDelay    = 1500 * time.Millisecond
)

// ErrDisabled is returned when snapshots are switched off.
var ErrDisabled = errors.New("snapshot: disabled")

var (
	headlessOnce sync.Once
	headlessErr  error
)

// EnsureHeadlessAvailable reports whether a headless browser can be started.
// The probe runs once per process.
func EnsureHeadlessAvailable(ctx context.Context) error {
	headlessOnce.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		browser, cancel := chromedp.NewContext(ctx)
		defer cancel()
		headlessErr = chromedp.Run(browser)
	})
	return headlessErr
}

// PageWriter produces the HTML page that gets captured.
type PageWriter interface {
	WritePage(w io.Writer, cfg chart.Config) error
}

// CaptureFunc renders html at the given viewport and returns PNG bytes.
type CaptureFunc func(ctx context.Context, html []byte, width, height int) ([]byte, error)

// Service renders and caches chart snapshots.
type Service struct {
	pages   PageWriter
	capture CaptureFunc
	cache   cache.Cache[[]byte]
	logger  *log.Logger
	width   int
	height  int
	enabled bool
}

// Option configures a Service.
type Option func(*Service)

// WithCapture replaces the headless Chrome capture.
func WithCapture(fn CaptureFunc) Option {
	return func(s *Service) { s.capture = fn }
}

// WithViewport sets the screenshot viewport.
func WithViewport(width, height int) Option {
	return func(s *Service) {
		if width > 0 {
			s.width = width
		}
		if height > 0 {
			s.height = height
		}
	}
}

// Disabled makes every PNG call fail with ErrDisabled.
func Disabled() Option {
	return func(s *Service) { s.enabled = false }
}

// New builds a Service. c may be nil to disable caching.
func New(pages PageWriter, c cache.Cache[[]byte], logger *log.Logger, options ...Option) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	s := &Service{
		pages:   pages,
		capture: CaptureHTML,
		cache:   c,
		logger:  logger.WithComponent(log.ComponentSnapshot),
		width:   DefaultWidth,
		height:  DefaultHeight,
		enabled: true,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Enabled reports whether PNG rendering is switched on.
func (s *Service) Enabled() bool { return s.enabled }

// PNG returns a screenshot of cfg, served from cache when possible.
func (s *Service) PNG(ctx context.Context, cfg chart.Config) ([]byte, error) {
	if !s.enabled {
		return nil, ErrDisabled
	}
	key, err := cacheKey(cfg, s.width, s.height)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if img, ok := s.cache.Get(key); ok {
			return img, nil
		}
	}

	var page bytes.Buffer
	if err := s.pages.WritePage(&page, cfg); err != nil {
		return nil, fmt.Errorf("snapshot: build page: %w", err)
	}

	start := time.Now()
	img, err := s.capture(ctx, page.Bytes(), s.width, s.height)
	if err != nil {
		s.logger.Warn("Chart capture failed", log.FieldChartType, string(cfg.Type), log.FieldError, err.Error())
		return nil, fmt.Errorf("snapshot: capture: %w", err)
	}
	s.logger.Debug("Chart captured",
		log.FieldChartType, string(cfg.Type),
		log.FieldPoints, cfg.Points(),
		log.FieldDuration, time.Since(start).Milliseconds(),
	)
	if s.cache != nil {
		s.cache.Set(key, img)
	}
	return img, nil
}

func cacheKey(cfg chart.Config, width, height int) (string, error) {
	raw, err := cfg.JSON()
	if err != nil {
		return "", fmt.Errorf("snapshot: encode config: %w", err)
	}
	h := sha256.New()
	fmt.Fprintf(h, "%dx%d:", width, height)
	h.Write(raw)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// CaptureHTML loads html as a data URI in headless Chrome and returns a full
// page PNG screenshot.
func CaptureHTML(ctx context.Context, html []byte, width, height int) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	browser, cancel := chromedp.NewContext(ctx)
	defer cancel()

	timeoutCtx, cancelTimeout := context.WithTimeout(browser, captureTimeout)
	defer cancelTimeout()

	uri := "data:text/html;base64," + base64.StdEncoding.EncodeToString(html)
	var shot []byte
	err := chromedp.Run(timeoutCtx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		chromedp.Navigate(uri),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.FullScreenshot(&shot, 100),
	)
	if err != nil {
		return nil, err
	}
	return shot, nil
}
