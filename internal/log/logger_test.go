package log

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Level: slog.LevelDebug, Component: ComponentChart})
	logger.Info("chart rendered", FieldSlot, "categoryChart")
	out := buf.String()
	if !strings.Contains(out, "component=chart") || !strings.Contains(out, "slot=categoryChart") {
		t.Fatalf("unexpected output: %s", out)
	}

	buf.Reset()
	logger.WithComponent(ComponentNotify).Debug("armed")
	if !strings.Contains(buf.String(), "component=notify") {
		t.Fatalf("component not switched: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q)=%v want %v", in, got, want)
		}
	}
}

func TestDiscardDropsEverything(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("discard logger should not be enabled at error")
	}
}

func TestMiddlewareInjectsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Output: &buf, Component: ComponentHTTP})
	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req_1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ui/banners", nil))
	for _, want := range []string{"request_id=req_1", "method=GET", "path=/ui/banners"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("%s missing: %s", want, buf.String())
		}
	}
}

func TestRequestIDMiddlewareSkipsEmptyID(t *testing.T) {
	var buf bytes.Buffer
	h := Middleware(New(Config{Output: &buf}))(RequestIDMiddleware(func(*http.Request) string { return "" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			FromContext(r.Context()).InfoContext(r.Context(), "inside")
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if strings.Contains(buf.String(), "request_id") {
		t.Fatalf("empty request id should not be logged: %s", buf.String())
	}
}

func TestFromContextFallsBack(t *testing.T) {
	if FromContext(context.Background()).Component() != ComponentHTTP {
		t.Fatalf("expected fallback logger")
	}
}

func TestFieldsBuilder(t *testing.T) {
	f := NewFields().WithChart("monthlyChart", "bar", 3).WithBanner("b1", 4000).WithOperation(OpRender).WithError(nil)
	if f[FieldSlot] != "monthlyChart" || f[FieldDelayMs] != int64(4000) || f[FieldOperation] != OpRender {
		t.Fatalf("unexpected fields %v", f)
	}
	if _, ok := f[FieldError]; ok {
		t.Fatalf("nil error should not be recorded")
	}
	if len(f.ToSlice()) != len(f)*2 {
		t.Fatalf("slice length mismatch")
	}
}
