package http

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	req := s.tracer.GetMetrics()
	limits := s.limiter.GetMetrics()
	sec := s.detector.GetMetrics()

	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"requests": map[string]int64{
			"total":           req.TotalRequests,
			"server_errors":   req.ServerErrors,
			"avg_response_us": req.AverageResponseTime,
		},
		"rate_limit": map[string]int64{
			"hits":    limits.TotalHits,
			"clients": limits.ClientCount,
		},
		"security": map[string]int64{
			"suspicious_requests": sec.SuspiciousRequests,
			"invalid_ip_attempts": sec.InvalidIPAttempts,
		},
		"banners": len(s.board.Active()),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]string)
	fail := func(name string, err error) {
		checks[name] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	if s.templates == nil {
		fail("templates", fmt.Errorf("templates not loaded"))
	} else {
		checks["templates"] = "ok"
	}

	if s.reader == nil {
		checks["source"] = "not_configured"
	} else if _, err := s.reader.ReadDashboard(ctx); err != nil {
		fail("source", err)
	} else {
		checks["source"] = "ok"
	}

	for i, c := range s.checks {
		name := fmt.Sprintf("dependency_%d", i)
		if err := c.Ping(ctx); err != nil {
			fail(name, err)
			continue
		}
		checks[name] = "ok"
	}

	if s.snapshots != nil && s.snapshots.Enabled() {
		checks["snapshots"] = "enabled"
	} else {
		checks["snapshots"] = "disabled"
	}

	writeJSON(w, r, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}
