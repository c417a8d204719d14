// Package source defines where dashboard series come from.
package source

import (
	"context"
	"errors"

	"finboard/internal/core"
)

// ErrReadOnly is returned by backends that cannot be replaced at runtime.
var ErrReadOnly = errors.New("source: backend is read-only")

// Ports for dashboard data adapters.
type (
	// DashboardReader returns the already-aggregated series to draw.
	DashboardReader interface {
		ReadDashboard(ctx context.Context) (core.Dashboard, error)
	}

	// DashboardWriter replaces the series wholesale.
	DashboardWriter interface {
		ReplaceDashboard(ctx context.Context, d core.Dashboard) error
	}
)
