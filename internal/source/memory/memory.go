// Package memory keeps the dashboard series in process, optionally seeded
// from a YAML file.
package memory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"finboard/internal/core"
)

type Store struct {
	mu sync.RWMutex
	d  core.Dashboard
}

func New(d core.Dashboard) *Store {
	return &Store{d: d.Clone()}
}

// NewFromFile seeds the store from the YAML file at path. A missing file
// yields the built-in sample; a malformed one is an error.
func NewFromFile(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(Sample()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var d core.Dashboard
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	return New(d), nil
}

// ReadDashboard returns a copy of the current series.
func (s *Store) ReadDashboard(_ context.Context) (core.Dashboard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.d.Clone(), nil
}

// ReplaceDashboard swaps in d.
func (s *Store) ReplaceDashboard(_ context.Context, d core.Dashboard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.d = d.Clone()
	return nil
}

// Sample is the dashboard served when no seed file exists.
func Sample() core.Dashboard {
	return core.Dashboard{
		Categories: core.Series{
			Labels: []string{"Food", "Rent", "Transport", "Utilities", "Leisure"},
			Values: []any{"412.30", 950, "86.5", 140, "73.20"},
		},
		IncomeCategories: core.Series{
			Labels: []string{"Salary", "Freelance"},
			Values: []any{2800, "450"},
		},
		Monthly: core.MonthlySeries{
			Months:  []string{"2025-01", "2025-02", "2025-03"},
			Income:  []any{3250, "3100", 3300},
			Expense: []any{"1662.00", 1540.25, 0},
		},
	}
}
