// Package prefs mirrors the persisted light/dark display preference onto
// the page and flips it on request.
package prefs

import (
	"context"
	"sync"

	"finboard/internal/log"
	"finboard/internal/view"
)

// Theme is the display mode.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Key is the store key holding the theme.
const Key = "theme"

const (
	// DarkClass is set on the root element in dark mode.
	DarkClass = "theme-dark"
	// ToggleID identifies the toggle control.
	ToggleID = "themeToggle"
)

// ParseTheme returns Dark for "dark" and Light for anything else.
func ParseTheme(s string) Theme {
	if Theme(s) == Dark {
		return Dark
	}
	return Light
}

// Opposite returns the other mode.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Label is the toggle caption while t is active: it names the mode the
// toggle switches to.
func (t Theme) Label() string {
	if t == Dark {
		return "Light"
	}
	return "Dark"
}

// Store is a string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Mirror reflects the stored theme onto a root element and toggle control.
type Mirror struct {
	store  Store
	logger *log.Logger
}

// NewMirror returns a Mirror over store.
func NewMirror(store Store, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.Discard()
	}
	return &Mirror{store: store, logger: logger.WithComponent(log.ComponentPrefs)}
}

// Read returns the stored theme, or Light when nothing usable is stored.
func (m *Mirror) Read(ctx context.Context) Theme {
	if m.store == nil {
		return Light
	}
	v, ok, err := m.store.Get(ctx, Key)
	if err != nil {
		m.logger.WarnContext(ctx, "Theme read failed, using light", log.FieldError, err.Error())
		return Light
	}
	if !ok {
		return Light
	}
	return ParseTheme(v)
}

// Apply sets root's dark class to match theme and relabels toggle. Either
// element may be nil.
func (m *Mirror) Apply(root, toggle *view.Element, theme Theme) {
	if root != nil {
		if theme == Dark {
			root.AddClass(DarkClass)
		} else {
			root.RemoveClass(DarkClass)
		}
	}
	if toggle != nil {
		toggle.SetText(theme.Label())
	}
}

// Toggle flips root's dark class, persists the resulting theme and relabels
// toggle. It returns the new theme.
func (m *Mirror) Toggle(ctx context.Context, root, toggle *view.Element) Theme {
	var next Theme
	if root != nil {
		next = Light
		if root.ToggleClass(DarkClass) {
			next = Dark
		}
	} else {
		next = m.Read(ctx).Opposite()
	}
	if m.store != nil {
		if err := m.store.Set(ctx, Key, string(next)); err != nil {
			m.logger.WarnContext(ctx, "Theme write failed", log.FieldTheme, string(next), log.FieldError, err.Error())
		}
	}
	if toggle != nil {
		toggle.SetText(next.Label())
	}
	m.logger.DebugContext(ctx, "Theme toggled", log.FieldTheme, string(next), log.FieldOperation, log.OpToggle)
	return next
}
