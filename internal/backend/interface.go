package backend

import (
	"context"

	"finboard/internal/prefs"
	"finboard/internal/source"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Pinger is implemented by backends with a reachable dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BackendResult bundles the data source and preference store chosen by
// configuration.
type BackendResult struct {
	Reader source.DashboardReader
	// Writer is nil when the data backend is read-only.
	Writer source.DashboardWriter
	Prefs  prefs.Store
	// Checks are pinged by the readiness probe.
	Checks  []Pinger
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Data  DataType
	Prefs PrefsType

	SeedFile      string
	JSONFeedFile  string
	JSONFeedPaths string

	SQLiteDBPath string
}

// DataType selects where dashboard series come from.
type DataType string

const (
	MemoryData DataType = "memory"
	JSONData   DataType = "json"
)

func (t DataType) String() string { return string(t) }

func (t DataType) IsValid() bool {
	switch t {
	case MemoryData, JSONData:
		return true
	default:
		return false
	}
}

// PrefsType selects where the theme preference is persisted.
type PrefsType string

const (
	MemoryPrefs PrefsType = "memory"
	SQLitePrefs PrefsType = "sqlite"
)

func (t PrefsType) String() string { return string(t) }

func (t PrefsType) IsValid() bool {
	switch t {
	case MemoryPrefs, SQLitePrefs:
		return true
	default:
		return false
	}
}
