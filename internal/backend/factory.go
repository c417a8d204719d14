package backend

import (
	"context"
	"errors"
	"fmt"

	"finboard/internal/log"
	"finboard/internal/prefs"
	"finboard/internal/source/jsonfeed"
	"finboard/internal/source/memory"
	"finboard/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentSource)}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	result := &BackendResult{}
	var cleanups []CleanupFunc

	switch config.Data {
	case MemoryData:
		store, err := memory.NewFromFile(config.SeedFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory source: %w", err)
		}
		result.Reader, result.Writer = store, store
		f.logger.InfoContext(ctx, "Initialized memory source", log.FieldBackend, config.Data.String(), "seed_file", config.SeedFile)
	case JSONData:
		paths, err := jsonfeed.ParsePaths(config.JSONFeedPaths)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feed paths: %w", err)
		}
		result.Reader = jsonfeed.New(config.JSONFeedFile, paths)
		f.logger.InfoContext(ctx, "Initialized JSON feed source", log.FieldBackend, config.Data.String(), "feed_file", config.JSONFeedFile)
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", config.Data)
	}

	switch config.Prefs {
	case MemoryPrefs:
		result.Prefs = prefs.NewMemoryStore()
	case SQLitePrefs:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath, f.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite preference store: %w", err)
		}
		result.Prefs = store
		result.Checks = append(result.Checks, store)
		cleanups = append(cleanups, store.Close)
	default:
		return nil, fmt.Errorf("unsupported prefs backend: %s", config.Prefs)
	}
	f.logger.InfoContext(ctx, "Initialized preference store", "prefs_backend", config.Prefs.String())

	result.Cleanup = func() error {
		var errs []error
		for _, fn := range cleanups {
			errs = append(errs, fn())
		}
		return errors.Join(errs...)
	}
	return result, nil
}
