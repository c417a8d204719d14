package backend

import (
	"fmt"

	"finboard/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	cfg := Config{
		Data:          DataType(appConfig.DataBackend),
		Prefs:         PrefsType(appConfig.PrefsBackend),
		SeedFile:      appConfig.SeedFile,
		JSONFeedFile:  appConfig.JSONFeedFile,
		JSONFeedPaths: appConfig.JSONFeedPaths,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Data.IsValid() {
		return fmt.Errorf("invalid data backend: %s", c.Data)
	}
	if !c.Prefs.IsValid() {
		return fmt.Errorf("invalid prefs backend: %s", c.Prefs)
	}
	if c.Data == JSONData && c.JSONFeedFile == "" {
		return fmt.Errorf("JSON feed file is required for json backend")
	}
	if c.Prefs == SQLitePrefs && c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLite database path is required for sqlite prefs backend")
	}
	return nil
}
