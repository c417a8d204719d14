package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"finboard/internal/source/jsonfeed"
)

type Config struct {
	// HTTP Server
	Port               string
	RateLimitPerMinute int
	ShutdownTimeout    time.Duration

	// Logging
	LogLevel string

	// Dashboard data
	DataBackend   string
	SeedFile      string
	JSONFeedFile  string
	JSONFeedPaths string

	// Charts
	ChartRenderer     string
	SnapshotEnabled   bool
	SnapshotCacheTTL  time.Duration
	SnapshotCacheSize int

	// Preferences
	PrefsBackend string
	SQLiteDBPath string

	// AMQP banner feed; disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Banners
	BannerDefaultDelay time.Duration
	BannerRemoveAfter  time.Duration
}

var (
	dataBackends   = []string{"memory", "json"}
	prefsBackends  = []string{"memory", "sqlite"}
	chartRenderers = []string{"chartjs", "echarts"}
	logLevels      = []string{"debug", "info", "warn", "warning", "error"}
)

func Load() *Config {
	return &Config{
		Port:               getEnv("PORT", "8081"),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend:   getEnv("DATA_BACKEND", "memory"),
		SeedFile:      getEnv("SEED_FILE", "./data/dashboard.yaml"),
		JSONFeedFile:  getEnv("JSON_FEED_FILE", ""),
		JSONFeedPaths: getEnv("JSON_FEED_PATHS", ""),

		ChartRenderer:     getEnv("CHART_RENDERER", "chartjs"),
		SnapshotEnabled:   getEnvBool("SNAPSHOT_ENABLED", true),
		SnapshotCacheTTL:  getEnvDuration("SNAPSHOT_CACHE_TTL", 5*time.Minute),
		SnapshotCacheSize: getEnvInt("SNAPSHOT_CACHE_SIZE", 32),

		PrefsBackend: getEnv("PREFS_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finboard.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "banners"),

		BannerDefaultDelay: getEnvDuration("BANNER_DEFAULT_DELAY", 4*time.Second),
		BannerRemoveAfter:  getEnvDuration("BANNER_REMOVE_AFTER", 260*time.Millisecond),
	}
}

// AMQPEnabled reports whether the banner feed should be started.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.RateLimitPerMinute < 0 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must not be negative", c.RateLimitPerMinute))
	}
	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if !slices.Contains(logLevels, strings.ToLower(c.LogLevel)) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, logLevels))
	}

	if !slices.Contains(dataBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, dataBackends))
	}
	if c.DataBackend == "json" {
		if c.JSONFeedFile == "" {
			errors = append(errors, "JSON feed file cannot be empty when using json backend")
		} else if _, err := os.Stat(c.JSONFeedFile); os.IsNotExist(err) {
			errors = append(errors, fmt.Sprintf("JSON feed file does not exist: %s", c.JSONFeedFile))
		}
		if _, err := jsonfeed.ParsePaths(c.JSONFeedPaths); err != nil {
			errors = append(errors, fmt.Sprintf("invalid JSON feed paths: %v", err))
		}
	}

	if !slices.Contains(chartRenderers, c.ChartRenderer) {
		errors = append(errors, fmt.Sprintf("invalid chart renderer '%s': must be one of %v", c.ChartRenderer, chartRenderers))
	}
	if c.SnapshotEnabled {
		if c.SnapshotCacheTTL < 0 {
			errors = append(errors, fmt.Sprintf("invalid snapshot cache TTL %v: must not be negative", c.SnapshotCacheTTL))
		}
		if c.SnapshotCacheSize < 1 {
			errors = append(errors, fmt.Sprintf("invalid snapshot cache size %d: must be at least 1", c.SnapshotCacheSize))
		}
	}

	if !slices.Contains(prefsBackends, c.PrefsBackend) {
		errors = append(errors, fmt.Sprintf("invalid prefs backend '%s': must be one of %v", c.PrefsBackend, prefsBackends))
	}
	if c.PrefsBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite prefs backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.BannerDefaultDelay <= 0 {
		errors = append(errors, fmt.Sprintf("invalid banner default delay %v: must be positive", c.BannerDefaultDelay))
	}
	if c.BannerRemoveAfter <= 0 {
		errors = append(errors, fmt.Sprintf("invalid banner remove delay %v: must be positive", c.BannerRemoveAfter))
	} else if c.BannerRemoveAfter > 10*time.Second {
		errors = append(errors, fmt.Sprintf("invalid banner remove delay %v: must be at most 10 seconds", c.BannerRemoveAfter))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
