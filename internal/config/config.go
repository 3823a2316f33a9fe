// Package config provides application configuration.
package config

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/helixml/modelsearch/domain/search"
)

// Default configuration values.
const (
	DefaultDBURL        = "sqlite:///modelsearch.db"
	DefaultLogLevel     = "INFO"
	DefaultSearchLimit  = 10
	DefaultSearchMode   = search.DefaultMode
	DefaultFulltextMode = search.DefaultFulltextMode
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	dbURL        string
	logLevel     string
	logFormat    LogFormat
	modelsFile   string
	searchMode   search.Mode
	fulltextMode search.FulltextMode
	searchLimit  int
}

// NewAppConfig creates a new AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		dbURL:        DefaultDBURL,
		logLevel:     DefaultLogLevel,
		logFormat:    LogFormatPretty,
		searchMode:   DefaultSearchMode,
		fulltextMode: DefaultFulltextMode,
		searchLimit:  DefaultSearchLimit,
	}
}

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// ModelsFile returns the path of the YAML model registry, or "" for none.
func (c AppConfig) ModelsFile() string { return c.modelsFile }

// SearchMode returns the mode used for tables that do not set one.
func (c AppConfig) SearchMode() search.Mode { return c.searchMode }

// FulltextMode returns the fulltext mode used for tables that do not set one.
func (c AppConfig) FulltextMode() search.FulltextMode { return c.fulltextMode }

// SearchLimit returns the default search result limit.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// DefaultSpec returns the spec every registered table starts from.
func (c AppConfig) DefaultSpec() search.Spec {
	return search.NewSpec(nil, c.searchMode, c.fulltextMode)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithDBURL sets the database URL.
func WithDBURL(dbURL string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = dbURL }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithModelsFile sets the model registry path.
func WithModelsFile(path string) AppConfigOption {
	return func(c *AppConfig) { c.modelsFile = path }
}

// WithSearchMode sets the default search mode. Empty values are ignored.
func WithSearchMode(mode search.Mode) AppConfigOption {
	return func(c *AppConfig) {
		if mode != "" {
			c.searchMode = mode
		}
	}
}

// WithFulltextMode sets the default fulltext mode. Empty values are ignored.
func WithFulltextMode(mode search.FulltextMode) AppConfigOption {
	return func(c *AppConfig) {
		if mode != "" {
			c.fulltextMode = mode
		}
	}
}

// WithSearchLimit sets the default search result limit.
func WithSearchLimit(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	return NewAppConfig().Apply(opts...)
}

// Apply returns a copy of the config with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration.
// Database passwords are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("db_url", c.maskedDBURL()),
		slog.String("log_level", c.logLevel),
		slog.String("log_format", string(c.logFormat)),
		slog.String("models_file", c.modelsFile),
		slog.String("search_mode", c.searchMode.String()),
		slog.String("fulltext_mode", c.fulltextMode.String()),
		slog.Int("search_limit", c.searchLimit),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(default)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	u, err := url.Parse(c.dbURL)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}

// ParseLogFormat parses a log format string. Anything but "json" is pretty.
func ParseLogFormat(s string) LogFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(LogFormatJSON):
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}
