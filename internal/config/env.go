package config

import (
	"fmt"

	"github.com/helixml/modelsearch/domain/search"
	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., SEARCH_FULLTEXT_MODE).
type EnvConfig struct {
	// DBURL is the database connection URL.
	// Env: DB_URL
	// Default: sqlite:///modelsearch.db
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// ModelsFile is the YAML file listing searchable tables.
	// Env: MODELS_FILE
	ModelsFile string `envconfig:"MODELS_FILE"`

	// Search configures defaults for tables that leave them unset.
	Search SearchEnv `envconfig:"SEARCH"`
}

// SearchEnv holds environment configuration for search defaults.
type SearchEnv struct {
	// Mode is the matching strategy (like or fulltext).
	// Env: SEARCH_MODE (default: like)
	Mode string `envconfig:"MODE" default:"like"`

	// FulltextMode is the MATCH ... AGAINST modifier.
	// Env: SEARCH_FULLTEXT_MODE (default: boolean)
	FulltextMode string `envconfig:"FULLTEXT_MODE" default:"boolean"`

	// Limit is the default number of results.
	// Env: SEARCH_LIMIT (default: 10)
	Limit int `envconfig:"LIMIT" default:"10"`
}

// LoadFromEnv loads configuration from unprefixed environment variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix("")
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "MODELSEARCH" reads MODELSEARCH_DB_URL instead of DB_URL.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("process environment: %w", err)
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig. Unknown search modes are
// rejected here so a bad deployment fails at startup.
func (e EnvConfig) ToAppConfig() (AppConfig, error) {
	defaults, err := e.Search.options()
	if err != nil {
		return AppConfig{}, err
	}

	cfg := NewAppConfig().Apply(defaults...)
	if e.DBURL != "" {
		cfg = cfg.Apply(WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = cfg.Apply(WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = cfg.Apply(WithLogFormat(ParseLogFormat(e.LogFormat)))
	}
	if e.ModelsFile != "" {
		cfg = cfg.Apply(WithModelsFile(e.ModelsFile))
	}
	return cfg, nil
}

func (s SearchEnv) options() ([]AppConfigOption, error) {
	var opts []AppConfigOption
	if s.Mode != "" {
		mode, err := search.ParseMode(s.Mode)
		if err != nil {
			return nil, fmt.Errorf("SEARCH_MODE: %w", err)
		}
		opts = append(opts, WithSearchMode(mode))
	}
	if s.FulltextMode != "" {
		mode, err := search.ParseFulltextMode(s.FulltextMode)
		if err != nil {
			return nil, fmt.Errorf("SEARCH_FULLTEXT_MODE: %w", err)
		}
		opts = append(opts, WithFulltextMode(mode))
	}
	return append(opts, WithSearchLimit(s.Limit)), nil
}
