// Package main is the entry point for the modelsearch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helixml/modelsearch/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "modelsearch",
		Short: "Free-text search over database tables",
		Long: `modelsearch runs LIKE and MySQL FULLTEXT searches over the tables listed in a models file.

Configuration is loaded in the following order (later sources override earlier):
  1. Default values
  2. .env file (if --env-file specified or .env exists in current directory)
  3. Environment variables
  4. Command line flags

Environment variables:
  DB_URL                  Database URL (default: sqlite:///modelsearch.db)
  LOG_LEVEL               Log level: DEBUG, INFO, WARN, ERROR (default: INFO)
  LOG_FORMAT              Log format: pretty, json (default: pretty)
  MODELS_FILE             YAML file listing searchable tables
  SEARCH_MODE             Default mode: like, fulltext (default: like)
  SEARCH_FULLTEXT_MODE    Default fulltext modifier: boolean, natural, expansion (default: boolean)
  SEARCH_LIMIT            Default hits per search (default: 10)`,
		SilenceUsage: true,
	}

	cmd.AddCommand(searchCmd())
	cmd.AddCommand(explainCmd())
	cmd.AddCommand(tablesCmd())
	cmd.AddCommand(serveCmd())
	cmd.AddCommand(stdioCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
