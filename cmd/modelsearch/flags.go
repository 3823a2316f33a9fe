package main

import (
	"github.com/spf13/cobra"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/internal/config"
)

// searchFlags are the flags shared by search and explain.
type searchFlags struct {
	envFile      string
	modelsFile   string
	columns      []string
	mode         string
	fulltextMode string
	score        bool
	limit        int
	offset       int
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&f.modelsFile, "models-file", "", "YAML models file (overrides MODELS_FILE)")
	cmd.Flags().StringSliceVar(&f.columns, "columns", nil, "Columns to search, comma separated (overrides the models file)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "Search mode: like, fulltext")
	cmd.Flags().StringVar(&f.fulltextMode, "fulltext-mode", "", "Fulltext modifier: boolean, natural, expansion")
	cmd.Flags().BoolVar(&f.score, "score", false, "Select the relevance score and order by it (fulltext mode)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum number of hits (overrides SEARCH_LIMIT)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "Number of hits to skip")
}

// config loads the configuration and applies the flag overrides.
func (f *searchFlags) config() (config.AppConfig, error) {
	cfg, err := loadConfig(f.envFile)
	if err != nil {
		return config.AppConfig{}, err
	}
	if f.modelsFile != "" {
		cfg = cfg.Apply(config.WithModelsFile(f.modelsFile))
	}
	return cfg.Apply(config.WithSearchLimit(f.limit)), nil
}

func (f *searchFlags) options() []service.SearchOption {
	return []service.SearchOption{
		service.WithColumns(f.columns...),
		service.WithMode(search.Mode(f.mode)),
		service.WithFulltextMode(search.FulltextMode(f.fulltextMode)),
		service.WithScore(f.score),
		service.WithOffset(f.offset),
	}
}
