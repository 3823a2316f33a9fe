package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixml/modelsearch"
	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/internal/log"
)

func searchCmd() *cobra.Command {
	var (
		flags   searchFlags
		indexes bool
	)

	cmd := &cobra.Command{
		Use:   "search <table> <query>",
		Short: "Search a table",
		Long: `Search a table and print one line per hit.

The table must be listed in the models file unless --columns is given.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), cmd.OutOrStdout(), flags, indexes, args[0], args[1])
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&indexes, "ensure-indexes", false, "Create missing FULLTEXT indexes for fulltext tables first (MySQL)")

	return cmd
}

func runSearch(ctx context.Context, out io.Writer, flags searchFlags, indexes bool, table, query string) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()
	slogger.LogAttrs(ctx, slog.LevelDebug, "starting modelsearch", append([]slog.Attr{slog.String("version", version)}, cfg.LogAttrs()...)...)

	client, err := modelsearch.New(
		modelsearch.WithConfig(cfg),
		modelsearch.WithLogger(slogger),
		modelsearch.WithFulltextIndexes(indexes),
	)
	if err != nil {
		return fmt.Errorf("create modelsearch client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close modelsearch client", slog.Any("error", err))
		}
	}()

	result, err := client.Search.Query(ctx, table, query, flags.options()...)
	if err != nil {
		return err
	}

	printResult(out, result)
	return nil
}

func printResult(out io.Writer, result service.SearchResult) {
	for _, hit := range result.Hits() {
		var line strings.Builder
		if score, ok := hit.Score(); ok {
			fmt.Fprintf(&line, "%.4f ", score)
		}

		fields := hit.Fields()
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for i, name := range names {
			if i > 0 {
				line.WriteByte(' ')
			}
			fmt.Fprintf(&line, "%s=%s", name, formatValue(fields[name]))
		}
		fmt.Fprintln(out, line.String())
	}
	fmt.Fprintf(out, "%d of %d hits in %s (%s)\n", result.Count(), result.Total(), result.Table(), result.Mode())
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return fmt.Sprintf("%q", string(v))
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprint(v)
	}
}
