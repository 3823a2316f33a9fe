package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/internal/config"
)

func explainCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "explain <table> <query>",
		Short: "Print the SQL a search would run",
		Long: `Print the compiled predicate, the full SELECT statement and its bound
values for a search, in the MySQL dialect. No database connection is made.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.Context(), cmd.OutOrStdout(), flags, args[0], args[1])
		},
	}

	flags.register(cmd)

	return cmd
}

func runExplain(ctx context.Context, out io.Writer, flags searchFlags, table, query string) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}

	registry, err := config.LoadModels(cfg.ModelsFile(), cfg.DefaultSpec())
	if err != nil {
		return err
	}

	opts := append([]service.SearchOption{service.WithLimit(cfg.SearchLimit())}, flags.options()...)
	explanation, err := service.Explain(ctx, registry, cfg.DefaultSpec(), table, query, opts...)
	if err != nil {
		return err
	}

	printExplanation(out, explanation)
	return nil
}

func printExplanation(out io.Writer, e service.Explanation) {
	spec := e.Spec()
	fmt.Fprintf(out, "mode:      %s\n", spec.Mode())
	if spec.Mode() == search.ModeFulltext {
		fmt.Fprintf(out, "modifier:  %s\n", spec.FulltextMode())
	}
	fmt.Fprintf(out, "columns:   %s\n", strings.Join(spec.Columns(), ", "))
	fmt.Fprintf(out, "query:     %q\n", e.Query())
	predicate := e.Predicate()
	if predicate == "" {
		predicate = "(none)"
	}
	fmt.Fprintf(out, "predicate: %s\n", predicate)
	fmt.Fprintf(out, "sql:       %s\n", e.SQL())

	vars := make([]string, len(e.Vars()))
	for i, v := range e.Vars() {
		vars[i] = formatValue(v)
	}
	fmt.Fprintf(out, "vars:      [%s]\n", strings.Join(vars, ", "))
}
