package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/helixml/modelsearch/internal/config"
)

func tablesCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "List the tables in the models file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config()
			if err != nil {
				return err
			}
			registry, err := config.LoadModels(cfg.ModelsFile(), cfg.DefaultSpec())
			if err != nil {
				return err
			}
			return printTables(cmd.OutOrStdout(), registry)
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&flags.modelsFile, "models-file", "", "YAML models file (overrides MODELS_FILE)")

	return cmd
}

func printTables(out io.Writer, registry config.Registry) error {
	if registry.Len() == 0 {
		fmt.Fprintln(out, "no tables registered")
		return nil
	}
	for _, table := range registry.Tables() {
		spec, err := registry.Lookup(table)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", table, spec.Mode(), strings.Join(spec.Columns(), ","))
	}
	return nil
}
