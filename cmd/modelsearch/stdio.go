package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/helixml/modelsearch"
	"github.com/helixml/modelsearch/internal/log"
	"github.com/helixml/modelsearch/internal/mcp"
)

func stdioCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "stdio",
		Short: "Start MCP server on stdio",
		Long: `Start the MCP (Model Context Protocol) server on stdio.

Exposes the search, explain and list_tables tools. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(flags)
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&flags.modelsFile, "models-file", "", "YAML models file (overrides MODELS_FILE)")

	return cmd
}

func runStdio(flags searchFlags) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}

	// stdout carries the protocol, the logger writes to stderr.
	logger := log.Configure(cfg)
	slogger := logger.Slog()
	slogger.Info("starting MCP server", slog.String("version", version))

	client, err := modelsearch.New(
		modelsearch.WithConfig(cfg),
		modelsearch.WithLogger(slogger),
	)
	if err != nil {
		return fmt.Errorf("create modelsearch client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slogger.Error("failed to close modelsearch client", slog.Any("error", err))
		}
	}()

	if len(client.Tables()) == 0 {
		slogger.Warn("no tables registered, searches need explicit columns")
	}

	return mcp.NewServer(client.Search, version, slogger).ServeStdio()
}
