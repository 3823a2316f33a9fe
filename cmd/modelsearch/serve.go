package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/helixml/modelsearch"
	"github.com/helixml/modelsearch/infrastructure/api"
	"github.com/helixml/modelsearch/internal/log"
)

// shutdownTimeout bounds how long in-flight requests get after a signal.
const shutdownTimeout = 15 * time.Second

func serveCmd() *cobra.Command {
	var (
		envFile     string
		modelsFile  string
		addr        string
		corsOrigins []string
		indexes     bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP search server",
		Long: `Start the HTTP search server.

Routes:
  GET  /health                      Liveness and registered table count
  GET  /metrics                     Prometheus metrics
  GET  /api/v1/tables               Registered tables
  GET  /api/v1/search/{table}       Search a table (q, columns, mode, fulltext_mode, score, page, page_size, filter[col])
  GET  /api/v1/search/{table}/explain  The SQL a search would run
  POST /mcp                         MCP over streamable HTTP`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := searchFlags{envFile: envFile, modelsFile: modelsFile}
			return runServe(cmd.Context(), flags, addr, corsOrigins, indexes)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&modelsFile, "models-file", "", "YAML models file (overrides MODELS_FILE)")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	cmd.Flags().StringSliceVar(&corsOrigins, "cors-origin", nil, "Origins allowed to call the API from a browser")
	cmd.Flags().BoolVar(&indexes, "ensure-indexes", false, "Create missing FULLTEXT indexes for fulltext tables first (MySQL)")

	return cmd
}

func runServe(ctx context.Context, flags searchFlags, addr string, corsOrigins []string, indexes bool) error {
	cfg, err := flags.config()
	if err != nil {
		return err
	}

	logger := log.Configure(cfg)
	slogger := logger.Slog()
	attrs := append([]slog.Attr{slog.String("version", version), slog.String("addr", addr)}, cfg.LogAttrs()...)
	slogger.LogAttrs(ctx, slog.LevelInfo, "starting modelsearch server", attrs...)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := modelsearch.New(
		modelsearch.WithConfig(cfg),
		modelsearch.WithLogger(slogger),
		modelsearch.WithMetrics(reg),
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

	apiServer := api.NewAPIServer(client,
		api.WithGatherer(reg),
		api.WithCORSOrigins(corsOrigins...),
		api.WithPageSize(cfg.SearchLimit()),
		api.WithVersion(version),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return apiServer.ListenAndServe(addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
