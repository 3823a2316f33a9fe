// Package api serves searches over HTTP: a JSON:API endpoint under /api/v1,
// an MCP endpoint under /mcp and Prometheus metrics under /metrics.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/helixml/modelsearch"
	apimiddleware "github.com/helixml/modelsearch/infrastructure/api/middleware"
	v1 "github.com/helixml/modelsearch/infrastructure/api/v1"
	"github.com/helixml/modelsearch/internal/config"
	mcpinternal "github.com/helixml/modelsearch/internal/mcp"
)

// APIServer provides an HTTP API backed by a modelsearch Client.
type APIServer struct {
	client      *modelsearch.Client
	gatherer    prometheus.Gatherer
	corsOrigins []string
	pageSize    int
	version     string
	logger      *slog.Logger

	mu      sync.Mutex
	server  *Server
	stopped bool
}

// APIOption configures an APIServer.
type APIOption func(*APIServer)

// WithGatherer serves the metrics of g under /metrics. Without it /metrics
// is not mounted.
func WithGatherer(g prometheus.Gatherer) APIOption {
	return func(a *APIServer) {
		a.gatherer = g
	}
}

// WithCORSOrigins allows cross-origin GET requests from the given origins.
func WithCORSOrigins(origins ...string) APIOption {
	return func(a *APIServer) {
		a.corsOrigins = origins
	}
}

// WithPageSize sets the page size used when a request does not set one.
func WithPageSize(n int) APIOption {
	return func(a *APIServer) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// WithVersion sets the version reported by /health and the MCP server.
func WithVersion(version string) APIOption {
	return func(a *APIServer) {
		if version != "" {
			a.version = version
		}
	}
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *modelsearch.Client, opts ...APIOption) *APIServer {
	a := &APIServer{
		client:   client,
		pageSize: config.DefaultSearchLimit,
		version:  "dev",
		logger:   client.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// mountRoutes wires up the health, metrics, v1 and MCP routes on router.
func (a *APIServer) mountRoutes(router chi.Router) {
	if len(a.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", apimiddleware.CorrelationIDHeader},
			ExposedHeaders:   []string{apimiddleware.CorrelationIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	router.Get("/health", a.health)
	if a.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}

	searchRouter := v1.NewSearchRouter(a.client.Search, a.pageSize, a.logger)
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Mount("/", searchRouter.Routes())
	})

	// MCP streams its responses, so it is mounted outside the timeout group.
	mcpSrv := mcpinternal.NewServer(a.client.Search, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	apimiddleware.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": a.version,
		"tables":  len(a.client.Tables()),
	})
}

// Handler returns the routes with the standard middleware as an http.Handler
// for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	srv := NewServer("", a.logger)
	a.mountRoutes(srv.Router())
	return srv.Router()
}

// ListenAndServe starts the HTTP server on addr and blocks until it stops.
// It returns nil without listening once Shutdown has been called.
func (a *APIServer) ListenAndServe(addr string) error {
	srv := NewServer(addr, a.logger)
	a.mountRoutes(srv.Router())

	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return nil
	}
	a.server = &srv
	a.mu.Unlock()

	return srv.Start()
}

// Shutdown gracefully shuts down the server. A server that has not started
// yet will not start.
func (a *APIServer) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	a.stopped = true
	srv := a.server
	a.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
