// Package mcp provides Model Context Protocol server functionality.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/domain/search"
)

// Searcher provides table search operations for MCP tools.
type Searcher interface {
	Tables() []string
	Spec(table string, opts ...service.SearchOption) (search.Spec, error)
	Query(ctx context.Context, table, query string, opts ...service.SearchOption) (service.SearchResult, error)
	Explain(ctx context.Context, table, query string, opts ...service.SearchOption) (service.Explanation, error)
}

// Server wraps the MCP server with search tools.
type Server struct {
	mcpServer *server.MCPServer
	searcher  Searcher
	logger    *slog.Logger
}

// NewServer creates a new MCP server reporting version.
func NewServer(searcher Searcher, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		searcher: searcher,
		logger:   logger,
	}

	mcpServer := server.NewMCPServer(
		"modelsearch",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	searchArgs := []mcp.ToolOption{
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("The table to search"),
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search text"),
		),
		mcp.WithString("columns",
			mcp.Description("Comma separated columns to search instead of the registered ones"),
		),
		mcp.WithString("mode",
			mcp.Description("Search mode: like or fulltext"),
			mcp.Enum(search.ModeLike.String(), search.ModeFulltext.String()),
		),
		mcp.WithString("fulltext_mode",
			mcp.Description("Fulltext modifier: boolean, natural or expansion"),
			mcp.Enum(search.FulltextBoolean.String(), search.FulltextNatural.String(), search.FulltextExpansion.String()),
		),
		mcp.WithBoolean("score",
			mcp.Description("Include the relevance score and order by it in fulltext mode"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of rows to return (default: 10)"),
		),
	}

	mcpServer.AddTool(mcp.NewTool("search",
		append([]mcp.ToolOption{mcp.WithDescription("Search the text columns of a database table")}, searchArgs...)...,
	), s.handleSearch)

	mcpServer.AddTool(mcp.NewTool("explain",
		append([]mcp.ToolOption{mcp.WithDescription("Show the SQL a search would run without running it")}, searchArgs...)...,
	), s.handleExplain)

	mcpServer.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List the searchable tables and their columns"),
	), s.handleListTables)
}

// searchRequest reads the shared arguments of search and explain.
func searchRequest(request mcp.CallToolRequest) (string, string, []service.SearchOption, *mcp.CallToolResult) {
	table, err := request.RequireString("table")
	if err != nil {
		return "", "", nil, mcp.NewToolResultError("table is required")
	}
	query, err := request.RequireString("query")
	if err != nil {
		return "", "", nil, mcp.NewToolResultError("query is required")
	}

	opts := []service.SearchOption{
		service.WithScore(request.GetBool("score", false)),
		service.WithLimit(request.GetInt("limit", 10)),
	}
	if raw := request.GetString("mode", ""); raw != "" {
		mode, err := search.ParseMode(raw)
		if err != nil {
			return "", "", nil, mcp.NewToolResultError(fmt.Sprintf("invalid mode: %v", err))
		}
		opts = append(opts, service.WithMode(mode))
	}
	if raw := request.GetString("fulltext_mode", ""); raw != "" {
		mode, err := search.ParseFulltextMode(raw)
		if err != nil {
			return "", "", nil, mcp.NewToolResultError(fmt.Sprintf("invalid fulltext_mode: %v", err))
		}
		opts = append(opts, service.WithFulltextMode(mode))
	}
	if columns := request.GetString("columns", ""); columns != "" {
		var names []string
		for _, c := range strings.Split(columns, ",") {
			if c = strings.TrimSpace(c); c != "" {
				names = append(names, c)
			}
		}
		opts = append(opts, service.WithColumns(names...))
	}
	return table, query, opts, nil
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, query, opts, failure := searchRequest(request)
	if failure != nil {
		return failure, nil
	}

	result, err := s.searcher.Query(ctx, table, query, opts...)
	if err != nil {
		s.logger.Error("search failed", slog.String("table", table), slog.Any("error", err))
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	type hitResult struct {
		Fields map[string]any `json:"fields"`
		Score  *float64       `json:"score,omitempty"`
	}
	type searchResult struct {
		Table string      `json:"table"`
		Mode  string      `json:"mode"`
		Total int64       `json:"total"`
		Hits  []hitResult `json:"hits"`
	}

	out := searchResult{
		Table: result.Table(),
		Mode:  result.Mode().String(),
		Total: result.Total(),
		Hits:  make([]hitResult, 0, result.Count()),
	}
	for _, hit := range result.Hits() {
		fields := hit.Fields()
		for name, v := range fields {
			if b, ok := v.([]byte); ok {
				fields[name] = string(b)
			}
		}
		h := hitResult{Fields: fields}
		if score, ok := hit.Score(); ok {
			h.Score = &score
		}
		out.Hits = append(out.Hits, h)
	}

	return jsonResult(out)
}

func (s *Server) handleExplain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table, query, opts, failure := searchRequest(request)
	if failure != nil {
		return failure, nil
	}

	explanation, err := s.searcher.Explain(ctx, table, query, opts...)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("explain failed: %v", err)), nil
	}

	type explainResult struct {
		Mode      string `json:"mode"`
		Query     string `json:"query"`
		Predicate string `json:"predicate"`
		SQL       string `json:"sql"`
		Vars      []any  `json:"vars"`
	}

	return jsonResult(explainResult{
		Mode:      explanation.Spec().Mode().String(),
		Query:     explanation.Query(),
		Predicate: explanation.Predicate(),
		SQL:       explanation.SQL(),
		Vars:      explanation.Vars(),
	})
}

func (s *Server) handleListTables(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type tableResult struct {
		Name         string   `json:"name"`
		Columns      []string `json:"columns"`
		Mode         string   `json:"mode"`
		FulltextMode string   `json:"fulltext_mode"`
	}

	tables := s.searcher.Tables()
	out := make([]tableResult, 0, len(tables))
	for _, name := range tables {
		spec, err := s.searcher.Spec(name)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("table %s: %v", name, err)), nil
		}
		out = append(out, tableResult{
			Name:         name,
			Columns:      spec.Columns(),
			Mode:         spec.Mode().String(),
			FulltextMode: spec.FulltextMode().String(),
		})
	}

	return jsonResult(out)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MCPServer returns the underlying MCP server for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio runs the MCP server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}
