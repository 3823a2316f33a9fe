// Package v1 implements the version 1 HTTP search API.
package v1

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/infrastructure/api/jsonapi"
	"github.com/helixml/modelsearch/infrastructure/api/middleware"
)

// Searcher runs and explains searches.
type Searcher interface {
	Tables() []string
	Spec(table string, opts ...service.SearchOption) (search.Spec, error)
	Query(ctx context.Context, table, query string, opts ...service.SearchOption) (service.SearchResult, error)
	Explain(ctx context.Context, table, query string, opts ...service.SearchOption) (service.Explanation, error)
}

// SearchRouter handles search API endpoints.
type SearchRouter struct {
	searcher Searcher
	pageSize int
	logger   *slog.Logger
}

// NewSearchRouter creates a new SearchRouter. pageSize is the page size used
// when a request does not set one.
func NewSearchRouter(searcher Searcher, pageSize int, logger *slog.Logger) *SearchRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchRouter{
		searcher: searcher,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Routes returns the chi router for search endpoints.
func (r *SearchRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/tables", r.ListTables)
	router.Get("/tables/{table}", r.GetTable)
	router.Get("/search/{table}", r.Search)
	router.Get("/search/{table}/explain", r.Explain)

	return router
}

// ListTables handles GET /api/v1/tables.
//
//	@Summary		List tables
//	@Description	List the registered searchable tables and their search settings
//	@Tags			tables
//	@Produce		json
//	@Success		200	{object}	jsonapi.Document
//	@Failure		500	{object}	jsonapi.Document
//	@Router			/tables [get]
func (r *SearchRouter) ListTables(w http.ResponseWriter, req *http.Request) {
	tables := r.searcher.Tables()
	resources := make([]*jsonapi.Resource, 0, len(tables))
	for _, table := range tables {
		spec, err := r.searcher.Spec(table)
		if err != nil {
			middleware.WriteError(w, req, err, r.logger)
			return
		}
		resources = append(resources, jsonapi.TableResource(table, spec))
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewListResponse(resources))
}

// GetTable handles GET /api/v1/tables/{table}.
//
//	@Summary		Get table
//	@Description	Get the search settings of a registered table
//	@Tags			tables
//	@Produce		json
//	@Param			table	path		string	true	"Table name"
//	@Success		200		{object}	jsonapi.Document
//	@Failure		404		{object}	jsonapi.Document
//	@Router			/tables/{table} [get]
func (r *SearchRouter) GetTable(w http.ResponseWriter, req *http.Request) {
	table := chi.URLParam(req, "table")
	spec, err := r.searcher.Spec(table)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(jsonapi.TableResource(table, spec)))
}

// Search handles GET /api/v1/search/{table}.
//
// Query parameters: q (the search text), columns (comma separated), mode,
// fulltext_mode, score, page, page_size and filter[<column>]=<value>.
//
//	@Summary		Search table
//	@Description	Free-text search of one table with LIKE or MATCH ... AGAINST
//	@Tags			search
//	@Produce		json
//	@Param			table			path		string	true	"Table name"
//	@Param			q				query		string	false	"Search text"
//	@Param			columns			query		string	false	"Comma separated columns"
//	@Param			mode			query		string	false	"Search mode"	Enums(like, fulltext)
//	@Param			fulltext_mode	query		string	false	"Fulltext modifier"	Enums(boolean, natural, expansion)
//	@Param			score			query		bool	false	"Select the relevance score"
//	@Param			page			query		int		false	"Page number"
//	@Param			page_size		query		int		false	"Results per page"
//	@Success		200				{object}	jsonapi.Document
//	@Failure		400				{object}	jsonapi.Document
//	@Failure		404				{object}	jsonapi.Document
//	@Failure		422				{object}	jsonapi.Document
//	@Failure		500				{object}	jsonapi.Document
//	@Router			/search/{table} [get]
func (r *SearchRouter) Search(w http.ResponseWriter, req *http.Request) {
	table := chi.URLParam(req, "table")

	opts, err := searchOptions(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	pagination := ParsePagination(req, r.pageSize)
	opts = append(opts, pagination.Options()...)

	result, err := r.searcher.Query(req.Context(), table, req.URL.Query().Get("q"), opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	hits := result.Hits()
	resources := make([]*jsonapi.Resource, len(hits))
	for i, hit := range hits {
		resources[i] = jsonapi.HitResource(table, pagination.Offset()+i, hit)
	}

	meta := PaginationMeta(pagination, result.Total())
	meta["mode"] = result.Mode().String()
	meta["query"] = result.Query()

	doc := jsonapi.NewListResponse(resources)
	doc.Meta = &meta
	doc.Links = PaginationLinks(req, pagination, result.Total())
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// Explain handles GET /api/v1/search/{table}/explain. It takes the same
// parameters as Search and returns the statement without running it.
//
//	@Summary		Explain search
//	@Description	Render the SELECT a search would run, without running it
//	@Tags			search
//	@Produce		json
//	@Param			table			path		string	true	"Table name"
//	@Param			q				query		string	false	"Search text"
//	@Param			columns			query		string	false	"Comma separated columns"
//	@Param			mode			query		string	false	"Search mode"	Enums(like, fulltext)
//	@Param			fulltext_mode	query		string	false	"Fulltext modifier"	Enums(boolean, natural, expansion)
//	@Param			score			query		bool	false	"Select the relevance score"
//	@Success		200				{object}	jsonapi.Document
//	@Failure		400				{object}	jsonapi.Document
//	@Failure		404				{object}	jsonapi.Document
//	@Router			/search/{table}/explain [get]
func (r *SearchRouter) Explain(w http.ResponseWriter, req *http.Request) {
	table := chi.URLParam(req, "table")

	opts, err := searchOptions(req)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	opts = append(opts, ParsePagination(req, r.pageSize).Options()...)

	explanation, err := r.searcher.Explain(req.Context(), table, req.URL.Query().Get("q"), opts...)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, jsonapi.NewSingleResponse(jsonapi.ExplanationResource(table, explanation)))
}

// searchOptions reads the spec overrides, score flag and filters of a request.
func searchOptions(req *http.Request) ([]service.SearchOption, error) {
	q := req.URL.Query()

	var opts []service.SearchOption
	if columns := q.Get("columns"); columns != "" {
		opts = append(opts, service.WithColumns(splitList(columns)...))
	}
	if raw := q.Get("mode"); raw != "" {
		mode, err := search.ParseMode(raw)
		if err != nil {
			return nil, middleware.NewParamError("mode", err.Error())
		}
		opts = append(opts, service.WithMode(mode))
	}
	if raw := q.Get("fulltext_mode"); raw != "" {
		mode, err := search.ParseFulltextMode(raw)
		if err != nil {
			return nil, middleware.NewParamError("fulltext_mode", err.Error())
		}
		opts = append(opts, service.WithFulltextMode(mode))
	}

	if raw := q.Get("score"); raw != "" {
		score, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, middleware.NewParamError("score", fmt.Sprintf("%q is not a boolean", raw))
		}
		opts = append(opts, service.WithScore(score))
	}

	for key, values := range q {
		field, ok := strings.CutPrefix(key, "filter[")
		if !ok || !strings.HasSuffix(field, "]") || len(values) == 0 {
			continue
		}
		opts = append(opts, service.WithFilter(strings.TrimSuffix(field, "]"), values[0]))
	}
	return opts, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
