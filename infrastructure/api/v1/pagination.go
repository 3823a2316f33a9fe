package v1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/infrastructure/api/jsonapi"
)

// PaginationParams holds pagination parameters parsed from query strings.
type PaginationParams struct {
	page     int
	pageSize int
}

// MaxPageSize is the maximum allowed page size.
const MaxPageSize = 100

// NewPaginationParams creates pagination params for the first page.
func NewPaginationParams(pageSize int) PaginationParams {
	return PaginationParams{page: 1}.WithPageSize(pageSize)
}

// ParsePagination parses page and page_size from an HTTP request. Invalid
// values keep the defaults; page_size is capped at MaxPageSize.
func ParsePagination(r *http.Request, defaultPageSize int) PaginationParams {
	params := NewPaginationParams(defaultPageSize)

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil {
			params = params.WithPage(page)
		}
	}

	if sizeStr := r.URL.Query().Get("page_size"); sizeStr != "" {
		if size, err := strconv.Atoi(sizeStr); err == nil && size >= 1 {
			params = params.WithPageSize(size)
		}
	}

	return params
}

// Page returns the page number (1-indexed).
func (p PaginationParams) Page() int { return p.page }

// PageSize returns the page size.
func (p PaginationParams) PageSize() int { return p.pageSize }

// Offset returns the number of hits skipped.
func (p PaginationParams) Offset() int {
	return (p.page - 1) * p.pageSize
}

// WithPage returns a copy with the specified page.
func (p PaginationParams) WithPage(page int) PaginationParams {
	if page < 1 {
		page = 1
	}
	p.page = page
	return p
}

// WithPageSize returns a copy with the specified page size.
func (p PaginationParams) WithPageSize(size int) PaginationParams {
	if size < 1 {
		size = 10
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	p.pageSize = size
	return p
}

// Options returns the search options for this page.
func (p PaginationParams) Options() []service.SearchOption {
	return []service.SearchOption{service.WithLimit(p.pageSize), service.WithOffset(p.Offset())}
}

func totalPages(params PaginationParams, totalCount int64) int {
	if params.PageSize() <= 0 {
		return 0
	}
	return (int(totalCount) + params.PageSize() - 1) / params.PageSize()
}

// PaginationMeta builds a JSON:API meta object from pagination params and total count.
func PaginationMeta(params PaginationParams, totalCount int64) jsonapi.Meta {
	return jsonapi.Meta{
		"page":        params.Page(),
		"page_size":   params.PageSize(),
		"total_count": totalCount,
		"total_pages": totalPages(params, totalCount),
	}
}

// PaginationLinks builds JSON:API links from the request, params, and total count.
func PaginationLinks(r *http.Request, params PaginationParams, totalCount int64) *jsonapi.Links {
	pages := totalPages(params, totalCount)

	buildURL := func(page int) string {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(params.PageSize()))
		return fmt.Sprintf("%s?%s", r.URL.Path, q.Encode())
	}

	links := jsonapi.Links{
		Self:  buildURL(params.Page()),
		First: buildURL(1),
	}

	if pages > 0 {
		links.Last = buildURL(pages)
	}

	if params.Page() > 1 {
		links.Prev = buildURL(params.Page() - 1)
	}

	if params.Page() < pages {
		links.Next = buildURL(params.Page() + 1)
	}

	return &links
}
