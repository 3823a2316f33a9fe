package service

import (
	"maps"
	"strconv"

	"github.com/helixml/modelsearch/domain/search"
	infrasearch "github.com/helixml/modelsearch/infrastructure/search"
)

// Hit is one matched row.
type Hit struct {
	fields map[string]any
	score  float64
	scored bool
}

// NewHit creates an unscored Hit from a result row. Every column, one
// named "score" included, stays a field.
func NewHit(row infrasearch.Row) Hit {
	fields := make(map[string]any, len(row))
	maps.Copy(fields, row)
	return Hit{fields: fields}
}

// NewScoredHit creates a Hit from a row that carries a projected relevance
// column. The "score" column becomes the hit's score.
func NewScoredHit(row infrasearch.Row) Hit {
	h := NewHit(row)
	if raw, ok := h.fields[search.ScoreColumn]; ok {
		delete(h.fields, search.ScoreColumn)
		h.score, h.scored = parseScore(raw)
	}
	return h
}

// parseScore reads a relevance value as drivers return it.
func parseScore(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int64:
		return float64(v), true
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Fields returns the row's columns, without the score.
func (h Hit) Fields() map[string]any {
	result := make(map[string]any, len(h.fields))
	maps.Copy(result, h.fields)
	return result
}

// Get returns one column value.
func (h Hit) Get(column string) (any, bool) {
	v, ok := h.fields[column]
	return v, ok
}

// String returns a column as text. Byte slices are converted, other
// non-string values give "".
func (h Hit) String(column string) string {
	switch v := h.fields[column].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Score returns the relevance score and whether one was selected.
func (h Hit) Score() (float64, bool) {
	return h.score, h.scored
}

// SearchResult is one page of hits from a table.
type SearchResult struct {
	table string
	mode  search.Mode
	query string
	hits  []Hit
	total int64
}

func newSearchResult(table string, compiled search.Compiled, rows []infrasearch.Row, total int64, scored bool) SearchResult {
	hits := make([]Hit, len(rows))
	for i, row := range rows {
		if scored {
			hits[i] = NewScoredHit(row)
		} else {
			hits[i] = NewHit(row)
		}
	}
	return SearchResult{
		table: table,
		mode:  compiled.Mode(),
		query: compiled.Query(),
		hits:  hits,
		total: total,
	}
}

// Table returns the searched table.
func (r SearchResult) Table() string { return r.table }

// Mode returns the mode the search ran in.
func (r SearchResult) Mode() search.Mode { return r.mode }

// Query returns the sanitized query.
func (r SearchResult) Query() string { return r.query }

// Hits returns the page of hits.
func (r SearchResult) Hits() []Hit {
	result := make([]Hit, len(r.hits))
	copy(result, r.hits)
	return result
}

// Total returns how many rows matched, ignoring pagination.
func (r SearchResult) Total() int64 { return r.total }

// Count returns the number of hits in the page.
func (r SearchResult) Count() int { return len(r.hits) }
