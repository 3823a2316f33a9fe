package search

import (
	"fmt"
	"strings"
)

// FulltextExpression is a MATCH (columns) AGAINST (? modifier) expression and
// the query bound to its single placeholder.
type FulltextExpression struct {
	columns []string
	literal string
	query   string
}

// Columns returns a copy of the matched columns.
func (e FulltextExpression) Columns() []string {
	result := make([]string, len(e.columns))
	copy(result, e.columns)
	return result
}

// Query returns the bound query text.
func (e FulltextExpression) Query() string { return e.query }

// Literal returns the AGAINST modifier, e.g. "IN BOOLEAN MODE".
func (e FulltextExpression) Literal() string { return e.literal }

// IsEmpty reports whether there is nothing to match against.
func (e FulltextExpression) IsEmpty() bool { return len(e.columns) == 0 }

// SQL returns the expression with a "?" placeholder for the query.
func (e FulltextExpression) SQL() string {
	return fmt.Sprintf("MATCH (%s) AGAINST (? %s)", strings.Join(e.columns, ","), e.literal)
}

// Vars returns the bound parameters, always exactly the query text.
func (e FulltextExpression) Vars() []any { return []any{e.query} }

// CompileFulltext builds the MATCH ... AGAINST expression for a sanitized
// query. The fulltext mode is checked before anything else so a bad mode is
// reported even when the spec has no columns.
func CompileFulltext(spec Spec, query string) (FulltextExpression, error) {
	literal, err := spec.fulltextMode.Literal()
	if err != nil {
		return FulltextExpression{}, err
	}
	if len(spec.columns) == 0 {
		return FulltextExpression{}, nil
	}
	return FulltextExpression{
		columns: spec.Columns(),
		literal: literal,
		query:   query,
	}, nil
}
