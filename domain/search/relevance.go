package search

import "strings"

// ScoreColumn is the alias given to the projected relevance expression.
const ScoreColumn = "score"

// Relevance carries the fulltext expression of one compiled search to the
// projection step. The zero value holds nothing and projects nothing.
type Relevance struct {
	expr  FulltextExpression
	valid bool
}

// NewRelevance wraps a compiled fulltext expression.
func NewRelevance(expr FulltextExpression) Relevance {
	if expr.IsEmpty() {
		return Relevance{}
	}
	return Relevance{expr: expr, valid: true}
}

// Expression returns the fulltext expression and whether one is set.
func (r Relevance) Expression() (FulltextExpression, bool) {
	return r.expr, r.valid
}

// IsEmpty reports whether no expression is set.
func (r Relevance) IsEmpty() bool { return !r.valid }

// Projection is an ordered select list plus the values bound by its
// expressions.
type Projection struct {
	columns []string
	vars    []any
}

// NewProjection creates a Projection of plain columns.
func NewProjection(columns ...string) Projection {
	p := Projection{columns: make([]string, len(columns))}
	copy(p.columns, columns)
	return p
}

// Columns returns a copy of the select list.
func (p Projection) Columns() []string {
	result := make([]string, len(p.columns))
	copy(result, p.columns)
	return result
}

// Vars returns a copy of the bound values in placeholder order.
func (p Projection) Vars() []any {
	result := make([]any, len(p.vars))
	copy(result, p.vars)
	return result
}

// IsEmpty reports whether the select list is empty.
func (p Projection) IsEmpty() bool { return len(p.columns) == 0 }

// SQL returns the comma-joined select list.
func (p Projection) SQL() string { return strings.Join(p.columns, ", ") }

func (p Projection) contains(column string) bool {
	for _, c := range p.columns {
		if c == column {
			return true
		}
	}
	return false
}

func (p Projection) append(column string, vars ...any) Projection {
	next := Projection{
		columns: make([]string, len(p.columns), len(p.columns)+1),
		vars:    make([]any, len(p.vars), len(p.vars)+len(vars)),
	}
	copy(next.columns, p.columns)
	copy(next.vars, p.vars)
	next.columns = append(next.columns, column)
	next.vars = append(next.vars, vars...)
	return next
}

// ScoreExpression returns the "<expr> AS score" select item for an expression.
func ScoreExpression(expr FulltextExpression) string {
	return expr.SQL() + " AS " + ScoreColumn
}

// WithScore appends the relevance score to base. It returns base unchanged
// when the spec is not in fulltext mode, when rel is empty, or when the score
// column is already present. An empty base selects "*".
func WithScore(spec Spec, rel Relevance, base Projection) Projection {
	expr, ok := rel.Expression()
	if spec.Mode() != ModeFulltext || !ok {
		return base
	}

	column := ScoreExpression(expr)
	if base.contains(column) {
		return base
	}
	if base.IsEmpty() {
		base = NewProjection("*")
	}
	return base.append(column, expr.Vars()...)
}
