package search

import (
	"fmt"
	"strings"
)

// LikeCondition is a single "column LIKE '%term%'" comparison.
type LikeCondition struct {
	column string
	term   string
}

// NewLikeCondition creates a LikeCondition.
func NewLikeCondition(column, term string) LikeCondition {
	return LikeCondition{column: column, term: term}
}

// Column returns the compared column.
func (c LikeCondition) Column() string { return c.column }

// Term returns the search term.
func (c LikeCondition) Term() string { return c.term }

// Pattern returns the bound LIKE pattern, "%term%".
func (c LikeCondition) Pattern() string { return "%" + c.term + "%" }

// SQL returns the parameterised comparison.
func (c LikeCondition) SQL() string { return c.column + " LIKE ?" }

// String returns the comparison with its pattern inlined, for logs and
// explain output only.
func (c LikeCondition) String() string {
	return fmt.Sprintf("%s LIKE '%s'", c.column, c.Pattern())
}

// LikePredicate is a set of OR-connected LIKE conditions.
type LikePredicate struct {
	conditions []LikeCondition
}

// Conditions returns a copy of the conditions in column-major order.
func (p LikePredicate) Conditions() []LikeCondition {
	result := make([]LikeCondition, len(p.conditions))
	copy(result, p.conditions)
	return result
}

// Len returns the number of conditions.
func (p LikePredicate) Len() int { return len(p.conditions) }

// IsEmpty reports whether the predicate has no conditions.
func (p LikePredicate) IsEmpty() bool { return len(p.conditions) == 0 }

// SQL returns the OR-joined parameterised conditions.
func (p LikePredicate) SQL() string {
	parts := make([]string, len(p.conditions))
	for i, c := range p.conditions {
		parts[i] = c.SQL()
	}
	return strings.Join(parts, " OR ")
}

// Vars returns the bound patterns in the order SQL expects them.
func (p LikePredicate) Vars() []any {
	vars := make([]any, len(p.conditions))
	for i, c := range p.conditions {
		vars[i] = c.Pattern()
	}
	return vars
}

// String returns the OR-joined conditions with patterns inlined.
func (p LikePredicate) String() string {
	parts := make([]string, len(p.conditions))
	for i, c := range p.conditions {
		parts[i] = c.String()
	}
	return strings.Join(parts, " OR ")
}

// CompileLike builds one condition per (column, term) pair of a sanitized
// query. Every condition is OR-connected: a row matches when any column
// contains any term.
func CompileLike(spec Spec, query string) LikePredicate {
	terms := Terms(query)
	conditions := make([]LikeCondition, 0, len(spec.columns)*len(terms))
	for _, col := range spec.columns {
		for _, term := range terms {
			conditions = append(conditions, NewLikeCondition(col, term))
		}
	}
	return LikePredicate{conditions: conditions}
}
