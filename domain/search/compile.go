package search

import (
	"fmt"
	"regexp"
)

// columnPattern accepts plain and table-qualified identifiers.
var columnPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// ValidateColumns checks that every column is a bare SQL identifier.
// Columns are written into SQL text, so anything else is rejected.
func ValidateColumns(columns []string) error {
	for _, col := range columns {
		if !columnPattern.MatchString(col) {
			return fmt.Errorf("%w: %q", ErrInvalidColumn, col)
		}
	}
	return nil
}

// Compiled is the result of compiling one search: either a LIKE predicate or
// a fulltext expression, possibly empty.
type Compiled struct {
	spec     Spec
	query    string
	like     LikePredicate
	fulltext FulltextExpression
}

// Spec returns the spec the search was compiled with.
func (c Compiled) Spec() Spec { return c.spec }

// Query returns the sanitized query.
func (c Compiled) Query() string { return c.query }

// Mode returns the strategy that produced the predicate.
func (c Compiled) Mode() Mode { return c.spec.mode }

// Like returns the LIKE predicate and whether the search ran in LIKE mode.
func (c Compiled) Like() (LikePredicate, bool) {
	return c.like, c.spec.mode == ModeLike
}

// Fulltext returns the fulltext expression and whether the search ran in
// fulltext mode.
func (c Compiled) Fulltext() (FulltextExpression, bool) {
	return c.fulltext, c.spec.mode == ModeFulltext
}

// IsEmpty reports whether no predicate should be applied.
func (c Compiled) IsEmpty() bool {
	switch c.spec.mode {
	case ModeLike:
		return c.like.IsEmpty()
	case ModeFulltext:
		return c.fulltext.IsEmpty()
	default:
		return true
	}
}

// SQL returns the parameterised predicate, or "" when empty.
func (c Compiled) SQL() string {
	if c.IsEmpty() {
		return ""
	}
	if c.spec.mode == ModeFulltext {
		return c.fulltext.SQL()
	}
	return c.like.SQL()
}

// Vars returns the values bound by SQL.
func (c Compiled) Vars() []any {
	if c.IsEmpty() {
		return nil
	}
	if c.spec.mode == ModeFulltext {
		return c.fulltext.Vars()
	}
	return c.like.Vars()
}

// Relevance returns the state needed to project a score for this search.
// It is empty unless the search compiled to a fulltext expression.
func (c Compiled) Relevance() Relevance {
	if c.spec.mode != ModeFulltext {
		return Relevance{}
	}
	return NewRelevance(c.fulltext)
}

// Compile sanitizes raw and dispatches on the spec's mode. A mode other than
// like or fulltext is an error rather than a silent no-op.
func Compile(spec Spec, raw string) (Compiled, error) {
	if err := ValidateColumns(spec.columns); err != nil {
		return Compiled{}, err
	}

	query := Sanitize(raw)
	compiled := Compiled{spec: spec, query: query}

	switch spec.mode {
	case ModeLike:
		compiled.like = CompileLike(spec, query)
	case ModeFulltext:
		expr, err := CompileFulltext(spec, query)
		if err != nil {
			return Compiled{}, err
		}
		compiled.fulltext = expr
	default:
		return Compiled{}, fmt.Errorf("%w: %q", ErrUnsupportedMode, string(spec.mode))
	}

	return compiled, nil
}
