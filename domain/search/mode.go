// Package search composes SQL search predicates for table-backed models.
//
// A model opts in by implementing Searchable. Compile turns a raw query into
// either OR-connected LIKE conditions or a MATCH ... AGAINST expression, and
// the Relevance it returns can be handed to WithScore to project a "score"
// column. Every value in this package is immutable.
package search

import (
	"fmt"
	"strings"
)

// Mode selects the matching strategy.
type Mode string

// Mode values.
const (
	ModeLike     Mode = "like"
	ModeFulltext Mode = "fulltext"
)

// DefaultMode is used when neither the model nor the caller picks a mode.
const DefaultMode = ModeLike

// String returns the mode name.
func (m Mode) String() string { return string(m) }

// ParseMode converts a configuration string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeLike:
		return ModeLike, nil
	case ModeFulltext:
		return ModeFulltext, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}

// FulltextMode selects the MATCH ... AGAINST search modifier.
type FulltextMode string

// FulltextMode values.
const (
	FulltextBoolean   FulltextMode = "boolean"
	FulltextNatural   FulltextMode = "natural"
	FulltextExpansion FulltextMode = "expansion"
)

// DefaultFulltextMode is used when neither the model nor the caller picks one.
const DefaultFulltextMode = FulltextBoolean

var fulltextLiterals = map[FulltextMode]string{
	FulltextBoolean:   "IN BOOLEAN MODE",
	FulltextNatural:   "IN NATURAL LANGUAGE MODE",
	FulltextExpansion: "IN NATURAL LANGUAGE MODE WITH QUERY EXPANSION",
}

// String returns the mode name.
func (m FulltextMode) String() string { return string(m) }

// Literal returns the SQL modifier placed after the bound query inside AGAINST.
func (m FulltextMode) Literal() (string, error) {
	literal, ok := fulltextLiterals[m]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFulltextMode, string(m))
	}
	return literal, nil
}

// ParseFulltextMode converts a configuration string into a FulltextMode.
func ParseFulltextMode(s string) (FulltextMode, error) {
	m := FulltextMode(strings.ToLower(strings.TrimSpace(s)))
	if _, err := m.Literal(); err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownFulltextMode, s)
	}
	return m, nil
}
