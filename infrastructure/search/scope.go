// Package search binds compiled searches to GORM statements.
package search

import (
	"log/slog"

	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/internal/database"
	"gorm.io/gorm"
)

// Scope returns a GORM scope that adds the compiled predicate to the WHERE
// clause, AND-ed with whatever the statement already has. An empty search
// leaves the statement unfiltered.
func Scope(compiled search.Compiled) database.Scope {
	return scope(compiled, slog.Default())
}

func scope(compiled search.Compiled, logger *slog.Logger) database.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return applyCompiled(db, compiled, logger)
	}
}

func applyCompiled(db *gorm.DB, compiled search.Compiled, logger *slog.Logger) *gorm.DB {
	if compiled.IsEmpty() {
		if !compiled.Spec().HasColumns() {
			logger.Warn("search columns empty, no predicate applied", "mode", compiled.Mode())
		} else {
			logger.Debug("search query has no terms, no predicate applied", "mode", compiled.Mode())
		}
		return db
	}
	return db.Where(compiled.SQL(), compiled.Vars()...)
}

// SearchScope compiles raw against an explicit spec and returns the scope
// together with the relevance needed by SelectWithScore.
func SearchScope(spec search.Spec, raw string) (database.Scope, search.Relevance, error) {
	compiled, err := search.Compile(spec, raw)
	if err != nil {
		return nil, search.Relevance{}, err
	}
	return Scope(compiled), compiled.Relevance(), nil
}

// LikeScope applies LIKE matching regardless of the spec's mode.
func LikeScope(spec search.Spec, raw string) (database.Scope, error) {
	scope, _, err := SearchScope(spec.With(search.WithMode(search.ModeLike)), raw)
	return scope, err
}

// FulltextScope applies MATCH ... AGAINST regardless of the spec's mode. A
// non-empty mode overrides the spec's fulltext mode for this call only.
func FulltextScope(spec search.Spec, raw string, mode search.FulltextMode) (database.Scope, search.Relevance, error) {
	spec = spec.With(search.WithMode(search.ModeFulltext), search.WithFulltextMode(mode))
	return SearchScope(spec, raw)
}

// SelectWithScore returns a scope that only changes the projection: base
// columns (or "*") plus "<match expression> AS score" when rel carries a
// fulltext expression. The caller still runs the query.
func SelectWithScore(spec search.Spec, rel search.Relevance, base ...string) database.Scope {
	projection := search.WithScore(spec, rel, search.NewProjection(base...))
	return func(db *gorm.DB) *gorm.DB {
		return applyProjection(db, projection)
	}
}

func applyProjection(db *gorm.DB, p search.Projection) *gorm.DB {
	if p.IsEmpty() {
		return db
	}
	if vars := p.Vars(); len(vars) > 0 {
		return db.Select(p.SQL(), vars...)
	}
	return db.Select(p.Columns())
}
