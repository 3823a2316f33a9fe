package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/helixml/modelsearch/domain/repository"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/internal/database"
)

// ErrFulltextUnsupported indicates a fulltext search was sent to a database
// without MATCH ... AGAINST support.
var ErrFulltextUnsupported = errors.New("fulltext search requires a MySQL or MariaDB database")

// Store searches one model type. E must be a struct type whose Searchable
// methods use value receivers; its zero value supplies the model-level spec.
//
// A model that wants the relevance score declares a read-only field:
//
//	Score float64 `gorm:"->;-:migration"`
type Store[E search.Searchable] struct {
	db     database.Database
	repo   database.Repository[E]
	logger *slog.Logger
}

// NewStore creates a Store for the table GORM derives from E.
func NewStore[E search.Searchable](db database.Database, logger *slog.Logger) Store[E] {
	return newStore(db, database.NewRepository[E](db, modelLabel[E]()), logger)
}

// NewStoreForTable creates a Store that reads from an explicit table.
func NewStoreForTable[E search.Searchable](db database.Database, table string, logger *slog.Logger) Store[E] {
	return newStore(db, database.NewRepositoryForTable[E](db, table, table), logger)
}

func newStore[E search.Searchable](db database.Database, repo database.Repository[E], logger *slog.Logger) Store[E] {
	if logger == nil {
		logger = slog.Default()
	}
	return Store[E]{db: db, repo: repo, logger: logger}
}

func modelLabel[E any]() string {
	var model E
	return fmt.Sprintf("%T", model)
}

// Spec resolves the model's spec with any overrides carried by options.
func (s Store[E]) Spec(options ...repository.Option) search.Spec {
	var model E
	return search.ResolveSpec(model, search.SpecOptionsFrom(repository.Build(options...))...)
}

// Compile resolves the spec and compiles raw. Configuration problems and a
// fulltext search against a dialect without MATCH ... AGAINST are reported
// here, before any statement is sent.
func (s Store[E]) Compile(raw string, options ...repository.Option) (search.Compiled, error) {
	compiled, err := search.Compile(s.Spec(options...), raw)
	if err != nil {
		return search.Compiled{}, err
	}
	if _, fulltext := compiled.Fulltext(); fulltext && !compiled.IsEmpty() && !s.db.IsMySQL() {
		return search.Compiled{}, fmt.Errorf("%w: got %s", ErrFulltextUnsupported, s.db.Dialect())
	}
	return compiled, nil
}

// Search returns the matching entities and the relevance of this search,
// which can be passed to SelectWithScore for a follow-up query.
func (s Store[E]) Search(ctx context.Context, raw string, options ...repository.Option) ([]E, search.Relevance, error) {
	compiled, err := s.Compile(raw, options...)
	if err != nil {
		return nil, search.Relevance{}, err
	}

	rows, err := s.repo.Find(ctx, []database.Scope{scope(compiled, s.logger)}, options...)
	if err != nil {
		return nil, search.Relevance{}, fmt.Errorf("search: %w", err)
	}
	return rows, compiled.Relevance(), nil
}

// GetWithScore runs the search and selects the relevance score alongside
// every column. Outside fulltext mode it behaves like Search.
func (s Store[E]) GetWithScore(ctx context.Context, raw string, options ...repository.Option) ([]E, error) {
	compiled, err := s.Compile(raw, options...)
	if err != nil {
		return nil, err
	}

	scopes := []database.Scope{
		scope(compiled, s.logger),
		SelectWithScore(compiled.Spec(), compiled.Relevance()),
	}
	rows, err := s.repo.Find(ctx, scopes, options...)
	if err != nil {
		return nil, fmt.Errorf("search with score: %w", err)
	}
	return rows, nil
}

// Count returns how many rows the search matches.
func (s Store[E]) Count(ctx context.Context, raw string, options ...repository.Option) (int64, error) {
	compiled, err := s.Compile(raw, options...)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.Count(ctx, []database.Scope{scope(compiled, s.logger)}, options...)
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return count, nil
}
