package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helixml/modelsearch/domain/repository"
	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/internal/database"
	"gorm.io/gorm"
)

// Row is one result row from a TableStore, keyed by column name.
type Row = map[string]any

// TableStore searches a table that has no Go model. The spec is supplied at
// construction instead of by a Searchable type, so tables can be registered
// from configuration.
type TableStore struct {
	db     database.Database
	table  string
	spec   search.Spec
	logger *slog.Logger
}

// NewTableStore validates the table name and spec columns and returns a
// store for them.
func NewTableStore(db database.Database, table string, spec search.Spec, logger *slog.Logger) (TableStore, error) {
	if err := search.ValidateColumns([]string{table}); err != nil {
		return TableStore{}, fmt.Errorf("table %q: %w", table, err)
	}
	if err := search.ValidateColumns(spec.Columns()); err != nil {
		return TableStore{}, fmt.Errorf("table %q: %w", table, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return TableStore{db: db, table: table, spec: spec, logger: logger}, nil
}

// Table returns the table name.
func (s TableStore) Table() string { return s.table }

// Spec returns the spec with any overrides carried by options applied.
func (s TableStore) Spec(options ...repository.Option) search.Spec {
	return s.spec.With(search.SpecOptionsFrom(repository.Build(options...))...)
}

// WithDB returns a copy bound to db, typically a transaction.
func (s TableStore) WithDB(db database.Database) TableStore {
	s.db = db
	return s
}

// Compile compiles raw for this table. See Store.Compile.
func (s TableStore) Compile(raw string, options ...repository.Option) (search.Compiled, error) {
	compiled, err := search.Compile(s.Spec(options...), raw)
	if err != nil {
		return search.Compiled{}, err
	}
	if _, fulltext := compiled.Fulltext(); fulltext && !compiled.IsEmpty() && !s.db.IsMySQL() {
		return search.Compiled{}, fmt.Errorf("%w: got %s", ErrFulltextUnsupported, s.db.Dialect())
	}
	return compiled, nil
}

func (s TableStore) session(ctx context.Context) *gorm.DB {
	return s.db.Session(ctx).Table(s.table)
}

// Search returns the rows matching raw.
func (s TableStore) Search(ctx context.Context, raw string, options ...repository.Option) ([]Row, error) {
	compiled, err := s.Compile(raw, options...)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, compiled, false, options...)
}

// SearchWithScore returns the rows matching raw with a "score" column added
// when the search runs in fulltext mode.
func (s TableStore) SearchWithScore(ctx context.Context, raw string, options ...repository.Option) ([]Row, error) {
	compiled, err := s.Compile(raw, options...)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, compiled, true, options...)
}

// SearchCompiled runs an already compiled search, so a caller can count and
// fetch with a single compilation.
func (s TableStore) SearchCompiled(ctx context.Context, compiled search.Compiled, withScore bool, options ...repository.Option) ([]Row, error) {
	return s.find(ctx, compiled, withScore, options...)
}

func (s TableStore) find(ctx context.Context, compiled search.Compiled, withScore bool, options ...repository.Option) ([]Row, error) {
	var rows []Row
	if err := s.build(s.session(ctx), compiled, withScore, options...).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("search %s: %w", s.table, err)
	}
	return rows, nil
}

func (s TableStore) build(db *gorm.DB, compiled search.Compiled, withScore bool, options ...repository.Option) *gorm.DB {
	db = db.Scopes(scope(compiled, s.logger))
	if withScore {
		db = db.Scopes(SelectWithScore(compiled.Spec(), compiled.Relevance()))
	}
	return database.ApplyOptions(db, options...)
}

// Explain returns the SELECT statement and bound values SearchCompiled would
// run, without executing it.
func (s TableStore) Explain(ctx context.Context, compiled search.Compiled, withScore bool, options ...repository.Option) (string, []any, error) {
	var rows []Row
	db := s.session(ctx).Session(&gorm.Session{DryRun: true})
	stmt := s.build(db, compiled, withScore, options...).Find(&rows)
	if stmt.Error != nil {
		return "", nil, fmt.Errorf("explain %s: %w", s.table, stmt.Error)
	}
	return stmt.Statement.SQL.String(), stmt.Statement.Vars, nil
}

// Count returns how many rows match raw.
func (s TableStore) Count(ctx context.Context, raw string, options ...repository.Option) (int64, error) {
	compiled, err := s.Compile(raw, options...)
	if err != nil {
		return 0, err
	}
	return s.CountCompiled(ctx, compiled, options...)
}

// CountCompiled counts the rows matched by an already compiled search.
func (s TableStore) CountCompiled(ctx context.Context, compiled search.Compiled, options ...repository.Option) (int64, error) {
	var count int64
	db := database.ApplyConditions(s.session(ctx).Scopes(scope(compiled, s.logger)), options...)
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", s.table, err)
	}
	return count, nil
}
