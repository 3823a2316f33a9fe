// Package service provides application layer services that orchestrate domain operations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/helixml/modelsearch/domain/repository"
	"github.com/helixml/modelsearch/domain/search"
	infrasearch "github.com/helixml/modelsearch/infrastructure/search"
	"github.com/helixml/modelsearch/internal/config"
	"github.com/helixml/modelsearch/internal/database"
	"github.com/helixml/modelsearch/internal/log"
	"github.com/helixml/modelsearch/internal/metrics"
)

// SearchOption configures a search request.
type SearchOption func(*searchConfig)

// searchConfig holds search parameters.
type searchConfig struct {
	limit        int
	offset       int
	columns      []string
	mode         search.Mode
	fulltextMode search.FulltextMode
	score        bool
	filters      []filter
	orders       []order
}

type filter struct {
	field string
	value any
}

type order struct {
	field      string
	descending bool
}

// newSearchConfig creates a searchConfig with defaults.
func newSearchConfig(limit int, opts ...SearchOption) *searchConfig {
	if limit <= 0 {
		limit = config.DefaultSearchLimit
	}
	c := &searchConfig{limit: limit}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithLimit sets the maximum number of results.
func WithLimit(n int) SearchOption {
	return func(c *searchConfig) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithOffset sets the offset for pagination.
func WithOffset(n int) SearchOption {
	return func(c *searchConfig) {
		if n >= 0 {
			c.offset = n
		}
	}
}

// WithColumns overrides the searched columns. A table that is not registered
// can be searched when columns are given.
func WithColumns(columns ...string) SearchOption {
	return func(c *searchConfig) {
		c.columns = columns
	}
}

// WithMode overrides the search mode.
func WithMode(mode search.Mode) SearchOption {
	return func(c *searchConfig) {
		c.mode = mode
	}
}

// WithFulltextMode overrides the fulltext modifier.
func WithFulltextMode(mode search.FulltextMode) SearchOption {
	return func(c *searchConfig) {
		c.fulltextMode = mode
	}
}

// WithScore selects the relevance score and orders hits by it when the
// search runs in fulltext mode.
func WithScore(include bool) SearchOption {
	return func(c *searchConfig) {
		c.score = include
	}
}

// WithFilter restricts hits to rows where field equals value.
func WithFilter(field string, value any) SearchOption {
	return func(c *searchConfig) {
		c.filters = append(c.filters, filter{field: field, value: value})
	}
}

// WithOrderBy orders hits by field.
func WithOrderBy(field string, descending bool) SearchOption {
	return func(c *searchConfig) {
		c.orders = append(c.orders, order{field: field, descending: descending})
	}
}

func (c *searchConfig) specOptions() []search.SpecOption {
	return []search.SpecOption{
		search.WithColumns(c.columns...),
		search.WithMode(c.mode),
		search.WithFulltextMode(c.fulltextMode),
	}
}

// validate checks the identifiers that end up in SQL.
func (c *searchConfig) validate() error {
	fields := make([]string, 0, len(c.filters)+len(c.orders))
	for _, f := range c.filters {
		fields = append(fields, f.field)
	}
	for _, o := range c.orders {
		fields = append(fields, o.field)
	}
	return search.ValidateColumns(fields)
}

func (c *searchConfig) conditions() []repository.Option {
	options := make([]repository.Option, 0, len(c.filters))
	for _, f := range c.filters {
		options = append(options, repository.WithCondition(f.field, f.value))
	}
	return options
}

// scored reports whether the fetch projects a relevance column.
func (c *searchConfig) scored(compiled search.Compiled) bool {
	_, fulltext := compiled.Fulltext()
	return c.score && fulltext && !compiled.Relevance().IsEmpty()
}

// options returns the conditions, ordering and pagination for the fetch.
func (c *searchConfig) options(compiled search.Compiled) []repository.Option {
	options := c.conditions()
	if c.scored(compiled) {
		options = append(options, repository.WithBestMatchFirst())
	}
	for _, o := range c.orders {
		if o.descending {
			options = append(options, repository.WithOrderDesc(o.field))
		} else {
			options = append(options, repository.WithOrderAsc(o.field))
		}
	}
	return append(options, repository.WithPagination(c.limit, c.offset)...)
}

// Search runs free-text searches against registered tables.
type Search struct {
	db       database.Database
	registry config.Registry
	defaults search.Spec
	limit    int
	metrics  *metrics.Search
	closed   *atomic.Bool
	logger   *slog.Logger
}

// NewSearch creates a new Search service. Tables missing from registry are
// searchable only when the request names its columns, using defaults for the
// rest of the spec.
func NewSearch(
	db database.Database,
	registry config.Registry,
	defaults search.Spec,
	limit int,
	m *metrics.Search,
	closed *atomic.Bool,
	logger *slog.Logger,
) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	return &Search{
		db:       db,
		registry: registry,
		defaults: defaults,
		limit:    limit,
		metrics:  m,
		closed:   closed,
		logger:   logger,
	}
}

// Tables returns the registered table names.
func (s Search) Tables() []string {
	return s.registry.Tables()
}

// Spec returns the spec a search of table would use.
func (s Search) Spec(table string, opts ...SearchOption) (search.Spec, error) {
	return resolveSpec(s.registry, s.defaults, table, newSearchConfig(s.limit, opts...))
}

func resolveSpec(registry config.Registry, defaults search.Spec, table string, cfg *searchConfig) (search.Spec, error) {
	spec, err := registry.Lookup(table)
	if err != nil {
		if len(cfg.columns) == 0 {
			return search.Spec{}, err
		}
		spec = defaults
	}
	return spec.With(cfg.specOptions()...), nil
}

// Query searches table for query. The match count and the page of hits are
// read in one transaction from a single compilation.
func (s Search) Query(ctx context.Context, table, query string, opts ...SearchOption) (SearchResult, error) {
	if s.closed != nil && s.closed.Load() {
		return SearchResult{}, ErrClientClosed
	}

	cfg := newSearchConfig(s.limit, opts...)
	ctx = log.WithTable(log.WithSearchID(ctx, uuid.NewString()), table)
	start := time.Now()

	store, compiled, err := s.compile(table, query, cfg)
	if err != nil {
		s.record(ctx, table, cfg.mode, start, SearchResult{}, err)
		return SearchResult{}, err
	}

	result, err := database.WithTransactionResult(ctx, s.db, func(tx *gorm.DB) (SearchResult, error) {
		bound := store.WithDB(database.FromTx(tx))

		total, err := bound.CountCompiled(ctx, compiled, cfg.conditions()...)
		if err != nil {
			return SearchResult{}, err
		}
		scored := cfg.scored(compiled)
		rows, err := bound.SearchCompiled(ctx, compiled, scored, cfg.options(compiled)...)
		if err != nil {
			return SearchResult{}, err
		}
		return newSearchResult(table, compiled, rows, total, scored), nil
	})
	s.record(ctx, table, compiled.Mode(), start, result, err)
	if err != nil {
		return SearchResult{}, err
	}
	return result, nil
}

func (s Search) compile(table, query string, cfg *searchConfig) (infrasearch.TableStore, search.Compiled, error) {
	if err := cfg.validate(); err != nil {
		return infrasearch.TableStore{}, search.Compiled{}, err
	}
	spec, err := resolveSpec(s.registry, s.defaults, table, cfg)
	if err != nil {
		return infrasearch.TableStore{}, search.Compiled{}, err
	}
	store, err := infrasearch.NewTableStore(s.db, table, spec, s.logger)
	if err != nil {
		return infrasearch.TableStore{}, search.Compiled{}, err
	}
	compiled, err := store.Compile(query)
	if err != nil {
		return infrasearch.TableStore{}, search.Compiled{}, err
	}
	return store, compiled, nil
}

func (s Search) record(ctx context.Context, table string, mode search.Mode, start time.Time, result SearchResult, err error) {
	took := time.Since(start)
	label := mode.String()
	if label == "" {
		label = s.defaults.Mode().String()
	}

	switch {
	case err == nil:
		s.metrics.Observe(table, label, metrics.OutcomeOK, took, len(result.hits))
		s.logger.InfoContext(ctx, "search completed",
			slog.String("mode", label),
			slog.Int("hits", len(result.hits)),
			slog.Int64("total", result.total),
			slog.Duration("took", took),
		)
	case isConfigurationError(err):
		s.metrics.Observe(table, label, metrics.OutcomeConfigurationError, took, 0)
		s.logger.WarnContext(ctx, "search rejected", slog.Any("error", err))
	default:
		s.metrics.Observe(table, label, metrics.OutcomeError, took, 0)
		s.logger.ErrorContext(ctx, "search failed", slog.Any("error", err))
	}
}

func isConfigurationError(err error) bool {
	return errors.Is(err, search.ErrConfiguration) ||
		errors.Is(err, config.ErrUnknownTable) ||
		errors.Is(err, infrasearch.ErrFulltextUnsupported)
}

// Explain returns the statement a search of table would run. See Explain.
func (s Search) Explain(ctx context.Context, table, query string, opts ...SearchOption) (Explanation, error) {
	return Explain(ctx, s.registry, s.defaults, table, query, append([]SearchOption{WithLimit(s.limit)}, opts...)...)
}

// Explanation is the statement a search would run.
type Explanation struct {
	compiled search.Compiled
	sql      string
	vars     []any
}

// Spec returns the resolved spec.
func (e Explanation) Spec() search.Spec { return e.compiled.Spec() }

// Query returns the sanitized query.
func (e Explanation) Query() string { return e.compiled.Query() }

// Predicate returns the WHERE fragment, empty when no predicate applies.
func (e Explanation) Predicate() string { return e.compiled.SQL() }

// SQL returns the full SELECT statement.
func (e Explanation) SQL() string { return e.sql }

// Vars returns the values bound to SQL, in order.
func (e Explanation) Vars() []any {
	vars := make([]any, len(e.vars))
	copy(vars, e.vars)
	return vars
}

// Explain renders the SELECT a search of table would run, in the MySQL
// dialect, without connecting to a database.
func Explain(ctx context.Context, registry config.Registry, defaults search.Spec, table, query string, opts ...SearchOption) (Explanation, error) {
	cfg := newSearchConfig(config.DefaultSearchLimit, opts...)
	if err := cfg.validate(); err != nil {
		return Explanation{}, err
	}
	spec, err := resolveSpec(registry, defaults, table, cfg)
	if err != nil {
		return Explanation{}, err
	}

	db, err := database.NewDryRun()
	if err != nil {
		return Explanation{}, err
	}
	defer func() { _ = db.Close() }()

	store, err := infrasearch.NewTableStore(db, table, spec, nil)
	if err != nil {
		return Explanation{}, err
	}
	compiled, err := store.Compile(query)
	if err != nil {
		return Explanation{}, err
	}
	sql, vars, err := store.Explain(ctx, compiled, cfg.score, cfg.options(compiled)...)
	if err != nil {
		return Explanation{}, err
	}
	return Explanation{compiled: compiled, sql: sql, vars: vars}, nil
}
