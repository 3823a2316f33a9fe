package search

// Searchable is implemented by model types that can be searched.
type Searchable interface {
	// SearchableColumns returns the columns a search is matched against.
	SearchableColumns() []string
}

// ModeProvider is an optional capability of a Searchable that picks its
// matching strategy. An empty Mode falls back to DefaultMode.
type ModeProvider interface {
	SearchMode() Mode
}

// FulltextModeProvider is an optional capability of a Searchable that picks
// its MATCH ... AGAINST modifier. An empty value falls back to
// DefaultFulltextMode.
type FulltextModeProvider interface {
	SearchFulltextMode() FulltextMode
}

// Spec is the resolved search configuration for one call.
type Spec struct {
	columns      []string
	mode         Mode
	fulltextMode FulltextMode
}

// DefaultSpec returns the built-in defaults: no columns, LIKE mode, boolean
// fulltext mode.
func DefaultSpec() Spec {
	return Spec{
		mode:         DefaultMode,
		fulltextMode: DefaultFulltextMode,
	}
}

// NewSpec creates a Spec. Empty modes fall back to the defaults.
func NewSpec(columns []string, mode Mode, fulltextMode FulltextMode) Spec {
	return DefaultSpec().With(
		WithColumns(columns...),
		WithMode(mode),
		WithFulltextMode(fulltextMode),
	)
}

// Columns returns a copy of the target columns.
func (s Spec) Columns() []string {
	result := make([]string, len(s.columns))
	copy(result, s.columns)
	return result
}

// Mode returns the matching strategy.
func (s Spec) Mode() Mode { return s.mode }

// FulltextMode returns the MATCH ... AGAINST modifier name.
func (s Spec) FulltextMode() FulltextMode { return s.fulltextMode }

// HasColumns reports whether the spec targets at least one column.
func (s Spec) HasColumns() bool { return len(s.columns) > 0 }

// With returns a copy of the spec with the options applied.
func (s Spec) With(options ...SpecOption) Spec {
	for _, opt := range options {
		s = opt(s)
	}
	return s
}

// SpecOption overrides part of a Spec for a single call.
type SpecOption func(Spec) Spec

// WithColumns replaces the target columns. Calling it with no columns is a
// no-op so that an empty override never hides the model's columns.
func WithColumns(columns ...string) SpecOption {
	return func(s Spec) Spec {
		if len(columns) == 0 {
			return s
		}
		s.columns = make([]string, len(columns))
		copy(s.columns, columns)
		return s
	}
}

// WithMode replaces the matching strategy. An empty mode is ignored.
func WithMode(mode Mode) SpecOption {
	return func(s Spec) Spec {
		if mode != "" {
			s.mode = mode
		}
		return s
	}
}

// WithFulltextMode replaces the fulltext modifier. An empty mode is ignored.
func WithFulltextMode(mode FulltextMode) SpecOption {
	return func(s Spec) Spec {
		if mode != "" {
			s.fulltextMode = mode
		}
		return s
	}
}

// ResolveSpec merges, in increasing priority, the built-in defaults, the
// model's own configuration and the per-call options. model may be nil.
func ResolveSpec(model Searchable, options ...SpecOption) Spec {
	spec := DefaultSpec()

	if model != nil {
		spec = spec.With(WithColumns(model.SearchableColumns()...))
		if p, ok := model.(ModeProvider); ok {
			spec = spec.With(WithMode(p.SearchMode()))
		}
		if p, ok := model.(FulltextModeProvider); ok {
			spec = spec.With(WithFulltextMode(p.SearchFulltextMode()))
		}
	}

	return spec.With(options...)
}
