package search

import "github.com/helixml/modelsearch/domain/repository"

const specOptionsParam = "search_spec_options"

// WithSpec passes per-call spec overrides through the repository option
// system. Repeated calls accumulate; later overrides win.
func WithSpec(options ...SpecOption) repository.Option {
	return func(q repository.Query) repository.Query {
		merged := append(SpecOptionsFrom(q), options...)
		return repository.WithParam(specOptionsParam, merged)(q)
	}
}

// SpecOptionsFrom extracts the spec overrides from a built query.
func SpecOptionsFrom(q repository.Query) []SpecOption {
	v, ok := q.Param(specOptionsParam)
	if !ok {
		return nil
	}
	opts, ok := v.([]SpecOption)
	if !ok {
		return nil
	}
	result := make([]SpecOption, len(opts))
	copy(result, opts)
	return result
}
