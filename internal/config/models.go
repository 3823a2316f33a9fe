package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/helixml/modelsearch/domain/search"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTable indicates a lookup for a table that is not registered.
var ErrUnknownTable = errors.New("table not registered")

// ModelConfig is one table entry of the models file.
type ModelConfig struct {
	Columns      []string `yaml:"columns"`
	Mode         string   `yaml:"mode,omitempty"`
	FulltextMode string   `yaml:"fulltext_mode,omitempty"`
}

// Spec layers the entry over defaults. Unset modes keep the default.
func (m ModelConfig) Spec(defaults search.Spec) (search.Spec, error) {
	if err := search.ValidateColumns(m.Columns); err != nil {
		return search.Spec{}, err
	}

	opts := []search.SpecOption{search.WithColumns(m.Columns...)}
	if m.Mode != "" {
		mode, err := search.ParseMode(m.Mode)
		if err != nil {
			return search.Spec{}, err
		}
		opts = append(opts, search.WithMode(mode))
	}
	if m.FulltextMode != "" {
		mode, err := search.ParseFulltextMode(m.FulltextMode)
		if err != nil {
			return search.Spec{}, err
		}
		opts = append(opts, search.WithFulltextMode(mode))
	}
	return defaults.With(opts...), nil
}

type modelsFile struct {
	Models map[string]ModelConfig `yaml:"models"`
}

// Registry maps table names to their search specs. The zero value is an
// empty registry.
type Registry struct {
	specs map[string]search.Spec
}

// NewRegistry creates an empty registry.
func NewRegistry() Registry {
	return Registry{specs: map[string]search.Spec{}}
}

// With returns a copy of the registry with table registered.
func (r Registry) With(table string, spec search.Spec) Registry {
	specs := make(map[string]search.Spec, len(r.specs)+1)
	for k, v := range r.specs {
		specs[k] = v
	}
	specs[table] = spec
	return Registry{specs: specs}
}

// Lookup returns the spec for table.
func (r Registry) Lookup(table string) (search.Spec, error) {
	spec, ok := r.specs[table]
	if !ok {
		return search.Spec{}, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	return spec, nil
}

// Tables returns the registered table names in sorted order.
func (r Registry) Tables() []string {
	tables := make([]string, 0, len(r.specs))
	for t := range r.specs {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	return tables
}

// Len returns the number of registered tables.
func (r Registry) Len() int { return len(r.specs) }

// ParseModels decodes a models file. Every invalid entry is reported, not
// just the first. Unknown keys are rejected.
func ParseModels(data []byte, defaults search.Spec) (Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file modelsFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return Registry{}, fmt.Errorf("decode models: %w", err)
	}

	registry := NewRegistry()
	var errs []error
	for _, table := range sortedKeys(file.Models) {
		if err := search.ValidateColumns([]string{table}); err != nil {
			errs = append(errs, fmt.Errorf("model %s: %w", table, err))
			continue
		}
		spec, err := file.Models[table].Spec(defaults)
		if err != nil {
			errs = append(errs, fmt.Errorf("model %s: %w", table, err))
			continue
		}
		registry = registry.With(table, spec)
	}
	if len(errs) > 0 {
		return Registry{}, errors.Join(errs...)
	}
	return registry, nil
}

// LoadModels reads and parses the models file at path. An empty path yields
// an empty registry.
func LoadModels(path string, defaults search.Spec) (Registry, error) {
	if path == "" {
		return NewRegistry(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("read models file: %w", err)
	}
	return ParseModels(data, defaults)
}

func sortedKeys(m map[string]ModelConfig) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
