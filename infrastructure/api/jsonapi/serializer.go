package jsonapi

import (
	"fmt"

	"github.com/helixml/modelsearch/application/service"
	"github.com/helixml/modelsearch/domain/search"
)

// Resource types.
const (
	TypeTable       = "table"
	TypeExplanation = "explanation"
)

// TableAttributes represents a registered table in JSON:API format.
type TableAttributes struct {
	Columns      []string `json:"columns"`
	Mode         string   `json:"mode"`
	FulltextMode string   `json:"fulltext_mode"`
}

// TableResource serializes a registered table.
func TableResource(table string, spec search.Spec) *Resource {
	return NewResource(TypeTable, table, TableAttributes{
		Columns:      spec.Columns(),
		Mode:         spec.Mode().String(),
		FulltextMode: spec.FulltextMode().String(),
	})
}

// HitResource serializes one hit. The resource type is the table name and
// the id is the row's id column, or its position in the result when the table
// has none.
func HitResource(table string, position int, hit service.Hit) *Resource {
	fields := hit.Fields()
	attrs := make(map[string]any, len(fields))
	for name, v := range fields {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		attrs[name] = v
	}

	id := fmt.Sprint(position)
	if v, ok := attrs["id"]; ok && v != nil {
		id = fmt.Sprint(v)
	}

	r := NewResource(table, id, attrs)
	if score, ok := hit.Score(); ok {
		r.Meta = &Meta{"score": score}
	}
	return r
}

// ExplanationAttributes represents an explained search in JSON:API format.
type ExplanationAttributes struct {
	Mode         string   `json:"mode"`
	FulltextMode string   `json:"fulltext_mode"`
	Columns      []string `json:"columns"`
	Query        string   `json:"query"`
	Predicate    string   `json:"predicate"`
	SQL          string   `json:"sql"`
	Vars         []any    `json:"vars"`
}

// ExplanationResource serializes an explained search of table.
func ExplanationResource(table string, e service.Explanation) *Resource {
	spec := e.Spec()
	return NewResource(TypeExplanation, table, ExplanationAttributes{
		Mode:         spec.Mode().String(),
		FulltextMode: spec.FulltextMode().String(),
		Columns:      spec.Columns(),
		Query:        e.Query(),
		Predicate:    e.Predicate(),
		SQL:          e.SQL(),
		Vars:         e.Vars(),
	})
}
