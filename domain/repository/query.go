// Package repository defines store-agnostic query options. A search is
// AND-ed with whatever conditions, ordering and pagination these carry.
package repository

import (
	"fmt"
	"strings"
)

// Option applies a modification to a Query.
type Option func(Query) Query

// Query holds conditions, ordering, and pagination for store lookups.
type Query struct {
	conditions []Condition
	orders     []Order
	limit      int
	offset     int
	params     map[string]any
}

// Build creates a Query from a set of options.
func Build(options ...Option) Query {
	q := Query{}
	for _, opt := range options {
		q = opt(q)
	}
	return q
}

// Conditions returns the query conditions.
func (q Query) Conditions() []Condition {
	result := make([]Condition, len(q.conditions))
	copy(result, q.conditions)
	return result
}

// Orders returns the query ordering specifications.
func (q Query) Orders() []Order {
	result := make([]Order, len(q.orders))
	copy(result, q.orders)
	return result
}

// LimitValue returns the limit (0 means no limit).
func (q Query) LimitValue() int {
	return q.limit
}

// OffsetValue returns the offset.
func (q Query) OffsetValue() int {
	return q.offset
}

// ConditionKind tells how a Condition is rendered.
type ConditionKind int

// ConditionKind values.
const (
	ConditionEqual ConditionKind = iota
	ConditionIn
	ConditionRaw
)

// Condition represents a single query condition.
type Condition struct {
	kind  ConditionKind
	field string
	value any
	args  []any
}

// Kind returns how the condition is rendered.
func (c Condition) Kind() ConditionKind { return c.kind }

// Field returns the condition field name, or the SQL text of a raw condition.
func (c Condition) Field() string { return c.field }

// Value returns the condition value.
func (c Condition) Value() any { return c.value }

// Args returns the bound arguments of a raw condition.
func (c Condition) Args() []any {
	result := make([]any, len(c.args))
	copy(result, c.args)
	return result
}

// In returns true if this is an IN condition (value is a slice).
func (c Condition) In() bool { return c.kind == ConditionIn }

// SQL returns the parameterised form of the condition.
func (c Condition) SQL() string {
	switch c.kind {
	case ConditionIn:
		return c.field + " IN ?"
	case ConditionRaw:
		return c.field
	default:
		return c.field + " = ?"
	}
}

// Vars returns the values bound by SQL.
func (c Condition) Vars() []any {
	if c.kind == ConditionRaw {
		return c.Args()
	}
	return []any{c.value}
}

// String returns a readable representation.
func (c Condition) String() string {
	switch c.kind {
	case ConditionIn:
		return fmt.Sprintf("%s IN %v", c.field, c.value)
	case ConditionRaw:
		if len(c.args) == 0 {
			return c.field
		}
		args := make([]string, len(c.args))
		for i, a := range c.args {
			args[i] = fmt.Sprint(a)
		}
		return fmt.Sprintf("%s [%s]", c.field, strings.Join(args, ", "))
	default:
		return fmt.Sprintf("%s = %v", c.field, c.value)
	}
}

// Order represents a sort specification.
type Order struct {
	field     string
	ascending bool
}

// Field returns the order field name.
func (o Order) Field() string { return o.field }

// Ascending returns true for ASC, false for DESC.
func (o Order) Ascending() bool { return o.ascending }

// SQL returns "field ASC" or "field DESC".
func (o Order) SQL() string {
	if o.ascending {
		return o.field + " ASC"
	}
	return o.field + " DESC"
}

// WithCondition adds a field = value equality condition.
func WithCondition(field string, value any) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{kind: ConditionEqual, field: field, value: value})
		return q
	}
}

// WithConditionIn adds a field IN (values) condition.
func WithConditionIn(field string, values any) Option {
	return func(q Query) Query {
		q.conditions = append(q.conditions, Condition{kind: ConditionIn, field: field, value: values})
		return q
	}
}

// WithWhere adds a raw SQL condition with bound arguments.
func WithWhere(sql string, args ...any) Option {
	return func(q Query) Query {
		c := Condition{kind: ConditionRaw, field: sql, args: make([]any, len(args))}
		copy(c.args, args)
		q.conditions = append(q.conditions, c)
		return q
	}
}

// WithLimit sets the maximum number of results.
func WithLimit(n int) Option {
	return func(q Query) Query {
		q.limit = n
		return q
	}
}

// WithOffset sets the result offset.
func WithOffset(n int) Option {
	return func(q Query) Query {
		q.offset = n
		return q
	}
}

// WithOrderAsc adds ascending ordering on a field.
func WithOrderAsc(field string) Option {
	return func(q Query) Query {
		q.orders = append(q.orders, Order{field: field, ascending: true})
		return q
	}
}

// WithOrderDesc adds descending ordering on a field.
func WithOrderDesc(field string) Option {
	return func(q Query) Query {
		q.orders = append(q.orders, Order{field: field, ascending: false})
		return q
	}
}

// WithParam stores an arbitrary key-value pair on the query. Packages define
// typed option builders on top of this.
func WithParam(key string, value any) Option {
	return func(q Query) Query {
		params := make(map[string]any, len(q.params)+1)
		for k, v := range q.params {
			params[k] = v
		}
		params[key] = value
		q.params = params
		return q
	}
}

// Param retrieves a parameter by key.
func (q Query) Param(key string) (any, bool) {
	if q.params == nil {
		return nil, false
	}
	v, ok := q.params[key]
	return v, ok
}
