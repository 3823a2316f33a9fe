package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/helixml/modelsearch/domain/repository"
	"gorm.io/gorm"
)

// ErrNotFound indicates the requested entity was not found.
var ErrNotFound = errors.New("entity not found")

// Repository provides read access to one GORM model type using
// repository.Option-based queries and optional scopes.
type Repository[E any] struct {
	db        Database
	label     string
	tableName string
}

// NewRepository creates a new Repository.
func NewRepository[E any](db Database, label string) Repository[E] {
	return Repository[E]{db: db, label: label}
}

// NewRepositoryForTable creates a Repository that targets a specific table
// name instead of the one GORM derives from E.
func NewRepositoryForTable[E any](db Database, label string, tableName string) Repository[E] {
	return Repository[E]{db: db, label: label, tableName: tableName}
}

// Label returns the name used in error messages.
func (r Repository[E]) Label() string { return r.label }

// Table returns the dynamic table name, or empty if not set.
func (r Repository[E]) Table() string { return r.tableName }

// DB returns a GORM session scoped to the entity model and optional table.
// The trailing Session call resets the GORM clone counter so that callers
// get a fresh chainable session.
func (r Repository[E]) DB(ctx context.Context) *gorm.DB {
	db := r.db.Session(ctx).Model(new(E))
	if r.tableName != "" {
		db = db.Table(r.tableName)
	}
	return db.Session(&gorm.Session{})
}

// Find retrieves entities matching the scopes and options.
func (r Repository[E]) Find(ctx context.Context, scopes []Scope, options ...repository.Option) ([]E, error) {
	var entities []E
	db := ApplyOptions(r.DB(ctx).Scopes(scopes...), options...)
	if err := db.Find(&entities).Error; err != nil {
		return nil, fmt.Errorf("find %s: %w", r.label, err)
	}
	return entities, nil
}

// FindOne retrieves the first entity matching the scopes and options.
func (r Repository[E]) FindOne(ctx context.Context, scopes []Scope, options ...repository.Option) (E, error) {
	var entity E
	db := ApplyOptions(r.DB(ctx).Scopes(scopes...), options...)
	if err := db.First(&entity).Error; err != nil {
		var zero E
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, fmt.Errorf("%w: %s", ErrNotFound, r.label)
		}
		return zero, fmt.Errorf("find one %s: %w", r.label, err)
	}
	return entity, nil
}

// Count returns the number of entities matching the scopes and conditions.
// Ordering and pagination options are ignored.
func (r Repository[E]) Count(ctx context.Context, scopes []Scope, options ...repository.Option) (int64, error) {
	var count int64
	db := ApplyConditions(r.DB(ctx).Scopes(scopes...), options...)
	if err := db.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", r.label, err)
	}
	return count, nil
}

// Exists checks if any entity matches the scopes and conditions.
func (r Repository[E]) Exists(ctx context.Context, scopes []Scope, options ...repository.Option) (bool, error) {
	count, err := r.Count(ctx, scopes, options...)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
