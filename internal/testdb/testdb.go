// Package testdb opens throwaway in-memory SQLite databases for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/helixml/modelsearch/internal/database"
)

// New creates an in-memory SQLite database and migrates the given models.
// The database is closed when the test finishes.
func New(t *testing.T, models ...any) database.Database {
	t.Helper()
	db := NewPlain(t)
	if len(models) == 0 {
		return db
	}
	if err := db.Session(context.Background()).AutoMigrate(models...); err != nil {
		t.Fatalf("testdb.New: auto migrate: %v", err)
	}
	return db
}

// NewPlain creates an in-memory SQLite database with no schema.
func NewPlain(t *testing.T) database.Database {
	t.Helper()
	db, err := database.NewDatabase(context.Background(), "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.NewPlain: open database: %v", err)
	}
	// Each pooled connection to :memory: is a separate database.
	if err := db.ConfigurePool(1, 1, 0); err != nil {
		t.Fatalf("testdb.NewPlain: configure pool: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithSchema creates an in-memory SQLite database and executes the given
// statements against it in order.
func WithSchema(t *testing.T, statements ...string) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	for _, stmt := range statements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			t.Fatalf("testdb.WithSchema: %v\nSQL: %s", err, stmt)
		}
	}
	return db
}
