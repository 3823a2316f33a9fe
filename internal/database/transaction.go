package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction executes fn within a transaction, committing on success or
// rolling back on error or panic.
func WithTransaction(ctx context.Context, db Database, fn func(tx *gorm.DB) error) error {
	if err := db.Session(ctx).Transaction(fn); err != nil {
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}

// WithTransactionResult executes fn within a transaction, returning its
// result when the transaction commits.
func WithTransactionResult[T any](ctx context.Context, db Database, fn func(tx *gorm.DB) (T, error)) (T, error) {
	var result T
	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		var err error
		result, err = fn(tx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// WithRepository returns a copy of the repository bound to a transaction
// session, so several reads share one snapshot.
func WithRepository[E any](tx *gorm.DB, r Repository[E]) Repository[E] {
	return Repository[E]{db: FromTx(tx), label: r.label, tableName: r.tableName}
}

// FromTx wraps a transaction session as a Database. Close must not be called
// on the result.
func FromTx(tx *gorm.DB) Database {
	return Database{db: tx}
}
