package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/helixml/modelsearch/domain/search"
	"github.com/helixml/modelsearch/internal/database"
)

// ErrNoIndexColumns indicates a FULLTEXT index was requested for a spec
// without columns.
var ErrNoIndexColumns = errors.New("fulltext index needs at least one column")

// FulltextIndexName returns the index name used for table and columns.
// MATCH only uses an index whose column list equals the searched columns,
// so the name is derived from both.
func FulltextIndexName(table string, columns []string) string {
	name := "ft_" + strings.ReplaceAll(table, ".", "_") + "_" + strings.Join(columns, "_")
	return strings.ReplaceAll(name, ".", "_")
}

// FulltextIndexSQL returns the DDL that adds a FULLTEXT index covering the
// spec's columns in their declared order.
func FulltextIndexSQL(table string, spec search.Spec) (string, error) {
	columns := spec.Columns()
	if len(columns) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoIndexColumns, table)
	}
	if err := search.ValidateColumns(append([]string{table}, columns...)); err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"ALTER TABLE %s ADD FULLTEXT INDEX %s (%s)",
		table, FulltextIndexName(table, columns), strings.Join(columns, ","),
	), nil
}

// EnsureFulltextIndex creates the FULLTEXT index for spec on table unless an
// index with the same name exists.
func EnsureFulltextIndex(ctx context.Context, db database.Database, table string, spec search.Spec) error {
	if !db.IsMySQL() {
		return fmt.Errorf("%w: got %s", ErrFulltextUnsupported, db.Dialect())
	}

	ddl, err := FulltextIndexSQL(table, spec)
	if err != nil {
		return err
	}

	session := db.Session(ctx)
	if session.Migrator().HasIndex(table, FulltextIndexName(table, spec.Columns())) {
		return nil
	}
	if err := session.Exec(ddl).Error; err != nil {
		return fmt.Errorf("create fulltext index on %s: %w", table, err)
	}
	return nil
}
