package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// slowQueryThreshold is how long a statement may run before it is reported
// at warn level.
const slowQueryThreshold = 500 * time.Millisecond

// maxSQLLength is the maximum length of a SQL string in logs before it gets
// truncated with an ellipsis.
const maxSQLLength = 200

// gormLogger adapts slog to GORM's logger.Interface. Statements are emitted
// at debug level, slow statements at warn and failures at error. Level
// filtering is left to slog, so the SQL callback only runs when a record will
// actually be written.
type gormLogger struct {
	logger *slog.Logger
	slow   time.Duration
}

// newGormLogger creates a GORM logger. A nil logger means slog.Default(),
// resolved on every call so that a later SetDefault is honoured.
func newGormLogger(l *slog.Logger) gormLogger {
	return gormLogger{logger: l, slow: slowQueryThreshold}
}

// NewGormLogger exposes the slog adapter for callers that build their own
// gorm.Config.
func NewGormLogger(l *slog.Logger) logger.Interface {
	return newGormLogger(l)
}

func (l gormLogger) log() *slog.Logger {
	if l.logger != nil {
		return l.logger
	}
	return slog.Default()
}

// LogMode is a no-op; level filtering is handled by slog.
func (l gormLogger) LogMode(logger.LogLevel) logger.Interface { return l }

// Info logs informational messages from GORM.
func (l gormLogger) Info(ctx context.Context, msg string, args ...any) {
	l.log().InfoContext(ctx, fmt.Sprintf(msg, args...))
}

// Warn logs warning messages from GORM.
func (l gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.log().WarnContext(ctx, fmt.Sprintf(msg, args...))
}

// Error logs error messages from GORM.
func (l gormLogger) Error(ctx context.Context, msg string, args ...any) {
	l.log().ErrorContext(ctx, fmt.Sprintf(msg, args...))
}

// truncateSQL shortens a SQL string for readable log output, replacing the
// middle with "..." when it exceeds maxSQLLength.
func truncateSQL(sql string) string {
	if len(sql) <= maxSQLLength {
		return sql
	}
	half := (maxSQLLength - 3) / 2
	return sql[:half] + "..." + sql[len(sql)-half:]
}

// Trace is called by GORM after every statement. ErrRecordNotFound is the
// normal "no rows" result of First and is not treated as a failure.
func (l gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	log := l.log()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.ErrorContext(ctx, "gorm query error",
			"sql", truncateSQL(sql),
			"rows", rows,
			"duration", elapsed,
			"error", err,
		)
	case l.slow > 0 && elapsed > l.slow:
		sql, rows := fc()
		log.WarnContext(ctx, "gorm slow query",
			"sql", truncateSQL(sql),
			"rows", rows,
			"duration", elapsed,
			"threshold", l.slow,
		)
	case log.Enabled(ctx, slog.LevelDebug):
		sql, rows := fc()
		log.DebugContext(ctx, "gorm query",
			"sql", truncateSQL(sql),
			"rows", rows,
			"duration", elapsed,
		)
	}
}
