package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func captureLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestTruncateSQL(t *testing.T) {
	short := "SELECT 1"
	assert.Equal(t, short, truncateSQL(short))

	long := "SELECT " + strings.Repeat("x", 400)
	got := truncateSQL(long)
	assert.LessOrEqual(t, len(got), maxSQLLength)
	assert.Contains(t, got, "...")
}

func TestGormLogger_TraceError(t *testing.T) {
	l, buf := captureLogger(slog.LevelInfo)
	gl := newGormLogger(l)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT broken", 0
	}, errors.New("syntax error"))

	assert.Contains(t, buf.String(), "gorm query error")
	assert.Contains(t, buf.String(), "syntax error")
}

func TestGormLogger_RecordNotFoundIsDebug(t *testing.T) {
	l, buf := captureLogger(slog.LevelInfo)
	gl := newGormLogger(l)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM x LIMIT 1", 0
	}, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestGormLogger_DebugSkipsCallbackWhenDisabled(t *testing.T) {
	l, _ := captureLogger(slog.LevelInfo)
	gl := newGormLogger(l)
	called := false

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		called = true
		return "SELECT 1", 1
	}, nil)

	assert.False(t, called)
}

func TestGormLogger_SlowQuery(t *testing.T) {
	l, buf := captureLogger(slog.LevelInfo)
	gl := newGormLogger(l)

	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT slow", 1
	}, nil)

	assert.Contains(t, buf.String(), "gorm slow query")
}

func TestGormLogger_Debug(t *testing.T) {
	l, buf := captureLogger(slog.LevelDebug)
	gl := newGormLogger(l)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	assert.Contains(t, buf.String(), `"msg":"gorm query"`)
	assert.Contains(t, buf.String(), "SELECT 1")
}
