package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"
)

const (
	ansiReset  = "\033[0m"
	ansiDim    = "\033[2m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
)

// terminalHandler writes one line per record, coloured when colour is set:
//
//	15:04:05.000 WRN search columns empty, no predicate applied mode=like
type terminalHandler struct {
	out    *lockedWriter
	level  slog.Leveler
	colour bool
	prefix string
	attrs  []byte
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) write(p []byte) error {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	_, err := lw.w.Write(p)
	return err
}

func newTerminalHandler(w io.Writer, opts *slog.HandlerOptions, colour bool) *terminalHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &terminalHandler{out: &lockedWriter{w: w}, level: level, colour: colour}
}

// isTerminal reports whether w is a terminal, so escape codes are only sent
// where they render.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *terminalHandler) style(line []byte, code string) []byte {
	if !h.colour {
		return line
	}
	return append(line, code...)
}

func (h *terminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *terminalHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	line := make([]byte, 0, 256)
	line = h.style(line, ansiDim)
	line = ts.AppendFormat(line, "15:04:05.000")
	line = h.style(line, ansiReset)
	line = append(line, ' ')

	color, label := levelStyle(r.Level)
	line = h.style(line, color)
	line = append(line, label...)
	line = h.style(line, ansiReset)
	line = append(line, ' ')

	line = h.style(line, ansiBold)
	line = append(line, r.Message...)
	line = h.style(line, ansiReset)

	line = append(line, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		line = h.appendAttr(line, h.prefix, a)
		return true
	})
	line = append(line, '\n')

	return h.out.write(line)
}

// WithAttrs pre-renders attrs so each record only formats its own.
func (h *terminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	rendered := append([]byte(nil), h.attrs...)
	for _, a := range attrs {
		rendered = h.appendAttr(rendered, h.prefix, a)
	}
	clone := *h
	clone.attrs = rendered
	return &clone
}

func (h *terminalHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level < slog.LevelInfo:
		return ansiCyan, "DBG"
	case level < slog.LevelWarn:
		return ansiGreen, "INF"
	case level < slog.LevelError:
		return ansiYellow, "WRN"
	default:
		return ansiRed, "ERR"
	}
}

func (h *terminalHandler) appendAttr(line []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return line
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			line = h.appendAttr(line, prefix, ga)
		}
		return line
	}

	line = append(line, ' ')
	line = h.style(line, ansiDim)
	line = append(line, prefix...)
	line = append(line, a.Key...)
	line = append(line, '=')
	line = h.style(line, ansiReset)
	return appendValue(line, a.Value)
}

func appendValue(line []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " \t\n\"\\=") {
			return strconv.AppendQuote(line, s)
		}
		return append(line, s...)
	case slog.KindDuration:
		return append(line, v.Duration().String()...)
	case slog.KindTime:
		return v.Time().AppendFormat(line, time.RFC3339)
	default:
		return append(line, v.String()...)
	}
}
