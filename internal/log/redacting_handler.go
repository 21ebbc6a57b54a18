package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// sensitiveKeys contains attribute keys that are always masked.
// Page tokens are deliberately absent: they are opaque one-way digests and
// logging them is the whole point of the hit log.
var sensitiveKeys = map[string]bool{
	"salt":       true,
	"secret":     true,
	"password":   true,
	"passwd":     true,
	"api_key":    true,
	"apikey":     true,
	"credential": true,
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// RedactingHandler wraps an slog.Handler to mask sensitive attributes.
// It intercepts log records and replaces values whose keys look secret, plus
// any value equal to the configured salt, before passing them on.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components can keep accepting a plain *slog.Logger
type RedactingHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler

	// salt is the configured derivation salt; any attribute value equal
	// to it is masked regardless of key.
	salt string
}

// NewRedactingHandler creates a RedactingHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactingHandler(handler slog.Handler, salt string) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &RedactingHandler{handler: handler, salt: salt}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added, masked.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(maskedAttrs), salt: h.salt}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name), salt: h.salt}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *RedactingHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	if sensitiveKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, MaskValue)
	}

	if h.salt != "" && a.Value.Kind() == slog.KindString && a.Value.String() == h.salt {
		return slog.String(a.Key, MaskValue)
	}

	return a
}

// NewLogger creates a *slog.Logger with redaction, writing text records.
//
// Parameters:
//   - w: the io.Writer to write log output to (typically os.Stderr)
//   - salt: the configured derivation salt, masked wherever it appears
//   - verbose: if true, sets log level to Debug; otherwise Info
func NewLogger(w io.Writer, salt string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewRedactingHandler(slog.NewTextHandler(w, opts), salt))
}

// NewJSONLogger creates a *slog.Logger with redaction that outputs JSON.
// Useful for the append-only request log file, which downstream tooling
// parses line by line.
func NewJSONLogger(w io.Writer, salt string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	return slog.New(NewRedactingHandler(slog.NewJSONHandler(w, opts), salt))
}
