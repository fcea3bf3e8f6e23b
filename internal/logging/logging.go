// Package logging provides structured JSON logging for fieldmap.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with additional context fields.
type Logger struct {
	*slog.Logger
}

type contextKey string

const (
	recordIDKey contextKey = "record_id"
	schemaKey   contextKey = "schema"
	fieldKey    contextKey = "field"
)

// MappingInfo describes the mapping step a log line belongs to.
type MappingInfo struct {
	RecordID string
	Schema   string
	Field    string
	Mapper   string
}

// New creates a new Logger with JSON output at info level.
func New() *Logger {
	return NewWithWriter(os.Stdout)
}

// NewWithWriter creates a new Logger with JSON output to the provided writer.
func NewWithWriter(w io.Writer) *Logger {
	return NewWithLevel(w, slog.LevelInfo)
}

// NewWithLevel creates a new Logger writing JSON at or above level.
func NewWithLevel(w io.Writer, level slog.Level) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return NewWithLevel(io.Discard, slog.LevelError+1)
}

// ParseLevel parses "debug", "info", "warn" or "error" (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// WithContext returns a logger with context values attached.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	logger := l.Logger

	if recordID, ok := ctx.Value(recordIDKey).(string); ok && recordID != "" {
		logger = logger.With(slog.String("record_id", recordID))
	}
	if schema, ok := ctx.Value(schemaKey).(string); ok && schema != "" {
		logger = logger.With(slog.String("schema", schema))
	}
	if field, ok := ctx.Value(fieldKey).(string); ok && field != "" {
		logger = logger.With(slog.String("field", field))
	}

	return &Logger{Logger: logger}
}

// WithMapping returns a logger with mapping information attached.
func (l *Logger) WithMapping(info MappingInfo) *Logger {
	logger := l.Logger

	if info.RecordID != "" {
		logger = logger.With(slog.String("record_id", info.RecordID))
	}
	if info.Schema != "" {
		logger = logger.With(slog.String("schema", info.Schema))
	}
	if info.Field != "" {
		logger = logger.With(slog.String("field", info.Field))
	}
	if info.Mapper != "" {
		logger = logger.With(slog.String("mapper", info.Mapper))
	}

	return &Logger{Logger: logger}
}

// With returns a new logger with additional attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// ContextWithRecordID adds a record ID to the context.
func ContextWithRecordID(ctx context.Context, recordID string) context.Context {
	return context.WithValue(ctx, recordIDKey, recordID)
}

// ContextWithSchema adds a schema name to the context.
func ContextWithSchema(ctx context.Context, schema string) context.Context {
	return context.WithValue(ctx, schemaKey, schema)
}

// ContextWithField adds a field name to the context.
func ContextWithField(ctx context.Context, field string) context.Context {
	return context.WithValue(ctx, fieldKey, field)
}

// RecordIDFromContext extracts the record ID from the context.
func RecordIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(recordIDKey).(string); ok {
		return id
	}
	return ""
}

// SchemaFromContext extracts the schema name from the context.
func SchemaFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(schemaKey).(string); ok {
		return s
	}
	return ""
}

// FieldFromContext extracts the field name from the context.
func FieldFromContext(ctx context.Context) string {
	if f, ok := ctx.Value(fieldKey).(string); ok {
		return f
	}
	return ""
}
