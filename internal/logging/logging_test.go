package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.Info("test message")

	output := buf.String()
	if !strings.Contains(output, `"msg":"test message"`) {
		t.Errorf("expected log message in output, got: %s", output)
	}

	var logEntry map[string]interface{}
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if logEntry["msg"] != "test message" {
		t.Errorf("expected msg='test message', got: %v", logEntry["msg"])
	}
}

func TestLoggerWithMapping(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	logger.WithMapping(MappingInfo{
		RecordID: "user-7",
		Schema:   "shop.users",
		Field:    "address.city",
		Mapper:   "structured",
	}).Warn("column mapping failed")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}

	tests := []struct {
		key      string
		expected interface{}
	}{
		{"record_id", "user-7"},
		{"schema", "shop.users"},
		{"field", "address.city"},
		{"mapper", "structured"},
		{"level", "WARN"},
	}

	for _, tc := range tests {
		if got := logEntry[tc.key]; got != tc.expected {
			t.Errorf("%s: expected %v, got %v", tc.key, tc.expected, got)
		}
	}
}

func TestLoggerWithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf)

	ctx := ContextWithRecordID(context.Background(), "r-1")
	ctx = ContextWithSchema(ctx, "ks.t")
	ctx = ContextWithField(ctx, "age")

	logger.WithContext(ctx).Info("mapped")

	output := buf.String()
	for _, want := range []string{`"record_id":"r-1"`, `"schema":"ks.t"`, `"field":"age"`} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %s in output, got: %s", want, output)
		}
	}

	if RecordIDFromContext(ctx) != "r-1" || SchemaFromContext(ctx) != "ks.t" || FieldFromContext(ctx) != "age" {
		t.Error("context accessors returned wrong values")
	}
	if RecordIDFromContext(context.Background()) != "" {
		t.Error("expected empty record id from bare context")
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithLevel(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Debug("hidden")
	logger.Warn("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("expected info and debug to be filtered, got: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("expected warn to be logged, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nobody sees this")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() logger should not be enabled at error level")
	}
}
