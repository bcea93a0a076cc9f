package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

// TestLogger_IncludesCheckFields verifies report/check fields are present in log output.
func TestLogger_IncludesCheckFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{
		Report: "dependencies",
		Check:  "postgres-db",
		Kind:   "database",
	}

	checkLogger := logger.WithCheck(meta)
	checkLogger.Info(context.Background(), "test message")

	output := buf.String()

	// Parse JSON output
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v\nOutput: %s", err, output)
	}

	// Verify report/check fields
	if v, ok := logEntry["health.report"].(string); !ok || v != "dependencies" {
		t.Errorf("expected health.report='dependencies', got %v", logEntry["health.report"])
	}
	if v, ok := logEntry["health.check"].(string); !ok || v != "postgres-db" {
		t.Errorf("expected health.check='postgres-db', got %v", logEntry["health.check"])
	}
	if v, ok := logEntry["health.kind"].(string); !ok || v != "database" {
		t.Errorf("expected health.kind='database', got %v", logEntry["health.kind"])
	}
}

// TestLogger_IncludesDuration verifies duration_ms field is present.
func TestLogger_IncludesDuration(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{Report: "basic"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Info(context.Background(), "test message",
		Field{Key: "duration_ms", Value: 50.5},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["duration_ms"].(float64); !ok || v != 50.5 {
		t.Errorf("expected duration_ms=50.5, got %v", logEntry["duration_ms"])
	}
}

// TestLogger_ErrorLevel verifies error log level and error field.
func TestLogger_ErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{Report: "dependencies", Check: "redis-cache"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Error(context.Background(), "probe failed",
		Field{Key: "error", Value: "connection timeout"},
	)

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	// Verify level
	if v, ok := logEntry["level"].(string); !ok || v != "error" {
		t.Errorf("expected level='error', got %v", logEntry["level"])
	}

	// Verify error field
	if v, ok := logEntry["error"].(string); !ok || v != "connection timeout" {
		t.Errorf("expected error='connection timeout', got %v", logEntry["error"])
	}
}

// TestLogger_InfoLevel verifies info log level.
func TestLogger_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{Report: "basic"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Info(context.Background(), "report assembled")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "info" {
		t.Errorf("expected level='info', got %v", logEntry["level"])
	}
}

// TestLogger_DsnRedacted verifies connection strings are not logged.
func TestLogger_DsnRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{Report: "dependencies", Check: "postgres-db"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Info(context.Background(), "probe completed",
		Field{Key: "dsn", Value: "postgres://user:secret_password_123@db:5432/app"},
	)

	output := buf.String()

	// The raw connection string should NOT appear
	if strings.Contains(output, "secret_password_123") {
		t.Error("raw dsn should be redacted, but found in output")
	}

	// Should contain redacted marker
	if !strings.Contains(output, "[REDACTED]") {
		t.Error("expected [REDACTED] marker in output")
	}
}

// TestLogger_PasswordRedacted verifies password fields are not logged.
func TestLogger_PasswordRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{Report: "dependencies"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Info(context.Background(), "probe configured",
		Field{Key: "password", Value: "hunter2"},
	)

	output := buf.String()
	if strings.Contains(output, "hunter2") {
		t.Error("raw password should be redacted, but found in output")
	}
}

// TestLogger_LevelFiltering verifies log level filtering.
func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	meta := CheckMeta{Report: "basic"}
	checkLogger := logger.WithCheck(meta)

	// Info should be filtered out
	checkLogger.Info(context.Background(), "info message")

	output := buf.String()
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered when level is warn")
	}

	// Warn should pass through
	checkLogger.Warn(context.Background(), "warn message")

	output = buf.String()
	if !strings.Contains(output, "warn message") {
		t.Error("warn message should pass through when level is warn")
	}
}

// TestLogger_DebugLevel verifies debug level filtering.
func TestLogger_DebugLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	meta := CheckMeta{Report: "detailed"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Debug(context.Background(), "debug message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "debug" {
		t.Errorf("expected level='debug', got %v", logEntry["level"])
	}
}

// TestLogger_WarnLevel verifies warn level.
func TestLogger_WarnLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{Report: "integration_test"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Warn(context.Background(), "warning message")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["level"].(string); !ok || v != "warn" {
		t.Errorf("expected level='warn', got %v", logEntry["level"])
	}
}

// TestLogger_ReportOnlyMeta verifies check/kind fields are omitted when empty.
func TestLogger_ReportOnlyMeta(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	meta := CheckMeta{Report: "basic"}
	checkLogger := logger.WithCheck(meta)

	checkLogger.Info(context.Background(), "test")

	output := buf.String()

	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output as JSON: %v", err)
	}

	if v, ok := logEntry["health.report"].(string); !ok || v != "basic" {
		t.Errorf("expected health.report='basic', got %v", logEntry["health.report"])
	}
	if _, ok := logEntry["health.check"]; ok {
		t.Errorf("expected no health.check field, got %v", logEntry["health.check"])
	}
	if _, ok := logEntry["health.kind"]; ok {
		t.Errorf("expected no health.kind field, got %v", logEntry["health.kind"])
	}
}
