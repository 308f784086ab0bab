package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestLogger_RespectsMinLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "employee-hub", func(context.Context) string { return "trace-1" })

	log.Debug(context.Background(), "hidden")
	log.Info(context.Background(), "shown", "employee_id", "abc")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "shown", records[0]["msg"])
	assert.Equal(t, "employee-hub", records[0]["service"])
	assert.Equal(t, "abc", records[0]["employee_id"])
	assert.Equal(t, "trace-1", records[0]["trace_id"])
	assert.Contains(t, records[0]["file"], "logger_test.go")
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug, "employee-hub", nil).With("component", "employee_service", 42, "ignored")

	log.Warn(context.Background(), "careful")

	records := decodeLines(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "employee_service", records[0]["component"])
	assert.Equal(t, "WARN", records[0]["level"])
	assert.NotContains(t, records[0], "trace_id")
}

func TestLoggerContext_Add(t *testing.T) {
	var buf bytes.Buffer
	lc := NewLoggerContext(New(&buf, LevelDebug, "employee-hub", nil))

	lc.Add("operation", "create")
	lc.Info(context.Background(), "first")
	lc.Add("employee_id", "abc")
	lc.Error(context.Background(), "second", "extra", true)

	records := decodeLines(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, "create", records[0]["operation"])
	assert.NotContains(t, records[0], "employee_id")
	assert.Equal(t, "abc", records[1]["employee_id"])
	assert.Equal(t, true, records[1]["extra"])
	assert.Contains(t, records[1]["file"], "logger_test.go")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		wantErr  bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseLevel(tc.input)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestNoop(t *testing.T) {
	assert.NotPanics(t, func() {
		Noop().Error(context.Background(), "dropped")
	})
}
