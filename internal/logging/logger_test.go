package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelInfo)

	logger.Info("hello", "answer", 42)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (output: %q)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("expected msg 'hello', got %v", entry["msg"])
	}
	if entry["answer"] != float64(42) {
		t.Errorf("expected answer 42, got %v", entry["answer"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelWarn)

	logger.Debug("should not appear")
	logger.Info("should not appear either")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("low-level messages leaked through: %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestSetLevelAtRuntime(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelInfo)

	logger.Debug("before")
	logger.SetLevel(LevelDebug)
	logger.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Errorf("debug message logged before level change: %q", out)
	}
	if !strings.Contains(out, "after") {
		t.Errorf("debug message missing after level change: %q", out)
	}
}

func TestAdjustClamps(t *testing.T) {
	logger := New(&bytes.Buffer{}, LevelDebug)

	if got := logger.Adjust(-4); got != slog.LevelDebug {
		t.Errorf("expected clamp at DEBUG, got %v", got)
	}

	logger.SetLevel(LevelError)
	if got := logger.Adjust(4); got != slog.LevelError {
		t.Errorf("expected clamp at ERROR, got %v", got)
	}

	logger.SetLevel(LevelInfo)
	if got := logger.Adjust(4); got != slog.LevelWarn {
		t.Errorf("expected WARN after one step up from INFO, got %v", got)
	}
}

func TestChildLoggersShareLevel(t *testing.T) {
	var buf bytes.Buffer
	parent := New(&buf, LevelInfo)
	child := parent.WithPlugin("countdown")

	child.Adjust(-4)
	if parent.Level() != slog.LevelDebug {
		t.Errorf("adjusting child level should affect parent, got %v", parent.Level())
	}
}

func TestWithPluginAddsAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, LevelInfo).WithPlugin("echo")

	logger.Info("tick")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["plugin"] != "echo" {
		t.Errorf("expected plugin attribute 'echo', got %v", entry["plugin"])
	}
}

func TestLevelName(t *testing.T) {
	cases := map[slog.Level]string{
		slog.LevelDebug: LevelDebug,
		slog.LevelInfo:  LevelInfo,
		slog.LevelWarn:  LevelWarn,
		slog.LevelError: LevelError,
	}
	for level, want := range cases {
		if got := LevelName(level); got != want {
			t.Errorf("LevelName(%v) = %q, want %q", level, got, want)
		}
	}
}
