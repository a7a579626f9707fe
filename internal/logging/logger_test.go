package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferLogger(t *testing.T, format string) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	var handler slog.Handler
	switch format {
	case "json":
		handler = newJSONHandler(buf, levelVar)
	default:
		handler = newConsoleHandler(buf, levelVar)
	}
	return slog.New(handler), buf
}

func TestConsoleHandlerComponentPrefix(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	WithComponent(logger, "generation").Info("submitted", String(FieldWorkflowID, "wf-123"))

	line := buf.String()
	if !strings.Contains(line, "INFO generation: submitted") {
		t.Errorf("expected component prefix, got %q", line)
	}
	if !strings.Contains(line, "workflow_id=wf-123") {
		t.Errorf("expected workflow_id attr, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component must not render as k=v, got %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger(t, "console")
	logger.Warn("poll", String("status", "still running"))

	if got := buf.String(); !strings.Contains(got, `status="still running"`) {
		t.Errorf("expected quoted value, got %q", got)
	}
}

func TestJSONHandlerNormalizedKeys(t *testing.T) {
	logger, buf := newBufferLogger(t, "json")
	logger.Info("ready", String(FieldRepo, "foo/bar"))

	line := buf.String()
	for _, want := range []string{`"ts":`, `"level":"info"`, `"msg":"ready"`, `"repo":"foo/bar"`} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %s in %q", want, line)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("ignored", Error(nil))
}
