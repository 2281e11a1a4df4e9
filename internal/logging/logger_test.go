package logging

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"gazecap/internal/services"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestConsoleHandlerRendersComponentAndAttrs(t *testing.T) {
	var sb strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&sb, lvl))

	NewComponentLogger(logger, "sequencer").Info("state transition",
		String(FieldState, "presenting"),
		Int(FieldPointIndex, 2),
	)

	out := sb.String()
	for _, want := range []string{"INFO", "sequencer", "state transition", "state=presenting", "point_index=2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q: %s", want, out)
		}
	}
}

func TestWithContextAddsSessionFields(t *testing.T) {
	var sb strings.Builder
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&sb, lvl))

	ctx := services.WithSessionID(context.Background(), "sess-1")
	ctx = services.WithState(ctx, "capturing")
	WithContext(ctx, logger).Info("snapshot taken")

	out := sb.String()
	if !strings.Contains(out, "session_id=sess-1") || !strings.Contains(out, "state=capturing") {
		t.Fatalf("context fields missing: %s", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger should report disabled")
	}
}
