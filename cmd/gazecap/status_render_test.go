package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"gazecap/internal/ipc"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Gazecap", statusError, "Not running", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Gazecap:", "[ERROR] Not running")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("Gazecap", statusOK, "Running", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestSessionStatusLinesActive(t *testing.T) {
	status := &ipc.StatusResponse{
		Session: ipc.SessionStatus{
			Active:      true,
			SessionID:   "abc",
			Mode:        "calibration_grid",
			State:       "counting_down",
			PointIndex:  2,
			TotalPoints: 16,
		},
	}
	lines := sessionStatusLines(status, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "counting_down") || !strings.Contains(lines[0], "point 3/16") {
		t.Fatalf("unexpected session line: %q", lines[0])
	}
}

func TestSessionStatusLinesResultWithFailures(t *testing.T) {
	status := &ipc.StatusResponse{
		Session: ipc.SessionStatus{
			Result: &ipc.SessionResult{
				State:        "completed",
				SuccessCount: 15,
				TotalCount:   16,
				Failures:     []string{"point 7: partial capture"},
			},
		},
	}
	lines := sessionStatusLines(status, false)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "[WARN]") || !strings.Contains(lines[0], "15/16") {
		t.Fatalf("unexpected result line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "partial capture") {
		t.Fatalf("unexpected failure line: %q", lines[1])
	}
}

func TestSessionStatusLinesIdle(t *testing.T) {
	lines := sessionStatusLines(&ipc.StatusResponse{}, false)
	if len(lines) != 1 || !strings.Contains(lines[0], "No session") {
		t.Fatalf("unexpected idle lines: %#v", lines)
	}
}

func TestSystemStatusLinesOffline(t *testing.T) {
	lines := systemStatusLines(nil, &ipc.StatusResponse{}, false)
	if len(lines) != 1 || !strings.Contains(lines[0], "Not running") {
		t.Fatalf("unexpected offline lines: %#v", lines)
	}
}

func TestRenderSectionHeaderUnderlinesTitle(t *testing.T) {
	lines := renderSectionHeader("  Session  ", false)
	if len(lines) != 2 {
		t.Fatalf("expected title and rule, got %#v", lines)
	}
	if lines[0] != "Session" {
		t.Fatalf("unexpected title line: %q", lines[0])
	}
	if lines[1] != strings.Repeat("=", len("Session")) {
		t.Fatalf("rule does not match title width: %q", lines[1])
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
