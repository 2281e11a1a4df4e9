package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]string{"Seq", "Group", "Status"},
		[][]string{
			{"1", "g-1", "complete"},
			{"2", "g-2"},
		},
		[]columnAlignment{alignRight, alignLeft, alignLeft},
	)
	for _, want := range []string{"Seq", "Group", "Status", "g-1", "complete", "g-2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) < 4 {
		t.Fatalf("expected bordered table, got:\n%s", out)
	}
}

func TestRenderTableEmptyHeaders(t *testing.T) {
	if out := renderTable(nil, nil, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
