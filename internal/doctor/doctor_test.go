package doctor

import (
	"context"
	"testing"
)

func TestRunner_RunsChecksInOrder(t *testing.T) {
	r := &Runner{}

	r.AddCheck("first", func(context.Context) Result {
		return Result{Status: StatusPass, Message: "ok"}
	})
	r.AddCheck("second", func(context.Context) Result {
		return Result{Status: StatusFail, Message: "bad"}
	})

	results := r.Run(context.Background())

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].Name != "first" || results[1].Name != "second" {
		t.Errorf("check order: %q, %q", results[0].Name, results[1].Name)
	}

	if results[0].Status != StatusPass || results[1].Status != StatusFail {
		t.Errorf("statuses: %v, %v", results[0].Status, results[1].Status)
	}
}

func TestSummary(t *testing.T) {
	results := []Result{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusWarn},
		{Status: StatusFail},
	}

	passed, failed, warnings := Summary(results)

	if passed != 2 || failed != 1 || warnings != 1 {
		t.Errorf("Summary = %d passed, %d failed, %d warnings", passed, failed, warnings)
	}
}

func TestStatusSymbol(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusPass, "✓"},
		{StatusWarn, "⚠"},
		{StatusFail, "✗"},
		{Status(99), "?"},
	}

	for _, tt := range tests {
		if got := tt.status.Symbol(); got != tt.want {
			t.Errorf("Symbol(%v) = %q, want %q", tt.status, got, tt.want)
		}
	}
}
