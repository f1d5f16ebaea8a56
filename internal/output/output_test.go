package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/vizual-ai/vizdash/internal/terminal"
)

func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer

	term := &terminal.Info{IsTTY: false, NoColor: true}

	return NewWriter(&out, &errOut, term), &out, &errOut
}

func TestWriter_Print(t *testing.T) {
	w, out, _ := newTestWriter()

	w.Print("hello %s", "world")

	if got := out.String(); got != "hello world" {
		t.Errorf("Print() output = %q, want %q", got, "hello world")
	}
}

func TestWriter_QuietSuppressesStdout(t *testing.T) {
	w, out, errOut := newTestWriter()
	w.Quiet = true

	w.Print("hidden")
	w.Success("also hidden")
	w.Failure("still shown")

	if out.Len() != 0 {
		t.Errorf("stdout should be empty in quiet mode, got %q", out.String())
	}

	if !strings.Contains(errOut.String(), "still shown") {
		t.Error("Failure() should write to stderr even in quiet mode")
	}
}

func TestWriter_StatusSymbols(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w *Writer)
		stream string
		want   string
	}{
		{
			name:   "success",
			write:  func(w *Writer) { w.Success("saved") },
			stream: "out",
			want:   CheckMark + " saved",
		},
		{
			name:   "failure",
			write:  func(w *Writer) { w.Failure("broke") },
			stream: "err",
			want:   XMark + " broke",
		},
		{
			name:   "warning",
			write:  func(w *Writer) { w.Warning("degraded") },
			stream: "out",
			want:   WarningMark + " degraded",
		},
		{
			name:   "info",
			write:  func(w *Writer) { w.Info("note") },
			stream: "out",
			want:   InfoMark + " note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out, errOut := newTestWriter()
			tt.write(w)

			buf := out
			if tt.stream == "err" {
				buf = errOut
			}

			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriter_PrintJSON(t *testing.T) {
	w, out, _ := newTestWriter()

	payload := map[string]string{"status": "online"}
	if err := w.PrintJSON(payload); err != nil {
		t.Fatalf("PrintJSON() error = %v", err)
	}

	var decoded map[string]string
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["status"] != "online" {
		t.Errorf("decoded status = %q, want %q", decoded["status"], "online")
	}
}

func TestWriter_DebugOnlyInVerbose(t *testing.T) {
	w, out, _ := newTestWriter()

	w.Debug("quiet by default")
	if out.Len() != 0 {
		t.Errorf("Debug() should be silent without verbose, got %q", out.String())
	}

	w.Verbose = true
	w.Debug("now visible")

	if !strings.Contains(out.String(), "now visible") {
		t.Error("Debug() should write in verbose mode")
	}
}

func TestWriter_Hint(t *testing.T) {
	w, out, _ := newTestWriter()

	w.Hint("run 'vizdash doctor' to diagnose connectivity")

	if !strings.Contains(out.String(), "hint: run 'vizdash doctor'") {
		t.Errorf("Hint() output = %q", out.String())
	}

	w.Quiet = true
	out.Reset()
	w.Hint("suppressed")

	if out.Len() != 0 {
		t.Errorf("Hint() should be silent in quiet mode, got %q", out.String())
	}
}

func TestSpinner_DisabledFallback(t *testing.T) {
	w, out, _ := newTestWriter()

	s := w.Spinner("probing endpoints")
	s.Start()
	s.StopWithSuccess("all online")

	got := out.String()
	if !strings.Contains(got, "probing endpoints...") {
		t.Errorf("disabled spinner should print the message, got %q", got)
	}

	if !strings.Contains(got, "all online") {
		t.Errorf("StopWithSuccess should print the final message, got %q", got)
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	w, _, _ := newTestWriter()

	ctx := w.WithContext(t.Context())
	if FromContext(ctx) != w {
		t.Error("FromContext() should return the stored writer")
	}
}
