// Package output is the single path to the user's terminal for every
// vizdash command. It carries the output mode flags (JSON for
// scripting, quiet for CI, verbose for debugging) alongside injected
// writers, so command code never touches os.Stdout directly and tests
// capture everything through a buffer.
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/vizual-ai/vizdash/internal/terminal"
)

type contextKey struct{}

// Status symbols used by the leveled writers.
const (
	CheckMark   = "✓"
	XMark       = "✗"
	WarningMark = "⚠"
	InfoMark    = "ℹ"
)

// tones groups the color per message level so the leveled writers
// share one lookup.
type tones struct {
	success *color.Color
	failure *color.Color
	warning *color.Color
	info    *color.Color
	muted   *color.Color
}

func newTones() tones {
	return tones{
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		warning: color.New(color.FgYellow),
		info:    color.New(color.FgCyan),
		muted:   color.New(color.FgHiBlack),
	}
}

// Writer handles CLI output across modes.
type Writer struct {
	Out      io.Writer
	Err      io.Writer
	JSON     bool
	Quiet    bool
	Verbose  bool
	NoInput  bool
	terminal *terminal.Info

	tone tones
}

// Default returns a Writer bound to stdout/stderr with the detected
// terminal capabilities.
func Default() *Writer {
	return NewWriter(os.Stdout, os.Stderr, terminal.Detect())
}

// NewWriter creates a Writer over caller-supplied streams.
func NewWriter(out, err io.Writer, term *terminal.Info) *Writer {
	w := &Writer{
		Out:      out,
		Err:      err,
		terminal: term,
		tone:     newTones(),
	}

	if !term.ColorEnabled() {
		color.NoColor = true
	}

	return w
}

// WithContext stores the Writer in the context.
func (w *Writer) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, w)
}

// FromContext retrieves the Writer from context, or returns Default().
func FromContext(ctx context.Context) *Writer {
	if w, ok := ctx.Value(contextKey{}).(*Writer); ok {
		return w
	}
	return Default()
}

// Terminal returns the terminal info.
func (w *Writer) Terminal() *terminal.Info {
	return w.terminal
}

// SetNoColor disables colored output.
func (w *Writer) SetNoColor(disabled bool) {
	w.terminal.ForceFlag = disabled
	if disabled {
		color.NoColor = true
	}
}

// Print writes to stdout. Quiet mode suppresses it.
func (w *Writer) Print(format string, args ...interface{}) {
	if !w.Quiet {
		fmt.Fprintf(w.Out, format, args...)
	}
}

// Println writes a line to stdout. Quiet mode suppresses it.
func (w *Writer) Println(args ...interface{}) {
	if !w.Quiet {
		fmt.Fprintln(w.Out, args...)
	}
}

// PrintJSON writes v as indented JSON. JSON output ignores quiet
// mode: a script asking for JSON always gets it.
func (w *Writer) PrintJSON(v interface{}) error {
	enc := json.NewEncoder(w.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.Err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(args ...interface{}) {
	fmt.Fprintln(w.Err, args...)
}

// Write implements io.Writer, writing to Out.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.Quiet {
		return len(p), nil
	}
	return w.Out.Write(p)
}

// Debug writes to stdout only in verbose mode.
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.Verbose {
		w.tone.muted.Fprintf(w.Out, "[debug] "+format+"\n", args...)
	}
}

func (w *Writer) writeStatus(writer io.Writer, tone *color.Color, prefix, message string) {
	if w.terminal.ColorEnabled() {
		tone.Fprint(writer, prefix+" ")
		fmt.Fprintln(writer, message)
	} else {
		fmt.Fprintln(writer, prefix+" "+message)
	}
}

// Success writes a success message with a checkmark.
func (w *Writer) Success(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.writeStatus(w.Out, w.tone.success, CheckMark, fmt.Sprintf(format, args...))
}

// Failure writes an error message with an X mark. Failures write to
// stderr and survive quiet mode.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.writeStatus(w.Err, w.tone.failure, XMark, fmt.Sprintf(format, args...))
}

// Warning writes a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.writeStatus(w.Out, w.tone.warning, WarningMark, fmt.Sprintf(format, args...))
}

// Info writes an info message.
func (w *Writer) Info(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.writeStatus(w.Out, w.tone.info, InfoMark, fmt.Sprintf(format, args...))
}

// Muted writes muted/gray text.
func (w *Writer) Muted(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if w.terminal.ColorEnabled() {
		w.tone.muted.Fprintln(w.Out, msg)
	} else {
		fmt.Fprintln(w.Out, msg)
	}
}

// Hint writes a muted next-step suggestion, usually naming the
// vizdash command that resolves the situation.
func (w *Writer) Hint(format string, args ...interface{}) {
	w.Muted("  hint: "+format, args...)
}

// Spinner creates a spinner for a long operation. In quiet mode or
// without a TTY it degrades to a plain "message... done" line.
func (w *Writer) Spinner(message string) *Spinner {
	if w.Quiet || !w.terminal.SpinnersEnabled() {
		return &Spinner{plain: true, message: message, writer: w}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = w.Out
	s.Suffix = " " + message

	return &Spinner{
		spinner: s,
		message: message,
		writer:  w,
	}
}

// Spinner wraps briandowns/spinner with a non-TTY fallback.
type Spinner struct {
	spinner *spinner.Spinner
	message string
	writer  *Writer
	plain   bool
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.plain {
		s.writer.Print("%s... ", s.message)
		return
	}
	s.spinner.Start()
}

// Stop stops the spinner animation.
func (s *Spinner) Stop() {
	if s.plain {
		return
	}
	s.spinner.Stop()
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.finish("done", func() {
		if message != "" {
			s.writer.Success("%s", message)
		}
	})
}

// StopWithFailure stops the spinner and shows a failure message.
func (s *Spinner) StopWithFailure(message string) {
	s.finish("failed", func() {
		if message != "" {
			s.writer.Failure("%s", message)
		}
	})
}

// StopWithWarning stops the spinner and shows a warning message.
func (s *Spinner) StopWithWarning(message string) {
	s.finish("warning", func() {
		if message != "" {
			s.writer.Warning("%s", message)
		}
	})
}

func (s *Spinner) finish(plainWord string, report func()) {
	if s.plain {
		s.writer.Println(plainWord)
	} else {
		s.spinner.Stop()
	}

	report()
}

// UpdateMessage changes the spinner message.
func (s *Spinner) UpdateMessage(message string) {
	s.message = message
	if !s.plain {
		s.spinner.Suffix = " " + message
	}
}
