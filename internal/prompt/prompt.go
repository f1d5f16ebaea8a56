// Package prompt reads interactive input for vizdash commands: token
// entry without echo and yes/no confirmations. Prompting is gated on
// a real terminal so scripted runs fail fast instead of hanging.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/vizual-ai/vizdash/internal/output"
)

// Prompter reads interactive answers from stdin.
type Prompter struct {
	out    *output.Writer
	reader *bufio.Reader
}

// New creates a Prompter over os.Stdin.
func New(out *output.Writer) *Prompter {
	return &Prompter{
		out:    out,
		reader: bufio.NewReader(os.Stdin),
	}
}

// CanPrompt reports whether interactive input is possible: stdout is
// a terminal and --no-input was not given.
func (p *Prompter) CanPrompt() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && !p.out.NoInput
}

// Confirm asks a yes/no question. Empty input takes the default;
// anything but yes reads as no.
func (p *Prompter) Confirm(question string, defaultYes bool) (bool, error) {
	choices := "y/N"
	if defaultYes {
		choices = "Y/n"
	}

	p.out.Print("%s [%s]: ", question, choices)

	line, err := p.reader.ReadString('\n')
	if err != nil {
		return defaultYes, fmt.Errorf("failed to read input: %w", err)
	}

	switch strings.TrimSpace(strings.ToLower(line)) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Password reads a secret without echoing it back.
func (p *Prompter) Password(label string) (string, error) {
	p.out.Print("%s: ", label)

	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	p.out.Println()

	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return string(secret), nil
}
