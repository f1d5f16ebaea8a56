package prompt

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/vizual-ai/vizdash/internal/output"
	"github.com/vizual-ai/vizdash/internal/terminal"
)

func testPrompter(input string) (*Prompter, *bytes.Buffer) {
	var out bytes.Buffer

	w := output.NewWriter(&out, &out, &terminal.Info{IsTTY: false, NoColor: true})

	return &Prompter{out: w, reader: bufio.NewReader(strings.NewReader(input))}, &out
}

func TestConfirm_Answers(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "yes", input: "yes\n", want: true},
		{name: "y", input: "y\n", want: true},
		{name: "uppercase", input: "Y\n", want: true},
		{name: "no", input: "no\n", defaultYes: true, want: false},
		{name: "empty takes default no", input: "\n", want: false},
		{name: "empty takes default yes", input: "\n", defaultYes: true, want: true},
		{name: "garbage reads as no", input: "maybe\n", defaultYes: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := testPrompter(tt.input)

			got, err := p.Confirm("Proceed?", tt.defaultYes)
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}

			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfirm_ShowsDefaultInPrompt(t *testing.T) {
	p, out := testPrompter("\n")

	if _, err := p.Confirm("Remove the stored GitHub token?", false); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(out.String(), "[y/N]") {
		t.Errorf("prompt should show the default choice, got %q", out.String())
	}
}
