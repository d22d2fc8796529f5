package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	p := newLinePrompter(strings.NewReader("dist/lib.js\r\n\nlast"), &out)
	ctx := context.Background()

	for _, want := range []string{"dist/lib.js", "", "last"} {
		got, err := p.Prompt(ctx, "question:")
		if err != nil {
			t.Fatalf("Prompt failed: %v", err)
		}
		if got != want {
			t.Errorf("Prompt() = %q, want %q", got, want)
		}
	}
	if _, err := p.Prompt(ctx, "question:"); err != io.EOF {
		t.Errorf("exhausted input: err = %v, want io.EOF", err)
	}
	if !strings.HasPrefix(out.String(), "question: ") {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestLinePrompterCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := newLinePrompter(strings.NewReader("x\n"), io.Discard)
	if _, err := p.Prompt(ctx, "q"); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPromptModel(t *testing.T) {
	var m tea.Model = newPromptModel("what global does lib export? (lib): ")
	for _, r := range "Lib" {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter should quit")
	}

	pm := m.(promptModel)
	if !pm.answered || pm.input.Value() != "Lib" {
		t.Errorf("model = answered:%v value:%q", pm.answered, pm.input.Value())
	}
	if !strings.Contains(pm.View(), "Lib") {
		t.Errorf("View() = %q", pm.View())
	}
}

func TestPromptModelCancel(t *testing.T) {
	m, _ := newPromptModel("q").Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.(promptModel).canceled {
		t.Error("esc should cancel")
	}
}
