package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/matzehuels/bowerimport/pkg/mainfile"
)

// errPromptCanceled is returned when the user aborts a prompt.
var errPromptCanceled = errors.New("prompt canceled")

// newPrompter returns an interactive prompter when in and out are both
// terminals, and a line-reading prompter otherwise, so answers can be
// piped in.
func newPrompter(in, out *os.File) mainfile.Prompter {
	if term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd())) {
		return &teaPrompter{in: in, out: out}
	}
	return newLinePrompter(in, out)
}

// =============================================================================
// Line Prompter
// =============================================================================

// linePrompter writes the question and reads one line per answer.
type linePrompter struct {
	r *bufio.Reader
	w io.Writer
}

func newLinePrompter(r io.Reader, w io.Writer) *linePrompter {
	return &linePrompter{r: bufio.NewReader(r), w: w}
}

func (p *linePrompter) Prompt(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasSuffix(message, " ") {
		message += " "
	}
	fmt.Fprint(p.w, message)

	line, err := p.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// =============================================================================
// Terminal Prompter
// =============================================================================

// teaPrompter asks with a bubbletea text input.
type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p *teaPrompter) Prompt(ctx context.Context, message string) (string, error) {
	prog := tea.NewProgram(newPromptModel(message),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}

	m := final.(promptModel)
	if m.canceled {
		return "", errPromptCanceled
	}
	return m.input.Value(), nil
}

// promptModel is the bubbletea model for a single free-text question.
type promptModel struct {
	question string
	input    textinput.Model
	answered bool
	canceled bool
}

func newPromptModel(question string) promptModel {
	ti := textinput.New()
	ti.Prompt = iconInfo + " "
	ti.CharLimit = 512
	ti.Focus()
	return promptModel{question: strings.TrimSpace(question), input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.answered = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.answered || m.canceled {
		return StyleTitle.Render(m.question) + " " + StyleValue.Render(m.input.Value()) + "\n"
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.question))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("⏎ confirm  esc cancel"))
	b.WriteString("\n")
	return b.String()
}
