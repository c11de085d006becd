// Package shell implements the interactive front end for cmd/forge.
//
// It uses the Charm libraries (Bubble Tea, Bubbles, Lipgloss) to provide
// a modern terminal interface: styled result/error lines, a spinner
// while a line is being evaluated, and a continuation prompt while a
// ":" definition or code.new-block is still open. An unclosed if, begin
// or try is evaluated and reported as a compile error instead.
//
// The main entry point is Start, which runs a Bubble Tea program against
// a single persistent forge.Interpreter for the life of the session.
package shell

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/forge-lang/forge/forge"
	"github.com/forge-lang/forge/internal/token"
)

const (
	// Prompt is the default prompt for the shell.
	Prompt = "> "

	// ContPrompt is the continuation prompt shown while a ":" definition
	// or code.new-block is still open across lines.
	ContPrompt = ".. "
)

// Options configures the shell.
type Options struct {
	NoColor bool // Disable styled output.
	Debug   bool // Carried from the -d flag; not read by the shell, which shows the top of stack after every line regardless.
}

// Start runs the shell until the user exits.
func Start(username string, options Options) {
	p := tea.NewProgram(initialModel(username, options))
	if _, err := p.Run(); err != nil {
		fmt.Println("Error running shell:", err)
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	thrownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8700")).
			Bold(true)

	historyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#767676"))

	wordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F1FA8C"))

	stringStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B"))
)

type evalResultMsg struct {
	output  string
	isError bool
	thrown  bool
	elapsed time.Duration
}

type historyEntry struct {
	input          string
	output         string
	isError        bool
	thrown         bool
	evaluationTime time.Duration
}

type model struct {
	textInput textinput.Model
	history   []historyEntry
	interp    *forge.Interpreter
	username  string

	evaluating   bool
	currentInput string

	multilineBuffer string
	isMultiline     bool

	spinner spinner.Model
	options Options
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "Enter forge code"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput: ti,
		interp:    forge.New(),
		username:  username,
		spinner:   s,
		options:   options,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// evalCmd evaluates src against interp asynchronously.
func evalCmd(interp *forge.Interpreter, name, src string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()

		err := interp.ProcessSource(name, src)
		elapsed := time.Since(start)

		if err != nil {
			var ferr *forge.Error
			thrown := errors.As(err, &ferr) && ferr.Kind == forge.KindThrown
			return evalResultMsg{output: err.Error(), isError: true, thrown: thrown, elapsed: elapsed}
		}

		if interp.Depth() == 0 {
			return evalResultMsg{output: "ok", elapsed: elapsed}
		}
		top, perr := interp.Pop()
		if perr != nil {
			return evalResultMsg{output: "ok", elapsed: elapsed}
		}
		return evalResultMsg{output: top.Inspect(), elapsed: elapsed}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.history = append(m.history, historyEntry{
			input:          m.currentInput,
			output:         msg.output,
			isError:        msg.isError,
			thrown:         msg.thrown,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating && msg.Type != tea.KeyCtrlC {
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			input := m.textInput.Value()

			buffer := input
			if m.isMultiline {
				buffer = m.multilineBuffer + "\n" + input
			}
			m.textInput.SetValue("")

			if strings.TrimSpace(buffer) == "" {
				m.isMultiline = false
				m.multilineBuffer = ""
				return m, nil
			}

			// Probe compiles buffer against a disposable clone of the
			// session dictionary and stops before anything runs, so a
			// well-formed line that also happens to be side-effecting
			// (".", "thread.new") is never executed twice.
			if m.interp.Probe("-shell-probe-", buffer) {
				m.isMultiline = true
				m.multilineBuffer = buffer
				return m, nil
			}

			m.isMultiline = false
			m.multilineBuffer = ""
			m.evaluating = true
			m.currentInput = buffer
			return m, evalCmd(m.interp, "-shell-", buffer)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " forge interactive shell "))
	s.WriteString("\n")
	if m.username != "" {
		s.WriteString(fmt.Sprintf("\nHello %s! Type forge words, Ctrl+C/D to exit.\n", m.username))
	}
	s.WriteString("\n")

	for _, entry := range m.history {
		lines := strings.Split(entry.input, "\n")
		for i, line := range lines {
			if i == 0 {
				s.WriteString(m.applyStyle(promptStyle, Prompt))
			} else {
				s.WriteString(m.applyStyle(promptStyle, ContPrompt))
			}
			s.WriteString(m.highlightCode(line))
			s.WriteString("\n")
		}

		switch {
		case entry.thrown:
			s.WriteString(m.applyStyle(thrownStyle, entry.output))
		case entry.isError:
			s.WriteString(m.applyStyle(errorStyle, entry.output))
		default:
			s.WriteString(m.applyStyle(resultStyle, entry.output))
		}

		if entry.evaluationTime > 10*time.Millisecond {
			s.WriteString(m.applyStyle(historyStyle, fmt.Sprintf(" (%.2fs)", entry.evaluationTime.Seconds())))
		}
		s.WriteString("\n\n")
	}

	if m.evaluating {
		s.WriteString(m.applyStyle(promptStyle, Prompt))
		s.WriteString(m.highlightCode(m.currentInput))
		s.WriteString("\n")
		s.WriteString(m.spinner.View())
		s.WriteString(" evaluating...\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "open definition, keep typing or enter a blank line to abort:\n"))
	}

	if !m.evaluating {
		if m.isMultiline {
			m.textInput.Prompt = m.applyStyle(promptStyle, ContPrompt)
		} else {
			m.textInput.Prompt = m.applyStyle(promptStyle, Prompt)
		}
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	help := "\nEsc/Ctrl+C/Ctrl+D to exit"
	if m.isMultiline {
		help += " | unclosed \":\"/code.new-block stays open across lines"
	}
	s.WriteString(m.applyStyle(historyStyle, help))

	return s.String()
}

// highlightCode tokenizes line for display purposes only; a tokenizer
// error (e.g. an unterminated string mid-continuation) just falls back to
// the raw text.
func (m model) highlightCode(line string) string {
	tokens, err := token.Tokenize("-highlight-", line)
	if err != nil {
		return line
	}
	var s strings.Builder
	for idx, tok := range tokens {
		if idx > 0 {
			s.WriteString(" ")
		}
		switch tok.Hint {
		case token.Number:
			s.WriteString(m.applyStyle(numberStyle, tok.Text))
		case token.String:
			s.WriteString(m.applyStyle(stringStyle, "\""+tok.Text+"\""))
		default:
			s.WriteString(m.applyStyle(wordStyle, tok.Text))
		}
	}
	return s.String()
}
