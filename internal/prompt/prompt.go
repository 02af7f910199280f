// Package prompt renders yes/no confirmations for destructive operations.
package prompt

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// KeyMap defines the confirmation key bindings.
type KeyMap struct {
	Yes    key.Binding
	No     key.Binding
	Cancel key.Binding
}

// DefaultKeyMap returns the default confirmation bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "decline"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "q"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// Model is a bubbletea model asking a single yes/no question.
type Model struct {
	question string
	keys     KeyMap
	answered bool
	approved bool
}

// NewModel creates a confirmation model for the given question.
func NewModel(question string) Model {
	return Model{
		question: question,
		keys:     DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Yes):
			m.answered = true
			m.approved = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.No), key.Matches(keyMsg, m.keys.Cancel):
			m.answered = true
			m.approved = false
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.answered {
		return ""
	}
	return questionStyle.Render(m.question) + "\n" + hintStyle.Render("y: yes  n: no  esc: cancel") + "\n"
}

// Approved reports whether the user answered yes.
func (m Model) Approved() bool {
	return m.answered && m.approved
}

// Terminal asks confirmations on the controlling terminal. It satisfies
// the engine's confirmation gate.
type Terminal struct{}

// Confirm runs an interactive prompt and reports the user's answer.
// Any failure to drive the terminal counts as a decline; destructive
// operations must never proceed on a half-read answer.
func (Terminal) Confirm(message string, count int) bool {
	question := fmt.Sprintf("%s [y/N]", message)

	p := tea.NewProgram(NewModel(question))
	final, err := p.Run()
	if err != nil {
		return confirmOnStdin(question)
	}
	m, ok := final.(Model)
	if !ok {
		return false
	}
	return m.Approved()
}

// confirmOnStdin is the fallback for environments without a TTY.
func confirmOnStdin(question string) bool {
	fmt.Fprintf(os.Stderr, "%s ", question)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
