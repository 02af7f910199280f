package prompt

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyRunes(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_Yes(t *testing.T) {
	m := NewModel("Move 3 selected bookmarks to trash?")

	newModel, cmd := m.Update(keyRunes('y'))
	m = newModel.(Model)

	if !m.Approved() {
		t.Error("expected approval after 'y'")
	}
	if cmd == nil {
		t.Error("expected quit command after answer")
	}
}

func TestModel_No(t *testing.T) {
	m := NewModel("Delete tag?")

	newModel, cmd := m.Update(keyRunes('n'))
	m = newModel.(Model)

	if m.Approved() {
		t.Error("expected decline after 'n'")
	}
	if cmd == nil {
		t.Error("expected quit command after answer")
	}
}

func TestModel_EnterApproves(t *testing.T) {
	m := NewModel("Proceed?")

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(Model)

	if !m.Approved() {
		t.Error("expected enter to approve")
	}
}

func TestModel_EscapeDeclines(t *testing.T) {
	m := NewModel("Proceed?")

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = newModel.(Model)

	if m.Approved() {
		t.Error("expected escape to decline")
	}
}

func TestModel_UnansweredIsNotApproved(t *testing.T) {
	m := NewModel("Proceed?")

	// Irrelevant key leaves the question open
	newModel, cmd := m.Update(keyRunes('x'))
	m = newModel.(Model)

	if m.Approved() {
		t.Error("expected unanswered prompt to not be approved")
	}
	if cmd != nil {
		t.Error("expected no command for irrelevant key")
	}
}

func TestModel_ViewShowsQuestion(t *testing.T) {
	m := NewModel("Move 5 filtered bookmarks to trash?")

	view := m.View()

	if !strings.Contains(view, "Move 5 filtered bookmarks to trash?") {
		t.Errorf("expected view to contain question, got %q", view)
	}
	if !strings.Contains(view, "y: yes") {
		t.Error("expected view to show key hints")
	}
}

func TestModel_ViewEmptyAfterAnswer(t *testing.T) {
	m := NewModel("Proceed?")

	newModel, _ := m.Update(keyRunes('y'))
	m = newModel.(Model)

	if m.View() != "" {
		t.Error("expected empty view after answer")
	}
}
