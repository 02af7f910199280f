package picker

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"linkstash/internal/model"
	"linkstash/internal/search"
)

var (
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))
)

// Picker is a simple TUI for selecting from search results.
type Picker struct {
	results   []search.Result
	query     string
	cursor    int
	selected  bool
	cancelled bool
	status    string
	width     int
	height    int
}

// New creates a new Picker over the given search results.
func New(results []search.Result, query string) Picker {
	return Picker{
		results: results,
		query:   query,
		cursor:  0,
		width:   80,
		height:  24,
	}
}

// Init implements tea.Model.
func (p Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			p.cancelled = true
			return p, tea.Quit

		case tea.KeyEnter:
			p.selected = true
			return p, tea.Quit

		case tea.KeyDown:
			if p.cursor < len(p.results)-1 {
				p.cursor++
			}
			return p, nil

		case tea.KeyUp:
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		}

		// Handle vim keys
		if msg.Type == tea.KeyRunes {
			switch string(msg.Runes) {
			case "j":
				if p.cursor < len(p.results)-1 {
					p.cursor++
				}
				return p, nil
			case "k":
				if p.cursor > 0 {
					p.cursor--
				}
				return p, nil
			case "y":
				if b := p.current(); b != nil {
					if err := clipboard.WriteAll(b.URL); err != nil {
						p.status = "clipboard unavailable"
					} else {
						p.status = "URL copied"
					}
				}
				return p, nil
			case "q":
				p.cancelled = true
				return p, tea.Quit
			}
		}
	}

	return p, nil
}

// View implements tea.Model.
func (p Picker) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Search: %s (%d results)", p.query, len(p.results))))
	b.WriteString("\n\n")

	for i, result := range p.results {
		cursor := "  "
		style := normalStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedStyle
		}

		title := style.Render(result.Bookmark.Title)
		url := urlStyle.Render(result.Bookmark.URL)

		b.WriteString(fmt.Sprintf("%s%s\n", cursor, title))
		b.WriteString(fmt.Sprintf("   %s\n", url))
	}

	b.WriteString("\n")
	if p.status != "" {
		b.WriteString(statusStyle.Render(p.status))
		b.WriteString("  ")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Render("j/k: move  Enter: open  y: copy URL  q/Esc: cancel"))

	return b.String()
}

// SelectedBookmark returns the selected bookmark, or nil if cancelled.
func (p Picker) SelectedBookmark() *model.Bookmark {
	if p.cancelled || !p.selected {
		return nil
	}
	return p.current()
}

// Cancelled returns true if the user cancelled the selection.
func (p Picker) Cancelled() bool {
	return p.cancelled
}

func (p Picker) current() *model.Bookmark {
	if p.cursor < len(p.results) {
		return p.results[p.cursor].Bookmark
	}
	return nil
}
