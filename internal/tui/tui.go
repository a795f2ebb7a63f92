// Package tui renders parsed documents in the terminal using a scrollable
// pager.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/starford/raido/internal/parser"
	"github.com/starford/raido/internal/render"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	bulletStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Styled builds a component set whose output is ANSI-styled terminal text.
// The set carries the open list's kind and item counter, so each call to
// Styled returns an independent instance.
func Styled() render.ComponentSet[string] {
	var kind parser.ListKind
	var ordinal int
	return render.ComponentSet[string]{
		Heading: func(key string, level int, text string) string {
			return headingStyle.Render(strings.Repeat("#", level) + " " + text)
		},
		Paragraph: func(key, text string) string {
			return text
		},
		ListOpen: func(key string, k parser.ListKind) string {
			kind = k
			ordinal = 0
			return ""
		},
		ListItem: func(key, text string) string {
			ordinal++
			marker := "•"
			if kind == parser.ListOrdered {
				marker = fmt.Sprintf("%d.", ordinal)
			}
			return "  " + bulletStyle.Render(marker) + " " + text
		},
		ListClose: func(key string, k parser.ListKind) string {
			return ""
		},
	}
}

type model struct {
	title    string
	body     string
	viewport viewport.Model
	ready    bool
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.header())
		footerHeight := lipgloss.Height(m.footer())
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.body)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "loading..."
	}
	return m.header() + "\n" + m.viewport.View() + "\n" + m.footer()
}

func (m model) header() string {
	return titleStyle.Render(m.title)
}

func (m model) footer() string {
	return helpStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll · q quit", m.viewport.ScrollPercent()*100))
}

// View runs the pager over the parsed document until the user quits.
func View(title string, nodes []parser.Node) error {
	body := strings.Join(render.Components(nodes, Styled()), "\n")
	p := tea.NewProgram(model{title: title, body: body}, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
