// Package app is the Bubble Tea root model: a header and footer frame
// around whichever screen is on top of the router.
package app

import (
	"fmt"
	"log/slog"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/questiongen"
	"github.com/abhisek/phasa/internal/router"
	"github.com/abhisek/phasa/internal/screen"
	"github.com/abhisek/phasa/internal/screens/home"
	"github.com/abhisek/phasa/internal/ui/layout"
)

type Options struct {
	Home home.Deps

	// Start opens a quiz right away instead of waiting on the home menu.
	Start *Start
}

type Start struct {
	Mode questiongen.Mode
	LLM  bool
}

var (
	keyQuit = key.NewBinding(key.WithKeys("ctrl+c"))
	keyBack = key.NewBinding(key.WithKeys("esc"))

	quitHint  = layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	rootHints = []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "1-9", Description: "Jump"},
		quitHint,
	}
	childHints = []layout.KeyHint{{Key: "Esc", Description: "Back"}, quitHint}
)

type AppModel struct {
	router  *router.Router
	status  string // learner name shown in the header
	startup tea.Cmd
	width   int
	height  int
}

func newAppModel(root screen.Screen, owner string) AppModel {
	if owner == "" {
		owner = "guest"
	}
	return AppModel{router: router.New(root), status: owner}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.startup)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, keyQuit):
			// Closing the stack cancels any fetch still running.
			m.router.PopToRoot()
			return m, tea.Quit
		case key.Matches(msg, keyBack):
			if m.router.Depth() == 1 {
				return m, nil
			}
			return m, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width > 0 && m.height > 0 {
		v.SetContent(m.render())
	}
	return v
}

func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	var title string
	active := m.router.Active()
	if active != nil {
		title = active.Title()
	}
	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height)
}

// footerHints uses the screen's own hints when it has any, else the
// defaults for the root menu or a child screen. Quit is always last.
func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), quitHint)
	}
	if m.router.Depth() > 1 {
		return childHints
	}
	return rootHints
}

// Run blocks until the user quits.
func Run(opts Options) error {
	h := home.New(opts.Home)
	m := newAppModel(h, opts.Home.Owner)
	if s := opts.Start; s != nil {
		m.startup = h.Start(s.Mode, s.LLM)
	}

	if _, err := tea.NewProgram(m).Run(); err != nil {
		slog.Error("TUI exited with an error", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
