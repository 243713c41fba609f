// Package screen holds the contract between the router and each TUI page.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phasa/internal/ui/layout"
)

// Screen is one page of the TUI. View draws only the body; the app frame
// supplies the header and footer around it, using Title for the header.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	Title() string
}

// KeyHintProvider replaces the footer's default hints while the screen is
// on top.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Closer is called once when the screen leaves the stack, so background
// fetches it started can be cancelled.
type Closer interface {
	Close()
}
