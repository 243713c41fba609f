package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/ui/theme"
)

const (
	panelMin    = 20
	panelMax    = 64
	panelMargin = 6
)

// ContentWidth is the width every centered panel shares for a frame of the
// given width, so stacked boxes line up.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-panelMargin, panelMin), panelMax)
}

var cardFrame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border).
	Align(lipgloss.Center).
	Padding(1, 2)

// Card draws content centered inside a rounded border cw cells wide.
func Card(content string, cw int) string {
	return cardFrame.Width(cw - 2).Render(content)
}
