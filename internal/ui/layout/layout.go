package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/ui/theme"
)

// Smallest terminal the quiz screens fit in.
const (
	MinWidth  = 60
	MinHeight = 18
)

const brand = "Phasa ภาษา"

// KeyHint is one key binding shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(fmt.Sprintf("Please make the window bigger.\n\nNeeds %d x %d, have %d x %d.",
			MinWidth, MinHeight, width, height))
}

// RenderHeader draws the brand on the left, the screen title in the middle
// and status on the right, above a thin rule.
func RenderHeader(title, status string, width int) string {
	left := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(" " + brand)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(status + " ")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	row := spread(left, center, right, width)
	return row + "\n" + rule(width)
}

// RenderFooter draws the key hints below a thin rule. Hints that do not fit
// the width are dropped from the end.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	line := " "
	for i, h := range hints {
		part := key.Render(h.Key) + " " + desc.Render(h.Description)
		if i > 0 {
			part = "   " + part
		}
		if lipgloss.Width(line+part) > width {
			break
		}
		line += part
	}
	return rule(width) + "\n" + line
}

// RenderFrame stacks header, content and footer, sizing content to fill
// whatever height remains.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).MaxHeight(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// spread places center in the middle of width, pushing left and right to
// the edges. center is dropped when the three do not fit.
func spread(left, center, right string, width int) string {
	lw, cw, rw := lipgloss.Width(left), lipgloss.Width(center), lipgloss.Width(right)
	if lw+cw+rw+2 > width {
		gap := max(width-lw-rw, 1)
		return left + strings.Repeat(" ", gap) + right
	}
	leftGap := max((width-cw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-cw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right
}

func rule(width int) string {
	return lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0)))
}
