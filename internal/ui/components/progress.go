package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/ui/theme"
)

// ProgressBar draws "Label  ██████░░░░  62%" in Width cells. Percent is a
// fraction in [0, 1]; values outside are clamped when drawn.
type ProgressBar struct {
	Label       string
	Percent     float64
	ShowPercent bool
	Width       int
}

func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, ShowPercent: showPercent, Width: width}
}

const minBar = 4

func (p ProgressBar) View() string {
	var head, tail string
	if p.Label != "" {
		head = theme.Unselected.Render(p.Label) + "  "
	}
	frac := min(max(p.Percent, 0), 1)
	if p.ShowPercent {
		tail = theme.Hint.UnsetItalic().Render(fmt.Sprintf("  %3d%%", int(frac*100)))
	}

	bar := max(p.Width-lipgloss.Width(head)-lipgloss.Width(tail), minBar)
	lit := int(float64(bar) * frac)
	return head +
		theme.ProgressFilled.Render(strings.Repeat(" ", lit)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", bar-lit)) +
		tail
}

// Mark is how one question shows in a QuestionTrack.
type Mark int

const (
	MarkPending Mark = iota
	MarkCurrent
	MarkFirstTry
	MarkRetried
)

var markGlyphs = map[Mark]string{
	MarkPending:  lipgloss.NewStyle().Foreground(theme.Border).Render("○"),
	MarkCurrent:  theme.Selected.Render("◉"),
	MarkFirstTry: lipgloss.NewStyle().Foreground(theme.Success).Render("●"),
	MarkRetried:  lipgloss.NewStyle().Foreground(theme.Accent).Render("●"),
}

// QuestionTrack is the row of dots above a quiz, one per question.
type QuestionTrack struct {
	Marks []Mark
}

func (t QuestionTrack) View() string {
	cells := make([]string, len(t.Marks))
	for i, m := range t.Marks {
		cells[i] = markGlyphs[m]
	}
	return strings.Join(cells, " ")
}
