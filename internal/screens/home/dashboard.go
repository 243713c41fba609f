package home

import (
	"fmt"
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/store"
	"github.com/abhisek/phasa/internal/ui/components"
	"github.com/abhisek/phasa/internal/ui/theme"
)

const (
	bannerFull = `█▀█ █ █ ▄▀█ █▀ ▄▀█
█▀▀ █▀█ █▀█ ▄█ █▀█`
	bannerCompact = "P · H · A · S · A"
	bannerThai    = "ภาษา"
)

// dashboard draws the home page sections at a shared content width. In
// compact mode the banner collapses to one line and the stats shorten.
type dashboard struct {
	cw      int
	compact bool
}

func (d dashboard) center() lipgloss.Style {
	return lipgloss.NewStyle().Width(d.cw).Align(lipgloss.Center)
}

func (d dashboard) banner() string {
	name := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	sep := "\n"
	text := bannerFull
	if d.compact {
		sep, text = "  ", bannerCompact
	}
	return d.center().Render(name.Render(text) + sep + theme.Thai.Render(bannerThai))
}

func (d dashboard) mascot(v MascotVariant) string {
	return d.center().Render(RenderMascot(v))
}

// stats shows the word count, quizzes played and first-try accuracy. The
// accuracy reads "–" until something has been answered.
func (d dashboard) stats(words int, st store.Stats) string {
	bold := func(c color.Color, s string) string {
		return lipgloss.NewStyle().Foreground(c).Bold(true).Render(s)
	}
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)

	acc := dim.Render("–")
	if st.Answers > 0 {
		acc = bold(theme.Success, fmt.Sprintf("%.0f%%", st.Accuracy()*100))
	}

	line := fmt.Sprintf("%s  %s  %s %s",
		bold(theme.Primary, fmt.Sprintf("✎ %d WORDS", words)),
		bold(theme.Secondary, fmt.Sprintf("◎ %d QUIZZES", st.Quizzes)),
		acc, dim.Render("FIRST TRY"))
	if d.compact {
		line = fmt.Sprintf("%s %s %s",
			bold(theme.Primary, fmt.Sprintf("✎%d", words)),
			bold(theme.Secondary, fmt.Sprintf("◎%d", st.Quizzes)),
			acc)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(d.cw-2).
		Padding(0, 1).
		Align(lipgloss.Center).
		Render(line)
}

func (d dashboard) note(text string, c color.Color) string {
	return d.center().Foreground(c).Render(text)
}

// menu keeps the entries left-aligned as a block in the middle.
func (d dashboard) menu(m components.Menu) string {
	return d.center().Render(lipgloss.NewStyle().Align(lipgloss.Left).Render(m.View()))
}

// frame is the double border around the whole page, content centered both
// ways.
func frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
