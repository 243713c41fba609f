package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/router"
	"github.com/abhisek/phasa/internal/screen"
	"github.com/abhisek/phasa/internal/ui/components"
	"github.com/abhisek/phasa/internal/ui/layout"
	"github.com/abhisek/phasa/internal/ui/theme"
)

// SummaryScreen shows the results of a finished quiz and a review list.
type SummaryScreen struct {
	summary quiz.Summary
	title   string
	again   func() tea.Cmd
	buttons components.ButtonRow
	offset  int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. again runs when "Play again" is chosen and
// returns the navigation command; if nil the option is not offered.
func New(sum quiz.Summary, title string, again func() tea.Cmd) *SummaryScreen {
	s := &SummaryScreen{summary: sum, title: title, again: again}

	var buttons []components.Button
	if again != nil {
		buttons = append(buttons, components.NewButton("Play again", false, again))
	}
	buttons = append(buttons, components.NewButton("Home", false, func() tea.Cmd {
		return func() tea.Msg { return router.PopToRootMsg{} }
	}))
	s.buttons = components.NewButtonRow(buttons...)
	return s
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Confirm"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
			return s, nil
		case "down", "j":
			if s.offset < len(s.summary.Items)-1 {
				s.offset++
			}
			return s, nil
		}
	}
	var cmd tea.Cmd
	s.buttons, cmd = s.buttons.Update(msg)
	return s, cmd
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render(headline(sum)))
	b.WriteString("\n")
	if s.title != "" {
		b.WriteString(center.Foreground(theme.TextDim).Render(s.title))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	stats := fmt.Sprintf("Questions: %d      First try: %d      Needed another go: %d",
		sum.Total, sum.Correct, sum.Wrong)
	b.WriteString(center.Foreground(theme.Text).Render(stats))
	b.WriteString("\n\n")

	cw := components.ContentWidth(width)
	bar := components.NewProgressBar("Accuracy", sum.Accuracy(), true, cw)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
	b.WriteString(center.Foreground(theme.TextDim).Render("Review"))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n")

	// Reserve room for the header block above and the buttons below.
	rows := max(height-lipgloss.Height(b.String())-4, 1)
	b.WriteString(s.renderReview(width, rows))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.buttons.View()))

	return b.String()
}

func (s *SummaryScreen) renderReview(width, rows int) string {
	items := s.summary.Items
	if len(items) == 0 {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Nothing answered."))
	}

	start := min(s.offset, len(items)-1)
	end := min(start+rows, len(items))

	lines := make([]string, 0, end-start+1)
	for _, it := range items[start:end] {
		mark := lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		if it.HadWrong {
			mark = lipgloss.NewStyle().Foreground(theme.Accent).Render("↻")
		}
		line := fmt.Sprintf("%s %2d. %s  →  %s", mark, it.Index+1, reviewPrompt(it), it.Answer)
		if it.AnswerAux != "" {
			line += "  " + theme.Hint.Render(it.AnswerAux)
		}
		lines = append(lines, line)
	}
	if rest := len(items) - end; rest > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("   … %d more", rest)))
	}

	block := lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(lines, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

// reviewPrompt shortens long prompts such as cloze sentences.
func reviewPrompt(it quiz.SummaryItem) string {
	const limit = 36
	r := []rune(it.Prompt)
	if len(r) <= limit {
		return it.Prompt
	}
	return string(r[:limit-1]) + "…"
}

func headline(sum quiz.Summary) string {
	switch {
	case sum.Total == 0:
		return "Quiz over"
	case sum.Wrong == 0:
		return "Perfect! เก่งมาก!"
	case sum.Accuracy() >= 0.7:
		return "Nice work! ดีมาก!"
	default:
		return "Keep practicing! สู้ ๆ!"
	}
}
