package quiz

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/ui/components"
	"github.com/abhisek/phasa/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *QuizScreen) View(width, height int) string {
	switch s.ctrl.Phase() {
	case qz.PhaseEmpty:
		return renderNotice(width, theme.TextDim,
			"No words to practice yet.\n\nAdd some words from the home screen or with `phasa words add`.")
	case qz.PhaseLoading:
		if reason := s.ctrl.Err(); reason != "" {
			return s.renderInfoLine(width) + renderNotice(width, theme.Error, reason)
		}
		frame := spinnerFrames[s.spinner%len(spinnerFrames)]
		return s.renderInfoLine(width) + renderNotice(width, theme.TextDim, frame+" Preparing question...")
	}

	q := s.ctrl.Current()
	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	if s.flash != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Inherit(theme.Correct).Render(s.flash))
		b.WriteString("\n\n")
	}
	b.WriteString(renderPrompt(q, width))
	b.WriteString("\n\n")

	if q.Kind.MultipleChoice() {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.choices.View()))
	} else {
		b.WriteString(s.renderReorder(q, width))
	}

	b.WriteString("\n")
	b.WriteString(s.renderFeedback(q, width))
	return b.String()
}

// renderInfoLine renders the question counter, score and progress track.
func (s *QuizScreen) renderInfoLine(width int) string {
	total := s.ctrl.TotalQuestions()
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", s.ctrl.QuestionNumber(), total))
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s %d  %s %d  ",
			lipgloss.NewStyle().Foreground(theme.Success).Render("✓"), s.ctrl.CorrectCount(),
			lipgloss.NewStyle().Foreground(theme.Accent).Render("↻"), s.ctrl.WrongCount()))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right); pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}

	track := components.QuestionTrack{Marks: s.marks()}
	return line + "\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, track.View()) + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-2, 0))) +
		"\n\n"
}

func (s *QuizScreen) marks() []components.Mark {
	marks := make([]components.Mark, s.ctrl.TotalQuestions())
	for _, it := range s.ctrl.Summary().Items {
		if it.HadWrong {
			marks[it.Index] = components.MarkRetried
		} else {
			marks[it.Index] = components.MarkFirstTry
		}
	}
	if i := s.ctrl.Index(); i < len(marks) && marks[i] == components.MarkPending {
		marks[i] = components.MarkCurrent
	}
	return marks
}

func renderPrompt(q *qz.Question, width int) string {
	var instruction string
	switch q.Kind {
	case qz.KindWordMatch:
		instruction = "What does this word mean?"
	case qz.KindCloze:
		instruction = "Which word fills the blank?"
	case qz.KindTokenReorder:
		instruction = "Put the pieces in order."
	}

	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	out := center.Foreground(theme.TextDim).Render(instruction) + "\n\n" +
		center.Inherit(theme.Thai).Render(q.Prompt)
	if q.PromptNote != "" {
		out += "\n" + center.Inherit(theme.Hint).Render(q.PromptNote)
	}
	return out
}

func (s *QuizScreen) renderReorder(q *qz.Question, width int) string {
	a, _ := s.ctrl.Attempt()

	placed := make([]string, 0, len(a.Sequence))
	for _, pos := range a.Sequence {
		placed = append(placed, theme.TokenPlaced.Render(q.BankToken(pos)))
	}
	answer := strings.Join(placed, " ")
	if len(placed) == 0 {
		answer = theme.Hint.Render("pick the first piece")
	}

	bank := make([]string, len(q.Bank))
	for pos := range q.Bank {
		label := fmt.Sprintf("%d %s", pos+1, q.BankToken(pos))
		switch {
		case a.Used(pos):
			bank[pos] = theme.TokenUsed.Render(label)
		case pos == s.cursor && !a.Correct:
			bank[pos] = theme.TokenChip.Foreground(theme.Primary).Bold(true).Render("▸" + label)
		default:
			bank[pos] = theme.TokenChip.Render(label)
		}
	}

	answerBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(components.ContentWidth(width)).
		Align(lipgloss.Center).
		Render(answer)

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, answerBox) + "\n\n" +
		lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(bank, " "))
}

func (s *QuizScreen) renderFeedback(q *qz.Question, width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch s.feedback {
	case feedbackWrong:
		return center.Inherit(theme.Incorrect).Render("Not quite. Try again.")
	case feedbackCorrect:
		out := center.Inherit(theme.Correct).Render("Correct!")
		if q.Explanation != "" {
			out += "\n\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Text).Width(min(width-8, 70)).Render(q.Explanation))
		}
		next := "Press Enter for the next question"
		if s.ctrl.Finished() {
			next = "All done! Press Enter to see your results"
		}
		return out + "\n\n" + center.Foreground(theme.TextDim).Render(next)
	}
	return ""
}

func renderNotice(width int, fg color.Color, text string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(fg).
		Render("\n\n" + text)
}
