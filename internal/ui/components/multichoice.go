package components

import (
	"fmt"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/ui/theme"
)

// ChoiceMsg is emitted when the learner picks an option.
type ChoiceMsg struct {
	Index int
}

// MultiChoice is a multiple-choice selector. It only tracks display state;
// the caller decides whether a pick was right and reports back with
// MarkWrong or MarkCorrect.
type MultiChoice struct {
	Options  []string
	Aux      []string
	Selected int
	Answered bool
	Correct  int
	wrong    map[int]bool
}

// NewMultiChoice creates a selector over options. aux, if non-nil, runs
// parallel to options and is shown dimmed next to each.
func NewMultiChoice(options, aux []string) MultiChoice {
	return MultiChoice{
		Options: options,
		Aux:     aux,
		Correct: -1,
		wrong:   make(map[int]bool),
	}
}

// Init returns nil.
func (m MultiChoice) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and emits ChoiceMsg on Enter or a number key.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Answered {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m, choose(m.Selected)
	default:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.Options) {
			m.Selected = n - 1
			return m, choose(n - 1)
		}
	}

	return m, nil
}

func choose(i int) tea.Cmd {
	return func() tea.Msg { return ChoiceMsg{Index: i} }
}

// MarkWrong flags option i as a wrong pick.
func (m *MultiChoice) MarkWrong(i int) {
	m.wrong[i] = true
}

// MarkCorrect locks the selector with option i revealed as the answer.
func (m *MultiChoice) MarkCorrect(i int) {
	m.Answered = true
	m.Correct = i
	m.Selected = i
}

// IsWrong reports whether option i was picked and rejected.
func (m MultiChoice) IsWrong(i int) bool {
	return m.wrong[i]
}

// View renders the options.
func (m MultiChoice) View() string {
	var s string
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Answered {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case m.Answered && i == m.Correct:
			style = theme.Correct
			line += "  ✓"
		case m.wrong[i]:
			style = theme.Incorrect
			line += "  ✗"
		case m.Answered:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		s += style.Render(line)

		if i < len(m.Aux) && m.Aux[i] != "" && (m.Answered || m.wrong[i]) {
			s += "  " + theme.Hint.Render(m.Aux[i])
		}
		s += "\n"
	}
	return s
}
