// Package history is the screen listing finished quizzes for a learner.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/screen"
	"github.com/abhisek/phasa/internal/store"
	"github.com/abhisek/phasa/internal/ui/layout"
	"github.com/abhisek/phasa/internal/ui/theme"
)

// Repo is the part of store.EventRepo the screen reads.
type Repo interface {
	QueryQuizEvents(ctx context.Context, owner string, opts store.QueryOpts) ([]store.QuizEvent, error)
	SessionAnswers(ctx context.Context, sessionID string) ([]store.AnswerEvent, error)
	Stats(ctx context.Context, owner string) (store.Stats, error)
}

// scanLimit bounds how many quiz events are read when listing runs.
const scanLimit = 200

const promptWidth = 32

type loadedMsg struct {
	runs  []store.QuizEvent
	stats store.Stats
	err   error
}

type answersMsg struct {
	session string
	answers []store.AnswerEvent
	err     error
}

var (
	keyUp     = key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Navigate"))
	keyDown   = key.NewBinding(key.WithKeys("down", "j"))
	keyToggle = key.NewBinding(key.WithKeys("enter"), key.WithHelp("Enter", "Details"))
)

// HistoryScreen shows one line per finished quiz, newest first, under a
// stats header. Enter toggles a run's answers, fetched once per session.
type HistoryScreen struct {
	repo  Repo
	owner string

	runs     []store.QuizEvent
	stats    store.Stats
	selected int
	open     map[string]bool
	answers  map[string][]store.AnswerEvent
	loaded   bool
	err      error
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(repo Repo, owner string) *HistoryScreen {
	return &HistoryScreen{
		repo:    repo,
		owner:   owner,
		open:    map[string]bool{},
		answers: map[string][]store.AnswerEvent{},
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo, owner := s.repo, s.owner
	return func() tea.Msg {
		ctx := context.Background()
		events, err := repo.QueryQuizEvents(ctx, owner, store.QueryOpts{Limit: scanLimit})
		if err != nil {
			return loadedMsg{err: err}
		}
		msg := loadedMsg{}
		for _, e := range events {
			if e.Action == store.ActionEnd {
				msg.runs = append(msg.runs, e)
			}
		}
		// A stats failure leaves the header at zero.
		msg.stats, _ = repo.Stats(ctx, owner)
		return msg
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	hint := func(b key.Binding) layout.KeyHint {
		return layout.KeyHint{Key: b.Help().Key, Description: b.Help().Desc}
	}
	return []layout.KeyHint{hint(keyToggle), hint(keyUp), {Key: "Esc", Description: "Back"}}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		s.err = msg.err
		s.runs, s.stats = msg.runs, msg.stats
	case answersMsg:
		if msg.err == nil {
			s.answers[msg.session] = msg.answers
		}
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, keyUp):
			s.selected = max(s.selected-1, 0)
		case key.Matches(msg, keyDown):
			s.selected = max(min(s.selected+1, len(s.runs)-1), 0)
		case key.Matches(msg, keyToggle):
			return s, s.toggle()
		}
	}
	return s, nil
}

func (s *HistoryScreen) toggle() tea.Cmd {
	if s.selected >= len(s.runs) {
		return nil
	}
	id := s.runs[s.selected].SessionID
	s.open[id] = !s.open[id]
	if _, cached := s.answers[id]; cached || !s.open[id] {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		answers, err := repo.SessionAnswers(context.Background(), id)
		return answersMsg{session: id, answers: answers, err: err}
	}
}

func (s *HistoryScreen) View(width, _ int) string {
	notice := func(c color.Color, text string) string {
		return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(c).Render("\n\n" + text)
	}
	switch {
	case s.err != nil:
		return notice(theme.Error, "Error: "+s.err.Error())
	case !s.loaded:
		return notice(theme.TextDim, "Loading history...")
	case len(s.runs) == 0:
		return notice(theme.TextDim, "No quizzes yet. Start practicing!")
	}

	center := func(line string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, line) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + center(statsHeader(s.stats)) + "\n")
	for i, run := range s.runs {
		style, cursor := theme.Unselected, "  "
		if i == s.selected {
			style, cursor = theme.Selected, "> "
		}
		b.WriteString(center(style.Render(cursor + runLine(run))))
		if s.open[run.SessionID] {
			for _, l := range s.answerLines(run.SessionID) {
				b.WriteString(center(l))
			}
		}
	}
	return b.String()
}

// runLine reads like "Mar 01, 2026 09:30  1:35  Word match    4 questions   75% first try".
func runLine(run store.QuizEvent) string {
	pct := 0.0
	if run.Total > 0 {
		pct = 100 * float64(run.Correct) / float64(run.Total)
	}
	return fmt.Sprintf("%s  %d:%02d  %-12s %2d questions  %3.0f%% first try",
		run.Timestamp.Local().Format("Jan 02, 2006 15:04"),
		run.DurationSecs/60, run.DurationSecs%60,
		kindLabel(run.Kind, run.Source), run.Total, pct)
}

func (s *HistoryScreen) answerLines(session string) []string {
	dim := theme.Hint
	answers, ok := s.answers[session]
	switch {
	case !ok:
		return []string{dim.Render("    Loading answers...")}
	case len(answers) == 0:
		return []string{dim.Render("    No answers recorded")}
	}
	lines := make([]string, len(answers))
	for i, a := range answers {
		mark := theme.Correct.Render("✓")
		if a.HadWrong {
			mark = theme.Incorrect.Render("↻")
		}
		lines[i] = fmt.Sprintf("    %s %s", mark, dim.UnsetItalic().Render(
			fmt.Sprintf("%d. %s → %s", a.QuestionIndex+1, clip(a.Prompt, promptWidth), a.Answer)))
	}
	return lines
}

func statsHeader(st store.Stats) string {
	num := theme.Selected
	dim := theme.Hint.UnsetItalic()
	pair := func(n, label string) string { return num.Render(n) + " " + dim.Render(label) }

	out := strings.Join([]string{
		pair(fmt.Sprint(st.Quizzes), "quizzes"),
		pair(fmt.Sprintf("%.0f%%", st.Accuracy()*100), "first try"),
		pair(fmt.Sprint(st.WordsSeen), "words seen"),
	}, "   ")
	if len(st.Missed) == 0 {
		return out
	}
	words := make([]string, len(st.Missed))
	for i, m := range st.Missed {
		words[i] = m.Thai
	}
	return out + "\n" + dim.Render("Tricky words: ") + theme.Thai.Render(strings.Join(words, "  "))
}

// kindLabel names a run by quiz kind, marking generated ones with "(AI)".
func kindLabel(kind, source string) string {
	label := "Mixed"
	if k, err := quiz.ParseKind(kind); err == nil {
		label = k.DisplayName()
	}
	if source == "llm" {
		label += " (AI)"
	}
	return label
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
