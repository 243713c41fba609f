package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/quizlog"
	"github.com/abhisek/phasa/internal/router"
	"github.com/abhisek/phasa/internal/screen"
	"github.com/abhisek/phasa/internal/screens/summary"
	"github.com/abhisek/phasa/internal/ui/components"
	"github.com/abhisek/phasa/internal/ui/layout"
	"github.com/abhisek/phasa/internal/vocab"
)

// Options configures a QuizScreen.
type Options struct {
	// Title is shown in the header, e.g. "Word match".
	Title string

	// PoolSize caps the number of questions.
	PoolSize int

	// Mailbox, if set, may hold a prepared pool and first question.
	Mailbox *qz.Mailbox

	// Recorder persists the run. May be nil.
	Recorder *quizlog.Recorder
}

// QuizScreen runs one quiz session over a controller.
type QuizScreen struct {
	items []vocab.Item
	src   qz.Source
	opts  Options

	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *qz.Controller

	choices  components.MultiChoice
	cursor   int // bank cursor for token reorder
	feedback feedback
	flash    string // confirmation carried over from the previous question
	spinner  int
	replay   bool // set by the summary's "Play again" before it pops back here
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.Closer = (*QuizScreen)(nil)

// New creates a QuizScreen. If opts.Mailbox holds a handoff it is taken and
// the controller starts from it.
func New(items []vocab.Item, src qz.Source, opts Options) *QuizScreen {
	ctx, cancel := context.WithCancel(context.Background())
	s := &QuizScreen{
		items:  items,
		src:    src,
		opts:   opts,
		ctx:    ctx,
		cancel: cancel,
	}

	copts := []qz.ControllerOption{
		qz.WithContext(ctx),
		qz.WithPoolSize(opts.PoolSize),
	}
	if opts.Recorder != nil {
		copts = append(copts, qz.WithObserver(opts.Recorder))
	}
	if opts.Mailbox != nil {
		if h, ok := opts.Mailbox.Take(); ok {
			copts = append(copts, qz.WithHandoff(h))
		}
	}
	s.ctrl = qz.NewController(items, src, copts...)
	s.syncQuestion()
	return s
}

// Controller exposes the underlying controller.
func (s *QuizScreen) Controller() *qz.Controller {
	return s.ctrl
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.opts.Recorder != nil && s.ctrl.TotalQuestions() > 0 {
		s.opts.Recorder.Start(s.ctx, s.ctrl.TotalQuestions())
	}
	return s.load()
}

// Close stops background fetches.
func (s *QuizScreen) Close() {
	s.ctrl.Close()
	s.cancel()
}

func (s *QuizScreen) Title() string {
	if s.opts.Title != "" {
		return s.opts.Title
	}
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.ctrl.Finished():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Results"},
			{Key: "Esc", Description: "Back"},
		}
	case s.ctrl.Err() != "":
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	case s.ctrl.CanAdvance():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "Esc", Description: "Back"},
		}
	}

	q := s.ctrl.Current()
	if q != nil && q.Kind == qz.KindTokenReorder {
		return []layout.KeyHint{
			{Key: "←→", Description: "Move"},
			{Key: "Enter", Description: "Place/Check"},
			{Key: "Bksp", Description: "Undo"},
			{Key: "C", Description: "Clear"},
		}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionSettledMsg:
		if msg.Index != s.ctrl.Index() {
			return s, nil
		}
		s.ctrl.Resolve()
		s.syncQuestion()
		return s, nil

	case spinnerTickMsg:
		if s.ctrl.Phase() != qz.PhaseLoading || s.ctrl.Err() != "" {
			return s, nil
		}
		s.spinner++
		return s, spinnerTick()

	case components.ChoiceMsg:
		return s.choose(msg.Index)

	case router.ResumeMsg:
		// Back from the summary: either replay, or leave the finished quiz.
		if s.replay {
			return s, s.restart()
		}
		if s.ctrl.Finished() {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.ctrl.Finished() {
		if key == "enter" {
			return s, s.showSummary()
		}
		return s, nil
	}

	if s.ctrl.Phase() == qz.PhaseLoading {
		if key == "r" && s.ctrl.Err() != "" {
			ch := s.ctrl.Retry()
			if ch == nil {
				return s, nil
			}
			return s, tea.Batch(waitFor(ch, s.ctrl.Index()), spinnerTick())
		}
		return s, nil
	}

	if s.ctrl.Phase() != qz.PhaseReady {
		return s, nil
	}

	if s.ctrl.CanAdvance() {
		if key == "enter" || key == "n" {
			return s.next()
		}
		return s, nil
	}

	q := s.ctrl.Current()
	if q.Kind.MultipleChoice() {
		var cmd tea.Cmd
		s.choices, cmd = s.choices.Update(msg)
		return s, cmd
	}
	return s.handleReorderKey(key, q)
}

func (s *QuizScreen) handleReorderKey(key string, q *qz.Question) (screen.Screen, tea.Cmd) {
	switch key {
	case "left", "h":
		if s.cursor > 0 {
			s.cursor--
		}
	case "right", "l":
		if s.cursor < len(q.Bank)-1 {
			s.cursor++
		}
	case "backspace":
		if a, ok := s.ctrl.Attempt(); ok && len(a.Sequence) > 0 {
			s.ctrl.RemoveToken(len(a.Sequence) - 1)
			s.feedback = feedbackNone
		}
	case "c":
		for {
			a, _ := s.ctrl.Attempt()
			if len(a.Sequence) == 0 || !s.ctrl.RemoveToken(len(a.Sequence)-1) {
				break
			}
		}
		s.feedback = feedbackNone
	case "enter":
		a, _ := s.ctrl.Attempt()
		if len(a.Sequence) < len(q.Tokens) {
			s.pick(s.cursor)
			return s, nil
		}
		return s.next()
	default:
		if n := digit(key); n >= 1 && n <= len(q.Bank) {
			s.pick(n - 1)
		}
	}
	return s, nil
}

// pick places the bank token at pos and moves the cursor to the next free
// token.
func (s *QuizScreen) pick(pos int) {
	if !s.ctrl.PickToken(pos) {
		return
	}
	s.feedback = feedbackNone
	s.flash = ""
	a, _ := s.ctrl.Attempt()
	bank := len(s.ctrl.Current().Bank)
	for i := 1; i <= bank; i++ {
		next := (pos + i) % bank
		if !a.Used(next) {
			s.cursor = next
			return
		}
	}
}

func (s *QuizScreen) choose(i int) (screen.Screen, tea.Cmd) {
	s.flash = ""
	switch s.ctrl.Select(i) {
	case qz.OutcomeWrong:
		s.choices.MarkWrong(i)
		s.feedback = feedbackWrong
	case qz.OutcomeCorrect:
		s.choices.MarkCorrect(i)
		s.feedback = feedbackCorrect
	}
	return s, nil
}

// next submits a reorder attempt or moves to the next question. A correct
// submission advances straight away, so its confirmation is kept as a flash.
func (s *QuizScreen) next() (screen.Screen, tea.Cmd) {
	prev := s.ctrl.Current()
	a, _ := s.ctrl.Attempt()
	submitting := prev != nil && prev.Kind == qz.KindTokenReorder && !a.Correct

	s.flash = ""
	switch s.ctrl.Next() {
	case qz.StepWrong:
		s.feedback = feedbackWrong
		s.cursor = 0
	case qz.StepFinished:
		s.feedback = feedbackCorrect
	case qz.StepAdvanced:
		if submitting {
			s.flash = "Correct! " + prev.Answer()
		}
		s.syncQuestion()
		return s, s.load()
	case qz.StepNone:
		if a, ok := s.ctrl.Attempt(); ok && a.Correct {
			s.feedback = feedbackCorrect
		}
	}
	return s, nil
}

// syncQuestion resets per-question view state to the controller's current
// question.
func (s *QuizScreen) syncQuestion() {
	s.feedback = feedbackNone
	s.cursor = 0
	q := s.ctrl.Current()
	if q == nil {
		s.choices = components.NewMultiChoice(nil, nil)
		return
	}
	s.choices = components.NewMultiChoice(q.Options, q.Aux)
}

// load waits for the current question in the background.
func (s *QuizScreen) load() tea.Cmd {
	if s.ctrl.Phase() != qz.PhaseLoading {
		return nil
	}
	return tea.Batch(waitFor(s.ctrl.Load(), s.ctrl.Index()), spinnerTick())
}

// showSummary pushes the results over the finished quiz. The quiz stays on
// the stack so "Play again" can reset its controller.
func (s *QuizScreen) showSummary() tea.Cmd {
	sum := s.ctrl.Summary()
	again := func() tea.Cmd {
		s.replay = true
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: summary.New(sum, s.Title(), again)}
	}
}

// restart replays the quiz on the same controller over a newly built pool
// and opens a new recorded run.
func (s *QuizScreen) restart() tea.Cmd {
	s.replay = false
	s.ctrl.Reset()
	s.flash = ""
	s.spinner = 0
	s.syncQuestion()
	return s.Init()
}

func waitFor(ch <-chan struct{}, index int) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return questionSettledMsg{Index: index}
	}
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}

func digit(key string) int {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0
	}
	return int(key[0] - '0')
}
