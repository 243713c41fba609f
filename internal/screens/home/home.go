package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	qz "github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/questiongen"
	"github.com/abhisek/phasa/internal/quizlog"
	"github.com/abhisek/phasa/internal/router"
	"github.com/abhisek/phasa/internal/screen"
	"github.com/abhisek/phasa/internal/screens/addword"
	"github.com/abhisek/phasa/internal/screens/history"
	"github.com/abhisek/phasa/internal/screens/preview"
	"github.com/abhisek/phasa/internal/store"
	"github.com/abhisek/phasa/internal/ui/components"
	"github.com/abhisek/phasa/internal/ui/theme"
	"github.com/abhisek/phasa/internal/vocab"
)

// dailyWindow is how many days of daily words the daily quiz draws from.
const dailyWindow = 7

// Deps are the services the home screen hands to the screens it opens.
// Every field but Words may be nil; the matching menu entries are then
// disabled.
type Deps struct {
	Owner   string
	Words   vocab.Source
	Daily   vocab.DailySource
	Adder   addword.Adder
	History history.Repo
	Events  quizlog.Sink

	// LLM returns a generative question source, or is nil when no
	// provider is configured.
	LLM func(mode questiongen.Mode) qz.Source

	PoolSize int
	Timeout  time.Duration
	Now      func() time.Time
}

type dashboardMsg struct {
	words int
	stats store.Stats
	err   error
}

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	deps   Deps
	menu   components.Menu
	words  int
	stats  store.Stats
	loaded bool
	errMsg string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &HomeScreen{deps: deps}

	items := []components.MenuItem{
		h.quizItem("Thai word → meaning", questiongen.ModeWordMatch),
		h.quizItem("Complete the sentence", questiongen.ModeCloze),
		h.quizItem("Put the words in order", questiongen.ModeTokenReorder),
		h.quizItem("All three kinds", questiongen.ModeMixed),
		{
			Label:    "Daily words",
			Hint:     "Last 7 days",
			Disabled: deps.Daily == nil,
			Action: func() tea.Cmd {
				return push(h.preview("Daily words", h.loadDaily, questiongen.NewLocal(questiongen.ModeMixed), questiongen.ModeMixed, "local"))
			},
		},
		{
			Label:    "AI quiz",
			Hint:     "Fresh questions from the tutor",
			Disabled: deps.LLM == nil,
			Action: func() tea.Cmd {
				return push(h.preview("AI quiz", h.loadWords, deps.LLM(questiongen.ModeMixed), questiongen.ModeMixed, "llm"))
			},
		},
		{
			Label:    "Add word",
			Disabled: deps.Adder == nil,
			Action: func() tea.Cmd {
				return push(addword.New(deps.Adder, deps.Owner))
			},
		},
		{
			Label:    "History",
			Disabled: deps.History == nil,
			Action: func() tea.Cmd {
				return push(history.New(deps.History, deps.Owner))
			},
		},
		{
			Label:  "Exit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	}
	h.menu = components.NewMenu(items)
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

// Start returns a command that opens the quiz preview for mode as if it were
// chosen from the menu. With useLLM set and a provider configured, questions
// come from the generative source.
func (h *HomeScreen) Start(mode questiongen.Mode, useLLM bool) tea.Cmd {
	if useLLM && h.deps.LLM != nil {
		return push(h.preview("AI quiz", h.loadWords, h.deps.LLM(mode), mode, "llm"))
	}
	return push(h.preview(modeTitles[mode], h.loadWords, questiongen.NewLocal(mode), mode, "local"))
}

var modeTitles = map[questiongen.Mode]string{
	questiongen.ModeWordMatch:    "Word match",
	questiongen.ModeCloze:        "Fill the blank",
	questiongen.ModeTokenReorder: "Build the sentence",
	questiongen.ModeMixed:        "Mixed review",
}

func (h *HomeScreen) quizItem(hint string, mode questiongen.Mode) components.MenuItem {
	label := modeTitles[mode]
	return components.MenuItem{
		Label: label,
		Hint:  hint,
		Action: func() tea.Cmd {
			return push(h.preview(label, h.loadWords, questiongen.NewLocal(mode), mode, "local"))
		},
	}
}

func (h *HomeScreen) preview(title string, load preview.LoadFunc, src qz.Source, mode questiongen.Mode, source string) *preview.PreviewScreen {
	return preview.New(preview.Config{
		Title:    title,
		Load:     load,
		Source:   src,
		PoolSize: h.deps.PoolSize,
		Timeout:  h.deps.Timeout,
		Recorder: quizlog.New(h.deps.Events, quizlog.Meta{
			Owner:  h.deps.Owner,
			Kind:   string(mode),
			Source: source,
		}),
	})
}

func (h *HomeScreen) loadWords(ctx context.Context) ([]vocab.Item, error) {
	return h.deps.Words.List(ctx, vocab.Filter{Owner: h.deps.Owner})
}

func (h *HomeScreen) loadDaily(ctx context.Context) ([]vocab.Item, error) {
	now := h.deps.Now()
	sets, err := h.deps.Daily.ListDaily(ctx, vocab.DailyFilter{
		Owner: h.deps.Owner,
		From:  now.AddDate(0, 0, -(dailyWindow - 1)).Format(vocab.DateLayout),
		To:    now.Format(vocab.DateLayout),
	})
	if err != nil {
		return nil, err
	}
	return qz.FromDailySets(sets), nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.refresh()
}

// refresh reloads the word count and quiz stats.
func (h *HomeScreen) refresh() tea.Cmd {
	deps := h.deps
	return func() tea.Msg {
		ctx := context.Background()
		var msg dashboardMsg
		if deps.Words != nil {
			items, err := deps.Words.List(ctx, vocab.Filter{Owner: deps.Owner})
			if err != nil {
				return dashboardMsg{err: err}
			}
			msg.words = len(items)
		}
		if deps.History != nil {
			// Stats are decoration; a failure leaves them zero.
			msg.stats, _ = deps.History.Stats(ctx, deps.Owner)
		}
		return msg
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		h.loaded = true
		h.errMsg = ""
		if msg.err != nil {
			h.errMsg = msg.err.Error()
			return h, nil
		}
		h.words = msg.words
		h.stats = msg.stats
		return h, nil
	case router.ResumeMsg:
		return h, h.refresh()
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	d := dashboard{
		cw:      components.ContentWidth(width),
		compact: height < 26 || width < 80,
	}

	sections := []string{d.banner()}
	if !d.compact {
		sections = append(sections, d.mascot(h.mascotVariant()))
	}
	sections = append(sections, d.stats(h.words, h.stats))
	switch {
	case h.errMsg != "":
		sections = append(sections, d.note("Could not read your words: "+h.errMsg, theme.Accent))
	case h.loaded && h.words == 0:
		sections = append(sections, d.note("No words yet. Add one below or run `phasa words import`.", theme.Accent))
	}
	if h.deps.LLM == nil {
		sections = append(sections, d.note("Set an LLM API key to enable AI quizzes (see phasa --help)", theme.TextDim))
	}
	sections = append(sections, d.menu(h.menu))

	return frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) mascotVariant() MascotVariant {
	switch {
	case h.loaded && h.words == 0:
		return MascotSleepy
	case h.stats.Answers > 0 && h.stats.Accuracy() >= 0.8:
		return MascotCelebrating
	}
	return MascotIdle
}
