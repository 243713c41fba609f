package preview

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	qz "github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/quizlog"
	"github.com/abhisek/phasa/internal/router"
	"github.com/abhisek/phasa/internal/screen"
	quizscreen "github.com/abhisek/phasa/internal/screens/quiz"
	"github.com/abhisek/phasa/internal/ui/components"
	"github.com/abhisek/phasa/internal/ui/layout"
	"github.com/abhisek/phasa/internal/ui/theme"
	"github.com/abhisek/phasa/internal/vocab"
)

// LoadFunc fetches the vocabulary a quiz draws from.
type LoadFunc func(ctx context.Context) ([]vocab.Item, error)

// Config describes the quiz a PreviewScreen prepares.
type Config struct {
	Title    string
	Load     LoadFunc
	Source   qz.Source
	PoolSize int
	Recorder *quizlog.Recorder

	// Timeout bounds preparing the first question. Zero means no bound.
	Timeout time.Duration
}

type preparedMsg struct {
	gen   int
	items []vocab.Item
	pool  qz.Pool
	first *qz.Question
	err   error
}

type state int

const (
	statePreparing state = iota
	stateReady
	stateFailed
	stateEmpty
)

// PreviewScreen builds a pool, generates its first question and shows the
// words about to be practiced. Starting the quiz hands both to the quiz
// screen so question one is not generated twice.
type PreviewScreen struct {
	cfg     Config
	mailbox *qz.Mailbox

	ctx    context.Context
	cancel context.CancelFunc

	state state
	gen   int
	items []vocab.Item
	pool  qz.Pool
	err   string
}

var _ screen.Screen = (*PreviewScreen)(nil)
var _ screen.KeyHintProvider = (*PreviewScreen)(nil)
var _ screen.Closer = (*PreviewScreen)(nil)

// New creates a PreviewScreen.
func New(cfg Config) *PreviewScreen {
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = qz.DefaultPoolSize
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &PreviewScreen{
		cfg:     cfg,
		mailbox: qz.NewMailbox(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (p *PreviewScreen) Init() tea.Cmd {
	return p.prepare()
}

// Close abandons a preparation in progress.
func (p *PreviewScreen) Close() {
	p.cancel()
}

func (p *PreviewScreen) Title() string {
	return p.cfg.Title
}

func (p *PreviewScreen) KeyHints() []layout.KeyHint {
	switch p.state {
	case stateReady:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Start"},
			{Key: "R", Description: "New words"},
			{Key: "Esc", Description: "Back"},
		}
	case stateFailed:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
	}
}

// prepare loads words, builds a pool and asks the source for question one.
func (p *PreviewScreen) prepare() tea.Cmd {
	p.state = statePreparing
	p.err = ""
	p.gen++
	p.mailbox.Take()

	cfg, gen := p.cfg, p.gen
	parent := p.ctx
	return func() tea.Msg {
		ctx := parent
		if cfg.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(parent, cfg.Timeout)
			defer cancel()
		}

		items, err := cfg.Load(ctx)
		if err != nil {
			return preparedMsg{gen: gen, err: err}
		}
		pool := qz.BuildPool(items, cfg.PoolSize, nil)
		if pool.Len() == 0 {
			return preparedMsg{gen: gen, items: items, pool: pool}
		}
		first, err := cfg.Source.Generate(ctx, pool, 0)
		if err == nil {
			err = first.Validate()
		}
		return preparedMsg{gen: gen, items: items, pool: pool, first: first, err: err}
	}
}

func (p *PreviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case preparedMsg:
		return p.handlePrepared(msg)

	case router.ResumeMsg:
		// Back from a quiz: the handoff was used, prepare a fresh one.
		return p, p.prepare()

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if p.state != stateReady {
				return p, nil
			}
			next := quizscreen.New(p.items, p.cfg.Source, quizscreen.Options{
				Title:    p.cfg.Title,
				PoolSize: p.cfg.PoolSize,
				Mailbox:  p.mailbox,
				Recorder: p.cfg.Recorder,
			})
			return p, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
		case "r":
			if p.state == stateReady || p.state == stateFailed {
				return p, p.prepare()
			}
		}
	}
	return p, nil
}

func (p *PreviewScreen) handlePrepared(msg preparedMsg) (screen.Screen, tea.Cmd) {
	if p.ctx.Err() != nil || msg.gen != p.gen {
		return p, nil
	}
	p.items = msg.items
	p.pool = msg.pool
	switch {
	case msg.err != nil:
		p.state = stateFailed
		p.err = qz.ReasonOf(msg.err)
	case msg.pool.Len() == 0:
		p.state = stateEmpty
	default:
		p.state = stateReady
		p.mailbox.Put(qz.Handoff{Pool: msg.pool, First: msg.first})
	}
	return p, nil
}

func (p *PreviewScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch p.state {
	case statePreparing:
		return center.Foreground(theme.TextDim).Render("\n\n\nPreparing your quiz...")
	case stateFailed:
		return center.Foreground(theme.Error).Render("\n\n\n" + p.err)
	case stateEmpty:
		return center.Foreground(theme.TextDim).Render(
			"\n\n\nNo words to practice yet.\n\nAdd words from the home screen or run `phasa words import`.")
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Inherit(theme.Title).Render(p.cfg.Title))
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(
		fmt.Sprintf("%d questions from %d words", p.pool.Len(), len(qz.Dedup(p.items)))))
	b.WriteString("\n\n")

	// Leave room for the title block and the start prompt.
	rows := max(height-12, 1)
	words := p.pool.Items()
	lines := make([]string, 0, min(len(words), rows)+1)
	for i, it := range words {
		if i == rows {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("… %d more", len(words)-rows)))
			break
		}
		line := theme.Thai.Render(it.Thai)
		if it.Romanization != "" {
			line += "  " + theme.Hint.Render(it.Romanization)
		}
		line += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(it.Translation)
		lines = append(lines, line)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(strings.Join(lines, "\n"), cw)))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.Primary).Bold(true).Render("Press Enter to start"))
	return b.String()
}
