package addword

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/screen"
	"github.com/abhisek/phasa/internal/store"
	"github.com/abhisek/phasa/internal/ui/components"
	"github.com/abhisek/phasa/internal/ui/layout"
	"github.com/abhisek/phasa/internal/ui/theme"
	"github.com/abhisek/phasa/internal/vocab"
)

// Adder stores a new vocabulary item. store.VocabRepo satisfies it.
type Adder interface {
	Create(ctx context.Context, it *vocab.Item) error
}

const (
	fieldThai = iota
	fieldRomanization
	fieldTranslation
	fieldExampleThai
	fieldExampleTranslation
	fieldGlossText
	fieldGlossReading
	fieldCount
)

type savedMsg struct {
	item vocab.Item
	err  error
}

// AddWordScreen is a form for adding one word to the owner's vocabulary.
// The form clears after each save so several words can be entered in a row.
type AddWordScreen struct {
	adder  Adder
	owner  string
	fields []components.TextInput
	focus  int
	saving bool
	status string
	failed bool
}

var _ screen.Screen = (*AddWordScreen)(nil)
var _ screen.KeyHintProvider = (*AddWordScreen)(nil)

// New creates a new AddWordScreen.
func New(adder Adder, owner string) *AddWordScreen {
	fields := make([]components.TextInput, fieldCount)
	fields[fieldThai] = components.NewTextInput("Thai", "แมว", 64)
	fields[fieldRomanization] = components.NewTextInput("Romanization", "maeo", 64)
	fields[fieldTranslation] = components.NewTextInput("Translation", "cat", 128)
	fields[fieldExampleThai] = components.NewTextInput("Example (Thai)", "แมวกินปลา", 256)
	fields[fieldExampleTranslation] = components.NewTextInput("Example translation", "The cat eats fish.", 256)
	fields[fieldGlossText] = components.NewTextInput("Gloss", "猫", 64)
	fields[fieldGlossReading] = components.NewTextInput("Gloss reading", "ねこ", 64)
	fields[fieldThai].Required = true
	fields[fieldTranslation].Required = true

	return &AddWordScreen{
		adder:  adder,
		owner:  owner,
		fields: fields,
	}
}

func (s *AddWordScreen) Init() tea.Cmd {
	return s.fields[s.focus].Focus()
}

func (s *AddWordScreen) Title() string {
	return "Add word"
}

func (s *AddWordScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+S", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AddWordScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		s.handleSaved(msg)
		return s, s.setFocus(fieldThai)

	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return s, s.setFocus((s.focus + fieldCount - 1) % fieldCount)
		case "ctrl+s":
			return s, s.save()
		case "enter":
			if s.focus == fieldCount-1 {
				return s, s.save()
			}
			return s, s.setFocus(s.focus + 1)
		}
	}

	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

func (s *AddWordScreen) setFocus(i int) tea.Cmd {
	s.fields[s.focus].Blur()
	s.focus = i
	return s.fields[i].Focus()
}

// item builds a vocabulary item from the form.
func (s *AddWordScreen) item() vocab.Item {
	it := vocab.Item{
		Owner:        s.owner,
		Thai:         s.fields[fieldThai].Value(),
		Romanization: s.fields[fieldRomanization].Value(),
		Translation:  s.fields[fieldTranslation].Value(),
	}
	if ex := s.fields[fieldExampleThai].Value(); ex != "" {
		it.Example = &vocab.Example{Thai: ex, Translation: s.fields[fieldExampleTranslation].Value()}
	}
	if g := s.fields[fieldGlossText].Value(); g != "" {
		it.Gloss = &vocab.Gloss{Text: g, Reading: s.fields[fieldGlossReading].Value()}
	}
	return it
}

func (s *AddWordScreen) save() tea.Cmd {
	it := s.item()
	if err := it.Validate(); err != nil {
		s.failed = true
		s.status = strings.ReplaceAll(err.Error(), "\n", "; ")
		return nil
	}
	s.saving = true
	s.status = ""
	adder := s.adder
	return func() tea.Msg {
		err := adder.Create(context.Background(), &it)
		return savedMsg{item: it, err: err}
	}
}

func (s *AddWordScreen) handleSaved(msg savedMsg) {
	switch {
	case errors.Is(msg.err, store.ErrDuplicate):
		s.failed = true
		s.status = fmt.Sprintf("%s is already in your word list", msg.item.Thai)
	case msg.err != nil:
		s.failed = true
		s.status = "Could not save: " + msg.err.Error()
	default:
		s.failed = false
		s.status = fmt.Sprintf("Saved %s (%s)", msg.item.Thai, msg.item.Translation)
		for i := range s.fields {
			s.fields[i].SetValue("")
		}
	}
}

func (s *AddWordScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	lines := make([]string, 0, fieldCount+2)
	for i, f := range s.fields {
		if i == fieldExampleThai || i == fieldGlossText {
			lines = append(lines, "")
		}
		lines = append(lines, f.View())
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Title.Render("Add a word")))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, components.Card(strings.Join(lines, "\n"), cw)))
	b.WriteString("\n\n")

	var status string
	switch {
	case s.saving:
		status = theme.Hint.Render("Saving...")
	case s.status != "" && s.failed:
		status = lipgloss.NewStyle().Foreground(theme.Error).Render(s.status)
	case s.status != "":
		status = lipgloss.NewStyle().Foreground(theme.Success).Render("✓ " + s.status)
	default:
		status = theme.Hint.Render("* required")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, status))
	return b.String()
}
