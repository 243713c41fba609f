package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phasa/internal/ui/theme"
)

// MenuItem is one numbered entry. A disabled entry is drawn dimmed and
// skipped by the cursor.
type MenuItem struct {
	Label    string
	Hint     string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list navigated with the arrow keys, or picked
// directly with digits 1-9.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	if i := m.nextEnabled(-1, 1); i >= 0 {
		m.Selected = i
	}
	return m
}

func (m Menu) Init() tea.Cmd { return nil }

// nextEnabled walks from index from in direction dir and returns the first
// enabled item, or -1.
func (m Menu) nextEnabled(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			return i
		}
	}
	return -1
}

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, keyPrev):
		if i := m.nextEnabled(m.Selected, -1); i >= 0 {
			m.Selected = i
		}
	case key.Matches(k, keyNext):
		if i := m.nextEnabled(m.Selected, 1); i >= 0 {
			m.Selected = i
		}
	case key.Matches(k, keyEnter):
		return m, m.run(m.Selected)
	default:
		s := k.String()
		if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
			i := int(s[0] - '1')
			if i < len(m.Items) && !m.Items[i].Disabled {
				m.Selected = i
				return m, m.run(i)
			}
		}
	}
	return m, nil
}

func (m Menu) run(i int) tea.Cmd {
	if i < 0 || i >= len(m.Items) {
		return nil
	}
	if it := m.Items[i]; !it.Disabled && it.Action != nil {
		return it.Action()
	}
	return nil
}

func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		cursor, style := "    ", theme.Unselected
		switch {
		case it.Disabled:
			style = theme.TokenUsed.UnsetPadding()
		case i == m.Selected:
			cursor, style = "  ▸ ", theme.Selected
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d. %s", cursor, i+1, it.Label)))
		if it.Hint != "" {
			b.WriteString("  " + theme.Hint.Render(it.Hint))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
