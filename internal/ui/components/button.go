package components

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phasa/internal/ui/theme"
)

// Button fires OnPress when Enter is pressed while it is active.
type Button struct {
	Label   string
	Active  bool
	OnPress func() tea.Cmd
}

func NewButton(label string, active bool, onPress func() tea.Cmd) Button {
	return Button{Label: label, Active: active, OnPress: onPress}
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok || !b.Active || b.OnPress == nil || !key.Matches(k, keyEnter) {
		return b, nil
	}
	return b, b.OnPress()
}

func (b Button) View() string {
	if !b.Active {
		return theme.ButtonInactive.Render(b.Label)
	}
	return theme.ButtonActive.Render("▸ " + b.Label)
}

// ButtonRow lays buttons out side by side. Exactly one is active; the
// left and right keys move between them and stop at the ends.
type ButtonRow struct {
	Buttons []Button
	Focus   int
}

func NewButtonRow(buttons ...Button) ButtonRow {
	r := ButtonRow{Buttons: buttons}
	r.focus(0)
	return r
}

func (r *ButtonRow) focus(i int) {
	if i < 0 || i >= len(r.Buttons) {
		return
	}
	r.Focus = i
	for j := range r.Buttons {
		r.Buttons[j].Active = j == i
	}
}

func (r ButtonRow) Update(msg tea.Msg) (ButtonRow, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		switch {
		case key.Matches(k, keyLeft):
			r.focus(r.Focus - 1)
			return r, nil
		case key.Matches(k, keyRight):
			r.focus(r.Focus + 1)
			return r, nil
		}
	}
	if r.Focus >= len(r.Buttons) {
		return r, nil
	}
	var cmd tea.Cmd
	r.Buttons[r.Focus], cmd = r.Buttons[r.Focus].Update(msg)
	return r, cmd
}

func (r ButtonRow) View() string {
	views := make([]string, len(r.Buttons))
	for i, b := range r.Buttons {
		views[i] = b.View()
	}
	return strings.Join(views, "  ")
}
