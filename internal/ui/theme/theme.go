// Package theme is the TUI palette: saffron and temple red on ink.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

var (
	Primary   = lipgloss.Color("#E8A317") // saffron
	Secondary = lipgloss.Color("#2DD4BF") // jade
	Accent    = lipgloss.Color("#C2410C") // temple red
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#111827")
	BgCard    = lipgloss.Color("#1F2937")
	Border    = lipgloss.Color("#374151")
)

func ink(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func fill(bg, text color.Color) lipgloss.Style {
	return lipgloss.NewStyle().Background(bg).Foreground(text)
}

// Text styles.
var (
	Title = ink(Primary).Bold(true).Align(lipgloss.Center)
	Hint  = ink(TextDim).Italic(true)
	Thai  = ink(Text).Bold(true)
)

// Option and answer states.
var (
	Selected   = ink(Primary).Bold(true)
	Unselected = ink(Text)
	Correct    = ink(Success).Bold(true)
	Incorrect  = ink(Error).Bold(true)
)

// Widgets. The Token styles draw the sentence-ordering word bank: a chip
// still in the bank, a chip already used, and a chip in the answer line.
var (
	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Border)

	ButtonActive   = fill(Primary, BgDark).Bold(true).Padding(0, 2)
	ButtonInactive = fill(BgCard, TextDim).Padding(0, 2)

	TokenChip   = fill(BgCard, Text).Padding(0, 1)
	TokenUsed   = ink(Border).Padding(0, 1)
	TokenPlaced = fill(Secondary, BgDark).Padding(0, 1)
)
