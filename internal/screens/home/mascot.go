package home

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default saffron
	MascotCelebrating                      // Jade, raised trunk: strong first-try rate
	MascotSleepy                           // Dim: no words to practice yet
)

const mascotIdle = `  ▄▀▀▀▀▄
 █ ◉  ◉ █
  █ ▄▄ █
   ▀█▀▀
  ช้าง`

const mascotCelebrating = `  ▄▀▀▀▀▄  ♪
 █ ★  ★ █╯
  █ ▄▄ █
   ▀▀▀▀
  ช้าง`

const mascotSleepy = `  ▄▀▀▀▀▄  z
 █ ─  ─ █ z
  █ ▄▄ █
   ▀█▀▀
  ช้าง`

// RenderMascot returns the mascot art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	art := mascotIdle
	fg := theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Secondary
	case MascotSleepy:
		art = mascotSleepy
		fg = theme.TextDim
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
