// Package router keeps the TUI's stack of screens. Screens navigate by
// returning one of the messages below as a command; the router applies it
// before the active screen sees anything.
package router

import (
	"slices"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/phasa/internal/screen"
)

type (
	PushScreenMsg    struct{ Screen screen.Screen }
	PopScreenMsg     struct{}
	PopToRootMsg     struct{}
	ReplaceScreenMsg struct{ Screen screen.Screen }

	// ResumeMsg reaches a screen that is back on top after the screens
	// above it were popped.
	ResumeMsg struct{}
)

// Router owns the stack. The root screen is never removed.
type Router struct {
	stack []screen.Screen
}

func New(root screen.Screen) *Router {
	return &Router{stack: []screen.Screen{root}}
}

func (r *Router) top() int { return len(r.stack) - 1 }

func (r *Router) Push(s screen.Screen) tea.Cmd {
	r.stack = append(r.stack, s)
	return s.Init()
}

func (r *Router) Pop() tea.Cmd { return r.keep(r.top()) }

func (r *Router) PopToRoot() tea.Cmd { return r.keep(1) }

// Replace swaps the top screen without changing the depth.
func (r *Router) Replace(s screen.Screen) tea.Cmd {
	if len(r.stack) == 0 {
		return r.Push(s)
	}
	release(r.stack[r.top()])
	r.stack[r.top()] = s
	return s.Init()
}

// keep trims the stack to its first n screens, closing the rest top-down.
func (r *Router) keep(n int) tea.Cmd {
	n = max(n, 1)
	if n >= len(r.stack) {
		return nil
	}
	for _, s := range slices.Backward(r.stack[n:]) {
		release(s)
	}
	clear(r.stack[n:])
	r.stack = r.stack[:n]
	return func() tea.Msg { return ResumeMsg{} }
}

func release(s screen.Screen) {
	if c, ok := s.(screen.Closer); ok {
		c.Close()
	}
}

func (r *Router) Active() screen.Screen {
	if len(r.stack) == 0 {
		return nil
	}
	return r.stack[r.top()]
}

func (r *Router) Depth() int { return len(r.stack) }

func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case PushScreenMsg:
		return r.Push(m.Screen)
	case ReplaceScreenMsg:
		return r.Replace(m.Screen)
	case PopScreenMsg:
		return r.Pop()
	case PopToRootMsg:
		return r.PopToRoot()
	}
	if len(r.stack) == 0 {
		return nil
	}
	next, cmd := r.stack[r.top()].Update(msg)
	r.stack[r.top()] = next
	return cmd
}

func (r *Router) View(width, height int) string {
	if s := r.Active(); s != nil {
		return s.View(width, height)
	}
	return ""
}
