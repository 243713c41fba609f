package quiz

import "sync"

// Handoff carries a pool and its already-generated first question from the
// screen that prepared them to the screen that runs the quiz.
type Handoff struct {
	Pool  Pool
	First *Question
}

// Mailbox holds at most one Handoff for a single consumer. Take empties it.
type Mailbox struct {
	mu sync.Mutex
	h  *Handoff
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox { return &Mailbox{} }

// Put stores h, replacing anything not yet taken.
func (m *Mailbox) Put(h Handoff) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.h = &h
}

// Take returns the stored handoff and empties the mailbox. The second result
// is false if nothing was stored.
func (m *Mailbox) Take() (Handoff, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.h == nil {
		return Handoff{}, false
	}
	h := *m.h
	m.h = nil
	return h, true
}
