package quiz

import (
	"context"
	"fmt"
	"sync"
)

// Fetcher produces the question for one index. A nil question with a nil
// error is treated as unavailable.
type Fetcher func(ctx context.Context, index int) (*Question, error)

// EntryState describes a cache slot.
type EntryState int

const (
	EntryMissing EntryState = iota
	EntryPending
	EntryUnavailable
	EntryReady
)

func (s EntryState) String() string {
	switch s {
	case EntryMissing:
		return "missing"
	case EntryPending:
		return "pending"
	case EntryUnavailable:
		return "unavailable"
	case EntryReady:
		return "ready"
	}
	return fmt.Sprintf("EntryState(%d)", int(s))
}

type entry struct {
	q   *Question
	err error
}

// Prefetcher is an index-keyed cache of question fetches for one session.
// At most one fetch per index is in flight. Entries are never evicted; the
// whole cache is dropped with Close.
type Prefetcher struct {
	fetch  Fetcher
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	entries  map[int]entry
	inflight map[int]chan struct{}
	closed   bool
}

// NewPrefetcher creates a cache whose fetches run under ctx.
func NewPrefetcher(ctx context.Context, fetch Fetcher) *Prefetcher {
	ctx, cancel := context.WithCancel(ctx)
	return &Prefetcher{
		fetch:    fetch,
		ctx:      ctx,
		cancel:   cancel,
		entries:  make(map[int]entry),
		inflight: make(map[int]chan struct{}),
	}
}

var settled = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Get reports the state of index i. For EntryUnavailable the error explains
// why.
func (p *Prefetcher) Get(i int) (*Question, EntryState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[i]; ok {
		if e.q == nil {
			return nil, EntryUnavailable, e.err
		}
		return e.q, EntryReady, nil
	}
	if _, ok := p.inflight[i]; ok {
		return nil, EntryPending, nil
	}
	return nil, EntryMissing, nil
}

// Ensure starts a fetch for index i unless one is cached or in flight. The
// returned channel closes once the entry settles; callers racing on the same
// index share it.
func (p *Prefetcher) Ensure(i int) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ensureLocked(i)
}

func (p *Prefetcher) ensureLocked(i int) <-chan struct{} {
	if p.closed {
		return settled
	}
	if _, ok := p.entries[i]; ok {
		return settled
	}
	if ch, ok := p.inflight[i]; ok {
		return ch
	}
	ch := make(chan struct{})
	p.inflight[i] = ch
	go p.run(i, ch)
	return ch
}

// Retry drops an unavailable entry for index i and fetches it again. Ready
// and in-flight entries are left alone.
func (p *Prefetcher) Retry(i int) <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.entries[i]; ok && e.q == nil {
		delete(p.entries, i)
	}
	return p.ensureLocked(i)
}

// Seed stores q for index i without fetching. A question that fails
// Validate is stored as unavailable so the index goes through Retry.
func (p *Prefetcher) Seed(i int, q *Question) {
	if q == nil {
		return
	}
	e := entry{q: q}
	if err := q.Validate(); err != nil {
		e = entry{err: Unavailable("", fmt.Errorf("malformed question: %w", err))}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	if _, ok := p.inflight[i]; ok {
		return
	}
	p.entries[i] = e
}

// InFlight returns the number of fetches currently running.
func (p *Prefetcher) InFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.inflight)
}

// Close cancels running fetches. Results arriving afterwards are discarded.
func (p *Prefetcher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.cancel()
}

func (p *Prefetcher) run(i int, done chan struct{}) {
	q, err := p.safeFetch(i)
	if q == nil && err == nil {
		err = Unavailable("", nil)
	}
	if q != nil {
		if verr := q.Validate(); verr != nil {
			q, err = nil, Unavailable("", fmt.Errorf("malformed question: %w", verr))
		}
	}

	p.mu.Lock()
	if !p.closed {
		p.entries[i] = entry{q: q, err: err}
	}
	delete(p.inflight, i)
	p.mu.Unlock()
	close(done)
}

func (p *Prefetcher) safeFetch(i int) (q *Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			q, err = nil, Unavailable("", fmt.Errorf("question source panicked: %v", r))
		}
	}()
	return p.fetch(p.ctx, i)
}
