package quiz

import (
	"math/rand/v2"

	"github.com/abhisek/phasa/internal/vocab"
)

// DefaultPoolSize is the number of questions in a session when no size is
// configured.
const DefaultPoolSize = 10

// Pool is the ordered, deduplicated set of items a session quizzes on. It is
// immutable once built.
type Pool struct {
	items []vocab.Item
}

// NewPool adopts items verbatim, without dedup or shuffling.
func NewPool(items []vocab.Item) Pool {
	cp := make([]vocab.Item, len(items))
	copy(cp, items)
	return Pool{items: cp}
}

// Len returns the number of items in the pool.
func (p Pool) Len() int { return len(p.items) }

// At returns the item at index i.
func (p Pool) At(i int) vocab.Item { return p.items[i] }

// Items returns a copy of the pool's items in order.
func (p Pool) Items() []vocab.Item {
	cp := make([]vocab.Item, len(p.items))
	copy(cp, p.items)
	return cp
}

// Others returns every item except the one at index i.
func (p Pool) Others(i int) []vocab.Item {
	out := make([]vocab.Item, 0, len(p.items))
	for j, it := range p.items {
		if j != i {
			out = append(out, it)
		}
	}
	return out
}

// BuildPool deduplicates items by their Thai text (first occurrence wins),
// shuffles them and keeps the first n. n <= 0 keeps everything.
func BuildPool(items []vocab.Item, n int, rng *rand.Rand) Pool {
	distinct := Dedup(items)
	shuffle(rng, len(distinct), func(i, j int) { distinct[i], distinct[j] = distinct[j], distinct[i] })
	if n > 0 && n < len(distinct) {
		distinct = distinct[:n]
	}
	return Pool{items: distinct}
}

// Dedup returns items with repeated keys removed, keeping the first
// occurrence of each key in its original order. An item with no Thai text
// is keyed by its ID instead, so such records still count as distinct.
func Dedup(items []vocab.Item) []vocab.Item {
	seen := make(map[string]struct{}, len(items))
	out := make([]vocab.Item, 0, len(items))
	for _, it := range items {
		if _, dup := seen[dedupKey(it)]; dup {
			continue
		}
		seen[dedupKey(it)] = struct{}{}
		out = append(out, it)
	}
	return out
}

func dedupKey(it vocab.Item) string {
	if k := it.Key(); k != "" {
		return "thai:" + k
	}
	return "id:" + it.ID
}

// FromDailySets flattens dated word sets in date order.
func FromDailySets(sets []vocab.DailySet) []vocab.Item {
	var out []vocab.Item
	for _, s := range sets {
		out = append(out, s.Items...)
	}
	return out
}
