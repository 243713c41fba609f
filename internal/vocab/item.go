package vocab

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Item is a vocabulary record used as quiz raw material. Items are owned by
// the data store; the quiz packages only read them.
type Item struct {
	ID           string    `json:"id,omitempty" yaml:"id,omitempty"`
	Owner        string    `json:"owner,omitempty" yaml:"owner,omitempty"`
	Thai         string    `json:"thai" yaml:"thai"`
	Romanization string    `json:"romanization" yaml:"romanization"`
	Translation  string    `json:"translation" yaml:"translation"`
	Example      *Example  `json:"example,omitempty" yaml:"example,omitempty"`
	Gloss        *Gloss    `json:"gloss,omitempty" yaml:"gloss,omitempty"`
	CreatedAt    time.Time `json:"-" yaml:"-"`
}

// Example is an example sentence in Thai with its translation.
type Example struct {
	Thai        string `json:"thai" yaml:"thai"`
	Translation string `json:"translation" yaml:"translation"`
}

// Gloss is an optional secondary-language rendering of the word, e.g. a
// Japanese or Chinese equivalent with its reading.
type Gloss struct {
	Text    string `json:"text" yaml:"text"`
	Reading string `json:"reading,omitempty" yaml:"reading,omitempty"`
}

// Key returns the natural key used for deduplication.
func (it Item) Key() string {
	return strings.TrimSpace(it.Thai)
}

// HasExample reports whether the item carries a non-empty example sentence.
func (it Item) HasExample() bool {
	return it.Example != nil && strings.TrimSpace(it.Example.Thai) != ""
}

// GlossText returns the secondary-language text or "".
func (it Item) GlossText() string {
	if it.Gloss == nil {
		return ""
	}
	return it.Gloss.Text
}

// Validate checks the fields every quiz adapter relies on.
func (it Item) Validate() error {
	var errs []error
	if it.Key() == "" {
		errs = append(errs, errors.New("thai is required"))
	}
	if strings.TrimSpace(it.Translation) == "" {
		errs = append(errs, errors.New("translation is required"))
	}
	if it.Example != nil && strings.TrimSpace(it.Example.Thai) != "" && strings.TrimSpace(it.Example.Translation) == "" {
		errs = append(errs, errors.New("example translation is required when an example is given"))
	}
	return errors.Join(errs...)
}

// DailySet is the word list published for one calendar day.
type DailySet struct {
	Date  string // YYYY-MM-DD
	Items []Item
}

// Filter narrows a vocabulary listing. An empty Owner selects guest items.
type Filter struct {
	Owner string
	Limit int
}

// DailyFilter narrows daily sets to one learner's words within an
// inclusive date range. Empty bounds are open.
type DailyFilter struct {
	Owner string
	From  string
	To    string
}

// Source lists vocabulary items. List returns an empty slice, not an error,
// when nothing matches.
type Source interface {
	List(ctx context.Context, f Filter) ([]Item, error)
	Get(ctx context.Context, id string) (*Item, error)
}

// DailySource lists dated word sets in ascending date order.
type DailySource interface {
	ListDaily(ctx context.Context, f DailyFilter) ([]DailySet, error)
}

// DateLayout is the layout of DailySet.Date.
const DateLayout = "2006-01-02"
