package quiz

import "sort"

// SummaryItem records the outcome of one question. It is immutable once
// recorded.
type SummaryItem struct {
	Index     int
	Kind      Kind
	Prompt    string
	Answer    string
	AnswerAux string
	HadWrong  bool
}

// Summary aggregates a session's results.
type Summary struct {
	Total   int
	Correct int // answered without a wrong attempt
	Wrong   int // answered after at least one wrong attempt
	Items   []SummaryItem
}

// Summarize reduces items into counts and a review list ordered by question
// index.
func Summarize(items []SummaryItem) Summary {
	sorted := make([]SummaryItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	s := Summary{Total: len(sorted), Items: sorted}
	for _, it := range sorted {
		if it.HadWrong {
			s.Wrong++
		} else {
			s.Correct++
		}
	}
	return s
}

// Accuracy returns the share of first-try answers in [0,1].
func (s Summary) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}
