package store

import (
	"errors"
	"time"
)

// Sentinel errors returned by the repositories.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	// Purpose narrows LLM event queries to one purpose label.
	Purpose string
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates LLM usage for one purpose label.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates LLM usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// Quiz lifecycle actions.
const (
	ActionStart = "start"
	ActionEnd   = "end"
)

// QuizEventData captures a quiz start or end event.
type QuizEventData struct {
	SessionID    string
	Owner        string
	Action       string
	Kind         string
	Source       string
	Total        int
	Correct      int
	Wrong        int
	DurationSecs int
}

// QuizEvent is a persisted quiz lifecycle event.
type QuizEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	QuizEventData
}

// AnswerEventData captures one answered question.
type AnswerEventData struct {
	SessionID     string
	QuestionIndex int
	Kind          string
	ItemID        string
	Prompt        string
	Answer        string
	HadWrong      bool
	Attempts      int
}

// AnswerEvent is a persisted answer event.
type AnswerEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	AnswerEventData
}

// Stats summarizes quiz history for one owner.
type Stats struct {
	Quizzes      int // completed runs
	Answers      int
	FirstTry     int // answers without a wrong attempt
	WordsSeen    int // distinct items answered
	TotalSeconds int
	ByKind       []KindStats
	Missed       []MissedItem
}

// Accuracy is the share of answers correct on the first try.
func (s Stats) Accuracy() float64 {
	if s.Answers == 0 {
		return 0
	}
	return float64(s.FirstTry) / float64(s.Answers)
}

// KindStats aggregates answers of one question kind.
type KindStats struct {
	Kind     string
	Answers  int
	FirstTry int
}

// MissedItem is a vocabulary item that was answered wrong at least once.
type MissedItem struct {
	ItemID string
	Thai   string
	Misses int
}
