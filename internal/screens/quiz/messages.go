package quiz

import "time"

// questionSettledMsg is sent when the fetch for a question index settles.
type questionSettledMsg struct {
	Index int
}

// spinnerTickMsg animates the loading indicator.
type spinnerTickMsg time.Time

// feedback is the transient result line under a question.
type feedback int

const (
	feedbackNone feedback = iota
	feedbackWrong
	feedbackCorrect
)
