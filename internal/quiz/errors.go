package quiz

import (
	"errors"
	"fmt"
)

// UnavailableError reports that a question could not be produced. Reason is
// safe to show to the learner.
type UnavailableError struct {
	Reason string
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("question unavailable: %s: %v", e.Reason, e.Err)
	}
	return "question unavailable: " + e.Reason
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Unavailable builds an UnavailableError.
func Unavailable(reason string, err error) *UnavailableError {
	return &UnavailableError{Reason: reason, Err: err}
}

// defaultReason is shown when a source fails without a learner-facing reason.
const defaultReason = "This question could not be loaded. Press r to try again."

// ReasonOf extracts the learner-facing message from err.
func ReasonOf(err error) string {
	if err == nil {
		return ""
	}
	var ue *UnavailableError
	if errors.As(err, &ue) && ue.Reason != "" {
		return ue.Reason
	}
	return defaultReason
}
