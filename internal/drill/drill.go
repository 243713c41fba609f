// Package drill runs a quiz over plain line-based input and output, for
// scripting and terminals where the TUI is unavailable.
package drill

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/ui/theme"
)

// ErrStopped is returned when the learner quits or input ends before the
// quiz is finished.
var ErrStopped = errors.New("drill stopped")

var (
	okStyle   = lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	dimStyle  = lipgloss.NewStyle().Foreground(theme.TextDim)
	headStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
)

// Runner drives a quiz.Controller from line input.
type Runner struct {
	ctrl *quiz.Controller
	in   *bufio.Scanner
	out  io.Writer
}

// New creates a Runner reading answers from in and writing to out.
func New(ctrl *quiz.Controller, in io.Reader, out io.Writer) *Runner {
	return &Runner{ctrl: ctrl, in: bufio.NewScanner(in), out: out}
}

// Run asks every question until the quiz finishes. It returns the summary
// so far and ErrStopped if the learner quit early.
func (r *Runner) Run(ctx context.Context) (quiz.Summary, error) {
	if r.ctrl.Phase() == quiz.PhaseEmpty {
		r.println(dimStyle.Render("No words to practice yet. Add some with `phasa words add`."))
		return quiz.Summary{}, nil
	}

	for !r.ctrl.Finished() {
		if err := r.ctrl.Await(ctx); err != nil {
			return r.ctrl.Summary(), err
		}
		if r.ctrl.Phase() == quiz.PhaseLoading {
			if err := r.retry(ctx); err != nil {
				return r.ctrl.Summary(), err
			}
			continue
		}
		if err := r.ask(); err != nil {
			return r.ctrl.Summary(), err
		}
	}
	r.printSummary(r.ctrl.Summary())
	return r.ctrl.Summary(), nil
}

// retry reports a failed question and retries it on Enter.
func (r *Runner) retry(ctx context.Context) error {
	r.println(failStyle.Render(r.ctrl.Err()))
	line, ok := r.prompt("Press Enter to retry, q to quit: ")
	if !ok || line == "q" {
		return ErrStopped
	}
	ch := r.ctrl.Retry()
	if ch == nil {
		return nil
	}
	select {
	case <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// ask shows the current question and reads answers until one is correct.
func (r *Runner) ask() error {
	q := r.ctrl.Current()
	r.printQuestion(q)

	for {
		line, ok := r.prompt("> ")
		if !ok || line == "q" {
			return ErrStopped
		}
		if line == "" {
			continue
		}

		var correct bool
		if q.Kind == quiz.KindTokenReorder {
			var valid bool
			correct, valid = r.submitOrder(q, line)
			if !valid {
				r.println(dimStyle.Render(fmt.Sprintf("Enter all %d numbers in order, e.g. 2 1 3.", len(q.Bank))))
				continue
			}
		} else {
			n, err := strconv.Atoi(line)
			if err != nil || n < 1 || n > len(q.Options) {
				r.println(dimStyle.Render(fmt.Sprintf("Enter a number from 1 to %d.", len(q.Options))))
				continue
			}
			correct = r.ctrl.Select(n-1) == quiz.OutcomeCorrect
		}

		if !correct {
			r.println(failStyle.Render("✗ Not quite. Try again."))
			continue
		}

		r.println(okStyle.Render("✓ Correct!") + " " + q.Answer())
		if q.Explanation != "" {
			r.println(dimStyle.Render(q.Explanation))
		}
		r.println("")
		if r.ctrl.CanAdvance() {
			r.ctrl.Next()
		}
		return nil
	}
}

// submitOrder picks the bank positions in line and submits them. valid is
// false when line is not a complete ordering.
func (r *Runner) submitOrder(q *quiz.Question, line string) (correct, valid bool) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) != len(q.Bank) {
		return false, false
	}
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || !r.ctrl.PickToken(n-1) {
			r.clearOrder()
			return false, false
		}
	}
	switch r.ctrl.Next() {
	case quiz.StepAdvanced, quiz.StepFinished:
		return true, true
	case quiz.StepWrong:
		return false, true
	}
	r.clearOrder()
	return false, false
}

func (r *Runner) clearOrder() {
	for r.ctrl.RemoveToken(0) {
	}
}

func (r *Runner) printQuestion(q *quiz.Question) {
	r.println(headStyle.Render(fmt.Sprintf("── Question %d/%d · %s ──",
		r.ctrl.QuestionNumber(), r.ctrl.TotalQuestions(), q.Kind.DisplayName())))
	r.println(q.Prompt)
	if q.PromptNote != "" {
		r.println(dimStyle.Render(q.PromptNote))
	}

	if q.Kind == quiz.KindTokenReorder {
		parts := make([]string, len(q.Bank))
		for pos := range q.Bank {
			parts[pos] = fmt.Sprintf("%d) %s", pos+1, q.BankToken(pos))
		}
		r.println("  " + strings.Join(parts, "   "))
		r.println(dimStyle.Render("Type the numbers in sentence order."))
		return
	}
	for i, opt := range q.Options {
		r.println(fmt.Sprintf("  %d) %s", i+1, opt))
	}
}

func (r *Runner) printSummary(s quiz.Summary) {
	r.println(headStyle.Render("── Results ──"))
	r.println(fmt.Sprintf("Questions: %d   First try: %d   Needed another go: %d   (%.0f%%)",
		s.Total, s.Correct, s.Wrong, s.Accuracy()*100))
	for _, it := range s.Items {
		if it.HadWrong {
			r.println(fmt.Sprintf("  ↻ %s → %s", it.Prompt, it.Answer))
		}
	}
}

func (r *Runner) prompt(p string) (string, bool) {
	fmt.Fprint(r.out, p)
	if !r.in.Scan() {
		r.println("")
		return "", false
	}
	return strings.TrimSpace(r.in.Text()), true
}

func (r *Runner) println(s string) {
	lipgloss.Fprintln(r.out, s)
}
