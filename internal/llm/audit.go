package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/phasa/internal/store"
)

// EventSink stores one row per LLM request. *store.EventRepo satisfies it.
type EventSink interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// sinkTimeout bounds the audit write, which runs detached from the
// request's own cancellation.
const sinkTimeout = 5 * time.Second

// Audited records every request, successful or not, to sink under the
// given provider name. A nil sink keeps only the debug log line.
func Audited(provider string, sink EventSink) Middleware {
	return func(next Provider) Provider {
		return &auditor{next: next, provider: provider, sink: sink}
	}
}

type auditor struct {
	next     Provider
	provider string
	sink     EventSink
}

func (a *auditor) ModelID() string { return a.next.ModelID() }

func (a *auditor) Generate(ctx context.Context, req Request) (*Response, error) {
	began := time.Now()
	resp, err := a.next.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    a.provider,
		Model:       a.next.ModelID(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(began).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
		ev.ResponseBody = rejectedContent(err)
	}

	slog.Debug("llm request",
		"purpose", ev.Purpose, "model", ev.Model, "latency_ms", ev.LatencyMs,
		"in", ev.InputTokens, "out", ev.OutputTokens, "error", err)

	if a.sink != nil {
		wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
		defer cancel()
		if werr := a.sink.AppendLLMRequest(wctx, ev); werr != nil {
			slog.Warn("could not record llm request", "error", werr)
		}
	}
	return resp, err
}

// rejectedContent returns what the model sent when the reply was refused.
func rejectedContent(err error) string {
	var (
		bad *ErrInvalidResponse
		cut *ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &bad):
		return string(bad.Content)
	case errors.As(err, &cut):
		return string(cut.Content)
	}
	return ""
}

// transcript renders req as labelled sections for the request log.
func transcript(req Request) string {
	var parts []string
	add := func(label, body string) {
		parts = append(parts, fmt.Sprintf("[%s]\n%s", label, body))
	}
	if req.System != "" {
		add("system", req.System)
	}
	for _, m := range req.Messages {
		add(string(m.Role), m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			add("schema "+req.Schema.Name, string(def))
		}
	}
	return strings.Join(parts, "\n\n")
}
