package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/phasa/internal/llm"
	"github.com/abhisek/phasa/internal/quiz"
)

// LLMGenerator asks an LLM provider for one question per pool index. It
// implements quiz.Source and fails soft: every error it returns is a
// *quiz.UnavailableError with a message fit for the learner.
type LLMGenerator struct {
	provider llm.Provider
	config   Config

	mu    sync.Mutex
	prior []string
	rngMu sync.Mutex
}

// New creates a new LLMGenerator with the given provider and config. A nil
// provider yields a generator whose every question is unavailable.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// questionOutput is the raw LLM response before validation.
type questionOutput struct {
	Kind        string   `json:"kind"`
	Prompt      string   `json:"prompt"`
	PromptNote  string   `json:"prompt_note"`
	Options     []string `json:"options"`
	OptionNotes []string `json:"option_notes"`
	Tokens      []string `json:"tokens"`
	Explanation string   `json:"explanation"`
}

// Generate produces the question for pool index.
func (g *LLMGenerator) Generate(ctx context.Context, pool quiz.Pool, index int) (*quiz.Question, error) {
	if g.provider == nil {
		return nil, quiz.Unavailable(reasonFor(llm.ErrNotConfigured), llm.ErrNotConfigured)
	}
	if index < 0 || index >= pool.Len() {
		return nil, quiz.Unavailable("", fmt.Errorf("index %d out of range for pool of %d", index, pool.Len()))
	}

	input := Input{
		Item:         pool.At(index),
		Kind:         g.config.Mode.kindFor(index),
		PriorPrompts: g.priorPrompts(),
	}

	d, err := g.draft(ctx, input)
	if err != nil {
		return nil, quiz.Unavailable(reasonFor(err), err)
	}

	q := g.build(d, input)
	g.remember(q.Prompt)
	return q, nil
}

func (g *LLMGenerator) draft(ctx context.Context, input Input) (*Draft, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(input, g.config)},
		},
		Schema:      QuestionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}
	if len(resp.Content) == 0 || string(resp.Content) == "null" {
		return nil, errEmptyResponse
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	d := &Draft{
		Kind:        quiz.Kind(strings.TrimSpace(raw.Kind)),
		Prompt:      strings.TrimSpace(raw.Prompt),
		PromptNote:  strings.TrimSpace(raw.PromptNote),
		Options:     trimAll(raw.Options),
		OptionNotes: trimAll(raw.OptionNotes),
		Tokens:      raw.Tokens,
		Explanation: strings.TrimSpace(raw.Explanation),
	}
	if d.Kind == quiz.KindCloze {
		d.Prompt = normalizeBlanks(d.Prompt)
	}

	// Run validators in order.
	for _, v := range g.config.Validators {
		if verr := v.Validate(d, input); verr != nil {
			return nil, verr
		}
	}
	return d, nil
}

func (g *LLMGenerator) build(d *Draft, input Input) *quiz.Question {
	q := &quiz.Question{
		Kind:        d.Kind,
		Prompt:      d.Prompt,
		PromptNote:  d.PromptNote,
		Explanation: d.Explanation,
		ItemID:      input.Item.ID,
	}

	g.rngMu.Lock()
	defer g.rngMu.Unlock()

	if d.Kind.MultipleChoice() {
		sh := quiz.ShuffleOptions(g.config.Rand, quiz.PairOptions(d.Options, d.OptionNotes, 0))
		q.Options = sh.Options
		q.CorrectIndex = sh.CorrectIndex
		q.Aux = sh.Aux
		return q
	}
	q.Tokens = d.Tokens
	q.Bank = quiz.ShuffleTokens(g.config.Rand, len(d.Tokens))
	return q
}

func (g *LLMGenerator) priorPrompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prior...)
}

func (g *LLMGenerator) remember(prompt string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prior = append(g.prior, prompt)
	if max := g.config.MaxPriorPrompts; max > 0 && len(g.prior) > max {
		g.prior = g.prior[len(g.prior)-max:]
	}
}

// Forget clears the prompts remembered for deduplication.
func (g *LLMGenerator) Forget() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prior = nil
}

func trimAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

var errEmptyResponse = errors.New("LLM returned an empty response")
