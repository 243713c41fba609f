package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/phasa/internal/app"
	"github.com/abhisek/phasa/internal/llm"
	"github.com/abhisek/phasa/internal/questiongen"
	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/screens/home"
	"github.com/abhisek/phasa/internal/store"
)

// prepareTimeout bounds preparing the first question of a TUI quiz,
// generative retries included.
const prepareTimeout = 45 * time.Second

type runOptions struct {
	start    *app.Start
	poolSize int
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, opts runOptions) error {
	ctx := cmd.Context()
	st, err := openStore(cmd)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	vocabRepo := st.VocabRepo()
	eventRepo := st.EventRepo()
	deps := home.Deps{
		Owner:    resolveOwner(cmd),
		Words:    vocabRepo,
		Daily:    vocabRepo,
		Adder:    vocabRepo,
		History:  eventRepo,
		Events:   eventRepo,
		PoolSize: opts.poolSize,
		Timeout:  prepareTimeout,
	}

	sources, err := llmSources(ctx, eventRepo)
	switch {
	case err == nil:
		deps.LLM = sources
	case opts.start != nil && opts.start.LLM:
		return err
	case !errors.Is(err, llm.ErrNotConfigured):
		slog.Warn("LLM provider unavailable; AI quizzes disabled", "error", err)
	}

	return app.Run(app.Options{Home: deps, Start: opts.start})
}

// llmSources builds a provider from the environment and returns a factory
// of generative question sources, one per quiz so prompt history is not
// shared between runs.
func llmSources(ctx context.Context, events *store.EventRepo) (func(questiongen.Mode) quiz.Source, error) {
	provider, llmCfg, err := llm.NewProviderFromEnv(ctx, events)
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return func(mode questiongen.Mode) quiz.Source {
		cfg := questiongen.DefaultConfig()
		cfg.Mode = mode
		cfg.Timeout = llmCfg.Timeout
		return questiongen.New(provider, cfg)
	}, nil
}
