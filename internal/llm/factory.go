package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// NewProvider opens the backend cfg selects and wraps it so that each
// attempt is recorded to sink and transient failures are retried.
func NewProvider(ctx context.Context, cfg Config, sink EventSink) (Provider, error) {
	if cfg.Provider == ProviderMock {
		return NewMockProvider(), nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, _ := lookupBackend(cfg.Provider)
	base, err := b.open(ctx, *b.settings(&cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Provider, err)
	}
	return Chain(base, Retrying(cfg.Retry), Audited(cfg.Provider, sink)), nil
}

// NewProviderFromEnv prefers PHASA_* settings and falls back to whichever
// vendor key DiscoverConfig finds. The timeout from PHASA_LLM_TIMEOUT is
// kept either way.
func NewProviderFromEnv(ctx context.Context, sink EventSink) (Provider, Config, error) {
	cfg := ConfigFromEnv()
	if err := cfg.Validate(); errors.Is(err, ErrNotConfigured) {
		found, ok := DiscoverConfig()
		if !ok {
			return nil, cfg, err
		}
		found.Timeout = cfg.Timeout
		cfg = found
	}

	p, err := NewProvider(ctx, cfg, sink)
	if err != nil {
		return nil, cfg, err
	}
	slog.Debug("llm provider ready", "provider", cfg.Provider, "model", p.ModelID())
	return p, cfg, nil
}
