package questiongen

import (
	"math/rand/v2"
	"time"
)

// Config tunes an LLMGenerator.
type Config struct {
	// Validators run in order on each draft; the first rejection wins.
	Validators []Validator

	Mode Mode

	// MaxTokens and Temperature are passed through to the provider.
	MaxTokens   int
	Temperature float64

	// MaxPriorPrompts caps how many of the session's earlier prompts are
	// listed in the request so the model avoids repeating them.
	MaxPriorPrompts int

	// Timeout covers one Generate call including provider retries. Zero
	// means no limit.
	Timeout time.Duration

	// Rand orders options and sentence tokens; nil uses math/rand/v2.
	Rand *rand.Rand
}

const (
	defaultMaxTokens   = 768
	defaultTemperature = 0.7
	defaultPriorLimit  = 8
	defaultGenTimeout  = 20 * time.Second
)

// DefaultConfig mixes question kinds and checks structure, then options,
// then cloze blanks.
func DefaultConfig() Config {
	return Config{
		Validators:      []Validator{&StructuralValidator{}, &OptionsValidator{}, &ClozeValidator{}},
		Mode:            ModeMixed,
		MaxTokens:       defaultMaxTokens,
		Temperature:     defaultTemperature,
		MaxPriorPrompts: defaultPriorLimit,
		Timeout:         defaultGenTimeout,
	}
}
