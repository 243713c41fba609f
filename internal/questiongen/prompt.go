package questiongen

import (
	"fmt"
	"strings"

	"github.com/abhisek/phasa/internal/quiz"
)

const systemPrompt = `You are a Thai teacher writing vocabulary quiz questions for English-speaking learners.

Rules:
- Write exactly one question of the requested kind about the given word.
- Use natural, everyday Thai. Keep sentences short (under 15 words).
- cloze: write a Thai sentence using the word, replace the word with ____ (four underscores), and offer 4 Thai words as options. The first option is the word itself; the other three are plausible words of the same part of speech that do NOT fit.
- word_match: the prompt is the Thai word. Offer 4 English meanings; the first is correct, the others are meanings of different Thai words a learner might confuse it with.
- token_reorder: the prompt is the English meaning of a Thai sentence using the word. Split the Thai sentence into 3-8 fragments in the correct order so that joining them reproduces the sentence.
- option_notes: a short gloss for each option (romanization or meaning), in the same order as options.
- The explanation is one or two sentences on usage, register or culture.
- Do not repeat any question from the "already asked" list.`

// buildUserMessage constructs the user message for one draft.
func buildUserMessage(input Input, cfg Config) string {
	it := input.Item
	var b strings.Builder

	fmt.Fprintf(&b, "Kind: %s\n", input.Kind)
	fmt.Fprintf(&b, "Word: %s\n", it.Key())
	if it.Romanization != "" {
		fmt.Fprintf(&b, "Romanization: %s\n", it.Romanization)
	}
	fmt.Fprintf(&b, "Meaning: %s\n", it.Translation)
	if it.HasExample() {
		fmt.Fprintf(&b, "Example: %s (%s)\n", strings.TrimSpace(it.Example.Thai), strings.TrimSpace(it.Example.Translation))
	}
	if g := it.GlossText(); g != "" {
		fmt.Fprintf(&b, "Gloss: %s\n", g)
	}
	if input.Kind == quiz.KindCloze {
		fmt.Fprintf(&b, "Blank marker: %s\n", quiz.Blank)
	}

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildDedup(input.PriorPrompts, cfg.MaxPriorPrompts))

	return b.String()
}

// buildDedup formats prior prompts for the request, respecting the max limit.
// Returns "None" if there are no prior prompts.
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}

	// Keep only the most recent N prompts.
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, p := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, p)
	}
	return strings.TrimRight(b.String(), "\n")
}
