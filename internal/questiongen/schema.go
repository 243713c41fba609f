package questiongen

import "github.com/abhisek/phasa/internal/llm"

// QuestionSchema defines the JSON schema for LLM question generation responses.
var QuestionSchema = &llm.Schema{
	Name:        "thai-question",
	Description: "A single Thai vocabulary quiz question with the correct option first",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"kind": map[string]any{
				"type":        "string",
				"enum":        []any{"cloze", "word_match", "token_reorder"},
				"description": "The question kind that was requested",
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "The text shown to the learner. For cloze: a Thai sentence with the target word replaced by ____. For word_match: the Thai word. For token_reorder: the English meaning of the sentence.",
			},
			"prompt_note": map[string]any{
				"type":        "string",
				"description": "Supporting text: the sentence translation for cloze, the romanization for word_match, empty for token_reorder",
			},
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Exactly 4 options with the correct one FIRST. Empty for token_reorder.",
			},
			"option_notes": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "A short gloss per option, parallel to options. Empty for token_reorder.",
			},
			"tokens": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "For token_reorder: the Thai sentence split into 3-8 fragments in correct order. Empty otherwise.",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "A short usage or cultural note shown after a correct answer",
			},
		},
		"required":             []any{"kind", "prompt", "prompt_note", "options", "option_notes", "tokens", "explanation"},
		"additionalProperties": false,
	},
}
