package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/abhisek/phasa/internal/store"
	"github.com/abhisek/phasa/internal/vocab"
)

// resetFlags restores every flag in the tree to its default so runs do not
// leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

type cli struct {
	t  *testing.T
	db string
}

func newCLI(t *testing.T) *cli {
	t.Setenv("PHASA_USER", "")
	t.Setenv("PHASA_DB", "")
	return &cli{t: t, db: filepath.Join(t.TempDir(), "phasa.db")}
}

func (c *cli) runIn(stdin string, args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--db", c.db}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (c *cli) run(args ...string) string {
	c.t.Helper()
	out, err := c.runIn("", args...)
	if err != nil {
		c.t.Fatalf("phasa %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (c *cli) store() *store.Store {
	c.t.Helper()
	s, err := store.Open(c.db)
	if err != nil {
		c.t.Fatalf("open store: %v", err)
	}
	c.t.Cleanup(func() { s.Close() })
	return s
}

// fails runs args and expects an error mentioning want.
func (c *cli) fails(want string, args ...string) {
	c.t.Helper()
	out, err := c.runIn("", args...)
	if err == nil {
		c.t.Errorf("phasa %s: expected an error, got output:\n%s", strings.Join(args, " "), out)
		return
	}
	if !strings.Contains(err.Error(), want) {
		c.t.Errorf("phasa %s: error %q does not mention %q", strings.Join(args, " "), err, want)
	}
}

func contains(t *testing.T, out string, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(out, p) {
			t.Errorf("output is missing %q:\n%s", p, out)
		}
	}
}

func lacks(t *testing.T, out, part string) {
	t.Helper()
	if strings.Contains(out, part) {
		t.Errorf("output unexpectedly contains %q:\n%s", part, out)
	}
}

func TestWordsLifecycle(t *testing.T) {
	c := newCLI(t)

	contains(t, c.run("words", "list"), "No words yet")

	out := c.run("words", "add", "กิน", "eat", "--roman", "gin", "--example", "ฉันกินข้าว", "--example-translation", "I eat rice")
	contains(t, out, "Added กิน (eat)")

	contains(t, c.run("words", "list"), "กิน", "gin")

	c.fails("already in your word list", "words", "add", "กิน", "eat")

	c.run("words", "edit", "กิน", "--translation", "to eat")
	contains(t, c.run("words", "list", "-o", "json"), `"to eat"`, `"ฉันกินข้าว"`)
	contains(t, c.run("words", "list", "-o", "yaml"), "translation: to eat")

	c.run("words", "rm", "กิน")
	contains(t, c.run("words", "list"), "No words yet")

	c.fails(`no word "กิน"`, "words", "rm", "กิน")
}

func TestWordsPerLearner(t *testing.T) {
	c := newCLI(t)

	c.run("-u", "nok", "words", "add", "แมว", "cat")
	contains(t, c.run("words", "list"), "No words yet")
	contains(t, c.run("--user", "nok", "words", "list"), "แมว")

	items, err := c.store().VocabRepo().List(context.Background(), vocab.Filter{Owner: "nok"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("nok has %d words, want 1", len(items))
	}

	// Another learner's ID is not found.
	if _, err := c.runIn("", "words", "rm", items[0].ID); err == nil {
		t.Error("removed another learner's word")
	}
	c.run("-u", "nok", "words", "rm", items[0].ID[:8])
}

func TestWordsImport(t *testing.T) {
	c := newCLI(t)

	path := filepath.Join(t.TempDir(), "words.yaml")
	err := os.WriteFile(path, []byte(`
- thai: น้ำ
  translation: water
- thai: ข้าว
  translation: rice
  romanization: khao
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	contains(t, c.run("words", "import", path), "Imported 2 of 2 words")

	out, err := c.runIn(`[{"thai":"น้ำ","translation":"water"},{"thai":"ไฟ","translation":"fire"}]`,
		"words", "import", "-")
	if err != nil {
		t.Fatalf("import from stdin: %v", err)
	}
	contains(t, out, "Imported 1 of 2 words (1 already in your list)")
}

func TestDaily(t *testing.T) {
	c := newCLI(t)
	c.run("words", "add", "หนึ่ง", "one")
	c.run("words", "add", "สอง", "two")

	contains(t, c.run("daily", "list"), "No daily words")
	contains(t, c.run("daily", "add", "today", "หนึ่ง", "สอง"), "Added 2 words")

	today := time.Now().Format(vocab.DateLayout)
	contains(t, c.run("daily", "list"), today+"  (2 words)", "two")

	c.run("daily", "add", "2020-01-01", "หนึ่ง")
	lacks(t, c.run("daily", "list"), "2020-01-01")
	contains(t, c.run("daily", "list", "--from", "2020-01-01", "--to", "2020-01-31"), "2020-01-01")

	if _, err := c.runIn("", "daily", "add", "today", "สาม"); err == nil {
		t.Error("added an unknown word to the daily list")
	}
	if _, err := c.runIn("", "daily", "add", "01/02/2026", "หนึ่ง"); err == nil {
		t.Error("accepted a malformed date")
	}
}

func TestStatsAndReset(t *testing.T) {
	c := newCLI(t)
	contains(t, c.run("stats"), "No quizzes yet")

	ctx := context.Background()
	s := c.store()
	it := &vocab.Item{Thai: "ปลา", Translation: "fish"}
	if err := s.VocabRepo().Create(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}
	events := s.EventRepo()
	for _, q := range []store.QuizEventData{
		{SessionID: "s1", Action: store.ActionStart, Kind: "mixed", Source: "local", Total: 2},
		{SessionID: "s1", Action: store.ActionEnd, Kind: "mixed", Source: "local", Total: 2, Correct: 1, Wrong: 1, DurationSecs: 75},
	} {
		if err := events.AppendQuizEvent(ctx, q); err != nil {
			t.Fatalf("append quiz event: %v", err)
		}
	}
	for _, a := range []store.AnswerEventData{
		{SessionID: "s1", Kind: "word_match", ItemID: it.ID, Prompt: "ปลา", Answer: "fish", Attempts: 1},
		{SessionID: "s1", QuestionIndex: 1, Kind: "cloze", ItemID: it.ID, Prompt: "กิน____", Answer: "ปลา", HadWrong: true, Attempts: 2},
	} {
		if err := events.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatalf("append answer: %v", err)
		}
	}
	if err := events.AppendLLMRequest(ctx, store.LLMRequestEventData{Provider: "openai", Model: "gpt-4.1-mini", Purpose: "question-gen", Success: true}); err != nil {
		t.Fatalf("append llm request: %v", err)
	}

	contains(t, c.run("stats"),
		"Quizzes finished:   1",
		"Questions answered: 2",
		"First try:          1 (50%)",
		"1m 15s",
		"Word match",
		"Fill the blank",
		"missed 1×",
	)

	out, err := c.runIn("no\n", "reset")
	if err != nil {
		t.Fatalf("reset (declined): %v", err)
	}
	contains(t, out, "Cancelled.")
	lacks(t, c.run("stats"), "No quizzes yet")

	out, err = c.runIn("yes\n", "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	contains(t, out, "Deleted 4 records.")
	contains(t, c.run("stats"), "No quizzes yet")
	// The LLM log is kept.
	contains(t, c.run("llm", "list"), "question-gen")

	contains(t, c.run("reset", "--llm", "--yes"), "Deleted 1 records.")
	contains(t, c.run("llm", "list"), "No LLM requests logged.")
}

func TestLLMLog(t *testing.T) {
	c := newCLI(t)
	ctx := context.Background()
	events := c.store().EventRepo()
	for _, d := range []store.LLMRequestEventData{
		{
			Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "question-gen",
			InputTokens: 1000, OutputTokens: 200, LatencyMs: 420, Success: true,
			RequestBody: "[user]\nกิน", ResponseBody: `{"kind":"cloze"}`,
		},
		{
			Provider: "anthropic", Model: "claude-haiku-4-5-20251001", Purpose: "question-gen",
			LatencyMs: 90, ErrorMessage: "rate limited",
		},
	} {
		if err := events.AppendLLMRequest(ctx, d); err != nil {
			t.Fatalf("append llm request: %v", err)
		}
	}

	contains(t, c.run("llm", "list"), "claude-haiku", "✗")

	if n := strings.Count(c.run("llm", "list", "--failed"), "claude-haiku"); n != 1 {
		t.Errorf("--failed listed %d requests, want 1", n)
	}

	contains(t, c.run("llm", "list", "-o", "json"), `"ErrorMessage": "rate limited"`)
	contains(t, c.run("llm", "view", "1"), `{"kind":"cloze"}`, "Cost:")

	c.fails("no LLM request with ID 99", "llm", "view", "99")

	contains(t, c.run("llm", "stats"), "question-gen", "Total")
}

func TestVersion(t *testing.T) {
	c := newCLI(t)
	contains(t, c.run("version"), "phasa")
}
