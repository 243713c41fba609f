package questiongen

import (
	"testing"

	"github.com/abhisek/phasa/internal/quiz"
	"github.com/abhisek/phasa/internal/vocab"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Validator: "test-validator",
		Message:   "something went wrong",
		Retryable: true,
	}
	expected := `validator "test-validator": something went wrong`
	if err.Error() != expected {
		t.Errorf("got %q, want %q", err.Error(), expected)
	}
}

func TestDefaultConfig_ValidatorChain(t *testing.T) {
	cfg := DefaultConfig()
	names := []string{"structural", "options", "cloze"}
	if len(cfg.Validators) != len(names) {
		t.Fatalf("expected %d validators, got %d", len(names), len(cfg.Validators))
	}
	for i, v := range cfg.Validators {
		if v.Name() != names[i] {
			t.Errorf("validator %d: expected %q, got %q", i, names[i], v.Name())
		}
	}
	if cfg.Timeout <= 0 {
		t.Error("expected a default timeout")
	}
}

func validDraft() *Draft {
	return &Draft{
		Kind:        quiz.KindWordMatch,
		Prompt:      "กิน",
		Options:     []string{"to eat", "to drink", "to cook", "to buy"},
		Explanation: "note",
	}
}

func TestValidators(t *testing.T) {
	input := Input{Item: vocab.Item{Thai: "กิน", Translation: "to eat"}, Kind: quiz.KindWordMatch}

	tests := []struct {
		name    string
		v       Validator
		mutate  func(d *Draft)
		input   Input
		wantErr bool
	}{
		{"valid", &StructuralValidator{}, func(*Draft) {}, input, false},
		{"empty prompt", &StructuralValidator{}, func(d *Draft) { d.Prompt = " " }, input, true},
		{"long prompt", &StructuralValidator{}, func(d *Draft) { d.Prompt = string(make([]rune, 301)) }, input, true},
		{"bad kind", &StructuralValidator{}, func(d *Draft) { d.Kind = "essay" }, input, true},
		{"empty option", &StructuralValidator{}, func(d *Draft) { d.Options[2] = "" }, input, true},
		{"notes mismatch", &StructuralValidator{}, func(d *Draft) { d.OptionNotes = []string{"x"} }, input, true},
		{"reorder ok", &StructuralValidator{}, func(d *Draft) {
			d.Kind, d.Options, d.Tokens = quiz.KindTokenReorder, nil, []string{"ฉัน", "กิน"}
		}, Input{}, false},
		{"reorder one token", &StructuralValidator{}, func(d *Draft) {
			d.Kind, d.Options, d.Tokens = quiz.KindTokenReorder, nil, []string{"ฉันกิน"}
		}, Input{}, true},
		{"duplicate option", &OptionsValidator{}, func(d *Draft) { d.Options[3] = "To Eat " }, input, true},
		{"prompt lacks word", &OptionsValidator{}, func(d *Draft) { d.Prompt = "ดื่ม" }, input, true},
		{"options skip reorder", &OptionsValidator{}, func(d *Draft) { d.Kind = quiz.KindTokenReorder }, input, false},
		{"cloze ok", &ClozeValidator{}, func(d *Draft) {
			d.Kind, d.Prompt, d.Options = quiz.KindCloze, "ฉัน"+quiz.Blank+"ข้าว", []string{"กิน", "นอน", "เดิน", "อ่าน"}
		}, input, false},
		{"cloze two blanks", &ClozeValidator{}, func(d *Draft) {
			d.Kind, d.Prompt = quiz.KindCloze, quiz.Blank+quiz.Blank
		}, input, true},
		{"cloze wrong answer", &ClozeValidator{}, func(d *Draft) {
			d.Kind, d.Prompt, d.Options = quiz.KindCloze, "ฉัน"+quiz.Blank+"ข้าว", []string{"นอน", "กิน", "เดิน", "อ่าน"}
		}, input, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(d)
			err := tt.v.Validate(d, tt.input)
			if tt.wantErr && err == nil {
				t.Error("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeBlanks(t *testing.T) {
	tests := map[string]string{
		"ฉัน___ข้าว":       "ฉัน" + quiz.Blank + "ข้าว",
		"ฉัน______ข้าว":    "ฉัน" + quiz.Blank + "ข้าว",
		"ฉัน[blank]ข้าว":   "ฉัน" + quiz.Blank + "ข้าว",
		"ฉัน{ blank }ข้าว": "ฉัน" + quiz.Blank + "ข้าว",
		"ไม่มี":            "ไม่มี",
	}
	for in, want := range tests {
		if got := normalizeBlanks(in); got != want {
			t.Errorf("normalizeBlanks(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Errorf("expected None, got %q", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Errorf("unexpected dedup list %q", got)
	}
}
