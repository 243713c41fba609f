package quiz

import (
	"reflect"
	"slices"
	"testing"
)

func TestShuffleOptionsKeepsCorrectAnswer(t *testing.T) {
	rng := seeded()
	for n := 2; n <= 6; n++ {
		options := make([]string, n)
		for i := range options {
			options[i] = string(rune('a' + i))
		}
		for correct := 0; correct < n; correct++ {
			for range 50 {
				sh := ShuffleOptions(rng, PairOptions(options, nil, correct))
				if len(sh.Options) != n {
					t.Fatalf("got %d options, want %d", len(sh.Options), n)
				}
				got := slices.Sorted(slices.Values(sh.Options))
				if !slices.Equal(got, options) {
					t.Fatalf("options %v are not a permutation of %v", sh.Options, options)
				}
				if sh.Options[sh.CorrectIndex] != options[correct] {
					t.Fatalf("correct index %d points at %q, want %q", sh.CorrectIndex, sh.Options[sh.CorrectIndex], options[correct])
				}
				if sh.Aux != nil {
					t.Fatalf("aux = %v, want nil", sh.Aux)
				}
			}
		}
	}
}

func TestShuffleOptionsDuplicateText(t *testing.T) {
	// Identical option text must not confuse the correct pointer.
	options := []string{"same", "same", "other"}
	aux := []string{"right", "wrong", "x"}
	for range 100 {
		sh := ShuffleOptions(nil, PairOptions(options, aux, 0))
		if len(sh.Aux) != 3 {
			t.Fatalf("aux has %d entries, want 3", len(sh.Aux))
		}
		if sh.Aux[sh.CorrectIndex] != "right" || sh.Options[sh.CorrectIndex] != "same" {
			t.Fatalf("correct index %d points at %q/%q", sh.CorrectIndex, sh.Options[sh.CorrectIndex], sh.Aux[sh.CorrectIndex])
		}
	}
}

func TestShuffleOptionsDoesNotMutateInput(t *testing.T) {
	opts := PairOptions([]string{"a", "b", "c", "d"}, []string{"1", "2", "3", "4"}, 0)
	before := append([]Option(nil), opts...)
	ShuffleOptions(seeded(), opts)
	if !reflect.DeepEqual(before, opts) {
		t.Errorf("input changed: %v, was %v", opts, before)
	}
}

func TestShuffleOptionsNoCorrect(t *testing.T) {
	sh := ShuffleOptions(nil, PairOptions([]string{"a", "b"}, nil, -1))
	if sh.CorrectIndex != -1 {
		t.Errorf("CorrectIndex = %d, want -1", sh.CorrectIndex)
	}
}

func TestShuffleOptionsReachesEveryPosition(t *testing.T) {
	rng := seeded()
	seen := map[int]bool{}
	for range 200 {
		sh := ShuffleOptions(rng, PairOptions([]string{"a", "b", "c", "d"}, nil, 0))
		seen[sh.CorrectIndex] = true
	}
	if len(seen) != 4 {
		t.Errorf("correct answer reached positions %v, want all 4", seen)
	}
}

func TestShuffleTokens(t *testing.T) {
	if got := ShuffleTokens(nil, 0); len(got) != 0 || got == nil {
		t.Errorf("ShuffleTokens(0) = %#v, want empty", got)
	}
	if got := ShuffleTokens(nil, 1); !slices.Equal(got, []int{0}) {
		t.Errorf("ShuffleTokens(1) = %v, want [0]", got)
	}

	rng := seeded()
	for n := 2; n <= 5; n++ {
		for range 50 {
			bank := ShuffleTokens(rng, n)
			if isIdentity(bank) {
				t.Fatalf("bank %v is in answer order", bank)
			}
			q := &Question{Kind: KindTokenReorder, Prompt: "p", Tokens: make([]string, n), Bank: bank}
			if err := q.Validate(); err != nil {
				t.Fatalf("bank %v: %v", bank, err)
			}
		}
	}
}
