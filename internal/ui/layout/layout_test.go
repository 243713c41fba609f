package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
		{MinWidth, MinHeight, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	lines := strings.Split(RenderHeader("Word match", "nok", 80), "\n")
	if len(lines) != 2 {
		t.Fatalf("header has %d lines, want 2", len(lines))
	}
	for _, want := range []string{"Phasa", "Word match", "nok"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("expected header to contain %q", want)
		}
	}
	if w := lipgloss.Width(lines[0]); w != 80 {
		t.Errorf("header width = %d, want 80", w)
	}
}

func TestRenderHeaderNarrowDropsTitle(t *testing.T) {
	first := strings.Split(RenderHeader(strings.Repeat("x", 70), "nok", 60), "\n")[0]
	if strings.Contains(first, "xxx") {
		t.Error("expected the long title to be dropped")
	}
	if !strings.Contains(first, "nok") {
		t.Error("expected the status to stay")
	}
}

func TestRenderFooterDropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if out := RenderFooter(hints, 80); !strings.Contains(out, "Ctrl+C") {
		t.Error("expected every hint at width 80")
	}

	out := RenderFooter(hints, 28)
	if !strings.Contains(out, "Enter") || strings.Contains(out, "Ctrl+C") {
		t.Errorf("narrow footer = %q, want leading hints only", out)
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("t", "s", 60)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "Quit"}}, 60)
	out := RenderFrame(header, "body", footer, 60, 20)
	if h := lipgloss.Height(out); h != 20 {
		t.Errorf("frame height = %d, want 20", h)
	}
	if !strings.Contains(out, "body") {
		t.Error("expected the body in the frame")
	}
}
