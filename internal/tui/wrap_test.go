package tui

import "testing"

func plainRunes(s string) []styledRune {
	out := make([]styledRune, 0, len(s))
	for _, r := range s {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), []rune("a"), 1)
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected underlined cursor in current word")
	}
}

func TestBuildStyledRunesNoCursorWhenComplete(t *testing.T) {
	runes := buildStyledRunes([]rune("a"), []rune("a"), -1)
	if len(runes) != 1 {
		t.Fatalf("expected 1 rune, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for completed rune")
	}
}

func TestBuildStyledRunesKeepsTargetOnMistype(t *testing.T) {
	runes := buildStyledRunes([]rune("ab"), []rune("ax"), -1)
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for second rune")
	}
}

func TestBuildStyledRunesEverythingAfterMismatchIsIncorrect(t *testing.T) {
	runes := buildStyledRunes([]rune("abcd"), []rune("xbc"), 3)
	for i := 0; i < 3; i++ {
		if runes[i].s != incorrectStyle.Render(string("abc"[i])) {
			t.Fatalf("rune %d: expected incorrect style", i)
		}
	}
	if runes[3].s != mistakeWordStyle.Underline(true).Render("d") {
		t.Fatalf("expected mistake word style at cursor")
	}
}

func TestBuildStyledRunesWordHighlighting(t *testing.T) {
	runes := buildStyledRunes([]rune("one two"), []rune("o"), 1)
	if runes[0].s != correctStyle.Render("o") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[2].s != currentWordStyle.Render("e") {
		t.Fatalf("expected current word style for untyped in current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
	if runes[6].s != pendingStyle.Render("o") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesMistakeWord(t *testing.T) {
	runes := buildStyledRunes([]rune("one two"), []rune("ox"), 2)
	if runes[2].s != mistakeWordStyle.Underline(true).Render("e") {
		t.Fatalf("expected mistake word style for rest of current word")
	}
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesWrongSpaceDot(t *testing.T) {
	runes := buildStyledRunes([]rune("a b"), []rune("ab"), 2)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render("•") {
		t.Fatalf("expected dot for wrong space")
	}
	if !runes[1].isSpace {
		t.Fatalf("expected the dot to keep its space break")
	}
}

func TestWordAround(t *testing.T) {
	target := []rune("one two")
	cases := []struct {
		index      int
		start, end int
	}{
		{0, 0, 3},
		{2, 0, 3},
		{3, 4, 7},
		{5, 4, 7},
		{-1, 0, 0},
		{7, 0, 0},
	}
	for _, tc := range cases {
		start, end := wordAround(target, tc.index)
		if start != tc.start || end != tc.end {
			t.Fatalf("index %d: expected [%d,%d), got [%d,%d)", tc.index, tc.start, tc.end, start, end)
		}
	}
}

func TestWrapStyledRunes(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		width int
		want  string
	}{
		{name: "fits", text: "one two", width: 20, want: "one two"},
		{name: "break at space", text: "one two three", width: 7, want: "one two\nthree"},
		{name: "break before word", text: "ab cd", width: 4, want: "ab\ncd"},
		{name: "long word", text: "abcdef", width: 3, want: "abc\ndef"},
		{name: "no width", text: "one two", width: 0, want: "one two"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := wrapStyledRunes(plainRunes(tc.text), tc.width); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
