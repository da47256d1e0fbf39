package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes colours the target text: the correct prefix, the typed
// text past the first mismatch, and the word under the cursor.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	mismatch := firstMismatch(targetRunes, inputRunes)
	start, end := wordAround(targetRunes, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		var style lipgloss.Style
		switch {
		case i < mismatch:
			style = correctStyle
		case i < len(inputRunes):
			style = incorrectStyle
			if target == ' ' {
				displayed = '•'
			}
		case i >= start && i < end && mismatch < len(inputRunes):
			style = mistakeWordStyle
		case i >= start && i < end:
			style = currentWordStyle
		default:
			style = pendingStyle
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

func firstMismatch(targetRunes, inputRunes []rune) int {
	n := min(len(targetRunes), len(inputRunes))
	for i := 0; i < n; i++ {
		if targetRunes[i] != inputRunes[i] {
			return i
		}
	}
	return n
}

// wordAround returns the bounds of the word containing index, or of the next
// word when index sits on a space.
func wordAround(targetRunes []rune, index int) (int, int) {
	if index < 0 || index >= len(targetRunes) {
		return 0, 0
	}
	start := index
	if targetRunes[start] == ' ' {
		for start < len(targetRunes) && targetRunes[start] == ' ' {
			start++
		}
	} else {
		for start > 0 && targetRunes[start-1] != ' ' {
			start--
		}
	}
	end := start
	for end < len(targetRunes) && targetRunes[end] != ' ' {
		end++
	}
	return start, end
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks lines at the last space that fits within width, or
// mid-word when a word is wider than a line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	lineStart, lineWidth, lastSpace := 0, 0, -1
	for i := 0; i < len(runes); i++ {
		if lineWidth+runes[i].width > width && i > lineStart {
			cut := i
			next := i
			switch {
			case runes[i].isSpace:
				next = i + 1
			case lastSpace >= lineStart:
				cut, next = lastSpace, lastSpace+1
			}
			lines = append(lines, renderStyledRunes(runes[lineStart:cut]))
			lineStart, lineWidth, lastSpace = next, 0, -1
			i = next - 1
			continue
		}
		lineWidth += runes[i].width
		if runes[i].isSpace {
			lastSpace = i
		}
	}
	lines = append(lines, renderStyledRunes(runes[lineStart:]))
	return strings.Join(lines, "\n")
}
