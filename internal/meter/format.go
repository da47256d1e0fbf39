package meter

import "fmt"

// CharsPerWord is the conventional word length used for WPM.
const CharsPerWord = 5

// Placeholder is shown when a speed is not available yet.
const Placeholder = "???"

const msPerMinute = 60000

// WPM converts a rate in characters per millisecond to words per minute.
func WPM(rate float64) float64 {
	return rate * msPerMinute / CharsPerWord
}

// FormatSpeed renders a rate as WPM, or the placeholder when ok is false.
func FormatSpeed(rate float64, ok bool) string {
	if !ok {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", WPM(rate))
}

// Words converts a character count into whole words.
func Words(value int) int {
	return value / CharsPerWord
}
