package stats

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/verte-zerg/ripah/internal/model"
)

const (
	terminalWidthBackup = 80
	trendLabelWidth     = 8
	colorCyan           = "\x1b[36m"
	colorReset          = "\x1b[0m"
)

// TerminalWidth returns the width of f, or a fallback when it is not a terminal.
func TerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := max((i+1)*len(values)/width, start+1)
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderTrend prints moving-average sparklines of average and peak WPM,
// fitted to totalWidth columns.
func RenderTrend(w io.Writer, sessions []model.SessionAggregate, window, totalWidth int) error {
	if len(sessions) == 0 {
		return nil
	}
	avg := make([]float64, len(sessions))
	peak := make([]float64, len(sessions))
	for i, s := range sessions {
		avg[i] = s.AvgWPM
		peak[i] = s.PeakWPM
	}
	width := max(totalWidth-trendLabelWidth, 1)
	useColor := shouldUseColor(w)

	if _, err := fmt.Fprintf(w, "WPM Trend (moving average over %d)\n", max(window, 1)); err != nil {
		return err
	}
	for _, series := range []struct {
		name   string
		values []float64
	}{
		{name: "Average", values: avg},
		{name: "Peak", values: peak},
	} {
		values := Downsample(MovingAverage(series.values, window), width)
		line := Sparkline(values)
		if useColor {
			line = colorCyan + line + colorReset
		}
		lo, hi := minMax(values)
		if _, err := fmt.Fprintf(w, "%-*s%s\n%-*smin=%.2f max=%.2f\n", trendLabelWidth, series.name, line, trendLabelWidth, "", lo, hi); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
