package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/ripah/internal/model"
)

func TestExportYAML(t *testing.T) {
	report := Report{
		Sessions: []model.SessionAggregate{{
			SessionID:  7,
			EndedAt:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
			Lang:       "en",
			Chars:      120,
			Correct:    118,
			Mistakes:   2,
			DurationMs: 45000,
			AvgWPM:     31.5,
			PeakWPM:    44.25,
		}},
		CharAggsWindow: []model.CharAggregate{
			{Char: "e", Correct: 9, Incorrect: 0},
			{Char: "k", Correct: 3, Incorrect: 1},
		},
	}
	var buf bytes.Buffer
	if err := ExportYAML(&buf, report); err != nil {
		t.Fatalf("export: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"sessions:",
		"id: 7",
		"ended_at: 2024-05-01T12:00:00Z",
		"avg_wpm: 31.5",
		"peak_wpm: 44.25",
		"chars:",
		"accuracy: 0.75",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "char: k") > strings.Index(out, "char: e") {
		t.Fatalf("expected weakest char first:\n%s", out)
	}
}

func TestExportYAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportYAML(&buf, Report{}); err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "sessions: []" {
		t.Fatalf("unexpected empty export: %q", buf.String())
	}
}
