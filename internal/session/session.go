// Package session tracks a single practice run and feeds its speed meter.
package session

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/verte-zerg/ripah/internal/meter"
	"github.com/verte-zerg/ripah/internal/model"
	"github.com/verte-zerg/ripah/internal/relay"
)

// ErrEmptyText is returned when a session is created without target text.
var ErrEmptyText = errors.New("target text is empty")

// Outcome describes how an input change was classified.
type Outcome int

const (
	// Ignored means the session was already finished.
	Ignored Outcome = iota
	// Progress means the input is a correct prefix of the target.
	Progress
	// Mistake means the input diverges from the target.
	Mistake
	// Complete means the input matches the whole target.
	Complete
)

func (o Outcome) String() string {
	switch o {
	case Progress:
		return "progress"
	case Mistake:
		return "mistake"
	case Complete:
		return "complete"
	default:
		return "ignored"
	}
}

type charStat struct {
	correct   int
	incorrect int
}

// Session holds the state of one practice text.
type Session struct {
	target []rune
	input  []rune
	meter  *meter.Meter

	started   bool
	done      bool
	startedAt time.Time
	lastMark  int64

	mistakes  int
	inMistake bool

	recorded int
	peakRate float64
	hasPeak  bool

	charStats map[rune]*charStat
	observer  func(relay.Event)
}

// New creates a session for target with a meter of window samples.
func New(target string, window int) (*Session, error) {
	if target == "" {
		return nil, ErrEmptyText
	}
	m, err := meter.New(window)
	if err != nil {
		return nil, fmt.Errorf("failed to create meter: %w", err)
	}
	return &Session{
		target:    []rune(target),
		meter:     m,
		charStats: map[rune]*charStat{},
	}, nil
}

// Observe registers fn to receive every sample recorded into the meter. A
// reset event precedes the first sample.
func (s *Session) Observe(fn func(relay.Event)) {
	s.observer = fn
}

// Target returns the text being practiced.
func (s *Session) Target() []rune {
	return s.target
}

// Input returns the text typed so far.
func (s *Session) Input() []rune {
	return s.input
}

// Started reports whether the first keystroke has been seen.
func (s *Session) Started() bool {
	return s.started
}

// Done reports whether the target has been typed completely.
func (s *Session) Done() bool {
	return s.done
}

// Running reports whether the timer should be ticking.
func (s *Session) Running() bool {
	return s.started && !s.done
}

// Mistakes returns the number of mistake streaks.
func (s *Session) Mistakes() int {
	return s.mistakes
}

// Type appends r to the input.
func (s *Session) Type(r rune, now time.Time) Outcome {
	if s.done {
		return Ignored
	}
	next := make([]rune, len(s.input), len(s.input)+1)
	copy(next, s.input)
	return s.SetInput(append(next, r), now)
}

// Backspace removes the last typed rune.
func (s *Session) Backspace(now time.Time) Outcome {
	if s.done || len(s.input) == 0 {
		return Ignored
	}
	return s.SetInput(s.input[:len(s.input)-1], now)
}

// SetInput replaces the typed text and records the change into the meter.
func (s *Session) SetInput(input []rune, now time.Time) Outcome {
	if s.done {
		return Ignored
	}
	if !s.started {
		s.started = true
		s.startedAt = now
		if s.observer != nil {
			s.observer(relay.Event{Kind: relay.KindReset})
		}
	}
	s.trackChar(input)
	s.input = append(s.input[:0:0], input...)
	mark := s.mark(now)

	switch {
	case s.matches(len(s.target)):
		s.recordProgress(mark, len(s.input))
		s.done = true
		s.inMistake = false
		return Complete
	case s.matches(len(s.input)):
		s.recordProgress(mark, len(s.input))
		s.inMistake = false
		return Progress
	default:
		s.recordNoProgress(mark)
		if !s.inMistake {
			s.mistakes++
		}
		s.inMistake = true
		return Mistake
	}
}

// Tick records elapsed time without progress while the session runs.
func (s *Session) Tick(now time.Time) {
	if !s.Running() {
		return
	}
	s.recordNoProgress(s.mark(now))
}

// Elapsed returns the session time measured so far.
func (s *Session) Elapsed(now time.Time) time.Duration {
	if !s.started {
		return 0
	}
	if s.done {
		return time.Duration(s.lastMark) * time.Millisecond
	}
	return time.Duration(s.clamp(now)) * time.Millisecond
}

// Result summarizes the session for persistence.
func (s *Session) Result(now time.Time) model.SessionStats {
	elapsed := s.Elapsed(now)
	stats := model.SessionStats{
		StartedAt:   s.startedAt,
		EndedAt:     s.startedAt.Add(elapsed),
		Chars:       len(s.target),
		Correct:     s.meter.Value(),
		Mistakes:    s.mistakes,
		DurationMs:  elapsed.Milliseconds(),
		MeterWindow: s.meter.Capacity(),
	}
	if avg, ok := s.meter.AvgSpeed(); ok {
		stats.AvgWPM = meter.WPM(avg)
	}
	if s.hasPeak {
		stats.PeakWPM = meter.WPM(s.peakRate)
	}

	chars := make([]model.CharStats, 0, len(s.charStats))
	for ch, entry := range s.charStats {
		chars = append(chars, model.CharStats{
			Char:      string(ch),
			Correct:   entry.correct,
			Incorrect: entry.incorrect,
		})
	}
	sort.Slice(chars, func(i, j int) bool {
		return chars[i].Char < chars[j].Char
	})
	stats.CharStats = chars
	return stats
}

// clamp converts now into milliseconds since the first keystroke, never
// earlier than the last recorded mark.
func (s *Session) clamp(now time.Time) int64 {
	mark := now.Sub(s.startedAt).Milliseconds()
	if mark < s.lastMark {
		return s.lastMark
	}
	return mark
}

// mark is clamp for samples that go into the meter.
func (s *Session) mark(now time.Time) int64 {
	s.lastMark = s.clamp(now)
	return s.lastMark
}

func (s *Session) matches(n int) bool {
	if n != len(s.input) || n > len(s.target) {
		return false
	}
	for i := 0; i < n; i++ {
		if s.input[i] != s.target[i] {
			return false
		}
	}
	return true
}

// trackChar attributes a single appended rune to the target character it was
// meant to match, as long as everything before it was correct.
func (s *Session) trackChar(next []rune) {
	pos := len(s.input)
	if len(next) != pos+1 || pos >= len(s.target) || !s.matches(pos) {
		return
	}
	expected := s.target[pos]
	if expected == ' ' {
		return
	}
	entry, ok := s.charStats[expected]
	if !ok {
		entry = &charStat{}
		s.charStats[expected] = entry
	}
	if next[pos] == expected {
		entry.correct++
	} else {
		entry.incorrect++
	}
}

func (s *Session) recordProgress(mark int64, value int) {
	s.meter.RecordProgress(mark, value)
	s.afterRecord(relay.Event{Kind: relay.KindProgress, Mark: mark, Value: value})
}

func (s *Session) recordNoProgress(mark int64) {
	s.meter.RecordNoProgress(mark)
	s.afterRecord(relay.Event{Kind: relay.KindNoProgress, Mark: mark, Value: s.meter.Value()})
}

// afterRecord updates the peak speed once the window holds only real samples.
func (s *Session) afterRecord(ev relay.Event) {
	s.recorded++
	if s.recorded >= s.meter.Capacity() {
		if rate, ok := s.meter.Speed(); ok && (!s.hasPeak || rate > s.peakRate) {
			s.peakRate = rate
			s.hasPeak = true
		}
	}
	if s.observer != nil {
		s.observer(ev)
	}
}
