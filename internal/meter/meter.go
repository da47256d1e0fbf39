// Package meter measures typing speed over a rolling window of samples.
package meter

import "errors"

// ErrInvalidCapacity is returned when a meter is created with a non-positive window.
var ErrInvalidCapacity = errors.New("meter capacity must be > 0")

// Sample is a cumulative progress value observed at a point in time.
type Sample struct {
	Mark  int64 // milliseconds since session start
	Value int   // correctly typed characters so far
}

// Meter is a fixed-size circular buffer of samples.
//
// The slot at cursor holds the oldest retained sample and is the next one to
// be overwritten; the slot before it holds the newest. A Meter is not safe for
// concurrent use.
type Meter struct {
	data   []Sample
	cursor int
}

// New returns a meter that keeps the last capacity samples.
func New(capacity int) (*Meter, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Meter{data: make([]Sample, capacity)}, nil
}

// Capacity returns the window size.
func (m *Meter) Capacity() int {
	return len(m.data)
}

// RecordProgress records that value characters were typed correctly by mark.
func (m *Meter) RecordProgress(mark int64, value int) {
	m.data[m.cursor] = Sample{Mark: mark, Value: value}
	m.cursor = (m.cursor + 1) % len(m.data)
}

// RecordNoProgress records that time passed without accepted input.
func (m *Meter) RecordNoProgress(mark int64) {
	value := m.Value()
	m.RecordProgress(mark, value)
}

// Speed returns the rate across the window in characters per millisecond.
// ok is false when the window spans no time.
func (m *Meter) Speed() (rate float64, ok bool) {
	oldest := m.data[m.cursor]
	newest := m.Latest()
	delta := newest.Mark - oldest.Mark
	if delta <= 0 {
		return 0, false
	}
	return float64(newest.Value-oldest.Value) / float64(delta), true
}

// AvgSpeed returns the rate since the start of the session.
// ok is false until some time has elapsed.
func (m *Meter) AvgSpeed() (rate float64, ok bool) {
	newest := m.Latest()
	if newest.Mark <= 0 {
		return 0, false
	}
	return float64(newest.Value) / float64(newest.Mark), true
}

// Value returns the progress of the newest sample.
func (m *Meter) Value() int {
	return m.Latest().Value
}

// Latest returns the most recently recorded sample.
func (m *Meter) Latest() Sample {
	return m.data[m.newestIndex()]
}

func (m *Meter) newestIndex() int {
	return (m.cursor - 1 + len(m.data)) % len(m.data)
}
