package relay

import (
	"sync"

	"github.com/verte-zerg/ripah/internal/meter"
)

// Reading is a consistent view of a meter.
type Reading struct {
	Speed     float64
	SpeedOK   bool
	Average   float64
	AverageOK bool
	Latest    meter.Sample
}

// SyncMeter guards a meter with a mutex so events and reads may come from
// different goroutines.
type SyncMeter struct {
	mu sync.Mutex
	m  *meter.Meter
}

// NewSyncMeter creates a guarded meter of the given capacity.
func NewSyncMeter(capacity int) (*SyncMeter, error) {
	m, err := meter.New(capacity)
	if err != nil {
		return nil, err
	}
	return &SyncMeter{m: m}, nil
}

// Apply records ev. A reset event replaces the meter with an empty one.
func (s *SyncMeter) Apply(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ev.Kind == KindReset {
		m, err := meter.New(s.m.Capacity())
		if err != nil {
			return err
		}
		s.m = m
		return nil
	}
	return Apply(s.m, ev)
}

// Read returns both speeds and the newest sample under one lock.
func (s *SyncMeter) Read() Reading {
	s.mu.Lock()
	defer s.mu.Unlock()
	var r Reading
	r.Speed, r.SpeedOK = s.m.Speed()
	r.Average, r.AverageOK = s.m.AvgSpeed()
	r.Latest = s.m.Latest()
	return r
}
