package session

import (
	"fmt"
	"time"

	"github.com/verte-zerg/ripah/internal/meter"
)

// Snapshot is what the status bar shows at a point in time.
type Snapshot struct {
	Speed      string
	Average    string
	SpeedWPM   float64
	SpeedOK    bool
	AverageWPM float64
	AverageOK  bool
	Words      int
	Elapsed    time.Duration
	Mistakes   int
	Progress   float64
	Running    bool
	Done       bool
}

// Snapshot reads the meter and session counters.
func (s *Session) Snapshot(now time.Time) Snapshot {
	speed, speedOK := s.meter.Speed()
	avg, avgOK := s.meter.AvgSpeed()
	snap := Snapshot{
		Speed:     meter.FormatSpeed(speed, speedOK),
		Average:   meter.FormatSpeed(avg, avgOK),
		SpeedOK:   speedOK,
		AverageOK: avgOK,
		Words:     meter.Words(s.meter.Value()),
		Elapsed:   s.Elapsed(now),
		Mistakes:  s.mistakes,
		Running:   s.Running(),
		Done:      s.done,
	}
	if speedOK {
		snap.SpeedWPM = meter.WPM(speed)
	}
	if avgOK {
		snap.AverageWPM = meter.WPM(avg)
	}
	if len(s.target) > 0 {
		snap.Progress = float64(s.meter.Value()) / float64(len(s.target))
		if snap.Progress > 1 {
			snap.Progress = 1
		}
		if snap.Progress < 0 {
			snap.Progress = 0
		}
	}
	return snap
}

// Labels renders the snapshot as status bar segments.
func (snap Snapshot) Labels() []string {
	return []string{
		"Speed: " + snap.Speed,
		"Average: " + snap.Average,
		fmt.Sprintf("Words: %d", snap.Words),
		fmt.Sprintf("Time: %ds", int64(snap.Elapsed/time.Second)),
		fmt.Sprintf("Mistakes: %d", snap.Mistakes),
	}
}
