// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Lang       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	FocusWeak  bool
	WeakTop    int
	WeakWindow int

	// MeterWindow is the number of samples the speed meter keeps.
	MeterWindow int
	// Tick is the interval of the status refresh timer.
	Tick time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionStats captures a completed typing session.
type SessionStats struct {
	StartedAt   time.Time
	EndedAt     time.Time
	Lang        string
	Words       int
	Chars       int
	Correct     int
	Mistakes    int
	DurationMs  int64
	AvgWPM      float64
	PeakWPM     float64
	MeterWindow int
	CharStats   []CharStats
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char      string
	Correct   int
	Incorrect int
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char      string
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64     `yaml:"id"`
	EndedAt    time.Time `yaml:"ended_at"`
	Lang       string    `yaml:"lang"`
	Chars      int       `yaml:"chars"`
	Correct    int       `yaml:"correct"`
	Mistakes   int       `yaml:"mistakes"`
	DurationMs int64     `yaml:"duration_ms"`
	AvgWPM     float64   `yaml:"avg_wpm"`
	PeakWPM    float64   `yaml:"peak_wpm"`
}
