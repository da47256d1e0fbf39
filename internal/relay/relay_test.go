package relay

import (
	"encoding/json"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/verte-zerg/ripah/internal/meter"
)

func TestApplyReplaysScenario(t *testing.T) {
	m, err := meter.New(3)
	if err != nil {
		t.Fatalf("new meter: %v", err)
	}
	events := []Event{
		{Kind: KindProgress, Mark: 100, Value: 5},
		{Kind: KindProgress, Mark: 200, Value: 10},
		{Kind: KindProgress, Mark: 300, Value: 15},
		{Kind: KindNoProgress, Mark: 400},
	}
	for _, ev := range events {
		if err := Apply(m, ev); err != nil {
			t.Fatalf("apply %+v: %v", ev, err)
		}
	}
	speed, ok := m.Speed()
	if !ok || math.Abs(speed-0.025) > 1e-9 {
		t.Fatalf("expected speed 0.025, got %v (ok=%v)", speed, ok)
	}
}

func TestApplyUnknownKind(t *testing.T) {
	m, err := meter.New(2)
	if err != nil {
		t.Fatalf("new meter: %v", err)
	}
	if err := Apply(m, Event{Kind: "typo", Mark: 10}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if m.Latest() != (meter.Sample{}) {
		t.Fatalf("unknown event must not be recorded")
	}
}

func TestApplyResetNeedsNewMeter(t *testing.T) {
	m, err := meter.New(2)
	if err != nil {
		t.Fatalf("new meter: %v", err)
	}
	if err := Apply(m, Event{Kind: KindReset}); !errors.Is(err, ErrReset) {
		t.Fatalf("expected ErrReset, got %v", err)
	}
}

func TestSyncMeterResetStartsNewWindow(t *testing.T) {
	sm, err := NewSyncMeter(4)
	if err != nil {
		t.Fatalf("new sync meter: %v", err)
	}
	events := []Event{
		{Kind: KindReset},
		{Kind: KindProgress, Mark: 0, Value: 0},
		{Kind: KindProgress, Mark: 1000, Value: 10},
		{Kind: KindProgress, Mark: 2000, Value: 20},
		{Kind: KindProgress, Mark: 3000, Value: 30},
		// Next text: marks restart at 0.
		{Kind: KindReset},
		{Kind: KindProgress, Mark: 0, Value: 1},
		{Kind: KindProgress, Mark: 2000, Value: 11},
		{Kind: KindProgress, Mark: 4000, Value: 21},
	}
	for _, ev := range events {
		if err := sm.Apply(ev); err != nil {
			t.Fatalf("apply %+v: %v", ev, err)
		}
	}
	r := sm.Read()
	// Window: (0,0) (0,1) (2000,11) (4000,21), oldest is the zero sample.
	if !r.SpeedOK || math.Abs(r.Speed-21.0/4000) > 1e-9 {
		t.Fatalf("expected speed %v, got %v (ok=%v)", 21.0/4000, r.Speed, r.SpeedOK)
	}
	if !r.AverageOK || math.Abs(r.Average-21.0/4000) > 1e-9 {
		t.Fatalf("expected average %v, got %v", 21.0/4000, r.Average)
	}
	if r.Latest != (meter.Sample{Mark: 4000, Value: 21}) {
		t.Fatalf("unexpected latest sample %+v", r.Latest)
	}
}

func TestDecode(t *testing.T) {
	data, err := json.Marshal(Event{Kind: KindNoProgress, Mark: 1500, Value: 42})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ev, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != KindNoProgress || ev.Mark != 1500 || ev.Value != 42 {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if _, err := Decode([]byte("{")); err == nil {
		t.Fatalf("expected decode error for truncated payload")
	}
}

func TestSyncMeterConcurrentApply(t *testing.T) {
	sm, err := NewSyncMeter(8)
	if err != nil {
		t.Fatalf("new sync meter: %v", err)
	}
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := sm.Apply(Event{Kind: KindNoProgress, Mark: int64(i)}); err != nil {
				t.Errorf("apply: %v", err)
			}
			_ = sm.Read()
		}(i)
	}
	wg.Wait()
	r := sm.Read()
	if r.Latest.Value != 0 {
		t.Fatalf("expected value 0, got %d", r.Latest.Value)
	}
}

func TestNewSyncMeterInvalidCapacity(t *testing.T) {
	if _, err := NewSyncMeter(0); err == nil {
		t.Fatalf("expected error for zero capacity")
	}
}
