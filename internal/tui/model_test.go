package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/ripah/internal/generator"
	"github.com/verte-zerg/ripah/internal/model"
	"github.com/verte-zerg/ripah/internal/relay"
)

type fakeStore struct {
	sessions []model.SessionAggregate
	inserted []model.SessionStats
	weak     []model.CharAggregate
	err      error
}

func (f *fakeStore) InsertSession(_ context.Context, stats model.SessionStats) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, stats)
	return int64(len(f.inserted)), nil
}

func (f *fakeStore) ListSessions(_ context.Context, _ model.StatsConfig) ([]model.SessionAggregate, error) {
	return f.sessions, f.err
}

func (f *fakeStore) GetWeakChars(_ context.Context, _ int, _ string) ([]model.CharAggregate, error) {
	return f.weak, f.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testConfig() model.Config {
	return model.Config{
		Lang:        "en",
		Words:       1,
		MeterWindow: 20,
		Tick:        500 * time.Millisecond,
		WeakTop:     3,
		WeakWindow:  10,
	}
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func newTestModel(t *testing.T, st *fakeStore, clock *fakeClock, opts ...Option) *Model {
	t.Helper()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	m, err := NewModel(testConfig(), st, generator.NewSeeded(1), []string{"ab"}, opts...)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func TestFirstKeystrokeStartsTicking(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	m := newTestModel(t, &fakeStore{}, clock)

	if string(m.session.Target()) != "ab" {
		t.Fatalf("unexpected target %q", string(m.session.Target()))
	}
	_, cmd := m.Update(runeKey('a'))
	if cmd == nil {
		t.Fatalf("expected tick command after first keystroke")
	}
	if !m.session.Running() {
		t.Fatalf("expected session to be running")
	}

	_, cmd = m.Update(tickMsg{id: m.tickID - 1, at: clock.now})
	if cmd != nil {
		t.Fatalf("expected stale tick to be dropped")
	}
	clock.advance(500 * time.Millisecond)
	_, cmd = m.Update(tickMsg{id: m.tickID, at: clock.now})
	if cmd == nil {
		t.Fatalf("expected tick to be rescheduled")
	}
}

func TestCompletingTextSavesSession(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	st := &fakeStore{}
	var events []relay.Event
	m := newTestModel(t, st, clock, WithPublisher(func(ev relay.Event) {
		events = append(events, ev)
	}))

	m.Update(runeKey('a'))
	clock.advance(300 * time.Millisecond)
	m.Update(runeKey('b'))

	if !m.session.Done() {
		t.Fatalf("expected session to be done")
	}
	if len(st.inserted) != 1 {
		t.Fatalf("expected one saved session, got %d", len(st.inserted))
	}
	saved := st.inserted[0]
	if saved.Lang != "en" || saved.Correct != 2 || saved.DurationMs != 300 {
		t.Fatalf("unexpected saved session: %+v", saved)
	}
	if len(events) == 0 {
		t.Fatalf("expected meter events to be published")
	}
	if !m.hasLast {
		t.Fatalf("expected footer to show the last session")
	}

	m.Update(runeKey('x'))
	if len(st.inserted) != 1 {
		t.Fatalf("expected finished session to be saved once")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected restart without command")
	}
	if m.session.Done() || m.session.Started() {
		t.Fatalf("expected a fresh session after enter")
	}
}

func TestPasteRunningPastEndSavesSession(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	st := &fakeStore{}
	var events []relay.Event
	m := newTestModel(t, st, clock, WithPublisher(func(ev relay.Event) {
		events = append(events, ev)
	}))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a', 'b', 'x'}})
	if cmd != nil {
		t.Fatalf("expected no tick for a finished session")
	}
	if !m.session.Done() {
		t.Fatalf("expected session to be done")
	}
	if len(st.inserted) != 1 {
		t.Fatalf("expected one saved session, got %d", len(st.inserted))
	}
	if st.inserted[0].Correct != 2 || st.inserted[0].Mistakes != 0 {
		t.Fatalf("unexpected saved session: %+v", st.inserted[0])
	}
	if !m.hasLast {
		t.Fatalf("expected footer to show the last session")
	}
	if len(events) != 3 || events[0].Kind != relay.KindReset {
		t.Fatalf("expected reset then two samples, got %+v", events)
	}
}

func TestStoreFailureDoesNotStopPractice(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	st := &fakeStore{err: errors.New("disk full")}
	m := newTestModel(t, st, clock)

	m.Update(runeKey('a'))
	m.Update(runeKey('b'))
	if !m.session.Done() {
		t.Fatalf("expected session to finish")
	}
	if m.Err() != nil {
		t.Fatalf("expected no fatal error, got %v", m.Err())
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, &fakeStore{}, &fakeClock{now: time.Unix(1000, 0)})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}

func TestWeakSetRefreshedAfterSession(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	st := &fakeStore{weak: []model.CharAggregate{{Char: "b", Correct: 1, Incorrect: 3}}}
	cfg := testConfig()
	cfg.FocusWeak = true
	m, err := NewModel(cfg, st, generator.NewSeeded(1), []string{"ab"}, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(runeKey('a'))
	m.Update(runeKey('b'))
	if _, ok := m.weakSet['b']; !ok {
		t.Fatalf("expected b in weak set, got %v", m.weakSet)
	}
}

func TestViewShowsStatusLabels(t *testing.T) {
	m := newTestModel(t, &fakeStore{}, &fakeClock{now: time.Unix(1000, 0)})
	out := m.View()
	for _, want := range []string{"Speed: ???", "Average: ???", "Words: 0", "Mistakes: 0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q: %s", want, out)
		}
	}
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if out := m.View(); !strings.Contains(out, "Speed: ???") {
		t.Fatalf("sized view missing status: %s", out)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	st := &fakeStore{sessions: []model.SessionAggregate{
		{Correct: 100, Mistakes: 0, DurationMs: 60000},
		{Correct: 200, Mistakes: 0, DurationMs: 60000},
	}}
	m := newTestModel(t, st, &fakeClock{now: time.Unix(1000, 0)})
	out := m.renderFooter()
	for _, want := range []string{"Last 40.0 WPM", "100.0%", "All-time 30.0 WPM"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}
