// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/ripah/internal/generator"
	"github.com/verte-zerg/ripah/internal/model"
	"github.com/verte-zerg/ripah/internal/relay"
	"github.com/verte-zerg/ripah/internal/session"
	statsPkg "github.com/verte-zerg/ripah/internal/stats"
)

// Store is the persistence the practice screen needs.
type Store interface {
	InsertSession(ctx context.Context, stats model.SessionStats) (int64, error)
	ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error)
	GetWeakChars(ctx context.Context, window int, lang string) ([]model.CharAggregate, error)
}

// weakFactor is the extra weight per weak rune when picking words.
const weakFactor = 2.0

type tickMsg struct {
	id int
	at time.Time
}

type keyMap struct {
	Quit    key.Binding
	Restart key.Binding
	Next    key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	Restart: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "new text")),
	Next:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next text")),
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	store    Store
	gen      *generator.Generator
	words    []string
	punctSet []rune
	weakSet  map[rune]struct{}
	logger   *slog.Logger
	publish  func(relay.Event)
	now      func() time.Time

	width  int
	height int

	session *session.Session
	tickID  int
	saved   bool
	err     error

	progress progress.Model
	help     help.Model

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM      float64
	allAcc      float64
	allCorrect  int
	allMistakes int
	allDuration int64
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mistakeWordStyle = incorrectStyle.Underline(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	doneStatusStyle  = statusStyle.Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Option customizes a Model.
type Option func(*Model)

// WithLogger sets the logger used for store failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithPublisher forwards every meter sample to fn.
func WithPublisher(fn func(relay.Event)) Option {
	return func(m *Model) {
		m.publish = fn
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// WithWeakSet seeds the weak characters used for word selection.
func WithWeakSet(weak map[rune]struct{}) Option {
	return func(m *Model) {
		m.weakSet = weak
	}
}

// NewModel constructs a typing TUI model.
func NewModel(cfg model.Config, st Store, gen *generator.Generator, words []string, opts ...Option) (*Model, error) {
	m := &Model{
		config:   cfg,
		store:    st,
		gen:      gen,
		words:    words,
		punctSet: []rune(cfg.PunctSet),
		weakSet:  map[rune]struct{}{},
		logger:   slog.Default(),
		now:      time.Now,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.resetSession(); err != nil {
		return nil, err
	}
	m.loadFooterStats()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(m.contentWidth()/2, 10)
		return m, nil
	case tickMsg:
		if msg.id != m.tickID || !m.session.Running() {
			return m, nil
		}
		m.session.Tick(msg.at)
		return m, m.tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Restart):
		return m, m.restart()
	case key.Matches(msg, keys.Next):
		if m.session.Done() {
			return m, m.restart()
		}
		return m, nil
	}

	wasRunning := m.session.Running()
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.session.Backspace(m.now())
	case tea.KeySpace:
		m.session.Type(' ', m.now())
	case tea.KeyRunes:
		// A paste can carry runes past the end of the text.
		for _, r := range msg.Runes {
			if m.session.Type(r, m.now()) == session.Complete {
				break
			}
		}
	default:
		return m, nil
	}

	if m.session.Done() && !m.saved {
		m.finishSession()
		return m, nil
	}
	if !wasRunning && m.session.Running() {
		m.tickID++
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) tick() tea.Cmd {
	id := m.tickID
	return tea.Tick(m.config.Tick, func(t time.Time) tea.Msg {
		return tickMsg{id: id, at: t}
	})
}

func (m *Model) restart() tea.Cmd {
	m.tickID++
	if err := m.resetSession(); err != nil {
		m.err = err
		return tea.Quit
	}
	return nil
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// View implements tea.Model.
func (m *Model) View() string {
	target := m.session.Target()
	input := m.session.Input()
	cursorIndex := -1
	if len(input) < len(target) {
		cursorIndex = len(input)
	}
	styledRunes := buildStyledRunes(target, input, cursorIndex)
	status := m.renderStatus()
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes) + "\n" + status
	}
	contentWidth := m.contentWidth()
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(contentWidth).Render(wrapped),
		"",
		m.progress.ViewAs(m.session.Snapshot(m.now()).Progress),
		status,
	)
	footer := m.renderFooter()
	if m.height < 4 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	return max(int(float64(m.width)*0.70), 1)
}

func (m *Model) renderStatus() string {
	snap := m.session.Snapshot(m.now())
	line := strings.Join(snap.Labels(), "  ")
	if snap.Done {
		return doneStatusStyle.Render(line + "  (enter: next text)")
	}
	return statusStyle.Render(line)
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	segments = append(segments, m.help.View(keys))
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	sessions, err := m.store.ListSessions(context.Background(), model.StatsConfig{Lang: m.config.Lang})
	if err != nil {
		m.logger.Error("failed to load session stats", "err", err)
		return
	}
	if len(sessions) == 0 {
		return
	}
	last := sessions[len(sessions)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(last.Correct, last.Mistakes, last.DurationMs)
	m.hasLast = true
	for _, s := range sessions {
		m.allCorrect += s.Correct
		m.allMistakes += s.Mistakes
		m.allDuration += s.DurationMs
	}
	m.allWPM, _, m.allAcc = statsPkg.SessionMetrics(m.allCorrect, m.allMistakes, m.allDuration)
}

func (m *Model) resetSession() error {
	text := m.gen.Text(m.words, generator.Options{
		Count:    m.config.Words,
		CapsPct:  m.config.CapsPct,
		PunctPct: m.config.PunctPct,
		PunctSet: m.punctSet,
		Weak:     m.weakSet,
		Factor:   weakFactor,
	})
	s, err := session.New(text, m.config.MeterWindow)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if m.publish != nil {
		s.Observe(m.publish)
	}
	m.session = s
	m.saved = false
	return nil
}

func (m *Model) finishSession() {
	if m.saved {
		return
	}
	m.saved = true
	stats := m.session.Result(m.now())
	stats.Lang = m.config.Lang
	stats.Words = m.config.Words

	ctx := context.Background()
	if _, err := m.store.InsertSession(ctx, stats); err != nil {
		m.logger.Error("failed to save session", "err", err)
	} else {
		m.logger.Info("session saved",
			"duration_ms", stats.DurationMs,
			"avg_wpm", stats.AvgWPM,
			"peak_wpm", stats.PeakWPM,
			"mistakes", stats.Mistakes)
	}

	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(stats.Correct, stats.Mistakes, stats.DurationMs)
	m.hasLast = true
	m.allCorrect += stats.Correct
	m.allMistakes += stats.Mistakes
	m.allDuration += stats.DurationMs
	m.allWPM, _, m.allAcc = statsPkg.SessionMetrics(m.allCorrect, m.allMistakes, m.allDuration)

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	aggs, err := m.store.GetWeakChars(context.Background(), m.config.WeakWindow, m.config.Lang)
	if err != nil {
		m.logger.Error("failed to load weak chars", "err", err)
		return
	}
	m.weakSet = statsPkg.SelectWeakChars(aggs, m.config.WeakTop)
	if len(m.weakSet) == 0 {
		m.logger.Info("no weak characters yet; using uniform word selection")
	}
}
