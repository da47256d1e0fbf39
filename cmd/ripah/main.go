// Package main provides the CLI entrypoint for ripah.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/ripah/internal/config"
	"github.com/verte-zerg/ripah/internal/generator"
	"github.com/verte-zerg/ripah/internal/logging"
	"github.com/verte-zerg/ripah/internal/model"
	"github.com/verte-zerg/ripah/internal/relay"
	"github.com/verte-zerg/ripah/internal/stats"
	"github.com/verte-zerg/ripah/internal/store"
	"github.com/verte-zerg/ripah/internal/tui"
	"github.com/verte-zerg/ripah/internal/wordlist"
)

const (
	defaultLang       = "en"
	defaultWords      = 25
	defaultCaps       = 0.5
	defaultPunct      = 0.5
	defaultWeakTop    = 8
	defaultWeakWindow = 20
	defaultWindow     = 20
	defaultTickMs     = 500
	defaultLogLevel   = "info"
)

const defaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

var (
	practiceLang       string
	practiceWords      int
	practiceCaps       float64
	practicePunct      float64
	practicePunctSet   string
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakWindow int
	practiceWindow     int
	practiceTickMs     int
	practiceLogLevel   string
	practiceRelayURL   string
	practiceSubject    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ripah",
		Short:         "Typing practice with a live speed meter",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code (default: en)")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per text")
	rootCmd.Flags().Float64Var(&practiceCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&practicePunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&practicePunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak characters")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak chars")
	rootCmd.Flags().IntVar(&practiceWindow, "window", defaultWindow, "speed meter window in samples")
	rootCmd.Flags().IntVar(&practiceTickMs, "tick-ms", defaultTickMs, "idle sampling interval in milliseconds")
	rootCmd.Flags().StringVar(&practiceLogLevel, "log-level", defaultLogLevel, "log level (error, warn, info, debug)")
	rootCmd.Flags().StringVar(&practiceRelayURL, "relay-url", "", "NATS server to publish meter events to")
	rootCmd.Flags().StringVar(&practiceSubject, "relay-subject", relay.DefaultSubject, "NATS subject for meter events")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newListenCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyPracticeConfig(cmd, fileCfg)

	cfg := model.Config{
		Lang:        practiceLang,
		Words:       practiceWords,
		CapsPct:     practiceCaps,
		PunctPct:    practicePunct,
		PunctSet:    practicePunctSet,
		FocusWeak:   practiceFocusWeak,
		WeakTop:     practiceWeakTop,
		WeakWindow:  practiceWeakWindow,
		MeterWindow: practiceWindow,
		Tick:        time.Duration(practiceTickMs) * time.Millisecond,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	logger, closeLog, err := openPracticeLog(fileCfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	wordPath := config.DefaultWordListPath(cfg.Lang)
	wordsList, fromFile, err := wordlist.Load(wordPath, cfg.Lang)
	if err != nil {
		return wordListLoadError(cfg.Lang, wordPath, err)
	}
	if !fromFile {
		logger.Info("using embedded word list", "path", wordPath)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Error("failed to close db", "err", cerr)
		}
	}()

	opts := []tui.Option{tui.WithLogger(logger)}
	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow, cfg.Lang)
		if err != nil {
			logger.Error("failed to load weak chars", "err", err)
		} else {
			weakSet := stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-char focus yet; using normal generator")
			}
			opts = append(opts, tui.WithWeakSet(weakSet))
		}
	}

	if practiceRelayURL != "" {
		nc, err := relay.Connect(practiceRelayURL, "ripah")
		if err != nil {
			return err
		}
		defer nc.Close()
		pub := relay.NewPublisher(nc, practiceSubject)
		opts = append(opts, tui.WithPublisher(func(ev relay.Event) {
			if err := pub.Publish(ev); err != nil {
				logger.Warn("failed to publish meter event", "err", err)
			}
		}))
		logger.Info("publishing meter events", "url", practiceRelayURL, "subject", practiceSubject)
	}

	m, err := tui.NewModel(cfg, st, generator.New(), wordsList, opts...)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return m.Err()
}

func applyPracticeConfig(cmd *cobra.Command, fileCfg config.FileConfig) {
	applyConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyConfig(cmd, "caps", &practiceCaps, fileCfg.Practice.CapsPct)
	applyConfig(cmd, "punct", &practicePunct, fileCfg.Practice.PunctPct)
	applyConfig(cmd, "punct-set", &practicePunctSet, fileCfg.Practice.PunctSet)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)
	applyConfig(cmd, "window", &practiceWindow, fileCfg.Meter.Window)
	applyConfig(cmd, "tick-ms", &practiceTickMs, fileCfg.Meter.TickMs)
	applyConfig(cmd, "log-level", &practiceLogLevel, fileCfg.Log.Level)
	applyConfig(cmd, "relay-url", &practiceRelayURL, fileCfg.Relay.URL)
	applyConfig(cmd, "relay-subject", &practiceSubject, fileCfg.Relay.Subject)
}

// openPracticeLog opens the log file; the terminal belongs to the TUI.
func openPracticeLog(logCfg config.LogConfig) (*slog.Logger, func(), error) {
	level, err := logging.ParseLevel(practiceLogLevel)
	if err != nil {
		return nil, nil, err
	}
	path := config.DefaultLogPath()
	if logCfg.File != nil && *logCfg.File != "" {
		path = *logCfg.File
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(f, level)
	closeLog := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return logger, closeLog, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List installed wordlist languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := installedLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// installedLangs lists the *.txt word lists in dir. English is always
// available through the embedded list.
func installedLangs(dir string) ([]string, error) {
	seen := map[string]struct{}{defaultLang: {}}
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		seen[strings.TrimSuffix(name, ".txt")] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# ripah configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = "en"             # Language code (default %q)
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# focus-weak = false      # Bias practice toward weak characters
# weak-top = %d           # Number of weak characters to focus on
# weak-window = %d        # Number of recent sessions to compute weak chars

[meter]
# window = %d             # Samples kept by the speed meter
# tick-ms = %d            # Idle sampling interval in milliseconds

[log]
# level = %q              # error, warn, info or debug
# file = ""               # Defaults to $XDG_STATE_HOME/ripah/ripah.log

[relay]
# url = "nats://127.0.0.1:4222"   # Publish meter events to NATS
# subject = %q
`,
		defaultLang,
		defaultWords,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakWindow,
		defaultWindow,
		defaultTickMs,
		defaultLogLevel,
		relay.DefaultSubject,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.MeterWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}
	if cfg.Tick <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: ripah langs",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format, args...)
}

func logErrln(args ...any) {
	_, _ = fmt.Fprintln(os.Stderr, args...)
}
