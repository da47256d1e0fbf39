package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/ripah/internal/config"
	"github.com/verte-zerg/ripah/internal/logging"
	"github.com/verte-zerg/ripah/internal/meter"
	"github.com/verte-zerg/ripah/internal/relay"
)

var (
	listenURL      string
	listenSubject  string
	listenWindow   int
	listenTickMs   int
	listenLogLevel string
)

func newListenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Mirror a practice session's speed meter from NATS",
		Args:  cobra.NoArgs,
		RunE:  runListenCmd,
	}
	cmd.Flags().StringVar(&listenURL, "url", nats.DefaultURL, "NATS server URL")
	cmd.Flags().StringVar(&listenSubject, "subject", relay.DefaultSubject, "NATS subject for meter events")
	cmd.Flags().IntVar(&listenWindow, "window", defaultWindow, "speed meter window in samples")
	cmd.Flags().IntVar(&listenTickMs, "tick-ms", defaultTickMs, "status line interval in milliseconds")
	cmd.Flags().StringVar(&listenLogLevel, "log-level", defaultLogLevel, "log level (error, warn, info, debug)")
	return cmd
}

func runListenCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyConfig(cmd, "url", &listenURL, fileCfg.Relay.URL)
	applyConfig(cmd, "subject", &listenSubject, fileCfg.Relay.Subject)
	applyConfig(cmd, "window", &listenWindow, fileCfg.Meter.Window)
	applyConfig(cmd, "tick-ms", &listenTickMs, fileCfg.Meter.TickMs)
	applyConfig(cmd, "log-level", &listenLogLevel, fileCfg.Log.Level)

	if listenTickMs <= 0 {
		return fmt.Errorf("--tick-ms must be > 0")
	}
	level, err := logging.ParseLevel(listenLogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, level)

	sm, err := relay.NewSyncMeter(listenWindow)
	if err != nil {
		return fmt.Errorf("--window: %w", err)
	}

	nc, err := relay.Connect(listenURL, "ripah-listen")
	if err != nil {
		return err
	}
	defer nc.Close()

	sub, err := relay.Subscribe(nc, listenSubject, func(ev relay.Event) {
		if err := sm.Apply(ev); err != nil {
			logger.Warn("dropped meter event", "err", err)
			return
		}
		if ev.Kind == relay.KindReset {
			logger.Info("new session started")
			return
		}
		logger.Debug("meter event", "kind", ev.Kind, "mark", ev.Mark, "value", ev.Value)
	}, func(err error) {
		logger.Warn("dropped malformed payload", "err", err)
	})
	if err != nil {
		return err
	}
	logger.Info("listening for meter events", "url", listenURL, "subject", sub.Subject)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return printReadings(ctx, cmd.OutOrStdout(), sm, time.Duration(listenTickMs)*time.Millisecond)
	})
	g.Go(func() error {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil {
			return fmt.Errorf("failed to unsubscribe: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// printReadings writes a status line every interval until ctx is done.
func printReadings(ctx context.Context, w io.Writer, sm *relay.SyncMeter, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprintln(w, formatReading(sm.Read())); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
}

func formatReading(r relay.Reading) string {
	return strings.Join([]string{
		"Speed: " + meter.FormatSpeed(r.Speed, r.SpeedOK),
		"Average: " + meter.FormatSpeed(r.Average, r.AverageOK),
		fmt.Sprintf("Words: %d", meter.Words(r.Latest.Value)),
	}, "  ")
}
