package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/ripah/internal/config"
	"github.com/verte-zerg/ripah/internal/model"
	"github.com/verte-zerg/ripah/internal/stats"
	"github.com/verte-zerg/ripah/internal/store"
)

const defaultCurveWindow = 20

var (
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int

	exportFormat string
)

func addStatsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	addStatsFlags(cmd)
	return cmd
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export session history",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	addStatsFlags(cmd)
	cmd.Flags().StringVar(&exportFormat, "format", "yaml", "output format (yaml)")
	return cmd
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func loadReport(ctx context.Context) (stats.Report, model.StatsConfig, error) {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return stats.Report{}, cfg, err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return stats.Report{}, cfg, fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return stats.Report{}, cfg, fmt.Errorf("failed to build report: %w", err)
	}
	return report, cfg, nil
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	report, cfg, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	return renderReport(cmd.OutOrStdout(), report, cfg, stats.TerminalWidth(os.Stdout))
}

func renderReport(w io.Writer, report stats.Report, cfg model.StatsConfig, width int) error {
	if err := stats.RenderSummary(w, report.Sessions); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if len(report.Sessions) == 0 {
		return nil
	}
	if err := stats.RenderTrend(w, report.Sessions, cfg.CurveWindow, width); err != nil {
		return fmt.Errorf("failed to render trend: %w", err)
	}
	if len(report.CharAggsWindow) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "\nCharacters (last %d sessions)\n", len(report.WindowSessionIDs)); err != nil {
		return err
	}
	if err := stats.RenderCharTable(w, report.CharAggsWindow); err != nil {
		return fmt.Errorf("failed to render char table: %w", err)
	}
	return nil
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if exportFormat != "yaml" {
		return fmt.Errorf("unsupported --format %q (supported: yaml)", exportFormat)
	}
	report, _, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	if err := stats.ExportYAML(cmd.OutOrStdout(), report); err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}
	return nil
}
