package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/musaed-ai/musaed/pkg/history"
	"github.com/musaed-ai/musaed/pkg/logging"
	"github.com/musaed-ai/musaed/pkg/models"
)

func newHistoryCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Query and manage the question transcript",
	}

	cmd.AddCommand(
		newHistorySearchCmd(configPath),
		newHistoryShowCmd(configPath),
		newHistoryStatsCmd(configPath),
		newHistoryCleanupCmd(configPath),
	)
	return cmd
}

func newHistorySearchCmd(configPath *string) *cobra.Command {
	var (
		channel string
		source  string
		since   string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search transcript entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openHistory(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			opts := models.HistoryQueryOpts{
				Channel: channel,
				Source:  models.Source(source),
				Limit:   limit,
			}
			if since != "" {
				t, err := time.Parse("2006-01-02", since)
				if err != nil {
					return fmt.Errorf("invalid --since date (use YYYY-MM-DD): %w", err)
				}
				opts.Since = t
			}

			entries, err := l.Query(context.Background(), opts)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatHistoryEntries(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&channel, "channel", "", "filter by channel (cli, http, mcp, dns)")
	cmd.Flags().StringVar(&source, "source", "", "filter by answer source")
	cmd.Flags().StringVar(&since, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "max entries to return")
	return cmd
}

func newHistoryShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <request-id>",
		Short: "Show a single transcript entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openHistory(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := l.Query(context.Background(), models.HistoryQueryOpts{
				RequestID: args[0],
				Limit:     1,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No entry found for that request ID.")
				return nil
			}

			e := entries[0]
			fmt.Fprintf(out, "Request ID:  %s\n", e.RequestID)
			fmt.Fprintf(out, "Channel:     %s\n", e.Channel)
			fmt.Fprintf(out, "Source:      %s\n", e.Source)
			if e.Category != "" {
				fmt.Fprintf(out, "Category:    %s\n", e.Category)
			}
			fmt.Fprintf(out, "Answered in: %.2fms\n", float64(e.ResponseTimeUs)/1000)
			fmt.Fprintf(out, "Time:        %s\n", e.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "\n--- Question ---\n%s\n", e.Question)
			fmt.Fprintf(out, "\n--- Answer ---\n%s\n", e.Answer)
			return nil
		},
	}
}

func newHistoryStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show answer counts by source and day",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openHistory(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			stats, err := l.Stats(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatHistoryStats(stats))
			return nil
		},
	}
}

func newHistoryCleanupCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Delete entries older than the retention period",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, cleanup, err := openHistory(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			deleted, err := l.Cleanup(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d transcript entries.\n", deleted)
			return nil
		},
	}
}

// openHistory opens the transcript database even when recording is off, so
// old transcripts stay readable.
func openHistory(configPath string) (*history.Logger, func(), error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}

	l, err := history.New(cfg.History, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open history db: %w", err)
	}
	return l, func() { _ = l.Close() }, nil
}

func formatHistoryEntries(entries []models.HistoryEntry) string {
	if len(entries) == 0 {
		return "No transcript entries found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-36s %-7s %-10s %9s %-20s %s\n",
		"REQUEST ID", "CHANNEL", "SOURCE", "TIME", "AT", "QUESTION")
	b.WriteString(strings.Repeat("-", 120) + "\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%-36s %-7s %-10s %7.2fms %-20s %s\n",
			e.RequestID, e.Channel, e.Source,
			float64(e.ResponseTimeUs)/1000,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			e.Question)
	}
	return b.String()
}

func formatHistoryStats(stats []models.HistoryStat) string {
	if len(stats) == 0 {
		return "No transcript stats found.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-12s %8s\n", "SOURCE", "DAY", "COUNT")
	b.WriteString(strings.Repeat("-", 34) + "\n")
	for _, s := range stats {
		fmt.Fprintf(&b, "%-12s %-12s %8d\n", s.Source, s.Day, s.Count)
	}
	return b.String()
}
