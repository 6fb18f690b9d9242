package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/claude/freetimer/internal/history"
	"github.com/claude/freetimer/internal/models"
	"github.com/claude/freetimer/internal/stats"
	"github.com/claude/freetimer/internal/timer"
)

func newHistoryCmd(configPath *string) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Browse and edit saved workouts"}

	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved workouts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			return printRecords(cmd.OutOrStdout(), newestFirst(a.Store.List(), limit))
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "maximum number of workouts (0 for all)")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete one workout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parsing workout id: %w", err)
			}
			ctx := context.Background()
			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.Remove(ctx, id); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every saved workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			n := len(a.Store.List())
			if err := a.Store.Clear(ctx); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cleared %d workouts\n", n)
			return nil
		},
	}

	history.AddCommand(listCmd, deleteCmd, clearCmd)
	return history
}

// newestFirst sorts records by completion time and keeps at most limit of
// them; limit <= 0 keeps all.
func newestFirst(records []models.WorkoutRecord, limit int) []models.WorkoutRecord {
	history.SortNewestFirst(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records
}

func printRecords(w io.Writer, records []models.WorkoutRecord) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no workouts")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWORKOUT\tDURATION\tCOMPLETED\tNOTES")
	for _, r := range records {
		notes := ""
		if r.Notes != nil {
			notes = *r.Notes
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\n",
			r.ID, recordEmoji(r), r.Category,
			timer.FormatClock(r.DurationSeconds),
			r.CompletedAt.Local().Format("2006-01-02 15:04"),
			notes)
	}
	return tw.Flush()
}

func recordEmoji(r models.WorkoutRecord) string {
	sel, ok := models.ParseLabel(r.Category)
	if !ok {
		return models.CategoryOther.Emoji()
	}
	return sel.Category.Emoji()
}

func newStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show workout statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			a, err := loadApp(ctx, *configPath, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			return printSummary(cmd.OutOrStdout(), a.Stats.Summary(), a.Locale())
		},
	}
}

func printSummary(w io.Writer, s stats.Summary, loc models.Locale) error {
	fmt.Fprintf(w, "Workouts: %d\n", s.TotalCount)
	fmt.Fprintf(w, "Total:    %s\n", stats.FormatTotal(s.TotalDurationSeconds, loc))
	fmt.Fprintf(w, "Average:  %s\n", stats.FormatAverage(s, loc))
	if len(s.ByCategory) > 0 {
		fmt.Fprintln(w, "\nBy category:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range s.ByCategory {
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", c.Name, c.Count, stats.FormatTotal(c.TotalDuration, loc))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if len(s.Recent) > 0 {
		fmt.Fprintln(w, "\nRecent:")
		return printRecords(w, s.Recent)
	}
	return nil
}

func newDurationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "durations",
		Short: "Print the planned duration table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printDurations(cmd.OutOrStdout())
		},
	}
}

func printDurations(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tDIFFICULTY\tDURATION")
	for _, e := range models.DurationTable() {
		fmt.Fprintf(tw, "%s %s\t%s %s\t%s\n",
			e.Category.Emoji(), e.Category, e.Difficulty.Emoji(), e.Difficulty,
			timer.FormatClock(e.DurationSeconds))
	}
	return tw.Flush()
}
