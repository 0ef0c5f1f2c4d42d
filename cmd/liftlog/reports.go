package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/liftlog/internal/logging"
	"github.com/verte-zerg/liftlog/internal/plates"
	"github.com/verte-zerg/liftlog/internal/score"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/statsui"
	"github.com/verte-zerg/liftlog/internal/store"
)

const (
	defaultMuscleDays = 14
	defaultTopCount   = 5
)

var (
	reportWeekMode string

	statsWeekMode string

	musclesDays int
	musclesTop  int

	platesBar       float64
	platesAvailable []float64
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report EXERCISE",
		Short: "Print scores, progress and plots for an exercise",
		Args:  cobra.ExactArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportWeekMode, "week-mode", "", "weekly aggregation: first or mean")
	return cmd
}

// weekModeFlag returns the flag's mode, falling back to the configured one.
func weekModeFlag(cmd *cobra.Command, value string) (score.WeekMode, error) {
	if !cmd.Flags().Changed("week-mode") {
		return cfg.WeekMode, nil
	}
	mode, err := score.ParseWeekMode(value)
	if err != nil {
		return "", fmt.Errorf("invalid --week-mode: %w", err)
	}
	return mode, nil
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	mode, err := weekModeFlag(cmd, reportWeekMode)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		ex, err := st.GetExercise(cmd.Context(), strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		report, err := stats.BuildReport(cmd.Context(), st, ex.Name, mode)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		return stats.RenderReport(cmd.OutOrStdout(), report, stats.CurveOptions{
			TrendWindow: cfg.TrendWindow,
			Height:      cfg.PlotHeight,
		})
	})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats [EXERCISE]",
		Short: "Browse stats interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsWeekMode, "week-mode", "", "weekly aggregation: first or mean")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	mode, err := weekModeFlag(cmd, statsWeekMode)
	if err != nil {
		return err
	}
	return withStore(func(st *store.Store) error {
		opts := statsui.Options{
			Mode:        mode,
			TrendWindow: cfg.TrendWindow,
			PlotHeight:  cfg.PlotHeight,
		}
		if len(args) == 1 {
			ex, err := st.GetExercise(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			opts.Exercise = ex.Name
		}
		program := tea.NewProgram(statsui.NewModel(st, opts), tea.WithAltScreen())
		restore := logging.DetachTerminal()
		_, err := program.Run()
		restore()
		if err != nil {
			return fmt.Errorf("failed to run stats TUI: %w", err)
		}
		return nil
	})
}

func newMusclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "muscles",
		Short: "Show work sets per muscle group, least trained first",
		Args:  cobra.NoArgs,
		RunE:  runMusclesCmd,
	}
	cmd.Flags().IntVar(&musclesDays, "days", defaultMuscleDays, "window in days")
	cmd.Flags().IntVar(&musclesTop, "top", 0, "only show the N least trained muscle groups")
	return cmd
}

func runMusclesCmd(cmd *cobra.Command, _ []string) error {
	if musclesDays <= 0 {
		return fmt.Errorf("--days must be > 0")
	}
	if musclesTop < 0 {
		return fmt.Errorf("--top must be >= 0")
	}
	since := startOfDay(time.Now()).AddDate(0, 0, -(musclesDays - 1))
	return withStore(func(st *store.Store) error {
		exercises, err := st.ListExercises(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list exercises: %w", err)
		}
		counts, err := st.WorkSetCountsSince(cmd.Context(), since)
		if err != nil {
			return fmt.Errorf("failed to count work sets: %w", err)
		}
		loads := stats.SelectUndertrained(stats.ComputeMuscleLoad(exercises, counts), musclesTop)
		w := cmd.OutOrStdout()
		if err := stats.RenderMuscleLoad(w, loads, musclesDays); err != nil {
			return err
		}
		return renderTopExercises(w, stats.TopExercises(counts, defaultTopCount))
	})
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func renderTopExercises(w io.Writer, top []stats.ExerciseCount) error {
	if len(top) == 0 {
		return nil
	}
	parts := make([]string, len(top))
	for i, c := range top {
		parts[i] = fmt.Sprintf("%s (%d)", c.Exercise, c.Sets)
	}
	_, err := fmt.Fprintf(w, "\nMost trained: %s\n", strings.Join(parts, ", "))
	return err
}

func newPlatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plates WEIGHT",
		Short: "Show the plates to load on each side of the bar",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlatesCmd,
	}
	cmd.Flags().Float64Var(&platesBar, "bar", 0, "bar weight (default from config)")
	cmd.Flags().Float64SliceVar(&platesAvailable, "plates", nil, "plates available per side, e.g. 20,20,10,5")
	return cmd
}

func runPlatesCmd(cmd *cobra.Command, args []string) error {
	target, err := strconv.ParseFloat(strings.ReplaceAll(args[0], ",", "."), 64)
	if err != nil {
		return fmt.Errorf("invalid weight %q", args[0])
	}
	bar := cfg.Bar
	if cmd.Flags().Changed("bar") {
		bar = platesBar
	}
	available := cfg.Plates
	if cmd.Flags().Changed("plates") {
		available = platesAvailable
	}
	b, err := plates.Load(target, bar, available)
	if errors.Is(err, plates.ErrBelowBar) {
		return fmt.Errorf("%s is lighter than the %s bar", stats.FormatWeight(target), stats.FormatWeight(bar))
	}
	if err != nil {
		return err
	}
	return renderBreakdown(cmd.OutOrStdout(), b)
}

func renderBreakdown(w io.Writer, b plates.Breakdown) error {
	side := "nothing"
	if len(b.PerSide.Plates) > 0 {
		parts := make([]string, len(b.PerSide.Plates))
		for i, p := range b.PerSide.Plates {
			parts[i] = stats.FormatWeight(p)
		}
		side = strings.Join(parts, " + ")
	}
	lines := []string{
		fmt.Sprintf("Bar:      %s", stats.FormatWeight(b.Bar)),
		fmt.Sprintf("Per side: %s", side),
		fmt.Sprintf("Total:    %s", stats.FormatWeight(b.Loaded)),
	}
	if !b.Exact() {
		lines = append(lines, fmt.Sprintf("%s cannot be loaded exactly; closest is %s.",
			stats.FormatWeight(b.Target), stats.FormatWeight(b.Loaded)))
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}
