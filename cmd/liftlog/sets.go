package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/verte-zerg/liftlog/internal/logging"
	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/store"
	"github.com/verte-zerg/liftlog/internal/tui"
)

// Layouts accepted by --at, most specific first.
var atLayouts = []string{store.TimeLayout, "2006-01-02 15:04", "2006-01-02"}

var (
	logWeight float64
	logReps   int
	logType   string
	logAt     string
)

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log EXERCISE",
		Short: "Log sets (interactive unless --weight and --reps are given)",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogCmd,
	}
	cmd.Flags().Float64Var(&logWeight, "weight", 0, "weight lifted")
	cmd.Flags().IntVar(&logReps, "reps", 0, "repetitions")
	cmd.Flags().StringVar(&logType, "type", "work", "set type: warm, work or drop")
	cmd.Flags().StringVar(&logAt, "at", "", "timestamp (YYYY-MM-DD [HH:MM[:SS]], default now)")
	return cmd
}

func runLogCmd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	weightSet, repsSet := cmd.Flags().Changed("weight"), cmd.Flags().Changed("reps")
	if weightSet != repsSet {
		return fmt.Errorf("--weight and --reps must be given together")
	}
	if !weightSet {
		return runLogTUI(name)
	}

	setType, err := model.ParseSetType(logType)
	if err != nil {
		return err
	}
	at := time.Now()
	if logAt != "" {
		if at, err = parseAt(logAt); err != nil {
			return err
		}
	}
	return withStore(func(st *store.Store) error {
		ctx := cmd.Context()
		ex, err := st.EnsureExercise(ctx, name, cfg.Defaults)
		if err != nil {
			return fmt.Errorf("failed to load exercise: %w", err)
		}
		id, err := st.InsertSet(ctx, ex.Name, model.Set{
			PerformedAt: at,
			Weight:      logWeight,
			Reps:        logReps,
			Type:        setType,
			Scheme:      ex.Defaults,
		})
		if err != nil {
			return fmt.Errorf("failed to save set: %w", err)
		}
		logrus.WithFields(logrus.Fields{"exercise": ex.Name, "set": id}).Info("set logged")
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged set #%d: %s %s x %d %s\n",
			id, ex.Name, stats.FormatWeight(logWeight), logReps, setType)
		return err
	})
}

func runLogTUI(name string) error {
	return withStore(func(st *store.Store) error {
		m, err := tui.NewModel(st, tui.Options{
			Exercise: name,
			Defaults: cfg.Defaults,
			Bar:      cfg.Bar,
			Plates:   cfg.Plates,
		})
		if err != nil {
			return err
		}
		program := tea.NewProgram(m, tea.WithAltScreen())
		restore := logging.DetachTerminal()
		_, err = program.Run()
		restore()
		if err != nil {
			return fmt.Errorf("failed to run TUI: %w", err)
		}
		logrus.WithField("sets", m.Logged()).Debug("logging session ended")
		return nil
	})
}

func parseAt(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range atLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --at value %q", value)
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history EXERCISE",
		Short: "List logged sets, newest day first",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryCmd,
	}
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	return withStore(func(st *store.Store) error {
		ex, err := st.GetExercise(cmd.Context(), strings.TrimSpace(args[0]))
		if err != nil {
			return err
		}
		days, err := stats.LoadHistory(cmd.Context(), st, ex.Name)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}
		return stats.RenderHistory(cmd.OutOrStdout(), days)
	})
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID...",
		Short: "Delete sets by id",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDeleteCmd,
	}
}

func runDeleteCmd(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid set id %q", arg)
		}
		ids = append(ids, id)
	}
	return withStore(func(st *store.Store) error {
		var errs error
		for _, id := range ids {
			if err := st.DeleteSet(cmd.Context(), id); err != nil {
				if !errors.Is(err, store.ErrSetNotFound) {
					err = fmt.Errorf("failed to delete set #%d: %w", id, err)
				}
				errs = multierr.Append(errs, err)
				continue
			}
			logrus.WithField("set", id).Info("set deleted")
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted set #%d\n", id); err != nil {
				return err
			}
		}
		return errs
	})
}
