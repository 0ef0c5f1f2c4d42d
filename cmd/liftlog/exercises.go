package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/muscle"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/store"
)

var (
	setupType         string
	setupRepBase      int
	setupRepMax       int
	setupIncrement    float64
	setupMuscles      []string
	setupClearMuscles bool
)

func newSetupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup EXERCISE",
		Short: "Create an exercise or change its defaults",
		Args:  cobra.ExactArgs(1),
		RunE:  runSetupCmd,
	}
	cmd.Flags().StringVar(&setupType, "type", "", "exercise type: barbell, dumbbell, machine, cable or bodyweight")
	cmd.Flags().IntVar(&setupRepBase, "rep-base", 0, "lower end of the rep range")
	cmd.Flags().IntVar(&setupRepMax, "rep-max", 0, "upper end of the rep range")
	cmd.Flags().Float64Var(&setupIncrement, "increment", 0, "weight step")
	cmd.Flags().StringArrayVar(&setupMuscles, "muscle", nil, "muscle involvement as NAME or NAME=INTENSITY (0 removes it); repeatable")
	cmd.Flags().BoolVar(&setupClearMuscles, "clear-muscles", false, "remove every muscle before applying --muscle")
	return cmd
}

func runSetupCmd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(args[0])
	return withStore(func(st *store.Store) error {
		ctx := cmd.Context()
		ex, err := st.GetExercise(ctx, name)
		if errors.Is(err, store.ErrExerciseNotFound) {
			ex = model.Exercise{Name: name, Type: model.ExerciseBarbell, Defaults: cfg.Defaults}
		} else if err != nil {
			return err
		}
		if err := applySetupFlags(cmd, &ex); err != nil {
			return err
		}
		if err := st.UpsertExercise(ctx, ex); err != nil {
			return fmt.Errorf("failed to save exercise: %w", err)
		}
		logrus.WithField("exercise", ex.Name).Info("exercise saved")
		return renderExercise(cmd.OutOrStdout(), ex)
	})
}

func applySetupFlags(cmd *cobra.Command, ex *model.Exercise) error {
	flags := cmd.Flags()
	if flags.Changed("type") {
		t, err := model.ParseExerciseType(setupType)
		if err != nil {
			return err
		}
		ex.Type = t
	}
	if flags.Changed("rep-base") {
		ex.Defaults.RepBase = setupRepBase
	}
	if flags.Changed("rep-max") {
		ex.Defaults.RepMax = setupRepMax
	}
	if flags.Changed("increment") {
		ex.Defaults.Increment = setupIncrement
	}
	if err := ex.Defaults.Validate(); err != nil {
		return fmt.Errorf("invalid rep scheme: %w", err)
	}
	if setupClearMuscles {
		ex.Muscles = nil
	}
	for _, raw := range setupMuscles {
		m, intensity, err := parseMuscleFlag(raw)
		if err != nil {
			return err
		}
		ex.Muscles = ex.Muscles.Set(m, intensity)
	}
	return nil
}

// parseMuscleFlag reads NAME or NAME=INTENSITY; a bare name means full involvement.
func parseMuscleFlag(raw string) (muscle.Muscle, float64, error) {
	name, value, hasValue := strings.Cut(raw, "=")
	m, err := muscle.Parse(name)
	if err != nil {
		return 0, 0, err
	}
	if !hasValue {
		return m, 1, nil
	}
	intensity, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || intensity < 0 || intensity > 1 {
		return 0, 0, fmt.Errorf("invalid intensity %q for %s (use 0-1)", value, m)
	}
	return m, intensity, nil
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show EXERCISE",
		Short: "Print an exercise's defaults and muscles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(st *store.Store) error {
				ex, err := st.GetExercise(cmd.Context(), strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				return renderExercise(cmd.OutOrStdout(), ex)
			})
		},
	}
}

func renderExercise(w io.Writer, ex model.Exercise) error {
	muscles := "-"
	if len(ex.Muscles) > 0 {
		parts := make([]string, len(ex.Muscles))
		for i, inv := range ex.Muscles {
			parts[i] = fmt.Sprintf("%s %.0f%%", inv.Muscle, inv.Intensity*100)
		}
		muscles = strings.Join(parts, ", ")
	}
	_, err := fmt.Fprintf(w, "%s\n  Type:      %s\n  Reps:      %d-%d\n  Increment: %s\n  Muscles:   %s\n",
		ex.Name, ex.Type, ex.Defaults.RepBase, ex.Defaults.RepMax, stats.FormatWeight(ex.Defaults.Increment), muscles)
	return err
}
