// Package main provides the CLI entrypoint for liftlog.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/verte-zerg/liftlog/internal/config"
	"github.com/verte-zerg/liftlog/internal/logging"
	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plates"
	"github.com/verte-zerg/liftlog/internal/score"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/store"
)

const (
	defaultRepBase     = 10
	defaultRepMax      = 15
	defaultIncrement   = 5.0
	defaultPlotHeight  = 10
	defaultTrendWindow = 3
	defaultLogLevel    = "warn"
)

var (
	rootDBPath  string
	rootVerbose bool
)

// settings is the configuration resolved from flags, environment, file and defaults.
type settings struct {
	DBPath      string
	Defaults    model.RepScheme
	WeekMode    score.WeekMode
	PlotHeight  int
	TrendWindow int
	Bar         float64
	Plates      []float64
}

var (
	cfg       settings
	logCloser io.Closer
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	if logCloser != nil {
		err = multierr.Append(err, logCloser.Close())
	}
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "liftlog",
		Short:             "Terminal exercise tracker",
		SilenceUsage:      true,
		SilenceErrors:     false,
		Args:              cobra.NoArgs,
		PersistentPreRunE: setupCmd,
		RunE:              runOverviewCmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootDBPath, "db", "", "database path (overrides config and "+config.EnvDBPath+")")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "debug logging, mirrored to stderr")

	rootCmd.AddCommand(newLogCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newDeleteCmd())
	rootCmd.AddCommand(newSetupCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newMusclesCmd())
	rootCmd.AddCommand(newPlatesCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// setupCmd loads the config file and configures logging before any command runs.
func setupCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	resolved, err := resolveSettings(cmd, fileCfg)
	if err != nil {
		return err
	}
	cfg = resolved

	params := logging.Params{Level: defaultLogLevel, Stderr: rootVerbose}
	applyString(&params.Level, fileCfg.Log.Level)
	if fileCfg.Log.File != nil {
		params.File = config.ExpandHome(*fileCfg.Log.File)
	}
	if fileCfg.Log.JSON != nil {
		params.JSON = *fileCfg.Log.JSON
	}
	if rootVerbose {
		params.Level = "debug"
	}
	closer, err := logging.Setup(params)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	if logCloser != nil {
		closer = multiCloser{logCloser, closer}
	}
	logCloser = closer
	logrus.WithFields(logrus.Fields{"db": cfg.DBPath, "command": cmd.Name()}).Debug("starting")
	return nil
}

// resolveSettings merges file values over built-in defaults. Environment
// overrides are already folded into fileCfg and flags win over both.
func resolveSettings(cmd *cobra.Command, fileCfg config.FileConfig) (settings, error) {
	s := settings{
		DBPath: config.DefaultDBPath(),
		Defaults: model.RepScheme{
			RepBase:   defaultRepBase,
			RepMax:    defaultRepMax,
			Increment: defaultIncrement,
		},
		WeekMode:    score.WeekFirst,
		PlotHeight:  defaultPlotHeight,
		TrendWindow: defaultTrendWindow,
		Bar:         plates.DefaultBar,
		Plates:      plates.DefaultAvailable,
	}
	applyString(&s.DBPath, fileCfg.Storage.DBPath)
	if cmd.Flags().Changed("db") {
		s.DBPath = rootDBPath
	}
	s.DBPath = config.ExpandHome(s.DBPath)

	applyInt(&s.Defaults.RepBase, fileCfg.Exercise.RepBase)
	applyInt(&s.Defaults.RepMax, fileCfg.Exercise.RepMax)
	applyFloat(&s.Defaults.Increment, fileCfg.Exercise.Increment)
	if err := s.Defaults.Validate(); err != nil {
		return settings{}, fmt.Errorf("invalid [exercise] config: %w", err)
	}

	if fileCfg.Stats.WeekMode != nil {
		mode, err := score.ParseWeekMode(*fileCfg.Stats.WeekMode)
		if err != nil {
			return settings{}, fmt.Errorf("invalid stats.week-mode: %w", err)
		}
		s.WeekMode = mode
	}
	applyInt(&s.PlotHeight, fileCfg.Stats.PlotHeight)
	applyInt(&s.TrendWindow, fileCfg.Stats.TrendWindow)

	applyFloat(&s.Bar, fileCfg.Plates.Bar)
	if len(fileCfg.Plates.Available) > 0 {
		s.Plates = fileCfg.Plates.Available
	}
	return s, nil
}

func applyString(target, value *string) {
	if value != nil && *value != "" {
		*target = *value
	}
}

func applyInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func applyFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

type multiCloser []io.Closer

func (mc multiCloser) Close() error {
	var err error
	for _, c := range mc {
		err = multierr.Append(err, c.Close())
	}
	return err
}

// withStore opens the configured database for the duration of fn.
func withStore(fn func(st *store.Store) error) (err error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to close db: %w", cerr))
		}
	}()
	return fn(st)
}

func runOverviewCmd(cmd *cobra.Command, _ []string) error {
	return withStore(func(st *store.Store) error {
		rows, err := stats.BuildOverview(cmd.Context(), st, cfg.WeekMode)
		if err != nil {
			return fmt.Errorf("failed to build overview: %w", err)
		}
		return stats.RenderOverview(cmd.OutOrStdout(), rows)
	})
}
