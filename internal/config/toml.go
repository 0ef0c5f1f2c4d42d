// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Storage  StorageConfig  `toml:"storage"`
	Exercise ExerciseConfig `toml:"exercise"`
	Stats    StatsConfig    `toml:"stats"`
	Plates   PlatesConfig   `toml:"plates"`
	Log      LogConfig      `toml:"log"`
}

// StorageConfig maps database settings.
type StorageConfig struct {
	DBPath *string `toml:"db-path"`
}

// ExerciseConfig holds the rep scheme given to exercises created on first use.
type ExerciseConfig struct {
	RepBase   *int     `toml:"rep-base"`
	RepMax    *int     `toml:"rep-max"`
	Increment *float64 `toml:"increment"`
}

// StatsConfig maps report and plot settings.
type StatsConfig struct {
	WeekMode    *string `toml:"week-mode"`
	PlotHeight  *int    `toml:"plot-height"`
	TrendWindow *int    `toml:"trend-window"`
}

// PlatesConfig describes the bar and the plates available per side.
type PlatesConfig struct {
	Bar       *float64  `toml:"bar"`
	Available []float64 `toml:"available"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
	JSON  *bool   `toml:"json"`
}

// Environment variables that override the config file.
const (
	EnvDBPath   = "LIFTLOG_DB_PATH"
	EnvLogLevel = "LIFTLOG_LOG_LEVEL"
	EnvLogFile  = "LIFTLOG_LOG_FILE"
)

// LoadConfig reads a TOML config from the given path and applies environment
// overrides. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	var cfg FileConfig
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
		}
	} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.validate(); err != nil {
		return FileConfig{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *FileConfig) {
	if v := os.Getenv(EnvDBPath); v != "" {
		cfg.Storage.DBPath = &v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = &v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Log.File = &v
	}
}

func (c FileConfig) validate() error {
	if c.Exercise.RepBase != nil && *c.Exercise.RepBase < 0 {
		return fmt.Errorf("exercise.rep-base must be >= 0")
	}
	if c.Exercise.RepMax != nil && *c.Exercise.RepMax <= 0 {
		return fmt.Errorf("exercise.rep-max must be > 0")
	}
	if c.Exercise.Increment != nil && *c.Exercise.Increment <= 0 {
		return fmt.Errorf("exercise.increment must be > 0")
	}
	if c.Stats.PlotHeight != nil && *c.Stats.PlotHeight <= 0 {
		return fmt.Errorf("stats.plot-height must be > 0")
	}
	if c.Stats.TrendWindow != nil && *c.Stats.TrendWindow < 0 {
		return fmt.Errorf("stats.trend-window must be >= 0")
	}
	if c.Plates.Bar != nil && *c.Plates.Bar < 0 {
		return fmt.Errorf("plates.bar must be >= 0")
	}
	for _, p := range c.Plates.Available {
		if p <= 0 {
			return fmt.Errorf("plates.available must only contain positive weights")
		}
	}
	return nil
}

// Template is written by `liftlog config` when no config file exists yet.
const Template = `# liftlog configuration

[storage]
# db-path = "~/.local/share/liftlog/liftlog.db"

[exercise]
# Rep scheme for exercises created on first log.
rep-base = 10
rep-max = 15
increment = 5.0

[stats]
# first: first session of the week wins; mean: average the week's sessions.
week-mode = "first"
plot-height = 10
trend-window = 3

[plates]
bar = 20.0
# Plates loadable on one side; repeat a weight for each plate you own.
available = [20.0, 20.0, 10.0, 10.0, 5.0, 5.0, 2.5, 2.5, 1.25, 1.25]

[log]
level = "warn"
# file = "~/.local/state/liftlog/liftlog.log"
json = false
`
