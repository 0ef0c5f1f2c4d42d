// Package stats loads training history and turns it into reports and plots.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/score"
)

//go:generate mockgen -destination=mock_history_source_test.go -package=stats_test github.com/verte-zerg/liftlog/internal/stats HistorySource

// HistorySource is the part of the store reports read from.
type HistorySource interface {
	ListTrainingDays(ctx context.Context, name string) ([]string, error)
	ListSets(ctx context.Context, name, day string, workOnly bool) ([]model.Set, error)
	ListSetMeta(ctx context.Context, name, day string) ([]model.RepScheme, error)
}

// Report contains precomputed data for one exercise.
type Report struct {
	Exercise string
	Mode     score.WeekMode
	Days     []score.Day
	Weeks    []score.WeekPoint
	Progress []score.ProgressPoint
	WorkSets int
	// Best is the heaviest work set ever logged; BestDate is zero without one.
	Best     score.Attempt
	BestDate time.Time
}

// Sessions counts the days with at least one work set.
func (r Report) Sessions() int {
	return len(r.Progress)
}

// LatestScore returns the daily score of the most recent session.
func (r Report) LatestScore() (float64, bool, error) {
	for i := len(r.Days) - 1; i >= 0; i-- {
		if len(r.Days[i].Attempts) > 0 {
			return score.Daily(r.Days[i].Attempts)
		}
	}
	return 0, false, nil
}

// LoadDays reads the work sets of every training day, oldest first.
func LoadDays(ctx context.Context, src HistorySource, exercise string) ([]score.Day, error) {
	dayKeys, err := src.ListTrainingDays(ctx, exercise)
	if err != nil {
		return nil, fmt.Errorf("failed to list training days: %w", err)
	}
	days := make([]score.Day, 0, len(dayKeys))
	for _, key := range dayKeys {
		date, err := score.ParseDay(key)
		if err != nil {
			return nil, fmt.Errorf("invalid training day %q: %w", key, err)
		}
		sets, err := src.ListSets(ctx, exercise, key, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list sets for %s: %w", key, err)
		}
		schemes, err := src.ListSetMeta(ctx, exercise, key)
		if err != nil {
			return nil, fmt.Errorf("failed to list set meta for %s: %w", key, err)
		}
		attempts, err := score.Attempts(sets, schemes)
		if err != nil {
			return nil, fmt.Errorf("day %s: %w", key, err)
		}
		days = append(days, score.Day{Date: date, Attempts: attempts})
	}
	return days, nil
}

// BuildReport loads and scores the history of one exercise.
func BuildReport(ctx context.Context, src HistorySource, exercise string, mode score.WeekMode) (Report, error) {
	days, err := LoadDays(ctx, src, exercise)
	if err != nil {
		return Report{}, err
	}
	weeks, err := score.Weekly(days, mode)
	if err != nil {
		return Report{}, err
	}
	progress, err := score.Progress(days)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Exercise: exercise,
		Mode:     mode,
		Days:     days,
		Weeks:    weeks,
		Progress: progress,
	}
	for _, day := range days {
		report.WorkSets += len(day.Attempts)
		idx := score.Heaviest(day.Attempts)
		if idx < 0 {
			continue
		}
		if report.BestDate.IsZero() || day.Attempts[idx].Weight > report.Best.Weight {
			report.Best = day.Attempts[idx]
			report.BestDate = day.Date
		}
	}
	return report, nil
}

// HistoryEntry is a logged set with the rest taken since the previous set of
// the same day.
type HistoryEntry struct {
	Set model.Set
	// Rest is zero for the first set of a day.
	Rest time.Duration
}

// HistoryDay groups the sets of one day.
type HistoryDay struct {
	Day     string
	Entries []HistoryEntry
}

// LoadHistory returns every set of the exercise grouped by day, newest day first.
func LoadHistory(ctx context.Context, src HistorySource, exercise string) ([]HistoryDay, error) {
	dayKeys, err := src.ListTrainingDays(ctx, exercise)
	if err != nil {
		return nil, fmt.Errorf("failed to list training days: %w", err)
	}
	out := make([]HistoryDay, 0, len(dayKeys))
	for i := len(dayKeys) - 1; i >= 0; i-- {
		sets, err := src.ListSets(ctx, exercise, dayKeys[i], false)
		if err != nil {
			return nil, fmt.Errorf("failed to list sets for %s: %w", dayKeys[i], err)
		}
		day := HistoryDay{Day: dayKeys[i], Entries: make([]HistoryEntry, len(sets))}
		for j, set := range sets {
			day.Entries[j].Set = set
			if j > 0 {
				day.Entries[j].Rest = set.PerformedAt.Sub(sets[j-1].PerformedAt)
			}
		}
		out = append(out, day)
	}
	return out, nil
}

// ExerciseLister lists exercises by name.
type ExerciseLister interface {
	ListExerciseNames(ctx context.Context) ([]string, error)
}

// OverviewSource is what the landing overview needs.
type OverviewSource interface {
	HistorySource
	ExerciseLister
}

// OverviewRow summarizes one exercise for the landing overview.
type OverviewRow struct {
	Exercise string
	// LastDay is empty when nothing was logged yet.
	LastDay string
	// Top is the heaviest set of the last day, of any set type.
	Top model.Set
	// Weekly holds the weekly scores, oldest first.
	Weekly []float64
}

// BuildOverview summarizes every exercise in insertion order.
func BuildOverview(ctx context.Context, src OverviewSource, mode score.WeekMode) ([]OverviewRow, error) {
	names, err := src.ListExerciseNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	rows := make([]OverviewRow, 0, len(names))
	for _, name := range names {
		row := OverviewRow{Exercise: name}
		days, err := LoadDays(ctx, src, name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		weeks, err := score.Weekly(days, mode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		_, row.Weekly = score.SplitWeeks(weeks)
		if len(days) > 0 {
			row.LastDay = days[len(days)-1].Date.Format(score.DayLayout)
			sets, err := src.ListSets(ctx, name, row.LastDay, false)
			if err != nil {
				return nil, fmt.Errorf("%s: failed to list sets: %w", name, err)
			}
			if idx := score.Heaviest(score.AttemptsFromSets(sets)); idx >= 0 {
				row.Top = sets[idx]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
