package score

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/liftlog/internal/model"
)

var standard = model.RepScheme{RepBase: 10, RepMax: 15, Increment: 5}

func day(t *testing.T, s string, attempts ...Attempt) Day {
	t.Helper()
	d, err := ParseDay(s)
	require.NoError(t, err)
	return Day{Date: d, Attempts: attempts}
}

func at(weight float64, reps int) Attempt {
	return Attempt{Weight: weight, Reps: reps, Scheme: standard}
}

func TestDailyReferenceValue(t *testing.T) {
	got, ok, err := Daily([]Attempt{at(60, 12)})
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 62.0, got, 1e-9)
}

func TestDailySingleSetFormula(t *testing.T) {
	for _, tc := range []struct {
		weight float64
		reps   int
		scheme model.RepScheme
	}{
		{weight: 40, reps: 8, scheme: model.RepScheme{RepBase: 6, RepMax: 10, Increment: 2.5}},
		{weight: 100, reps: 3, scheme: model.RepScheme{RepBase: 5, RepMax: 8, Increment: 5}},
		{weight: 0, reps: 20, scheme: model.RepScheme{RepBase: 10, RepMax: 20, Increment: 1}},
	} {
		got, ok, err := Daily([]Attempt{{Weight: tc.weight, Reps: tc.reps, Scheme: tc.scheme}})
		require.NoError(t, err)
		require.True(t, ok)
		want := tc.weight + float64(tc.reps-tc.scheme.RepBase)/float64(tc.scheme.RepMax-tc.scheme.RepBase)*tc.scheme.Increment
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestDailyPicksFirstHeaviest(t *testing.T) {
	attempts := []Attempt{
		at(55, 14),
		{Weight: 60, Reps: 11, Scheme: model.RepScheme{RepBase: 8, RepMax: 12, Increment: 2.5}},
		at(60, 15),
		at(50, 20),
	}
	assert.Equal(t, 1, Heaviest(attempts))
	got, ok, err := Daily(attempts)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 60+0.75*2.5, got, 1e-9)
}

func TestDailyEmpty(t *testing.T) {
	_, ok, err := Daily(nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDailyDegenerateRange(t *testing.T) {
	_, _, err := Daily([]Attempt{{Weight: 60, Reps: 12, Scheme: model.RepScheme{RepBase: 10, RepMax: 10, Increment: 5}}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateRepRange))
}

func TestAttemptsAlignment(t *testing.T) {
	sets := []model.Set{{Weight: 50, Reps: 10}, {Weight: 55, Reps: 9}}
	_, err := Attempts(sets, []model.RepScheme{standard})
	assert.True(t, errors.Is(err, ErrMisaligned))

	got, err := Attempts(sets, []model.RepScheme{standard, {RepBase: 8, RepMax: 12, Increment: 2.5}})
	require.NoError(t, err)
	assert.Equal(t, []Attempt{at(50, 10), {Weight: 55, Reps: 9, Scheme: model.RepScheme{RepBase: 8, RepMax: 12, Increment: 2.5}}}, got)
}

func TestWeeklyFirstWins(t *testing.T) {
	days := []Day{
		day(t, "2024-04-15", at(45, 12)),
		day(t, "2024-04-17", at(50, 10)),
		day(t, "2024-04-22", at(45, 13)),
		day(t, "2024-04-24", at(50, 10), at(50, 11)),
	}
	points, err := Weekly(days, WeekFirst)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 16, points[0].Week)
	assert.InDelta(t, 47.0, points[0].Score, 1e-9)
	assert.Equal(t, 17, points[1].Week)
	assert.InDelta(t, 48.0, points[1].Score, 1e-9)

	weeks, scores := SplitWeeks(points)
	assert.Equal(t, []int{16, 17}, weeks)
	assert.Len(t, scores, 2)
}

func TestWeeklyMean(t *testing.T) {
	days := []Day{
		day(t, "2024-04-15", at(45, 12)),
		day(t, "2024-04-17", at(50, 10)),
		day(t, "2024-04-18", at(40, 15)),
	}
	points, err := Weekly(days, WeekMean)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.InDelta(t, (47.0+50.0+45.0)/3, points[0].Score, 1e-9)
}

func TestWeeklyNeverRepeatsWeek(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)
	var days []Day
	for i := 0; i < 120; i += 2 {
		days = append(days, Day{Date: start.AddDate(0, 0, i), Attempts: []Attempt{at(float64(40+i%7), 10+i%5)}})
	}
	points, err := Weekly(days, WeekFirst)
	require.NoError(t, err)
	seen := map[int]bool{}
	for _, p := range points {
		assert.False(t, seen[p.Week], "week %d repeated", p.Week)
		seen[p.Week] = true
	}
}

func TestWeeklyKeepsYearsApart(t *testing.T) {
	days := []Day{
		day(t, "2024-03-05", at(40, 10)),
		day(t, "2025-03-04", at(50, 10)),
	}
	points, err := Weekly(days, WeekFirst)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, points[0].Week, points[1].Week)
	assert.NotEqual(t, points[0].Year, points[1].Year)
}

func TestWeeklyEmpty(t *testing.T) {
	points, err := Weekly(nil, WeekFirst)
	require.NoError(t, err)
	weeks, scores := SplitWeeks(points)
	assert.Empty(t, weeks)
	assert.Empty(t, scores)

	points, err = Weekly([]Day{day(t, "2024-04-15")}, WeekFirst)
	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestWeeklyPropagatesDegenerateRange(t *testing.T) {
	days := []Day{day(t, "2024-04-15", Attempt{Weight: 40, Reps: 10, Scheme: model.RepScheme{RepBase: 8, RepMax: 8, Increment: 5}})}
	_, err := Weekly(days, WeekFirst)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDegenerateRepRange))
	assert.Contains(t, err.Error(), "2024-04-15")
}

func TestProgressSelectsDifferentSets(t *testing.T) {
	heavy := Attempt{Weight: 60, Reps: 8, Scheme: standard}
	long := Attempt{Weight: 50, Reps: 14, Scheme: model.RepScheme{RepBase: 12, RepMax: 16, Increment: 2}}
	days := []Day{
		day(t, "2024-05-01", heavy, long),
		day(t, "2024-05-02"),
		day(t, "2024-05-03", at(62.5, 10)),
	}
	points, err := Progress(days)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 60.0, points[0].BestWeight)
	assert.InDelta(t, 1.0, points[0].RepDiff, 1e-9)
	assert.Equal(t, 62.5, points[1].BestWeight)
	assert.InDelta(t, 0.0, points[1].RepDiff, 1e-9)
}

func TestRepDiffsFirstMaxRepsAndErrors(t *testing.T) {
	days := []Day{day(t, "2024-05-01", at(50, 12), at(45, 12))}
	diffs, err := RepDiffs(days)
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.InDelta(t, 2.0, diffs[0].Value, 1e-9)

	bad := []Day{day(t, "2024-05-01", Attempt{Weight: 50, Reps: 12, Scheme: model.RepScheme{RepBase: 12, RepMax: 12, Increment: 5}})}
	_, err = RepDiffs(bad)
	assert.True(t, errors.Is(err, ErrDegenerateRepRange))
}

func TestDailyNeverInfinite(t *testing.T) {
	_, _, err := Daily([]Attempt{{Weight: 1, Reps: 1, Scheme: model.RepScheme{}}})
	require.Error(t, err)
	v, _, _ := Daily([]Attempt{at(1, 1)})
	assert.False(t, math.IsInf(v, 0) || math.IsNaN(v))
}

func TestParseWeekMode(t *testing.T) {
	m, err := ParseWeekMode("")
	require.NoError(t, err)
	assert.Equal(t, WeekFirst, m)
	m, err = ParseWeekMode("MEAN")
	require.NoError(t, err)
	assert.Equal(t, WeekMean, m)
	_, err = ParseWeekMode("last")
	assert.Error(t, err)
}
