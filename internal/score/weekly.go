package score

import (
	"fmt"
	"strings"
)

// WeekMode decides how several sessions in one ISO week collapse into one score.
type WeekMode string

const (
	// WeekFirst keeps the first session's score in each week.
	WeekFirst WeekMode = "first"
	// WeekMean averages the daily scores within each week.
	WeekMean WeekMode = "mean"
)

// ParseWeekMode resolves a week mode name; the empty string means WeekFirst.
func ParseWeekMode(s string) (WeekMode, error) {
	switch WeekMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", WeekFirst:
		return WeekFirst, nil
	case WeekMean:
		return WeekMean, nil
	}
	return "", fmt.Errorf("unknown week mode %q (use first or mean)", s)
}

// WeekPoint is the score of one ISO calendar week.
type WeekPoint struct {
	Year  int
	Week  int
	Score float64
}

type weekKey struct {
	year int
	week int
}

// Weekly reduces chronologically ordered days to one score per ISO week, in
// order of first appearance. Days without attempts are skipped.
func Weekly(days []Day, mode WeekMode) ([]WeekPoint, error) {
	points := []WeekPoint{}
	index := map[weekKey]int{}
	counts := map[weekKey]int{}
	for _, day := range days {
		value, ok, err := Daily(day.Attempts)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", day.Date.Format(DayLayout), err)
		}
		if !ok {
			continue
		}
		year, week := day.Date.ISOWeek()
		key := weekKey{year: year, week: week}
		i, seen := index[key]
		if !seen {
			index[key] = len(points)
			counts[key] = 1
			points = append(points, WeekPoint{Year: year, Week: week, Score: value})
			continue
		}
		if mode == WeekMean {
			n := counts[key]
			points[i].Score = (points[i].Score*float64(n) + value) / float64(n+1)
			counts[key] = n + 1
		}
	}
	return points, nil
}

// SplitWeeks returns aligned week-number and score sequences for plotting.
func SplitWeeks(points []WeekPoint) ([]int, []float64) {
	weeks := make([]int, len(points))
	scores := make([]float64, len(points))
	for i, p := range points {
		weeks[i] = p.Week
		scores[i] = p.Score
	}
	return weeks, scores
}
