package score

import (
	"fmt"
	"time"
)

// DayPoint is one value of a per-day series.
type DayPoint struct {
	Date  time.Time
	Value float64
}

// ProgressPoint overlays a day's heaviest weight with its repetition differential.
type ProgressPoint struct {
	Date       time.Time
	BestWeight float64
	RepDiff    float64
}

// BestWeights returns the heaviest weight per day.
func BestWeights(days []Day) []DayPoint {
	out := []DayPoint{}
	for _, day := range days {
		idx := Heaviest(day.Attempts)
		if idx < 0 {
			continue
		}
		out = append(out, DayPoint{Date: day.Date, Value: day.Attempts[idx].Weight})
	}
	return out
}

// RepDiffs returns, per day, the weight equivalent of the set with the most
// repetitions, measured against that set's own rep scheme.
func RepDiffs(days []Day) ([]DayPoint, error) {
	out := []DayPoint{}
	for _, day := range days {
		idx := MostReps(day.Attempts)
		if idx < 0 {
			continue
		}
		a := day.Attempts[idx]
		diff, err := RepEquivalent(a.Reps, a.Scheme)
		if err != nil {
			return nil, fmt.Errorf("rep diff %s: %w", day.Date.Format(DayLayout), err)
		}
		out = append(out, DayPoint{Date: day.Date, Value: diff})
	}
	return out, nil
}

// Progress combines BestWeights and RepDiffs into one date-aligned series.
func Progress(days []Day) ([]ProgressPoint, error) {
	weights := BestWeights(days)
	diffs, err := RepDiffs(days)
	if err != nil {
		return nil, err
	}
	out := make([]ProgressPoint, len(weights))
	for i := range weights {
		out[i] = ProgressPoint{
			Date:       weights[i].Date,
			BestWeight: weights[i].Value,
			RepDiff:    diffs[i].Value,
		}
	}
	return out, nil
}
