// Package score turns logged work sets into normalized performance numbers.
//
// A score expresses a set as an equivalent weight: the lifted weight plus the
// repetitions above the rep base, scaled so that reaching the rep max is worth
// one weight increment.
package score

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/liftlog/internal/model"
)

var (
	// ErrDegenerateRepRange is returned when rep max equals rep base.
	ErrDegenerateRepRange = errors.New("rep max equals rep base")
	// ErrMisaligned is returned when sets and rep schemes differ in length.
	ErrMisaligned = errors.New("sets and rep schemes are not aligned")
)

// Attempt is one work set paired with the rep scheme in effect when it was logged.
type Attempt struct {
	Weight float64
	Reps   int
	Scheme model.RepScheme
}

// Attempts pairs sets with a parallel sequence of rep schemes.
func Attempts(sets []model.Set, schemes []model.RepScheme) ([]Attempt, error) {
	if len(sets) != len(schemes) {
		return nil, fmt.Errorf("%w: %d sets, %d schemes", ErrMisaligned, len(sets), len(schemes))
	}
	out := make([]Attempt, len(sets))
	for i, s := range sets {
		out[i] = Attempt{Weight: s.Weight, Reps: s.Reps, Scheme: schemes[i]}
	}
	return out, nil
}

// AttemptsFromSets uses each set's own snapshot.
func AttemptsFromSets(sets []model.Set) []Attempt {
	out := make([]Attempt, len(sets))
	for i, s := range sets {
		out[i] = Attempt{Weight: s.Weight, Reps: s.Reps, Scheme: s.Scheme}
	}
	return out
}

// RepEquivalent converts reps into a weight delta relative to the rep base.
func RepEquivalent(reps int, scheme model.RepScheme) (float64, error) {
	span := scheme.RepMax - scheme.RepBase
	if span == 0 {
		return 0, fmt.Errorf("%w (%d)", ErrDegenerateRepRange, scheme.RepBase)
	}
	return float64(reps-scheme.RepBase) / float64(span) * scheme.Increment, nil
}

// Heaviest returns the index of the first attempt with the maximum weight, or -1.
func Heaviest(attempts []Attempt) int {
	best := -1
	for i, a := range attempts {
		if best < 0 || a.Weight > attempts[best].Weight {
			best = i
		}
	}
	return best
}

// MostReps returns the index of the first attempt with the most repetitions, or -1.
func MostReps(attempts []Attempt) int {
	best := -1
	for i, a := range attempts {
		if best < 0 || a.Reps > attempts[best].Reps {
			best = i
		}
	}
	return best
}

// Daily scores one day from its heaviest set. ok is false when there are no attempts.
func Daily(attempts []Attempt) (value float64, ok bool, err error) {
	idx := Heaviest(attempts)
	if idx < 0 {
		return 0, false, nil
	}
	best := attempts[idx]
	delta, err := RepEquivalent(best.Reps, best.Scheme)
	if err != nil {
		return 0, false, err
	}
	return best.Weight + delta, true, nil
}

// Day holds the work sets of one training day.
type Day struct {
	Date     time.Time
	Attempts []Attempt
}

// DayLayout is the calendar day format used by the store.
const DayLayout = "2006-01-02"

// ParseDay parses a calendar day in the local time zone.
func ParseDay(day string) (time.Time, error) {
	return time.ParseInLocation(DayLayout, day, time.Local)
}
