// Package plates works out which plates to load for a target weight.
package plates

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// DefaultBar is the weight of a standard barbell.
const DefaultBar = 20.0

// DefaultAvailable is the per-side plate inventory used when none is configured.
var DefaultAvailable = []float64{20, 20, 10, 10, 5, 5, 2.5, 2.5, 1.25, 1.25}

// Combination is a set of plates and their total weight.
type Combination struct {
	Total  float64
	Plates []float64
}

// Weights are handled in hundredths so that sums compare exactly.
const unit = 100

func toUnits(w float64) int {
	return int(math.Round(w * unit))
}

// Combinations returns, for every total reachable from the available plates,
// the combination using the fewest plates, ordered by total. Each entry of
// available is one plate; repeat a weight to offer several. Plates inside a
// combination are ordered heaviest first.
func Combinations(available []float64) ([]Combination, error) {
	plates := make([]float64, 0, len(available))
	limit := 0
	for _, p := range available {
		if math.IsNaN(p) || math.IsInf(p, 0) || toUnits(p) <= 0 {
			return nil, fmt.Errorf("invalid plate weight %v", p)
		}
		plates = append(plates, p)
		limit += toUnits(p)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(plates)))

	best := make([][]float64, limit+1)
	reached := make([]bool, limit+1)
	best[0] = []float64{}
	reached[0] = true
	for _, p := range plates {
		w := toUnits(p)
		for s := limit; s >= w; s-- {
			if !reached[s-w] {
				continue
			}
			if reached[s] && len(best[s]) <= len(best[s-w])+1 {
				continue
			}
			combo := make([]float64, len(best[s-w]), len(best[s-w])+1)
			copy(combo, best[s-w])
			best[s] = append(combo, p)
			reached[s] = true
		}
	}

	var out []Combination
	for s, ok := range reached {
		if !ok {
			continue
		}
		out = append(out, Combination{Total: float64(s) / unit, Plates: best[s]})
	}
	return out, nil
}

// Closest returns the reachable combination nearest to target. On a tie the
// lighter combination wins.
func Closest(available []float64, target float64) (Combination, error) {
	combos, err := Combinations(available)
	if err != nil {
		return Combination{}, err
	}
	want := toUnits(target)
	best := combos[0]
	bestDiff := absInt(toUnits(best.Total) - want)
	for _, c := range combos[1:] {
		diff := absInt(toUnits(c.Total) - want)
		if diff < bestDiff {
			best, bestDiff = c, diff
		}
	}
	return best, nil
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Breakdown is the loading plan for a barbell.
type Breakdown struct {
	Target  float64
	Bar     float64
	PerSide Combination
	// Loaded is the weight actually on the bar; it differs from Target when
	// the target cannot be reached exactly.
	Loaded float64
}

// Exact reports whether the plan hits the target weight.
func (b Breakdown) Exact() bool {
	return toUnits(b.Loaded) == toUnits(b.Target)
}

// ErrBelowBar is returned when the target is lighter than the empty bar.
var ErrBelowBar = errors.New("target is lighter than the bar")

// Load plans plates for target on a bar, using the per-side inventory.
func Load(target, bar float64, available []float64) (Breakdown, error) {
	if bar < 0 {
		return Breakdown{}, fmt.Errorf("invalid bar weight %v", bar)
	}
	if target < bar {
		return Breakdown{}, fmt.Errorf("%w (%v < %v)", ErrBelowBar, target, bar)
	}
	side, err := Closest(available, (target-bar)/2)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		Target:  target,
		Bar:     bar,
		PerSide: side,
		Loaded:  bar + 2*side.Total,
	}, nil
}
