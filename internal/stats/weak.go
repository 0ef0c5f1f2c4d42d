package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/muscle"
)

// MuscleLoad is the number of work sets a muscle group received, weighted by
// how much each exercise involves it.
type MuscleLoad struct {
	Muscle muscle.Muscle
	Sets   float64
}

// ComputeMuscleLoad spreads per-exercise work set counts over muscle groups.
// Every muscle group is present in the result, least trained first.
func ComputeMuscleLoad(exercises []model.Exercise, counts map[string]int) []MuscleLoad {
	totals := map[muscle.Muscle]float64{}
	for _, ex := range exercises {
		n := counts[ex.Name]
		if n == 0 {
			continue
		}
		for _, inv := range ex.Muscles {
			totals[inv.Muscle] += float64(n) * inv.Intensity
		}
	}
	loads := make([]MuscleLoad, 0, len(muscle.All()))
	for _, m := range muscle.All() {
		loads = append(loads, MuscleLoad{Muscle: m, Sets: totals[m]})
	}
	sort.SliceStable(loads, func(i, j int) bool {
		return loads[i].Sets < loads[j].Sets
	})
	return loads
}

// SelectUndertrained returns the top least-trained muscle groups.
func SelectUndertrained(loads []MuscleLoad, top int) []MuscleLoad {
	if top <= 0 || top > len(loads) {
		top = len(loads)
	}
	out := make([]MuscleLoad, top)
	copy(out, loads[:top])
	return out
}

const loadBarWidth = 20

// RenderMuscleLoad prints the muscle load table.
func RenderMuscleLoad(w io.Writer, loads []MuscleLoad, days int) error {
	if _, err := fmt.Fprintf(w, "Muscle load (last %d days, weighted work sets)\n", days); err != nil {
		return err
	}
	maxSets := 0.0
	for _, l := range loads {
		maxSets = max(maxSets, l.Sets)
	}
	rows := make([][]string, len(loads))
	for i, l := range loads {
		bar := ""
		if maxSets > 0 {
			bar = strings.Repeat("█", int(math.Round(l.Sets/maxSets*loadBarWidth)))
		}
		rows[i] = []string{l.Muscle.String(), fmt.Sprintf("%.1f", l.Sets), bar}
	}
	return writeLines(w, formatTable([]string{"Muscle", "Sets", ""}, rows, map[int]bool{1: true}))
}
