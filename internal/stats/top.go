package stats

import "sort"

// ExerciseCount is a work set count for one exercise.
type ExerciseCount struct {
	Exercise string
	Sets     int
}

// TopExercises returns the n exercises with the most work sets, ties by name.
func TopExercises(counts map[string]int, n int) []ExerciseCount {
	if n <= 0 || len(counts) == 0 {
		return nil
	}
	items := make([]ExerciseCount, 0, len(counts))
	for name, sets := range counts {
		items = append(items, ExerciseCount{Exercise: name, Sets: sets})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Sets == items[j].Sets {
			return items[i].Exercise < items[j].Exercise
		}
		return items[i].Sets > items[j].Sets
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
