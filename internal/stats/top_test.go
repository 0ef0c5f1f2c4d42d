package stats

import "testing"

func TestTopExercises(t *testing.T) {
	counts := map[string]int{"Squat": 3, "Bench": 4, "Curl": 4, "Row": 1}
	top := TopExercises(counts, 3)
	if len(top) != 3 {
		t.Fatalf("expected 3 exercises, got %d", len(top))
	}
	if top[0].Exercise != "Bench" || top[1].Exercise != "Curl" || top[2].Exercise != "Squat" {
		t.Fatalf("unexpected order: %v", top)
	}
	if got := TopExercises(counts, 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
}
