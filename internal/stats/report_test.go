package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/muscle"
	"github.com/verte-zerg/liftlog/internal/score"
	"github.com/verte-zerg/liftlog/internal/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "liftlog.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func logSet(t *testing.T, st *store.Store, exercise, at string, weight float64, reps int, typ model.SetType) {
	t.Helper()
	ts, err := time.ParseInLocation(store.TimeLayout, at, time.Local)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	set := model.Set{
		PerformedAt: ts,
		Weight:      weight,
		Reps:        reps,
		Type:        typ,
		Scheme:      model.RepScheme{RepBase: 10, RepMax: 15, Increment: 5},
	}
	if _, err := st.InsertSet(context.Background(), exercise, set); err != nil {
		t.Fatalf("insert set: %v", err)
	}
}

func TestBuildReport(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	logSet(t, st, "Bench", "2024-04-15 18:00:00", 20, 15, model.SetWarmUp)
	logSet(t, st, "Bench", "2024-04-15 18:05:00", 45, 12, model.SetWork)
	logSet(t, st, "Bench", "2024-04-17 18:00:00", 50, 10, model.SetWork)
	logSet(t, st, "Bench", "2024-04-22 18:00:00", 45, 13, model.SetWork)
	logSet(t, st, "Bench", "2024-04-24 18:00:00", 50, 10, model.SetWork)
	logSet(t, st, "Bench", "2024-04-24 18:03:00", 50, 11, model.SetWork)
	logSet(t, st, "Bench", "2024-04-24 18:09:00", 35, 15, model.SetDrop)

	report, err := BuildReport(ctx, st, "Bench", score.WeekFirst)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Weeks) != 2 {
		t.Fatalf("expected 2 weeks, got %d", len(report.Weeks))
	}
	if report.Weeks[0].Week != 16 || report.Weeks[0].Score != 47 {
		t.Fatalf("unexpected first week: %+v", report.Weeks[0])
	}
	if report.Weeks[1].Week != 17 || report.Weeks[1].Score != 48 {
		t.Fatalf("unexpected second week: %+v", report.Weeks[1])
	}
	if report.Sessions() != 4 {
		t.Fatalf("expected 4 sessions, got %d", report.Sessions())
	}
	if report.WorkSets != 5 {
		t.Fatalf("expected 5 work sets, got %d", report.WorkSets)
	}
	if report.Best.Weight != 50 || report.BestDate.Day() != 17 {
		t.Fatalf("unexpected best set: %+v on %v", report.Best, report.BestDate)
	}
	latest, ok, err := report.LatestScore()
	if err != nil || !ok || latest != 50 {
		t.Fatalf("unexpected latest score: %v %v %v", latest, ok, err)
	}

	var buf bytes.Buffer
	if err := RenderReport(&buf, report, CurveOptions{TrendWindow: 2, TotalWidth: 60, Height: 4}); err != nil {
		t.Fatalf("render report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Summary: Bench", "2024-W16", "2024-W17", "+1.00", "Weight", "Weekly score", "2024-04-15"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in report:\n%s", want, out)
		}
	}
}

func TestBuildReportUnknownExercise(t *testing.T) {
	st := openStore(t)
	report, err := BuildReport(context.Background(), st, "Nope", score.WeekFirst)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Weeks) != 0 || len(report.Progress) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	var buf bytes.Buffer
	if err := RenderReport(&buf, report, CurveOptions{}); err != nil {
		t.Fatalf("render report: %v", err)
	}
	if !strings.Contains(buf.String(), "No work sets logged for Nope.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestBuildOverview(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	logSet(t, st, "Squat", "2024-04-10 18:00:00", 100, 5, model.SetWork)
	logSet(t, st, "Squat", "2024-04-17 18:00:00", 105, 5, model.SetWork)
	logSet(t, st, "Squat", "2024-04-17 18:05:00", 110, 3, model.SetWork)
	logSet(t, st, "Squat", "2024-04-17 18:10:00", 90, 8, model.SetDrop)
	if _, err := st.EnsureExercise(ctx, "Lunge", model.RepScheme{RepBase: 8, RepMax: 12, Increment: 2}); err != nil {
		t.Fatalf("ensure exercise: %v", err)
	}

	rows, err := BuildOverview(ctx, st, score.WeekFirst)
	if err != nil {
		t.Fatalf("build overview: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Exercise != "Squat" || rows[0].LastDay != "2024-04-17" || rows[0].Top.Weight != 110 {
		t.Fatalf("unexpected squat row: %+v", rows[0])
	}
	if len(rows[0].Weekly) != 2 {
		t.Fatalf("expected 2 weekly scores, got %v", rows[0].Weekly)
	}
	if rows[1].LastDay != "" {
		t.Fatalf("expected empty lunge row, got %+v", rows[1])
	}

	var buf bytes.Buffer
	if err := RenderOverview(&buf, rows); err != nil {
		t.Fatalf("render overview: %v", err)
	}
	if !strings.Contains(buf.String(), "110 x 3") {
		t.Fatalf("expected top set in overview:\n%s", buf.String())
	}
}

func TestMuscleLoadFromStore(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	bench := model.Exercise{
		Name:     "Bench",
		Type:     model.ExerciseBarbell,
		Muscles:  muscle.Distribution{{Muscle: muscle.Pecs, Intensity: 1}, {Muscle: muscle.Triceps, Intensity: 0.5}},
		Defaults: model.RepScheme{RepBase: 10, RepMax: 15, Increment: 5},
	}
	if err := st.UpsertExercise(ctx, bench); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	logSet(t, st, "Bench", "2024-04-17 18:00:00", 60, 10, model.SetWork)
	logSet(t, st, "Bench", "2024-04-17 18:03:00", 60, 9, model.SetWork)

	exercises, err := st.ListExercises(ctx)
	if err != nil {
		t.Fatalf("list exercises: %v", err)
	}
	counts, err := st.WorkSetCountsSince(ctx, time.Date(2024, 4, 1, 0, 0, 0, 0, time.Local))
	if err != nil {
		t.Fatalf("count sets: %v", err)
	}
	loads := ComputeMuscleLoad(exercises, counts)
	if len(loads) != len(muscle.All()) {
		t.Fatalf("expected every muscle, got %d", len(loads))
	}
	last := loads[len(loads)-1]
	if last.Muscle != muscle.Pecs || last.Sets != 2 {
		t.Fatalf("unexpected most trained muscle: %+v", last)
	}
	if loads[len(loads)-2].Muscle != muscle.Triceps || loads[len(loads)-2].Sets != 1 {
		t.Fatalf("unexpected second muscle: %+v", loads[len(loads)-2])
	}
	weak := SelectUndertrained(loads, 3)
	if len(weak) != 3 || weak[0].Sets != 0 {
		t.Fatalf("unexpected undertrained selection: %+v", weak)
	}
}
