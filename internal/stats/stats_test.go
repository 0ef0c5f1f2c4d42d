package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/liftlog/internal/model"
)

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{2, 3, 5, 7}, MovingAverage([]float64{2, 4, 6, 8}, 2))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 0))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "▁█", Sparkline([]float64{1, 2}))
	assert.Equal(t, "▅▅▅", Sparkline([]float64{3, 3, 3}))
}

func TestFormatRest(t *testing.T) {
	assert.Equal(t, "-", FormatRest(0))
	assert.Equal(t, "+2:30", FormatRest(150*time.Second))
	assert.Equal(t, "+1h5m0s", FormatRest(65*time.Minute))
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "60", FormatWeight(60))
	assert.Equal(t, "62.5", FormatWeight(62.5))
}

func TestRenderHistory(t *testing.T) {
	start := time.Date(2024, 4, 17, 18, 0, 0, 0, time.Local)
	days := []HistoryDay{{
		Day: "2024-04-17",
		Entries: []HistoryEntry{
			{Set: model.Set{ID: 7, PerformedAt: start, Weight: 40, Reps: 12, Type: model.SetWarmUp}},
			{Set: model.Set{ID: 8, PerformedAt: start.Add(3 * time.Minute), Weight: 62.5, Reps: 8, Type: model.SetWork}, Rest: 3 * time.Minute},
		},
	}}
	var buf bytes.Buffer
	require.NoError(t, RenderHistory(&buf, days))
	out := buf.String()
	assert.Contains(t, out, "2024-04-17\n")
	assert.Contains(t, out, "#8  18:03  +3:00  Work    62.5     8")
	assert.Contains(t, out, "#7  18:00  -      Warm      40    12")

	buf.Reset()
	require.NoError(t, RenderHistory(&buf, nil))
	assert.Equal(t, "No sets found.\n", buf.String())
}

func TestRenderMuscleLoad(t *testing.T) {
	var buf bytes.Buffer
	loads := []MuscleLoad{{Muscle: 4, Sets: 0}, {Muscle: 1, Sets: 2}}
	require.NoError(t, RenderMuscleLoad(&buf, loads, 14))
	assert.Contains(t, buf.String(), "last 14 days")
	assert.Contains(t, buf.String(), "Abs")
	assert.Contains(t, buf.String(), "Pecs")
}
