package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/liftlog/internal/score"
)

const sparkChars = "▁▂▃▄▅▆▇█"

// MovingAverage computes a trailing mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line block sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	blocks := []rune(sparkChars)
	r := rangeOf(values)
	if math.Abs(r.max-r.min) < 1e-9 {
		return strings.Repeat(string(blocks[len(blocks)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - r.min) / (r.max - r.min)
		idx := int(math.Round(pos * float64(len(blocks)-1)))
		b.WriteRune(blocks[min(max(idx, 0), len(blocks)-1)])
	}
	return b.String()
}

// FormatWeight prints a weight without trailing zeros.
func FormatWeight(w float64) string {
	return formatValue(w)
}

// FormatRest prints the rest between two sets, or "-" for the first set.
func FormatRest(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	d = d.Round(time.Second)
	if d < time.Hour {
		return fmt.Sprintf("+%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	}
	return "+" + d.String()
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderSummary prints headline numbers for a report.
func RenderSummary(w io.Writer, r Report) error {
	if r.Sessions() == 0 {
		_, err := fmt.Fprintf(w, "No work sets logged for %s.\n", r.Exercise)
		return err
	}
	latest, _, err := r.LatestScore()
	if err != nil {
		return err
	}
	lines := []string{
		"Summary: " + r.Exercise,
		fmt.Sprintf("Sessions: %d", r.Sessions()),
		fmt.Sprintf("Work sets: %d", r.WorkSets),
		fmt.Sprintf("Heaviest: %s x %d (%s)", FormatWeight(r.Best.Weight), r.Best.Reps, r.BestDate.Format(score.DayLayout)),
		fmt.Sprintf("Latest score: %.2f", latest),
	}
	if len(r.Weeks) > 1 {
		first, last := r.Weeks[0].Score, r.Weeks[len(r.Weeks)-1].Score
		lines = append(lines, fmt.Sprintf("Weekly change: %+.2f over %d weeks", last-first, len(r.Weeks)))
	}
	return writeLines(w, lines)
}

// RenderWeekly prints one row per ISO week.
func RenderWeekly(w io.Writer, weeks []score.WeekPoint, mode score.WeekMode) error {
	if len(weeks) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(w, "Weekly scores (%s)\n", mode); err != nil {
		return err
	}
	rows := make([][]string, len(weeks))
	for i, p := range weeks {
		change := ""
		if i > 0 {
			change = fmt.Sprintf("%+.2f", p.Score-weeks[i-1].Score)
		}
		rows[i] = []string{fmt.Sprintf("%d-W%02d", p.Year, p.Week), fmt.Sprintf("%.2f", p.Score), change}
	}
	return writeLines(w, formatTable([]string{"Week", "Score", "Change"}, rows, map[int]bool{1: true, 2: true}))
}

// RenderProgress prints the per-day heaviest weight and repetition differential.
func RenderProgress(w io.Writer, points []score.ProgressPoint) error {
	if len(points) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Progress"); err != nil {
		return err
	}
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{
			p.Date.Format(score.DayLayout),
			FormatWeight(p.BestWeight),
			fmt.Sprintf("%+.2f", p.RepDiff),
		}
	}
	return writeLines(w, formatTable([]string{"Day", "Best", "Rep diff"}, rows, map[int]bool{1: true, 2: true}))
}

// CurveOptions sizes the report plots.
type CurveOptions struct {
	TrendWindow int
	TotalWidth  int
	Height      int
	Color       bool
}

// RenderCurves plots the weight progression and the weekly score.
func RenderCurves(w io.Writer, r Report, opts CurveOptions) error {
	if len(r.Progress) == 0 {
		return nil
	}
	weights := make([]float64, len(r.Progress))
	reach := make([]float64, len(r.Progress))
	for i, p := range r.Progress {
		weights[i] = p.BestWeight
		reach[i] = p.BestWeight + p.RepDiff
	}
	width := 0
	if opts.TotalWidth > 0 {
		width = PlotWidthFor(opts.TotalWidth)
	}
	first := r.Progress[0].Date.Format(score.DayLayout)
	last := r.Progress[len(r.Progress)-1].Date.Format(score.DayLayout)
	series := []Series{
		{Name: "Heaviest", Values: weights},
		{Name: "With rep bonus", Values: reach},
	}
	if opts.TrendWindow > 1 {
		series = append(series, Series{Name: fmt.Sprintf("Trend (%d)", opts.TrendWindow), Values: MovingAverage(weights, opts.TrendWindow)})
	}
	if err := Plot(w, "Weight", series, PlotOptions{
		Width:   width,
		Height:  opts.Height,
		Color:   opts.Color,
		Shared:  true,
		XLabels: [2]string{first, last},
	}); err != nil {
		return err
	}
	if len(r.Weeks) < 2 {
		return nil
	}
	_, scores := score.SplitWeeks(r.Weeks)
	firstWeek, lastWeek := r.Weeks[0], r.Weeks[len(r.Weeks)-1]
	return Plot(w, "Weekly score", []Series{{Name: "Score", Values: scores}}, PlotOptions{
		Width:  width,
		Height: opts.Height,
		Color:  opts.Color,
		Shared: true,
		XLabels: [2]string{
			fmt.Sprintf("W%02d", firstWeek.Week),
			fmt.Sprintf("W%02d", lastWeek.Week),
		},
	})
}

// RenderReport prints the full text report.
func RenderReport(w io.Writer, r Report, opts CurveOptions) error {
	if err := RenderSummary(w, r); err != nil {
		return err
	}
	if err := RenderWeekly(w, r.Weeks, r.Mode); err != nil {
		return err
	}
	if err := RenderProgress(w, r.Progress); err != nil {
		return err
	}
	return RenderCurves(w, r, opts)
}

// RenderHistory prints days newest first with every set and its rest time.
func RenderHistory(w io.Writer, days []HistoryDay) error {
	if len(days) == 0 {
		_, err := fmt.Fprintln(w, "No sets found.")
		return err
	}
	for _, day := range days {
		if _, err := fmt.Fprintln(w, day.Day); err != nil {
			return err
		}
		rows := make([][]string, len(day.Entries))
		for i, e := range day.Entries {
			rows[i] = []string{
				fmt.Sprintf("#%d", e.Set.ID),
				e.Set.PerformedAt.Format("15:04"),
				FormatRest(e.Rest),
				e.Set.Type.String(),
				FormatWeight(e.Set.Weight),
				fmt.Sprintf("%d", e.Set.Reps),
			}
		}
		lines := formatTable([]string{"ID", "Time", "Rest", "Type", "Weight", "Reps"}, rows, map[int]bool{4: true, 5: true})
		if err := writeLines(w, lines); err != nil {
			return err
		}
	}
	return nil
}

// RenderOverview prints the landing table.
func RenderOverview(w io.Writer, rows []OverviewRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No exercises yet. Log one with: liftlog log EXERCISE")
		return err
	}
	table := make([][]string, len(rows))
	for i, r := range rows {
		last, top := "-", "-"
		if r.LastDay != "" {
			last = r.LastDay
			top = fmt.Sprintf("%s x %d", FormatWeight(r.Top.Weight), r.Top.Reps)
		}
		table[i] = []string{r.Exercise, last, top, Sparkline(r.Weekly)}
	}
	return writeLines(w, formatTable([]string{"Exercise", "Last", "Top set", "Weekly"}, table, nil))
}
