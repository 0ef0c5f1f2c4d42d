package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Series represents a named data series for plotting.
type Series struct {
	Name   string
	Values []float64
}

// PlotOptions controls plot layout.
type PlotOptions struct {
	// Width is the plot area in cells; 0 fits the terminal.
	Width  int
	Height int
	// Color forces ANSI colors even when w is not a terminal.
	Color bool
	// Shared draws every series against one value axis labelled in data
	// units. Otherwise each series is scaled to its own range.
	Shared bool
	// XLabels are shown under the first and last columns.
	XLabels [2]string
	// Unit is appended to shared axis labels.
	Unit string
}

type valueRange struct {
	min float64
	max float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisLabelWidth      = 7
	axisSeparator       = " │ "
	perSeriesNote       = "Scaled per series; see ranges below."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var colorCodes = []string{
	"\x1b[36m", // cyan
	"\x1b[33m", // yellow
	"\x1b[35m", // magenta
	"\x1b[32m", // green
}

// Plot renders series as a braille line chart.
func Plot(w io.Writer, title string, series []Series, opts PlotOptions) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	width := opts.Width
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	resampled := make([]Series, len(series))
	for i, s := range series {
		resampled[i] = Series{Name: s.Name, Values: resample(s.Values, width)}
	}
	ranges := seriesRanges(resampled, opts.Shared)

	dotRows := height * 4
	layers := make([][][]uint8, len(resampled))
	for si, s := range resampled {
		layers[si] = makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		prevX, prevY := -1, -1
		for x, v := range s.Values {
			px, py := x*2, valueToRow(v, ranges[si], dotRows)
			if prevX < 0 {
				if style.plots(px) {
					setBrailleDot(layers[si], px, py)
				}
			} else {
				drawLine(prevX, prevY, px, py, func(dx, dy int) {
					if style.plots(dx) {
						setBrailleDot(layers[si], dx, dy)
					}
				})
			}
			prevX, prevY = px, py
		}
	}

	useColor := shouldUseColor(w, opts.Color)
	var out strings.Builder
	if title != "" {
		out.WriteString(title + "\n")
	}
	if !opts.Shared {
		out.WriteString(perSeriesNote + "\n")
		for i, s := range resampled {
			fmt.Fprintf(&out, "%s: %s - %s\n", s.Name, formatValue(ranges[i].min), formatValue(ranges[i].max))
		}
	}
	labels := axisLabels(height, ranges[0], opts)
	for y := 0; y < height; y++ {
		out.WriteString(padCell(labels[y], axisLabelWidth, true))
		out.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, layer := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if useColor && layer >= 0 {
				out.WriteString(colorCodes[layer%len(colorCodes)])
				out.WriteRune(ch)
				out.WriteString(colorReset)
				continue
			}
			out.WriteRune(ch)
		}
		out.WriteByte('\n')
	}
	if xAxis := xAxisLine(opts.XLabels, width); xAxis != "" {
		out.WriteString(xAxis + "\n")
	}
	out.WriteString(legend(resampled, useColor) + "\n\n")
	_, err := io.WriteString(w, out.String())
	return err
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func seriesRanges(series []Series, shared bool) []valueRange {
	ranges := make([]valueRange, len(series))
	for i, s := range series {
		ranges[i] = rangeOf(s.Values)
	}
	if shared {
		all := ranges[0]
		for _, r := range ranges[1:] {
			all.min = math.Min(all.min, r.min)
			all.max = math.Max(all.max, r.max)
		}
		for i := range ranges {
			ranges[i] = all
		}
	}
	for i, r := range ranges {
		if math.Abs(r.max-r.min) < 1e-9 {
			ranges[i] = valueRange{min: r.min - 1, max: r.max + 1}
		}
	}
	return ranges
}

func rangeOf(values []float64) valueRange {
	r := valueRange{min: values[0], max: values[0]}
	for _, v := range values[1:] {
		r.min = math.Min(r.min, v)
		r.max = math.Max(r.max, v)
	}
	return r
}

func axisLabels(height int, r valueRange, opts PlotOptions) []string {
	labels := make([]string, height)
	top, mid, bottom := "max", "mid", "min"
	if opts.Shared {
		top = formatValue(r.max) + opts.Unit
		mid = formatValue((r.max+r.min)/2) + opts.Unit
		bottom = formatValue(r.min) + opts.Unit
	}
	labels[0] = top
	if height > 2 {
		labels[height/2] = mid
	}
	if height > 1 {
		labels[height-1] = bottom
	}
	return labels
}

func xAxisLine(labels [2]string, width int) string {
	if labels[0] == "" && labels[1] == "" {
		return ""
	}
	indent := strings.Repeat(" ", axisLabelWidth+runewidth.StringWidth(axisSeparator))
	gap := width - runewidth.StringWidth(labels[0]) - runewidth.StringWidth(labels[1])
	if gap < 1 {
		return indent + labels[0]
	}
	return indent + labels[0] + strings.Repeat(" ", gap) + labels[1]
}

func formatValue(v float64) string {
	if math.Abs(v-math.Round(v)) < 1e-9 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - runewidth.StringWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		return minPlotWidth
	}
	return plotWidth
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", brailleFromMask(0x01), s.Name, lineStyles[i%len(lineStyles)].name)
		if useColor {
			label = colorCodes[i%len(colorCodes)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func (ls lineStyle) plots(x int) bool {
	if ls.period <= 1 {
		return true
	}
	if x < 0 {
		x = -x
	}
	return x%ls.period < ls.on
}

// resample stretches or averages values into exactly width columns.
func resample(values []float64, width int) []float64 {
	out := make([]float64, width)
	n := len(values)
	switch {
	case n == width:
		copy(out, values)
	case n > width:
		for i := range out {
			start := i * n / width
			end := (i + 1) * n / width
			if end <= start {
				end = start + 1
			}
			var sum float64
			for _, v := range values[start:end] {
				sum += v
			}
			out[i] = sum / float64(end-start)
		}
	case n == 1 || width == 1:
		for i := range out {
			out[i] = values[0]
		}
	default:
		for i := range out {
			pos := float64(i) * float64(n-1) / float64(width-1)
			idx := int(pos)
			if idx >= n-1 {
				out[i] = values[n-1]
				continue
			}
			frac := pos - float64(idx)
			out[i] = values[idx]*(1-frac) + values[idx+1]*frac
		}
	}
	return out
}

func valueToRow(v float64, r valueRange, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - r.min) / (r.max - r.min)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges the layers at one cell; the color follows the first
// layer that has a dot there.
func composeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	first := -1
	for i, cells := range layers {
		if cells[y][x] == 0 {
			continue
		}
		if first < 0 {
			first = i
		}
		mask |= cells[y][x]
	}
	return mask, first
}

// drawLine walks a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Braille cells are 2 dots wide and 4 dots tall.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func setBrailleDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleDots[x%2][y%4]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
