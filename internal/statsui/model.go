// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/liftlog/internal/score"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/store"
)

const (
	tabOverview = iota
	tabProgress
	tabHistory
)

const defaultPlotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	modalStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Source is the store surface the stats UI uses.
type Source interface {
	stats.OverviewSource
	DeleteSet(ctx context.Context, id int64) error
}

// Options configures the stats UI.
type Options struct {
	Exercise    string
	Mode        score.WeekMode
	TrendWindow int
	PlotHeight  int
}

// Model implements the Bubble Tea stats UI.
type Model struct {
	src  Source
	opts Options

	exercises []string
	report    stats.Report
	history   []stats.HistoryDay
	errMsg    string
	status    string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	sets      table.Model
	// rowIDs maps history table rows to set ids.
	rowIDs []int64

	width  int
	height int

	pickMode  bool
	pickInput textinput.Model
	pickError string

	confirmDelete int64
}

// NewModel constructs a stats UI model.
func NewModel(src Source, opts Options) *Model {
	if opts.Mode == "" {
		opts.Mode = score.WeekFirst
	}
	if opts.PlotHeight <= 0 {
		opts.PlotHeight = defaultPlotHeight
	}
	m := &Model{
		src:  src,
		opts: opts,
		tabs: []string{"Overview", "Progress", "History"},
	}
	m.pickInput = textinput.New()
	m.pickInput.Prompt = "Exercise: "
	m.pickInput.Cursor.SetMode(cursor.CursorBlink)
	m.sets = table.New(table.WithColumns(historyColumns()), table.WithHeight(1))
	m.sets.SetStyles(tableStyles())
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.loadExercises()
	if m.opts.Exercise == "" && len(m.exercises) > 0 {
		m.opts.Exercise = m.exercises[0]
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.pickMode {
			return m.updatePick(msg)
		}
		if m.confirmDelete != 0 {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "m":
			m.toggleMode()
			return m, nil
		case "=":
			m.opts.TrendWindow++
			m.renderTabContents()
			return m, nil
		case "-":
			if m.opts.TrendWindow > 1 {
				m.opts.TrendWindow--
			}
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startPick()
		case "d", "delete":
			if m.activeTab == tabHistory {
				m.askDelete()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.sets.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.sets.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabHistory {
			m.sets, cmd = m.sets.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.pickMode {
		return fitLines(m.renderPickModal(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// Exercise returns the exercise currently shown.
func (m *Model) Exercise() string {
	return m.opts.Exercise
}

func (m *Model) loadExercises() {
	names, err := m.src.ListExerciseNames(context.Background())
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.exercises = names
}

func (m *Model) refresh() {
	ctx := context.Background()
	m.errMsg = ""
	if m.opts.Exercise == "" {
		m.report = stats.Report{}
		m.history = nil
		m.renderTabContents()
		return
	}
	report, err := stats.BuildReport(ctx, m.src, m.opts.Exercise, m.opts.Mode)
	if err != nil {
		logrus.WithError(err).WithField("exercise", m.opts.Exercise).Warn("stats report failed")
		m.errMsg = err.Error()
	}
	m.report = report
	history, err := stats.LoadHistory(ctx, m.src, m.opts.Exercise)
	if err != nil {
		m.errMsg = err.Error()
	}
	m.history = history
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(lipgloss.Height(activeNavStyle.Render("X")), 1)
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" || m.status != "" || m.confirmDelete != 0 {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.sets.SetWidth(m.width)
	// The header row takes two lines including its border.
	m.sets.SetHeight(max(bodyHeight-2, 1))
	m.pickInput.Width = max(10, modalInnerWidth(m.width)-lipgloss.Width(m.pickInput.Prompt))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabHistory {
		m.sets.Focus()
	} else {
		m.sets.Blur()
	}
}

func (m *Model) toggleMode() {
	if m.opts.Mode == score.WeekMean {
		m.opts.Mode = score.WeekFirst
	} else {
		m.opts.Mode = score.WeekMean
	}
	m.status = fmt.Sprintf("Week mode: %s", m.opts.Mode)
	m.refresh()
	m.updateLayout()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	exercise := m.opts.Exercise
	if exercise == "" {
		exercise = "none"
	}
	summary := fmt.Sprintf("Exercise: %s  week=%s  trend=%d", exercise, m.opts.Mode, m.opts.TrendWindow)
	return padLines(m.renderTabs(), m.width) + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down  Exercise: /  Week mode: m  Trend: -/=  Quit: q"
	if m.activeTab == tabHistory {
		help = "Nav: left/right  Select: up/down  Delete: d  Exercise: /  Quit: q"
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func (m *Model) renderFooter() string {
	switch {
	case m.confirmDelete != 0:
		return m.renderHelp() + "\n" + errorStyle.Render(fmt.Sprintf("Delete set #%d? y/n", m.confirmDelete))
	case m.errMsg != "":
		return m.renderHelp() + "\n" + errorStyle.Render(truncateLine(m.errMsg, m.width))
	case m.status != "":
		return m.renderHelp() + "\n" + headerStyle.Render(m.status)
	}
	return m.renderHelp()
}

func (m *Model) renderBody() string {
	if m.opts.Exercise == "" {
		return "No exercises yet. Log one with: liftlog log EXERCISE"
	}
	if m.activeTab == tabHistory {
		if len(m.rowIDs) == 0 {
			return "No sets found."
		}
		return m.sets.View()
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabProgress].SetContent(m.renderProgress())
	m.applyHistory()
}

func (m *Model) renderOverview(width int) string {
	if m.report.Sessions() == 0 {
		return fmt.Sprintf("No work sets logged for %s.", m.opts.Exercise)
	}
	latest, _, err := m.report.LatestScore()
	if err != nil {
		return fmt.Sprintf("Failed to score: %v", err)
	}
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", m.report.Sessions())),
		metricCard("Work sets", fmt.Sprintf("%d", m.report.WorkSets)),
		metricCard("Heaviest", fmt.Sprintf("%s x %d", stats.FormatWeight(m.report.Best.Weight), m.report.Best.Reps)),
		metricCard("Latest score", fmt.Sprintf("%.2f", latest)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderCurves(&buf, m.report, stats.CurveOptions{
		TrendWindow: m.opts.TrendWindow,
		TotalWidth:  width,
		Height:      m.opts.PlotHeight,
		Color:       true,
	}); err != nil {
		return fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func (m *Model) renderProgress() string {
	var buf bytes.Buffer
	if err := stats.RenderWeekly(&buf, m.report.Weeks, m.opts.Mode); err != nil {
		return err.Error()
	}
	if err := stats.RenderProgress(&buf, m.report.Progress); err != nil {
		return err.Error()
	}
	if buf.Len() == 0 {
		return "No work sets logged."
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func historyColumns() []table.Column {
	return []table.Column{
		{Title: "Day", Width: 10},
		{Title: "Time", Width: 5},
		{Title: "Rest", Width: 6},
		{Title: "Type", Width: 4},
		{Title: "Weight", Width: 7},
		{Title: "Reps", Width: 4},
		{Title: "ID", Width: 6},
	}
}

func (m *Model) applyHistory() {
	var rows []table.Row
	var ids []int64
	for _, day := range m.history {
		for i := len(day.Entries) - 1; i >= 0; i-- {
			e := day.Entries[i]
			rows = append(rows, table.Row{
				day.Day,
				e.Set.PerformedAt.Format("15:04"),
				stats.FormatRest(e.Rest),
				e.Set.Type.String(),
				stats.FormatWeight(e.Set.Weight),
				fmt.Sprintf("%d", e.Set.Reps),
				fmt.Sprintf("#%d", e.Set.ID),
			})
			ids = append(ids, e.Set.ID)
		}
	}
	m.sets.SetRows(rows)
	m.rowIDs = ids
	if c := m.sets.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.sets.SetCursor(len(rows) - 1)
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) askDelete() {
	idx := m.sets.Cursor()
	if idx < 0 || idx >= len(m.rowIDs) {
		return
	}
	m.confirmDelete = m.rowIDs[idx]
	m.status = ""
	m.updateLayout()
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.confirmDelete
	m.confirmDelete = 0
	if msg.String() == "y" {
		if err := m.src.DeleteSet(context.Background(), id); err != nil && !errors.Is(err, store.ErrSetNotFound) {
			m.errMsg = err.Error()
		} else {
			logrus.WithField("set", id).Info("set deleted")
			m.refresh()
			m.status = fmt.Sprintf("Deleted set #%d", id)
		}
	}
	m.updateLayout()
	return m, nil
}

func (m *Model) startPick() (tea.Model, tea.Cmd) {
	m.loadExercises()
	m.pickMode = true
	m.pickError = ""
	m.pickInput.SetValue("")
	return m, m.pickInput.Focus()
}

func (m *Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.pickMode = false
		return m, nil
	case tea.KeyTab:
		if match := completeExercise(m.exercises, m.pickInput.Value()); match != "" {
			m.pickInput.SetValue(match)
			m.pickInput.CursorEnd()
		}
		return m, nil
	case tea.KeyEnter:
		name := matchExercise(m.exercises, m.pickInput.Value())
		if name == "" {
			m.pickError = fmt.Sprintf("Unknown exercise %q", strings.TrimSpace(m.pickInput.Value()))
			return m, nil
		}
		m.pickMode = false
		m.opts.Exercise = name
		m.status = ""
		m.refresh()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.pickInput, cmd = m.pickInput.Update(msg)
	return m, cmd
}

func (m *Model) renderPickModal() string {
	body := []string{
		cardValueStyle.Render("Select Exercise"),
		m.pickInput.View(),
		headerStyle.Render(truncateLine(strings.Join(m.exercises, ", "), modalInnerWidth(m.width))),
		headerStyle.Render("Tab to complete / Enter to apply / Esc to cancel"),
	}
	if m.pickError != "" {
		body = append(body, errorStyle.Render(m.pickError))
	}
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// matchExercise resolves input to an exercise name, case-insensitively.
func matchExercise(names []string, input string) string {
	input = strings.TrimSpace(input)
	for _, name := range names {
		if strings.EqualFold(name, input) {
			return name
		}
	}
	return ""
}

// completeExercise returns the first name starting with the input.
func completeExercise(names []string, input string) string {
	prefix := strings.ToLower(strings.TrimSpace(input))
	if prefix == "" {
		return ""
	}
	for _, name := range names {
		if strings.HasPrefix(strings.ToLower(name), prefix) {
			return name
		}
	}
	return ""
}

func modalWidth(width int) int {
	return max(40, min(width-4, 80))
}

func modalInnerWidth(width int) int {
	// 2 border + 4 padding
	return max(modalWidth(width)-6, 10)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	if lineWidth := lipgloss.Width(line); lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
