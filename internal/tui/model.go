// Package tui provides the Bubble Tea set-logging interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plates"
	"github.com/verte-zerg/liftlog/internal/score"
	"github.com/verte-zerg/liftlog/internal/stats"
)

// recentLimit is how many of the latest sets the screen lists.
const recentLimit = 4

const (
	fieldWeight = iota
	fieldReps
	fieldCount
)

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	typeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	panelStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Store is the persistence surface the logging screen needs.
type Store interface {
	stats.HistorySource
	EnsureExercise(ctx context.Context, name string, defaults model.RepScheme) (model.Exercise, error)
	InsertSet(ctx context.Context, name string, set model.Set) (int64, error)
	ListRecentSets(ctx context.Context, name string, limit int) ([]model.Set, error)
}

// Options configures the logging screen.
type Options struct {
	Exercise string
	// Defaults seed an exercise that does not exist yet.
	Defaults model.RepScheme
	Bar      float64
	Plates   []float64
	// Now is the clock used for new sets; time.Now when nil.
	Now func() time.Time
}

// Model implements the Bubble Tea set-logging UI.
type Model struct {
	store    Store
	opts     Options
	exercise model.Exercise

	inputs  [fieldCount]textinput.Model
	focus   int
	setType model.SetType

	recent []model.Set
	logged int
	status string
	errMsg string

	todayScore float64
	todaySets  int
	hasToday   bool
	lastDay    string
	lastScore  float64
	hasLast    bool

	width  int
	height int
}

// NewModel constructs a logging model. The exercise is created with the
// option defaults when it is not stored yet.
func NewModel(st Store, opts Options) (*Model, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Bar <= 0 {
		opts.Bar = plates.DefaultBar
	}
	if len(opts.Plates) == 0 {
		opts.Plates = plates.DefaultAvailable
	}
	ex, err := st.EnsureExercise(context.Background(), opts.Exercise, opts.Defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise: %w", err)
	}
	m := &Model{
		store:    st,
		opts:     opts,
		exercise: ex,
		setType:  model.SetWork,
	}
	m.inputs[fieldWeight] = newInput("Weight: ")
	m.inputs[fieldReps] = newInput("Reps:   ")
	m.inputs[fieldWeight].Placeholder = "kg"
	m.inputs[fieldReps].Placeholder = fmt.Sprintf("%d-%d", ex.Defaults.RepBase, ex.Defaults.RepMax)
	if last := m.loadRecent(); last != nil {
		m.inputs[fieldWeight].SetValue(stats.FormatWeight(last.Weight))
		m.setType = last.Type
	}
	m.inputs[fieldWeight].Focus()
	m.loadFooterStats()
	return m, nil
}

func newInput(prompt string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.CharLimit = 8
	in.Width = 10
	return in
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyShiftTab:
			return m, m.switchField()
		case tea.KeyUp:
			m.setType = m.setType.Prev()
			return m, nil
		case tea.KeyDown:
			m.setType = m.setType.Next()
			return m, nil
		case tea.KeyEnter:
			if m.submit() {
				return m, m.focusField(fieldReps)
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{
		titleStyle.Render(m.exercise.Name) + "  " + pendingStyle.Render(m.schemeLine()),
		"",
		m.inputs[fieldWeight].View(),
		m.inputs[fieldReps].View(),
		"Type:   " + typeStyle.Render(m.setType.String()) + pendingStyle.Render("  (up/down)"),
	}
	if line := m.plateLine(); line != "" {
		lines = append(lines, "", pendingStyle.Render(line))
	}
	lines = append(lines, "", m.renderRecent())
	switch {
	case m.errMsg != "":
		lines = append(lines, "", errorStyle.Render(m.errMsg))
	case m.status != "":
		lines = append(lines, "", pendingStyle.Render(m.status))
	}
	content := panelStyle.Render(strings.Join(lines, "\n"))
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) switchField() tea.Cmd {
	return m.focusField((m.focus + 1) % fieldCount)
}

func (m *Model) focusField(field int) tea.Cmd {
	m.focus = field
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == field {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) schemeLine() string {
	d := m.exercise.Defaults
	return fmt.Sprintf("%d-%d reps, +%s", d.RepBase, d.RepMax, stats.FormatWeight(d.Increment))
}

// parseInput reads the weight and reps fields.
func (m *Model) parseInput() (float64, int, error) {
	weight, err := parseWeight(m.inputs[fieldWeight].Value())
	if err != nil || weight < 0 {
		return 0, 0, fmt.Errorf("invalid weight %q", m.inputs[fieldWeight].Value())
	}
	reps, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldReps].Value()))
	if err != nil || reps <= 0 {
		return 0, 0, fmt.Errorf("invalid reps %q", m.inputs[fieldReps].Value())
	}
	return weight, reps, nil
}

// parseWeight accepts a decimal comma.
func parseWeight(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
}

// submit stores the entered set and reports whether it was saved.
func (m *Model) submit() bool {
	m.status = ""
	m.errMsg = ""
	weight, reps, err := m.parseInput()
	if err != nil {
		m.errMsg = err.Error()
		return false
	}
	set := model.Set{
		PerformedAt: m.opts.Now(),
		Weight:      weight,
		Reps:        reps,
		Type:        m.setType,
		Scheme:      m.exercise.Defaults,
	}
	id, err := m.store.InsertSet(context.Background(), m.exercise.Name, set)
	if err != nil {
		logrus.WithError(err).WithField("exercise", m.exercise.Name).Error("failed to save set")
		m.errMsg = fmt.Sprintf("failed to save set: %v", err)
		return false
	}
	logrus.WithFields(logrus.Fields{
		"exercise": m.exercise.Name,
		"set":      id,
		"weight":   weight,
		"reps":     reps,
		"type":     m.setType.String(),
	}).Info("set logged")
	m.logged++
	m.status = fmt.Sprintf("Logged #%d: %s x %d %s", id, stats.FormatWeight(weight), reps, m.setType)
	m.inputs[fieldReps].SetValue("")
	m.loadRecent()
	m.loadFooterStats()
	return true
}

// loadRecent refreshes the recent set list and returns the newest set.
func (m *Model) loadRecent() *model.Set {
	sets, err := m.store.ListRecentSets(context.Background(), m.exercise.Name, recentLimit)
	if err != nil {
		logrus.WithError(err).Warn("failed to load recent sets")
		m.errMsg = err.Error()
		return nil
	}
	m.recent = sets
	if len(sets) == 0 {
		return nil
	}
	return &sets[0]
}

func (m *Model) loadFooterStats() {
	days, err := stats.LoadDays(context.Background(), m.store, m.exercise.Name)
	if err != nil {
		logrus.WithError(err).Warn("failed to load session stats")
		return
	}
	today := m.opts.Now().Format(score.DayLayout)
	m.hasToday = false
	m.hasLast = false
	for i := len(days) - 1; i >= 0; i-- {
		day := days[i]
		key := day.Date.Format(score.DayLayout)
		value, ok, err := score.Daily(day.Attempts)
		if err != nil {
			logrus.WithError(err).WithField("day", key).Warn("failed to score day")
			continue
		}
		if !ok {
			continue
		}
		if key == today {
			m.todayScore = value
			m.todaySets = len(day.Attempts)
			m.hasToday = true
			continue
		}
		m.lastDay = key
		m.lastScore = value
		m.hasLast = true
		return
	}
}

func (m *Model) plateLine() string {
	if m.exercise.Type != model.ExerciseBarbell {
		return ""
	}
	weight, err := parseWeight(m.inputs[fieldWeight].Value())
	if err != nil {
		return ""
	}
	b, err := plates.Load(weight, m.opts.Bar, m.opts.Plates)
	if err != nil {
		return ""
	}
	parts := make([]string, len(b.PerSide.Plates))
	for i, p := range b.PerSide.Plates {
		parts[i] = stats.FormatWeight(p)
	}
	side := "empty bar"
	if len(parts) > 0 {
		side = strings.Join(parts, " + ") + " per side"
	}
	if !b.Exact() {
		side += fmt.Sprintf(" (%s loaded)", stats.FormatWeight(b.Loaded))
	}
	return "Plates: " + side
}

func (m *Model) renderRecent() string {
	if len(m.recent) == 0 {
		return pendingStyle.Render("No sets logged yet.")
	}
	lines := []string{pendingStyle.Render("Recent:")}
	for _, s := range m.recent {
		lines = append(lines, fmt.Sprintf("%s  %-4s %6s x %-3d",
			s.PerformedAt.Format("01-02 15:04"), s.Type, stats.FormatWeight(s.Weight), s.Reps))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	var segments []string
	if m.hasToday {
		segments = append(segments, fmt.Sprintf("Today %.2f (%d work sets)", m.todayScore, m.todaySets))
	} else {
		segments = append(segments, "Today -")
	}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %s %.2f", m.lastDay, m.lastScore))
	}
	segments = append(segments, "Tab field  Enter log  Esc quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}

// Logged returns how many sets were saved during the session.
func (m *Model) Logged() int {
	return m.logged
}
