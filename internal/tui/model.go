// Package tui provides the Bubble Tea daily log form.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/taper/internal/model"
	"github.com/verte-zerg/taper/internal/progress"
	"github.com/verte-zerg/taper/internal/store"
)

const (
	fieldBeers = model.FieldBeers
	fieldWalk  = model.FieldWalk
	fieldMeals = model.FieldMeals
	fieldWater = model.FieldWater
	fieldSleep = model.FieldSleep
)

var fieldLabels = map[string]string{
	fieldBeers: "Beers:     ",
	fieldWalk:  "Walk (km): ",
	fieldMeals: "Meals:     ",
	fieldWater: "Water (L): ",
	fieldSleep: "Sleep (h): ",
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	focusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea log form.
type Model struct {
	store store.Store
	opts  model.Options
	today time.Time
	date  string

	keys   []string
	inputs []textinput.Model
	focus  int

	summary model.WeeklySummary
	errMsg  string

	saved     bool
	cancelled bool
	entry     model.DailyEntry

	width  int
	height int
}

// NewModel constructs a log form for today, prefilled with any existing entry.
func NewModel(st store.Store, opts model.Options, today time.Time) *Model {
	m := &Model{
		store: st,
		opts:  opts,
		today: today,
		date:  model.DateKey(today),
	}
	m.keys = []string{fieldBeers, fieldWalk, fieldMeals}
	if opts.Features.TrackWater {
		m.keys = append(m.keys, fieldWater)
	}
	m.keys = append(m.keys, fieldSleep)
	m.inputs = make([]textinput.Model, len(m.keys))
	for i, key := range m.keys {
		input := textinput.New()
		input.Prompt = labelStyle.Render(fieldLabels[key])
		input.CharLimit = 8
		input.Width = 10
		m.inputs[i] = input
	}
	m.load()
	m.setFocus(0)
	return m
}

// Saved reports whether the form was submitted successfully.
func (m *Model) Saved() bool {
	return m.saved
}

// Cancelled reports whether the form was dismissed.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Entry returns the recorded entry after a successful save.
func (m *Model) Entry() model.DailyEntry {
	return m.entry
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
			m.cancelled = true
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			return m, m.setFocus(m.focus + 1)
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.setFocus(m.focus - 1)
		case tea.KeyEnter:
			if m.focus < len(m.inputs)-1 {
				return m, m.setFocus(m.focus + 1)
			}
			if err := m.submit(); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *Model) View() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Log for %s", m.date)), ""}
	for _, input := range m.inputs {
		lines = append(lines, input.View())
	}
	lines = append(lines, "")
	if m.errMsg != "" {
		lines = append(lines, errorStyle.Render(m.errMsg))
	}
	lines = append(lines, footerStyle.Render("tab/shift+tab: move  enter: next/save  esc: cancel"))
	content := strings.Join(lines, "\n")
	footer := m.renderFooter()
	if m.width == 0 || m.height < 3 {
		return content + "\n" + footer
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) setFocus(idx int) tea.Cmd {
	count := len(m.inputs)
	if count == 0 {
		return nil
	}
	if idx < 0 {
		idx = count - 1
	}
	if idx >= count {
		idx = 0
	}
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].TextStyle = focusStyle
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].TextStyle = lipgloss.NewStyle()
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) load() {
	log, err := m.store.Load(context.Background())
	if err != nil {
		logErrf("failed to load log: %v\n", err)
		return
	}
	m.summary = progress.WeeklySummary(log, m.today, m.opts.Features.TrackWater)
	entry, ok := log[m.date]
	if !ok {
		return
	}
	m.setValue(fieldBeers, strconv.Itoa(entry.Beers))
	m.setValue(fieldWalk, formatNumber(entry.WalkKm))
	m.setValue(fieldMeals, strconv.Itoa(entry.Meals))
	if entry.WaterL != nil {
		m.setValue(fieldWater, formatNumber(*entry.WaterL))
	}
	m.setValue(fieldSleep, formatNumber(entry.SleepH))
}

func (m *Model) setValue(key, value string) {
	for i, k := range m.keys {
		if k == key {
			m.inputs[i].SetValue(value)
			return
		}
	}
}

func (m *Model) values() map[string]string {
	out := make(map[string]string, len(m.keys))
	for i, k := range m.keys {
		out[k] = strings.TrimSpace(m.inputs[i].Value())
	}
	return out
}

func (m *Model) submit() error {
	entry, err := model.ParseEntry(m.values(), m.opts.Features.TrackWater)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if err := store.Record(ctx, m.store, m.date, entry); err != nil {
		return err
	}
	m.entry = entry
	m.saved = true
	m.errMsg = ""
	return nil
}

func (m *Model) renderFooter() string {
	s := m.summary
	if s.Empty() {
		return footerStyle.Render("No entries in the last 7 days")
	}
	segments := []string{
		fmt.Sprintf("7-day avg (%d days)", s.Days),
		fmt.Sprintf("Beers %.1f", s.Beers),
		fmt.Sprintf("Walk %.1f km", s.WalkKm),
	}
	if s.WaterL != nil {
		segments = append(segments, fmt.Sprintf("Water %.1f L", *s.WaterL))
	}
	segments = append(segments, fmt.Sprintf("Sleep %.1f h", s.SleepH))
	return footerStyle.Render(strings.Join(segments, " · "))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
