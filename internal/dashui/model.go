// Package dashui provides the Bubble Tea dashboard.
package dashui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/taper/internal/model"
	"github.com/verte-zerg/taper/internal/progress"
	"github.com/verte-zerg/taper/internal/stats"
	"github.com/verte-zerg/taper/internal/store"
)

const (
	tabOverview = iota
	tabHistory
	tabPlan
)

const (
	plotHeight = 10
)

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
			Border(lipgloss.RoundedBorder(), true)
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

var indicatorColors = map[progress.Indicator]lipgloss.Color{
	progress.IndicatorGray:   lipgloss.Color("#4A4A4A"),
	progress.IndicatorGreen:  lipgloss.Color("#22C55E"),
	progress.IndicatorOrange: lipgloss.Color("#F97316"),
	progress.IndicatorRed:    lipgloss.Color("#EF4444"),
}

var statusStyles = map[model.Status]lipgloss.Style{
	model.StatusNoData:         lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
	model.StatusOnTrack:        lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E")).Bold(true),
	model.StatusSlightlyBehind: lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316")).Bold(true),
	model.StatusOffTrack:       lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true),
}

// Model implements the Bubble Tea dashboard.
type Model struct {
	store store.Store
	opts  model.Options
	now   func() time.Time

	report stats.Report
	errMsg string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	historyTable table.Model
	tableLayout  tableLayout

	width  int
	height int
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
	colCount int
}

// NewModel constructs a dashboard model. A nil now defaults to time.Now.
func NewModel(st store.Store, opts model.Options, now func() time.Time) *Model {
	if now == nil {
		now = time.Now
	}
	m := &Model{
		store: st,
		opts:  opts,
		now:   now,
		tabs:  []string{"Overview", "History", "Plan"},
	}
	m.historyTable = buildHistoryTable(nil, opts.Features.TrackWater, 0, 1)
	m.initViewports()
	m.refreshReport()
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
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		if m.activeTab == tabHistory {
			m.historyTable.Focus()
		} else {
			m.historyTable.Blur()
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l", "tab":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			m.updateLayout()
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.historyTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.historyTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabHistory {
				var cmd tea.Cmd
				m.historyTable, cmd = m.historyTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTableSize(m.width, vpHeight)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.historyTable.Focus()
	} else {
		m.historyTable.Blur()
	}
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
	tabs := padLines(m.renderTabs(), m.width)
	targets := padLines(m.renderTargets(), m.width)
	return tabs + "\n" + targets
}

func (m *Model) renderTargets() string {
	t := m.opts.Targets
	summary := fmt.Sprintf("Today %s  Targets: beers<=%d walk>=%s sleep>=%s", m.report.Today, t.Beers, formatNumber(t.WalkKm), formatNumber(t.SleepH))
	if m.opts.Features.TrackWater {
		summary += fmt.Sprintf(" water>=%s", formatNumber(t.WaterL))
	}
	summary += fmt.Sprintf("  plan=%dd", t.PlanDays)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabHistory {
		if len(m.report.Entries) == 0 {
			return fitLines("No entries logged yet.", m.width, height)
		}
		view := tableMutedStyle.Render(m.historyTable.View())
		return fitLines(view, m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.opts, m.now())
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load log.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.applyHistoryTable(width, bodyHeight, true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load log.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabPlan].SetContent(renderPlan(m.report, width))
}

func renderOverview(report stats.Report, width int) string {
	cards := renderSummaryCards(report, width)
	if len(report.Habits.Labels) == 0 {
		return cards + "\n\nNo entries logged yet."
	}
	var buf bytes.Buffer
	if err := stats.RenderHabits(&buf, report, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render habits: %v", err)
	}
	return strings.TrimRight(cards+"\n\n"+buf.String(), "\n")
}

func renderSummaryCards(report stats.Report, width int) string {
	sparks := map[string][]float64{
		"beers": report.Habits.Beers,
		"walk":  report.Habits.Walk,
		"sleep": report.Habits.Sleep,
		"water": stats.FillForward(report.Habits.Water),
	}
	cards := make([]string, 0, len(report.Cards))
	for _, c := range report.Cards {
		cards = append(cards, metricCard(c, stats.Sparkline(sparks[c.Key])))
	}
	if len(cards) == 0 {
		return ""
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func metricCard(c stats.Card, spark string) string {
	value := c.Display()
	if c.Value != nil {
		value = fmt.Sprintf("%s / %s", value, formatNumber(c.Target))
	}
	lines := []string{cardTitleStyle.Render(c.Label), cardValueStyle.Render(value)}
	if spark != "" {
		lines = append(lines, headerStyle.Render(spark))
	}
	style := cardStyle.BorderForeground(indicatorColors[c.Indicator])
	return style.Render(strings.Join(lines, "\n"))
}

func renderPlan(report stats.Report, width int) string {
	if !report.Options.Features.ShowCurves {
		return "Progress curves are disabled."
	}
	line := report.StatusMessage()
	if report.Deviation != nil {
		line = fmt.Sprintf("%s (deviation %+.1f)", line, *report.Deviation)
	}
	style, ok := statusStyles[report.Status]
	if !ok {
		style = statusStyles[model.StatusNoData]
	}
	status := style.Render(line)
	var buf bytes.Buffer
	if err := stats.RenderProgress(&buf, report, width, plotHeight, true); err != nil {
		return fmt.Sprintf("Failed to render progress: %v", err)
	}
	return strings.TrimRight(status+"\n\n"+buf.String(), "\n")
}

func buildHistoryTable(entries []model.DatedEntry, trackWater bool, width, height int) table.Model {
	cols, rows := buildHistoryTableData(entries, trackWater)
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(historyTableStyles())
	return t
}

func buildHistoryTableData(entries []model.DatedEntry, trackWater bool) ([]table.Column, []table.Row) {
	headers, cells := stats.HistoryRows(entries, trackWater)
	columns := make([]table.Column, len(headers))
	for i, h := range headers {
		w := 7
		if i == 0 {
			w = 11
		}
		columns[i] = table.Column{Title: h, Width: w}
	}
	rows := make([]table.Row, len(cells))
	for i, r := range cells {
		rows[i] = table.Row(r)
	}
	return columns, rows
}

func (m *Model) applyHistoryTable(width, height int, force bool) {
	cols, rows := buildHistoryTableData(m.report.Entries, m.opts.Features.TrackWater)
	viewportHeight := maxInt(1, height-1)
	if !force &&
		m.tableLayout.width == width &&
		m.tableLayout.height == viewportHeight &&
		m.tableLayout.rowCount == len(rows) &&
		m.tableLayout.colCount == len(cols) {
		return
	}
	m.historyTable.SetColumns(cols)
	m.historyTable.SetRows(rows)
	m.tableLayout.rowCount = len(rows)
	m.tableLayout.colCount = len(cols)
	m.setTableSize(width, height)
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := maxInt(1, height-1)
	if m.tableLayout.width == width && m.tableLayout.height == viewportHeight {
		return
	}
	m.tableLayout.width = width
	m.tableLayout.height = viewportHeight
	m.historyTable.SetWidth(width)
	m.historyTable.SetHeight(viewportHeight)
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
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
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
