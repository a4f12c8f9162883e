// Package monitor implements a live view that samples the simulated
// sensors on a fixed interval into a storage and draws per-sensor
// sparklines with range colouring.
package monitor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorsim/internal/chart"
	"github.com/luki/sensorsim/internal/history"
	"github.com/luki/sensorsim/internal/sensor"
	"github.com/luki/sensorsim/internal/store"
)

const pollInterval = 1 * time.Second

// Run starts the live monitor. Readings accumulate in s; pressing "s"
// saves them to dataFile.
func Run(sensors []*sensor.Sensor, s *store.Storage, dataFile string, log *slog.Logger) error {
	p := tea.NewProgram(New(sensors, s, dataFile, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}
	return nil
}

// ── Messages ─────────────────────────────────────────────────────────

type tickMsg time.Time

type savedMsg struct {
	err   error
	count int
}

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live monitor.
type Model struct {
	sensors   []*sensor.Sensor
	storage   *store.Storage
	dataFile  string
	log       *slog.Logger
	chart     chart.Chart
	status    string
	err       error
	width     int
	height    int
	scroll    int
	lastPoll  time.Time
	startTime time.Time
	paused    bool
}

// New creates the initial model for the live monitor.
func New(sensors []*sensor.Sensor, s *store.Storage, dataFile string, log *slog.Logger) Model {
	return Model{
		sensors:   sensors,
		storage:   s,
		dataFile:  dataFile,
		log:       log,
		chart:     chart.New(nil),
		startTime: time.Now(),
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// saveCmd snapshots the storage on the update loop; the returned command
// runs on its own goroutine while sampling keeps appending.
func (m Model) saveCmd() tea.Cmd {
	ms, path := m.storage.All(), m.dataFile
	return func() tea.Msg {
		return savedMsg{err: store.WriteFile(path, ms), count: len(ms)}
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		case "home":
			m.scroll = 0
		case " ", "p":
			m.paused = !m.paused
		case "s":
			m.status = "saving..."
			return m, m.saveCmd()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		if !m.paused {
			m = m.sample(time.Time(msg))
		}
		return m, tickCmd()

	case savedMsg:
		m.err = msg.err
		if msg.err != nil {
			m.status = ""
			m.log.Error("save failed", "file", m.dataFile, "err", msg.err)
		} else {
			m.status = fmt.Sprintf("saved %d records to %s", msg.count, m.dataFile)
			m.log.Info("data saved", "file", m.dataFile, "records", msg.count)
		}
	}

	return m, nil
}

func (m Model) sample(t time.Time) Model {
	for _, r := range sensor.ReadAll(m.sensors, t) {
		m.storage.Add(r)
	}
	m.lastPoll = t
	return m
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorName     = lipgloss.Color("147")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorOk       = lipgloss.Color("78")
	colorWarn     = lipgloss.Color("220")
	colorCrit     = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitleBar(contentWidth))

	if m.err != nil {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorCrit).
			Bold(true).
			Width(contentWidth).
			Padding(0, 1).
			Render(fmt.Sprintf(" ERROR: %v", m.err)))
	}

	if m.storage.Len() == 0 {
		sections = append(sections, lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data..."))
	} else {
		sections = append(sections, m.renderSensorPanels(contentWidth)...)
	}

	sections = append(sections, m.renderFooter(contentWidth))

	lines := strings.Split(lipgloss.JoinVertical(lipgloss.Left, sections...), "\n")
	visibleLines := m.height
	if visibleLines < 5 {
		visibleLines = 5
	}
	maxScroll := len(lines) - visibleLines
	if maxScroll < 0 {
		maxScroll = 0
	}
	start := m.scroll
	if start > maxScroll {
		start = maxScroll
	}
	end := start + visibleLines
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[start:end], "\n")
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SENSORSIM MONITOR")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	statusParts := []string{
		dimS.Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime)))),
		dimS.Render(fmt.Sprintf("%d records", m.storage.Len())),
	}
	if !m.lastPoll.IsZero() {
		statusParts = append(statusParts, dimS.Render(m.lastPoll.Format("15:04:05")))
	}
	if m.paused {
		statusParts = append(statusParts, lipgloss.NewStyle().Foreground(colorCrit).Bold(true).Render("PAUSED"))
	}
	if m.status != "" {
		statusParts = append(statusParts, lipgloss.NewStyle().Foreground(colorOk).Render(m.status))
	}

	right := strings.Join(statusParts, dimS.Render(" │ "))

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + strings.Repeat(" ", gap) + right)
}

func (m Model) renderSensorPanels(totalWidth int) []string {
	innerWidth := totalWidth - 4
	if innerWidth < 30 {
		innerWidth = 30
	}
	chartWidth := innerWidth - 75
	if chartWidth < 15 {
		chartWidth = 15
	}
	if chartWidth > 140 {
		chartWidth = 140
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var panels []string
	for _, sr := range history.Group(m.storage.All()) {
		b := m.storage.Bounds(sr.Name)
		st := sr.Stats()
		pts := sr.LastNPoints(chartWidth)

		name := lipgloss.NewStyle().
			Bold(true).
			Foreground(colorName).
			Width(14).
			Render(sr.Name)

		spark := frameL + m.chart.SparklinePoints(pts, chartWidth, b.Min, b.Max, b) + frameR

		stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%6.2f", st.Mean)) +
			dimS.Render(" lo") + valS.Render(fmt.Sprintf("%6.2f", st.Min)) +
			dimS.Render(" pk") + valS.Render(fmt.Sprintf("%6.2f", st.Max)) +
			dimS.Render(" n") + valS.Render(fmt.Sprintf("%d", st.Count))

		row := name + " " + m.chart.Value(sr.Last(), sr.Unit, b) + " " + spark + stats

		panels = append(panels, lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(totalWidth).
			Render(row))
	}
	return panels
}

func (m Model) renderFooter(width int) string {
	okS := lipgloss.NewStyle().Foreground(colorOk).Render("██")
	warnS := lipgloss.NewStyle().Foreground(colorWarn).Render("██")
	critS := lipgloss.NewStyle().Foreground(colorCrit).Render("██")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)
	legend := okS + dimS.Render(" in range ") +
		warnS + dimS.Render(" near edge ") +
		critS + dimS.Render(" out of range")

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  s") + keyS.Render(":save") +
		dimS.Render("  p") + keyS.Render(":pause") +
		dimS.Render("  j/k") + keyS.Render(":scroll")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + strings.Repeat(" ", gap) + keys)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
