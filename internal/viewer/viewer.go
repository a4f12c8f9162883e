// Package viewer implements the read-only data file browser TUI with
// record scrubbing and per-sensor sparkline windows.
package viewer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorsim/internal/chart"
	"github.com/luki/sensorsim/internal/history"
	"github.com/luki/sensorsim/internal/sensor"
	"github.com/luki/sensorsim/internal/store"
)

// Run loads path into a fresh storage and launches the viewer. The file is
// never written.
func Run(path string, sensors []*sensor.Sensor) error {
	s := store.New(store.WithSensors(sensors))
	report, err := s.Load(path)
	if err != nil {
		return err
	}
	if s.Len() == 0 {
		return fmt.Errorf("no measurements in %s", path)
	}

	p := tea.NewProgram(newModel(path, s, report), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
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
	colorWarn     = lipgloss.Color("220")
	colorCursor   = lipgloss.Color("214")
)

// ── Model ────────────────────────────────────────────────────────────

type model struct {
	path    string
	storage *store.Storage
	report  store.LoadReport
	series  []*history.Series
	stats   []history.Stats
	length  int // longest series
	cursor  int // sample index
	scroll  int
	width   int
	height  int
	chart   chart.Chart
}

func newModel(path string, s *store.Storage, report store.LoadReport) model {
	m := model{
		path:    path,
		storage: s,
		report:  report,
		series:  history.Group(s.All()),
		chart:   chart.New(nil),
	}
	for _, sr := range m.series {
		m.stats = append(m.stats, sr.Stats())
		if len(sr.Points) > m.length {
			m.length = len(sr.Points)
		}
	}
	if m.length > 0 {
		m.cursor = m.length - 1
	}
	return m
}

// ── Init / Update ────────────────────────────────────────────────────

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			if m.cursor < m.length-1 {
				m.cursor++
			}
		case "shift+left", "H":
			m.cursor -= 10
			if m.cursor < 0 {
				m.cursor = 0
			}
		case "shift+right", "L":
			m.cursor += 10
			if m.cursor >= m.length {
				m.cursor = m.length - 1
			}
		case "home":
			m.cursor = 0
		case "end":
			if m.length > 0 {
				m.cursor = m.length - 1
			}

		case "up", "k":
			if m.scroll > 0 {
				m.scroll--
			}
		case "down", "j":
			m.scroll++
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// ── View ─────────────────────────────────────────────────────────────

func (m model) View() string {
	if m.width == 0 {
		return "  Loading..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string
	sections = append(sections, m.renderTitle(contentWidth))

	if n := m.report.Skipped + len(m.report.Malformed); n > 0 {
		note := lipgloss.NewStyle().
			Foreground(colorWarn).
			Padding(0, 1).
			Render(fmt.Sprintf("%d record(s) skipped while loading", n))
		sections = append(sections, note)
	}

	sections = append(sections, m.renderCursorInfo(contentWidth))
	sections = append(sections, m.renderPanels(contentWidth)...)
	sections = append(sections, m.renderFooter(contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
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

func (m model) renderTitle(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("SENSORSIM HISTORY")

	fileText := lipgloss.NewStyle().
		Foreground(colorCursor).
		Bold(true).
		Render(m.path)

	info := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("  (%d records, %d sensors)", m.storage.Len(), len(m.series)))

	right := fileText + info

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

func (m model) renderCursorInfo(width int) string {
	pos := lipgloss.NewStyle().
		Foreground(colorCursor).
		Bold(true).
		Render(fmt.Sprintf("#%d", m.cursor+1))

	total := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("/%d", m.length))

	barWidth := width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	return lipgloss.NewStyle().
		Padding(0, 1).
		Render("  " + pos + total + "  " + m.renderScrubber(barWidth))
}

func (m model) renderScrubber(width int) string {
	if m.length == 0 || width <= 0 {
		return ""
	}

	pos := 0
	if m.length > 1 {
		pos = m.cursor * (width - 1) / (m.length - 1)
	}
	if pos >= width {
		pos = width - 1
	}

	dimS := lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	curS := lipgloss.NewStyle().Foreground(colorCursor).Bold(true)

	var sb strings.Builder
	for i := 0; i < width; i++ {
		if i == pos {
			sb.WriteString(curS.Render("◆"))
		} else {
			sb.WriteString(dimS.Render("─"))
		}
	}
	return sb.String()
}

func (m model) renderPanels(totalWidth int) []string {
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

	labelW := 16
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var panels []string

	for i, sr := range m.series {
		st := m.stats[i]
		b := m.storage.Bounds(sr.Name)

		var rows []string

		header := lipgloss.NewStyle().Bold(true).Foreground(colorName).Render(sr.Name)
		if b.Known {
			header += dimS.Render(fmt.Sprintf("  range %.0f-%.0f %s", b.Min, b.Max, sr.Unit))
		}
		rows = append(rows, header)

		idx := m.cursor
		if idx >= len(sr.Points) {
			idx = len(sr.Points) - 1
		}
		window := sr.Points[:idx+1]
		if len(window) > chartWidth {
			window = window[len(window)-chartWidth:]
		}

		lo, hi := chart.Range(sr.Values(), b)

		label := lipgloss.NewStyle().
			Foreground(colorLabel).
			Width(labelW).
			Render(truncate(timestampAt(sr, idx), labelW))

		value := m.chart.Value(sr.Points[idx].Value, sr.Unit, b)
		spark := frameL + m.chart.SparklinePoints(window, chartWidth, lo, hi, b) + frameR

		stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%6.2f", st.Mean)) +
			dimS.Render(" lo") + valS.Render(fmt.Sprintf("%6.2f", st.Min)) +
			dimS.Render(" pk") + valS.Render(fmt.Sprintf("%6.2f", st.Max)) +
			dimS.Render(" sd") + valS.Render(fmt.Sprintf("%5.2f", st.StdDev))

		rows = append(rows, label+" "+value+" "+spark+stats)

		timeline := m.chart.Timeline(window, chartWidth)
		if strings.TrimSpace(timeline) != "" {
			pad := strings.Repeat(" ", labelW+lipgloss.Width(value)+2)
			rows = append(rows, pad+" "+timeline)
		}

		panel := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			Width(totalWidth).
			Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

		panels = append(panels, panel)
	}

	return panels
}

func (m model) renderFooter(width int) string {
	dimS := lipgloss.NewStyle().Foreground(colorDim)
	keyS := lipgloss.NewStyle().Foreground(colorLabel)

	keys := dimS.Render("q") + keyS.Render(":quit") +
		dimS.Render("  h/l") + keyS.Render(":scrub") +
		dimS.Render("  H/L") + keyS.Render(":skip 10") +
		dimS.Render("  home/end") + keyS.Render(":jump") +
		dimS.Render("  j/k") + keyS.Render(":scroll")

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(keys)
}

// ── Helpers ──────────────────────────────────────────────────────────

func timestampAt(sr *history.Series, idx int) string {
	p := sr.Points[idx]
	if p.Time.IsZero() {
		return "-"
	}
	return p.Time.Format(sensor.TimeLayout)
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 3 {
		return s[:w]
	}
	return s[:w-1] + "…"
}
