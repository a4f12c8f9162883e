// Package chart provides sparkline rendering with values colour-coded
// against a sensor's simulated range, hour tick marks and timeline labels.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorsim/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Bounds is the expected range of a sensor. Known is false for series
// loaded from a file whose name matches no configured sensor.
type Bounds struct {
	Min, Max float64
	Known    bool
}

// Chart renders through a lipgloss renderer, so output written to a
// non-terminal comes out without escape sequences.
type Chart struct {
	r *lipgloss.Renderer
}

// New returns a Chart bound to r. A nil r uses the default renderer.
func New(r *lipgloss.Renderer) Chart {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return Chart{r: r}
}

func (c Chart) style() lipgloss.Style {
	return c.r.NewStyle()
}

// ValueColor returns the colour for v: green inside the range, yellow in
// the outer tenth on either side, red outside it.
func ValueColor(v float64, b Bounds) lipgloss.Color {
	if !b.Known {
		return lipgloss.Color("250") // neutral
	}
	span := b.Max - b.Min
	switch {
	case v < b.Min || v > b.Max:
		return lipgloss.Color("196") // red
	case v < b.Min+span*0.1 || v > b.Max-span*0.1:
		return lipgloss.Color("220") // yellow
	default:
		return lipgloss.Color("78") // soft green
	}
}

// Range returns the vertical range for a sparkline: the sensor bounds when
// known, widened to include any out-of-range value.
func Range(vals []float64, b Bounds) (lo, hi float64) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	if b.Known {
		lo, hi = b.Min, b.Max
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return 0, 1
	}
	return lo, hi
}

// SparklinePoints renders a sparkline with a tick mark wherever the hour
// changes between consecutive points.
func (c Chart) SparklinePoints(points []history.Point, width int, rangeMin, rangeMax float64, b Bounds) string {
	if width <= 0 {
		return ""
	}

	dim := c.style().Foreground(lipgloss.Color("236"))
	if len(points) == 0 {
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := c.style().Foreground(lipgloss.Color("239"))

	for i, p := range points {
		if isHourTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}

		idx := 0
		if norm := (p.Value - rangeMin) / span; norm >= 1 {
			idx = 7
		} else if norm > 0 {
			idx = int(norm * 7)
		}

		style := c.style().Foreground(ValueColor(p.Value, b))
		if b.Known && (p.Value < b.Min || p.Value > b.Max) {
			style = style.Bold(true)
		}
		sb.WriteString(style.Render(string(sparkBlocks[idx])))
	}

	return sb.String()
}

func isHourTick(points []history.Point, i int) bool {
	if i == 0 {
		return false
	}
	cur, prev := points[i].Time, points[i-1].Time
	if cur.IsZero() || prev.IsZero() {
		return false
	}
	return cur.Hour() != prev.Hour() || cur.YearDay() != prev.YearDay()
}

// Timeline renders HH:MM labels under a sparkline at each hour tick.
func (c Chart) Timeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	lastEnd := -1
	for i, p := range points {
		if !isHourTick(points, i) {
			continue
		}
		label := p.Time.Format("15:04")
		start := padLen + i - 2
		if start < 0 {
			start = 0
		}
		end := start + len(label)
		if end > width || start <= lastEnd+1 {
			continue
		}
		for j, ch := range label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return c.style().Foreground(lipgloss.Color("239")).Render(string(line))
}

// Value renders v with two decimals and its unit, colour-coded.
func (c Chart) Value(v float64, unit string, b Bounds) string {
	s := fmt.Sprintf("%6.2f %s", v, unit)
	style := c.style().Foreground(ValueColor(v, b))
	if b.Known && (v < b.Min || v > b.Max) {
		style = style.Bold(true)
	}
	return style.Render(s)
}
