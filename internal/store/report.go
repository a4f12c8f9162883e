package store

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorsim/internal/chart"
	"github.com/luki/sensorsim/internal/history"
)

const trendWidth = 40

// PrintAll writes one line per measurement:
//
//	timestamp | name | value unit
//
// with the value rounded to two decimals.
func (s *Storage) PrintAll(w io.Writer) {
	if len(s.data) == 0 {
		fmt.Fprintln(w, "No measurements yet.")
		return
	}
	for _, m := range s.data {
		fmt.Fprintf(w, "%s | %s | %.2f %s\n", m.Timestamp, m.Name, m.Value, m.Unit)
	}
}

// PrintStatistics writes a block per sensor name, in first-seen order,
// with count, mean, min, max and population standard deviation followed
// by a sparkline of the values.
func (s *Storage) PrintStatistics(w io.Writer) {
	if len(s.data) == 0 {
		fmt.Fprintln(w, "No measurements to analyze.")
		return
	}

	r := lipgloss.NewRenderer(w)
	heading := r.NewStyle().Bold(true).Foreground(lipgloss.Color("147"))
	c := chart.New(r)

	for _, series := range history.Group(s.data) {
		if len(series.Points) == 0 {
			continue
		}
		st := series.Stats()
		b := s.Bounds(series.Name)

		vals := series.Values()
		lo, hi := chart.Range(vals, b)
		width := len(vals)
		if width > trendWidth {
			width = trendWidth
		}

		fmt.Fprintln(w)
		fmt.Fprintln(w, heading.Render(fmt.Sprintf("--- Statistics for %s ---", series.Name)))
		fmt.Fprintf(w, "Count:   %d\n", st.Count)
		fmt.Fprintf(w, "Mean:    %.2f\n", st.Mean)
		fmt.Fprintf(w, "Min:     %.2f\n", st.Min)
		fmt.Fprintf(w, "Max:     %.2f\n", st.Max)
		fmt.Fprintf(w, "Std dev: %.2f\n", st.StdDev)
		fmt.Fprintf(w, "Trend:   %s\n", c.SparklinePoints(series.LastNPoints(width), width, lo, hi, b))
	}
}
