package chart

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorsim/internal/history"
)

func plain() Chart {
	return New(lipgloss.NewRenderer(&bytes.Buffer{}))
}

func points(values ...float64) []history.Point {
	pts := make([]history.Point, len(values))
	for i, v := range values {
		pts[i] = history.Point{Value: v}
	}
	return pts
}

func TestSparkline(t *testing.T) {
	b := Bounds{Min: 15, Max: 30, Known: true}
	result := plain().SparklinePoints(points(15, 18, 21, 24, 27, 30), 20, 15, 30, b)

	if n := utf8.RuneCountInString(result); n != 20 {
		t.Errorf("sparkline width: got %d runes, want 20", n)
	}
	if !strings.HasSuffix(result, "█") {
		t.Errorf("expected max value to render as full block, got %q", result)
	}
	if !strings.HasPrefix(result, "╌") {
		t.Errorf("expected padding for short series, got %q", result)
	}
}

func TestSparklineTruncatesToWidth(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i)
	}
	result := plain().SparklinePoints(points(values...), 10, 0, 49, Bounds{})
	if n := utf8.RuneCountInString(result); n != 10 {
		t.Errorf("got %d runes, want 10", n)
	}
}

func TestSparklineNonFiniteValues(t *testing.T) {
	b := Bounds{Min: 15, Max: 30, Known: true}
	pts := points(20, math.NaN(), math.Inf(1), math.Inf(-1), 25)

	result := plain().SparklinePoints(pts, 5, 15, 30, b)
	if n := utf8.RuneCountInString(result); n != 5 {
		t.Errorf("got %d runes, want 5: %q", n, result)
	}

	lo, hi := Range([]float64{math.NaN(), math.Inf(1)}, b)
	result = plain().SparklinePoints(pts, 5, lo, hi, b)
	if n := utf8.RuneCountInString(result); n != 5 {
		t.Errorf("got %d runes, want 5: %q", n, result)
	}
}

func TestSparklineHourTicks(t *testing.T) {
	base := time.Date(2026, 2, 21, 13, 50, 0, 0, time.Local)
	var pts []history.Point
	for i := 0; i < 20; i++ {
		pts = append(pts, history.Point{
			Value: float64(20 + i%5),
			Time:  base.Add(time.Duration(i) * time.Minute),
		})
	}

	c := plain()
	result := c.SparklinePoints(pts, 20, 15, 30, Bounds{Min: 15, Max: 30, Known: true})
	if !strings.Contains(result, "│") {
		t.Error("expected hour tick mark in sparkline")
	}

	timeline := c.Timeline(pts, 20)
	if !strings.Contains(timeline, "14:00") {
		t.Errorf("expected 14:00 label in timeline, got %q", timeline)
	}
}

func TestValueColor(t *testing.T) {
	b := Bounds{Min: 20, Max: 60, Known: true}
	tests := []struct {
		v    float64
		want lipgloss.Color
	}{
		{40, lipgloss.Color("78")},
		{21, lipgloss.Color("220")},
		{59, lipgloss.Color("220")},
		{61, lipgloss.Color("196")},
		{19.99, lipgloss.Color("196")},
	}
	for _, tt := range tests {
		if got := ValueColor(tt.v, b); got != tt.want {
			t.Errorf("ValueColor(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
	if got := ValueColor(1000, Bounds{}); got != lipgloss.Color("250") {
		t.Errorf("unknown bounds: got %v", got)
	}
}

func TestRange(t *testing.T) {
	lo, hi := Range([]float64{20, 25}, Bounds{Min: 15, Max: 30, Known: true})
	if lo != 15 || hi != 30 {
		t.Errorf("got %v..%v, want 15..30", lo, hi)
	}
	lo, hi = Range([]float64{10, 35}, Bounds{Min: 15, Max: 30, Known: true})
	if lo != 10 || hi != 35 {
		t.Errorf("got %v..%v, want 10..35", lo, hi)
	}
	lo, hi = Range([]float64{20, math.NaN(), math.Inf(-1)}, Bounds{Min: 15, Max: 30, Known: true})
	if lo != 15 || hi != 30 {
		t.Errorf("non-finite: got %v..%v, want 15..30", lo, hi)
	}
	lo, hi = Range(nil, Bounds{})
	if lo != 0 || hi != 1 {
		t.Errorf("empty: got %v..%v, want 0..1", lo, hi)
	}
}
