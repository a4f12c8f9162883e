// Package history groups measurements into per-sensor series and computes
// count/mean/min/max/standard deviation statistics over them.
package history

import (
	"math"
	"time"

	"github.com/luki/sensorsim/internal/sensor"
)

// Point is a single value in a sensor's series. Time is zero when the
// measurement's timestamp could not be parsed.
type Point struct {
	Value float64
	Time  time.Time
}

// Series holds every value recorded under one sensor name, in insertion
// order.
type Series struct {
	Name   string
	Unit   string
	Points []Point
}

// Stats are the summary figures for a series.
type Stats struct {
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64 // population: divisor is Count
}

// Push appends a value.
func (s *Series) Push(v float64, t time.Time) {
	s.Points = append(s.Points, Point{Value: v, Time: t})
}

// Values returns the raw values in insertion order.
func (s *Series) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// Last returns the most recent value, or 0 if empty.
func (s *Series) Last() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return s.Points[len(s.Points)-1].Value
}

// LastNPoints returns the last n points.
func (s *Series) LastNPoints(n int) []Point {
	if n <= 0 || len(s.Points) == 0 {
		return nil
	}
	start := len(s.Points) - n
	if start < 0 {
		start = 0
	}
	out := make([]Point, len(s.Points[start:]))
	copy(out, s.Points[start:])
	return out
}

// Stats computes the summary for the series. An empty series yields the
// zero Stats.
func (s *Series) Stats() Stats {
	return Compute(s.Values())
}

// Compute returns count, mean, min, max and population standard deviation
// of vals.
func Compute(vals []float64) Stats {
	if len(vals) == 0 {
		return Stats{}
	}

	st := Stats{
		Count: len(vals),
		Min:   vals[0],
		Max:   vals[0],
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	st.Mean = sum / float64(len(vals))

	variance := 0.0
	for _, v := range vals {
		d := v - st.Mean
		variance += d * d
	}
	variance /= float64(len(vals))
	st.StdDev = math.Sqrt(variance)

	return st
}

// Group splits measurements into one series per distinct name. Series are
// ordered by the first occurrence of each name; the unit is taken from that
// first occurrence.
func Group(ms []sensor.Measurement) []*Series {
	index := make(map[string]*Series)
	var order []*Series

	for _, m := range ms {
		s, ok := index[m.Name]
		if !ok {
			s = &Series{Name: m.Name, Unit: m.Unit}
			index[m.Name] = s
			order = append(order, s)
		}
		t, _ := m.Time()
		s.Push(m.Value, t)
	}
	return order
}
