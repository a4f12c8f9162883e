// Package store keeps measurements in memory for the lifetime of the
// process and dumps/restores them to a flat comma-separated file.
package store

import (
	"github.com/luki/sensorsim/internal/chart"
	"github.com/luki/sensorsim/internal/sensor"
)

// Storage is an append-only, insertion-ordered sequence of measurements.
// It is not safe for concurrent use.
type Storage struct {
	data    []sensor.Measurement
	sensors []*sensor.Sensor
}

// Option configures a Storage.
type Option func(*Storage)

// WithSensors lets reports colour values against the ranges of the given
// sensors. Measurements are never validated against them.
func WithSensors(sensors []*sensor.Sensor) Option {
	return func(s *Storage) {
		s.sensors = sensors
	}
}

// New creates an empty storage.
func New(opts ...Option) *Storage {
	s := &Storage{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends m.
func (s *Storage) Add(m sensor.Measurement) {
	s.data = append(s.data, m)
}

// Len returns the number of stored measurements.
func (s *Storage) Len() int {
	return len(s.data)
}

// All returns a copy of the stored measurements in insertion order.
func (s *Storage) All() []sensor.Measurement {
	out := make([]sensor.Measurement, len(s.data))
	copy(out, s.data)
	return out
}

// Bounds returns the range of the configured sensor with the given name.
func (s *Storage) Bounds(name string) chart.Bounds {
	sn := sensor.Lookup(s.sensors, name)
	if sn == nil {
		return chart.Bounds{}
	}
	lo, hi := sn.Bounds()
	return chart.Bounds{Min: lo, Max: hi, Known: true}
}
