// Package sensor provides simulated environmental sensors and the
// Measurement value they produce.
package sensor

import "math/rand/v2"

// Sensor is a simulated source producing uniformly distributed readings
// between its bounds. It is immutable after construction.
type Sensor struct {
	name string
	unit string
	min  float64
	max  float64
	rng  *rand.Rand
}

// New creates a sensor drawing from rng. Several sensors may share one
// generator; none of them is safe for concurrent use.
func New(name, unit string, min, max float64, rng *rand.Rand) *Sensor {
	return &Sensor{name: name, unit: unit, min: min, max: max, rng: rng}
}

// Read returns a pseudo-random value in [min, max].
func (s *Sensor) Read() float64 {
	return s.min + s.rng.Float64()*(s.max-s.min)
}

// Name returns the sensor name recorded on its measurements.
func (s *Sensor) Name() string { return s.name }

// Unit returns the unit recorded on its measurements.
func (s *Sensor) Unit() string { return s.unit }

// Bounds returns the simulated range.
func (s *Sensor) Bounds() (min, max float64) {
	return s.min, s.max
}
