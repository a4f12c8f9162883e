package sensor

import (
	"math/rand/v2"
	"testing"
	"time"
)

func TestReadStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tests := []struct {
		lo, hi float64
	}{
		{15, 30},
		{20, 60},
		{-5, 5},
		{7, 7},
	}
	for _, tt := range tests {
		s := New("x", "u", tt.lo, tt.hi, rng)
		for i := 0; i < 10000; i++ {
			v := s.Read()
			if v < tt.lo || v > tt.hi {
				t.Fatalf("Read() = %f, outside [%f, %f]", v, tt.lo, tt.hi)
			}
		}
	}
}

func TestReadIsDeterministicForSeed(t *testing.T) {
	a := New("Temperature", "°C", 15, 30, rand.New(rand.NewPCG(42, 42)))
	b := New("Temperature", "°C", 15, 30, rand.New(rand.NewPCG(42, 42)))
	for i := 0; i < 5; i++ {
		if va, vb := a.Read(), b.Read(); va != vb {
			t.Errorf("reading %d: %f != %f", i, va, vb)
		}
	}
}

func TestReadAll(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	sensors := []*Sensor{
		New("Temperature", "°C", 15, 30, rng),
		New("Humidity", "%", 20, 60, rng),
	}
	now := time.Date(2026, 2, 21, 14, 30, 45, 0, time.Local)

	got := ReadAll(sensors, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 measurements, got %d", len(got))
	}
	for i, m := range got {
		if m.Name != sensors[i].Name() || m.Unit != sensors[i].Unit() {
			t.Errorf("measurement %d: got %+v", i, m)
		}
		if m.Timestamp != "2026-02-21 14:30" {
			t.Errorf("timestamp: got %q, want 2026-02-21 14:30", m.Timestamp)
		}
		if lo, hi := sensors[i].Bounds(); m.Value < lo || m.Value > hi {
			t.Errorf("value %f out of range for %s", m.Value, m.Name)
		}
	}

	ts, ok := got[0].Time()
	if !ok || !ts.Equal(time.Date(2026, 2, 21, 14, 30, 0, 0, time.Local)) {
		t.Errorf("Time(): got %v (ok=%v)", ts, ok)
	}
}

func TestLookup(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	sensors := []*Sensor{New("Temperature", "°C", 15, 30, rng)}
	if Lookup(sensors, "Temperature") == nil {
		t.Error("expected Temperature sensor")
	}
	if Lookup(sensors, "Pressure") != nil {
		t.Error("expected nil for unknown sensor")
	}
}
