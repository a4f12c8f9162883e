package sensor

import "time"

// TimeLayout is the minute-granularity local timestamp used for
// measurements and in the data file.
const TimeLayout = "2006-01-02 15:04"

// Measurement is one timestamped reading.
type Measurement struct {
	Timestamp string
	Name      string
	Value     float64
	Unit      string
}

// Time parses the timestamp in local time. ok is false for timestamps
// that don't follow TimeLayout (possible for loaded records).
func (m Measurement) Time() (t time.Time, ok bool) {
	t, err := time.ParseInLocation(TimeLayout, m.Timestamp, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Stamp formats t for a measurement.
func Stamp(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

// Sample takes one reading from s stamped with now.
func (s *Sensor) Sample(now time.Time) Measurement {
	return Measurement{
		Timestamp: Stamp(now),
		Name:      s.name,
		Value:     s.Read(),
		Unit:      s.unit,
	}
}

// ReadAll samples every sensor in order, all with the same timestamp.
func ReadAll(sensors []*Sensor, now time.Time) []Measurement {
	out := make([]Measurement, 0, len(sensors))
	for _, s := range sensors {
		out = append(out, s.Sample(now))
	}
	return out
}

// Lookup returns the sensor with the given name, or nil.
func Lookup(sensors []*Sensor, name string) *Sensor {
	for _, s := range sensors {
		if s.name == name {
			return s
		}
	}
	return nil
}
