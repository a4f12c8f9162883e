// Package config holds the runtime settings. Only diagnostics can be
// tuned from the environment; the data file and the sensor table are fixed.
package config

import (
	"math/rand/v2"
	"os"
	"strings"

	"github.com/luki/sensorsim/internal/sensor"
)

// DataFile is the dump/restore target, relative to the working directory.
const DataFile = "data.txt"

// SensorSpec describes one simulated sensor.
type SensorSpec struct {
	Name string
	Unit string
	Min  float64
	Max  float64
}

// Sensors is the fixed sensor table. The names are written into every
// record, so renaming a sensor splits existing data files into two series.
var Sensors = []SensorSpec{
	{Name: "Temperatur", Unit: "°C", Min: 15, Max: 30},
	{Name: "Luftfuktighet", Unit: "%", Min: 20, Max: 60},
}

type Config struct {
	DataFile string
	LogLevel string
	Sensors  []SensorSpec
}

// Load returns the configuration, reading SENSORSIM_LOG_LEVEL from the
// environment.
func Load() Config {
	return Config{
		DataFile: DataFile,
		LogLevel: getEnv("SENSORSIM_LOG_LEVEL", "error"),
		Sensors:  Sensors,
	}
}

// BuildSensors constructs the configured sensors sharing rng.
func (c Config) BuildSensors(rng *rand.Rand) []*sensor.Sensor {
	out := make([]*sensor.Sensor, 0, len(c.Sensors))
	for _, s := range c.Sensors {
		out = append(out, sensor.New(s.Name, s.Unit, s.Min, s.Max, rng))
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
