package console

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luki/sensorsim/internal/sensor"
	"github.com/luki/sensorsim/internal/store"
)

var fixedNow = time.Date(2026, 2, 21, 14, 30, 12, 0, time.Local)

type harness struct {
	out     *bytes.Buffer
	logs    *bytes.Buffer
	storage *store.Storage
	file    string
}

func run(t *testing.T, input string) harness {
	t.Helper()
	return runWithFile(t, input, filepath.Join(t.TempDir(), "data.txt"))
}

func runWithFile(t *testing.T, input, file string) harness {
	t.Helper()

	rng := rand.New(rand.NewPCG(1, 2))
	sensors := []*sensor.Sensor{
		sensor.New("Temperature", "°C", 15, 30, rng),
		sensor.New("Humidity", "%", 20, 60, rng),
	}
	h := harness{
		out:     &bytes.Buffer{},
		logs:    &bytes.Buffer{},
		storage: store.New(store.WithSensors(sensors)),
		file:    file,
	}

	c := New(strings.NewReader(input), h.out, sensors, h.storage, file,
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(slog.New(slog.NewTextHandler(h.logs, nil))))
	require.NoError(t, c.Run())
	return h
}

func TestQuit(t *testing.T) {
	h := run(t, "6\n")

	out := h.out.String()
	assert.Contains(t, out, "===== MENU =====")
	assert.Contains(t, out, "Exiting...")
	assert.Equal(t, 1, strings.Count(out, "Choice: "))
	assert.Equal(t, 0, h.storage.Len())
}

func TestQuitStopsReadingInput(t *testing.T) {
	h := run(t, "6\n1\n1\n")
	assert.Equal(t, 0, h.storage.Len())
}

func TestReadAddsOneMeasurementPerSensor(t *testing.T) {
	h := run(t, "1\n1\n6\n")

	require.Equal(t, 4, h.storage.Len())
	for _, m := range h.storage.All() {
		assert.Equal(t, "2026-02-21 14:30", m.Timestamp)
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Unit)
	}
	assert.Equal(t, 2, strings.Count(h.out.String(), "New measurements recorded."))
}

func TestListAndStatistics(t *testing.T) {
	h := run(t, "3\n2\n1\n3\n2\n6\n")
	out := h.out.String()

	assert.Contains(t, out, "No measurements yet.")
	assert.Contains(t, out, "No measurements to analyze.")
	assert.Contains(t, out, "2026-02-21 14:30 | Temperature | ")
	assert.Contains(t, out, "2026-02-21 14:30 | Humidity | ")
	assert.Contains(t, out, "--- Statistics for Temperature ---")
	assert.Contains(t, out, "--- Statistics for Humidity ---")
}

func TestInvalidInput(t *testing.T) {
	h := run(t, "abc\n9\n0\n-1\n1 2\n6\n")
	out := h.out.String()

	assert.Equal(t, 2, strings.Count(out, "Invalid input!"))
	assert.Equal(t, 3, strings.Count(out, "Invalid choice."))
	assert.Equal(t, 6, strings.Count(out, "Choice: "))
	assert.Equal(t, 0, h.storage.Len())
}

func TestBlankLinesAreIgnored(t *testing.T) {
	h := run(t, "\n   \n1\n6\n")
	assert.Equal(t, 2, h.storage.Len())
	assert.NotContains(t, h.out.String(), "Invalid")
}

func TestEOFTerminates(t *testing.T) {
	h := run(t, "1")
	assert.Equal(t, 2, h.storage.Len())
	assert.Contains(t, h.out.String(), "Exiting...")
}

func TestSaveThenLoadAppends(t *testing.T) {
	h := run(t, "1\n4\n5\n6\n")
	out := h.out.String()

	assert.Contains(t, out, "Data saved to file: "+h.file)
	assert.Contains(t, out, "Data loaded from file: 2 records (0 skipped, 0 malformed).")
	require.Equal(t, 4, h.storage.Len())

	all := h.storage.All()
	assert.Equal(t, all[0].Name, all[2].Name)
	assert.InDelta(t, all[0].Value, all[2].Value, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	h := run(t, "5\n6\n")
	assert.Contains(t, h.out.String(), "Could not open file.")
	assert.Equal(t, 0, h.storage.Len())
}

func TestLoadReportsMalformedRecords(t *testing.T) {
	file := filepath.Join(t.TempDir(), "data.txt")
	content := "2026-02-21 14:30,Temperature,21.5,°C\n" +
		"2026-02-21 14:30,Humidity\n" +
		"2026-02-21 14:31,Temperature,n/a,°C\n" +
		"2026-02-21 14:32,Humidity,40,%\n"
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))

	h := runWithFile(t, "5\n6\n", file)
	out := h.out.String()

	assert.Contains(t, out, "Skipped malformed record: line 3")
	assert.Contains(t, out, "Data loaded from file: 2 records (1 skipped, 1 malformed).")
	assert.Equal(t, 2, h.storage.Len())

	logs := h.logs.String()
	assert.Contains(t, logs, `msg="malformed records skipped"`)
	assert.Contains(t, logs, "count=1")
	assert.Contains(t, logs, "line 3")
}

func TestSaveFailureIsReported(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing", "data.txt")
	h := runWithFile(t, "1\n4\n6\n", file)
	out := h.out.String()

	assert.Contains(t, out, "Could not save data:")
	assert.NotContains(t, out, "Data saved to file")
}

func TestExecute(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	sensors := []*sensor.Sensor{sensor.New("Temperature", "°C", 15, 30, rng)}
	storage := store.New()
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, sensors, storage, filepath.Join(t.TempDir(), "data.txt"))

	for _, cmd := range []Command{CmdRead, CmdStats, CmdList, CmdSave, CmdLoad} {
		assert.False(t, c.Execute(cmd), "command %d", cmd)
	}
	assert.True(t, c.Execute(CmdQuit))
	assert.False(t, c.Execute(Command(7)))
	assert.Equal(t, 2, storage.Len())
}
