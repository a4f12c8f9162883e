// Package console implements the interactive numbered menu that drives
// reading, reporting, saving and loading of measurements.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/sensorsim/internal/sensor"
	"github.com/luki/sensorsim/internal/store"
)

// Command is a menu selection.
type Command int

const (
	CmdRead Command = iota + 1
	CmdStats
	CmdList
	CmdSave
	CmdLoad
	CmdQuit
)

var menu = []struct {
	cmd   Command
	label string
}{
	{CmdRead, "Take new readings"},
	{CmdStats, "Show statistics per sensor"},
	{CmdList, "Show all measurements"},
	{CmdSave, "Save to file"},
	{CmdLoad, "Load from file"},
	{CmdQuit, "Quit"},
}

// Console is the menu loop. It is single-threaded and owns the storage
// while running.
type Console struct {
	in       *bufio.Reader
	out      io.Writer
	sensors  []*sensor.Sensor
	storage  *store.Storage
	dataFile string
	now      func() time.Time
	log      *slog.Logger

	title lipgloss.Style
	warn  lipgloss.Style
}

type Option func(*Console)

// WithClock replaces time.Now for stamping readings.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.log = l
	}
}

// New creates a console reading commands from in and writing reports to
// out. dataFile is used for both save and load.
func New(in io.Reader, out io.Writer, sensors []*sensor.Sensor, storage *store.Storage, dataFile string, opts ...Option) *Console {
	r := lipgloss.NewRenderer(out)
	c := &Console{
		in:       bufio.NewReader(in),
		out:      out,
		sensors:  sensors,
		storage:  storage,
		dataFile: dataFile,
		now:      time.Now,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		title:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		warn:     r.NewStyle().Foreground(lipgloss.Color("208")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run loops until the quit command or the end of input. It only returns
// an error if reading the input fails.
func (c *Console) Run() error {
	for {
		c.printMenu()

		line, err := c.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			c.log.Debug("input closed")
			c.Execute(CmdQuit)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		n, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintln(c.out, c.warn.Render("Invalid input!"))
			continue
		}

		if c.Execute(Command(n)) {
			return nil
		}
	}
}

// Execute performs one command and reports whether the loop should stop.
func (c *Console) Execute(cmd Command) (quit bool) {
	switch cmd {
	case CmdRead:
		for _, m := range sensor.ReadAll(c.sensors, c.now()) {
			c.storage.Add(m)
		}
		c.log.Debug("readings taken", "sensors", len(c.sensors), "total", c.storage.Len())
		fmt.Fprintln(c.out, "New measurements recorded.")
	case CmdStats:
		c.storage.PrintStatistics(c.out)
	case CmdList:
		c.storage.PrintAll(c.out)
	case CmdSave:
		c.save()
	case CmdLoad:
		c.load()
	case CmdQuit:
		fmt.Fprintln(c.out, "Exiting...")
		return true
	default:
		fmt.Fprintln(c.out, c.warn.Render("Invalid choice."))
	}
	return false
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, c.title.Render("===== MENU ====="))
	for _, item := range menu {
		fmt.Fprintf(c.out, "%d. %s\n", item.cmd, item.label)
	}
	fmt.Fprint(c.out, "Choice: ")
}

// readLine returns the next non-blank line, trimmed. The rest of a line
// is always consumed, so a bad entry never leaks into the next prompt.
func (c *Console) readLine() (string, error) {
	for {
		line, err := c.in.ReadString('\n')
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (c *Console) save() {
	if err := c.storage.Save(c.dataFile); err != nil {
		c.log.Error("save failed", "file", c.dataFile, "err", err)
		fmt.Fprintln(c.out, c.warn.Render(fmt.Sprintf("Could not save data: %v", err)))
		return
	}
	c.log.Info("data saved", "file", c.dataFile, "records", c.storage.Len())
	fmt.Fprintf(c.out, "Data saved to file: %s\n", c.dataFile)
}

func (c *Console) load() {
	report, err := c.storage.Load(c.dataFile)
	if err != nil {
		c.log.Warn("load failed", "file", c.dataFile, "err", err)
		fmt.Fprintln(c.out, c.warn.Render("Could not open file."))
		return
	}

	if err := report.Err(); err != nil {
		c.log.Warn("malformed records skipped", "file", c.dataFile, "count", len(report.Malformed), "err", err)
	}
	for _, perr := range report.Malformed {
		fmt.Fprintln(c.out, c.warn.Render("Skipped malformed record: "+perr.Error()))
	}
	c.log.Info("data loaded", "file", c.dataFile, "loaded", report.Loaded, "skipped", report.Skipped, "malformed", len(report.Malformed))
	fmt.Fprintf(c.out, "Data loaded from file: %d records (%d skipped, %d malformed).\n",
		report.Loaded, report.Skipped, len(report.Malformed))
}
