// Command sensorsim simulates temperature and humidity sensors, keeps the
// readings in memory, reports per-sensor statistics and dumps/restores
// them to data.txt.
package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/luki/sensorsim/internal/config"
	"github.com/luki/sensorsim/internal/console"
	"github.com/luki/sensorsim/internal/logging"
	"github.com/luki/sensorsim/internal/monitor"
	"github.com/luki/sensorsim/internal/sensor"
	"github.com/luki/sensorsim/internal/store"
	"github.com/luki/sensorsim/internal/viewer"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	seed := uint64(time.Now().UnixNano())
	sensors := cfg.BuildSensors(rand.New(rand.NewPCG(seed, seed>>1)))

	args := os.Args[1:]
	if len(args) == 0 {
		runMenu(cfg, sensors, log)
		return
	}

	switch args[0] {
	case "view":
		if err := viewer.Run(cfg.DataFile, sensors); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "monitor":
		s := store.New(store.WithSensors(sensors))
		if err := monitor.Run(sensors, s, cfg.DataFile, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "help", "-h", "--help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printHelp()
		os.Exit(2)
	}
}

func runMenu(cfg config.Config, sensors []*sensor.Sensor, log *slog.Logger) {
	s := store.New(store.WithSensors(sensors))
	c := console.New(os.Stdin, os.Stdout, sensors, s, cfg.DataFile, console.WithLogger(log))

	log.Debug("menu started", "sensors", len(sensors), "file", cfg.DataFile)
	if err := c.Run(); err != nil {
		log.Error("menu stopped", "err", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: sensorsim [command]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  (none)    interactive menu")
	fmt.Printf("  view      browse %s\n", config.DataFile)
	fmt.Println("  monitor   live readings, press s to save")
	fmt.Println("  help      show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  SENSORSIM_LOG_LEVEL   debug, info, warn or error (default: error)")
}
