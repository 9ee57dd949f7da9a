// Command analyze runs one pass analysis from the command line: TLE text in,
// CSV table out.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/CoreaAsura/webspace-analyzer/internal/passes"
	"github.com/CoreaAsura/webspace-analyzer/internal/tle"
)

func main() {
	var (
		tlePath  = flag.String("tle", "-", "path to a TLE file, or - for stdin")
		lat      = flag.Float64("lat", passes.DefaultLatitude, "observer latitude in degrees")
		lon      = flag.Float64("lon", passes.DefaultLongitude, "observer longitude in degrees")
		radius   = flag.Float64("radius", passes.DefaultRadiusKm, "slant-range radius in km")
		hours    = flag.Int("hours", passes.DefaultHorizonHours, "scan horizon in hours (12, 24, 48 or 72)")
		outPath  = flag.String("out", "-", "path for the CSV output, or - for stdout")
		logLevel = flag.String("log-level", "warn", "log level: debug, info, warn or error")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))

	if err := run(*tlePath, *outPath, *lat, *lon, *radius, *hours, logger); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(tlePath, outPath string, lat, lon, radius float64, hours int, logger *slog.Logger) error {
	if !passes.ValidHorizon(hours) {
		return fmt.Errorf("hours must be one of %v", passes.HorizonOptions)
	}

	sets, skipped, err := readElementSets(tlePath, logger)
	if err != nil {
		return err
	}
	if skipped > 0 {
		logger.Warn("skipped malformed element sets", "count", skipped)
	}

	cfg := passes.Config{
		Latitude:     lat,
		Longitude:    lon,
		RadiusKm:     radius,
		HorizonHours: hours,
		Start:        time.Now().UTC(),
	}

	_, table, err := passes.Analyze(context.Background(), passes.Request{Sets: sets, Config: cfg}, logger)
	if err != nil {
		return err
	}
	logger.Info("analysis complete", "satellites", len(sets), "passes", len(table))

	return writeTable(outPath, table)
}

func readElementSets(path string, logger *slog.Logger) ([]tle.ElementSet, int, error) {
	var in io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		in = f
	}

	sets, skipped, err := tle.Parse(in, logger)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing TLE input: %w", err)
	}
	return sets, skipped, nil
}

func writeTable(path string, table passes.Table) error {
	if path == "-" {
		return table.WriteCSV(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := table.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
