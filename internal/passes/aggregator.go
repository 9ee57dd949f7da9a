package passes

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/CoreaAsura/webspace-analyzer/internal/tle"
	"github.com/CoreaAsura/webspace-analyzer/internal/transform"
)

// HorizonOptions is the fixed menu of scan horizons offered to callers, in
// hours.
var HorizonOptions = []int{12, 24, 48, 72}

// Defaults applied when a caller leaves the corresponding input unset.
const (
	DefaultLatitude     = 37.5665 // Seoul City Hall
	DefaultLongitude    = 126.9780
	DefaultRadiusKm     = 1000.0
	DefaultHorizonHours = 48
)

// Radius menu hints surfaced to clients building a request form. The engine
// itself accepts any positive radius.
const (
	RadiusKmMin  = 100.0
	RadiusKmMax  = 2000.0
	RadiusKmStep = 100.0
)

// ObserverElevationM is the fixed observer elevation in meters. It is a
// system convention, not a caller input.
const ObserverElevationM = 38

// Config is the shared scan configuration for one batch: every satellite is
// compared against the same observer over the same window.
type Config struct {
	Latitude     float64   // observer latitude, degrees
	Longitude    float64   // observer longitude, degrees
	RadiusKm     float64   // slant-range threshold, km
	HorizonHours int       // scan window length, hours
	Start        time.Time // first grid instant, shared across the batch
}

// Validate checks the scan preconditions. A batch with an invalid config
// must not start.
func (c Config) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("latitude %.4f outside [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("longitude %.4f outside [-180, 180]", c.Longitude)
	}
	if c.RadiusKm <= 0 {
		return fmt.Errorf("radius %.1f km must be positive", c.RadiusKm)
	}
	if c.HorizonHours <= 0 {
		return fmt.Errorf("horizon %d hours must be positive", c.HorizonHours)
	}
	if c.Start.IsZero() {
		return fmt.Errorf("start instant not set")
	}
	return nil
}

// ValidHorizon reports whether h is one of the offered horizon choices.
func ValidHorizon(h int) bool {
	for _, opt := range HorizonOptions {
		if h == opt {
			return true
		}
	}
	return false
}

// Request is one aggregation batch: several element sets scanned against a
// shared observer and window.
type Request struct {
	Sets   []tle.ElementSet
	Config Config
}

// SatelliteResult holds the outcome for one element set of a batch.
type SatelliteResult struct {
	Name    string   `json:"name"`
	Records []Record `json:"passes"`
	Error   string   `json:"error,omitempty"`
}

// Analyze runs the detector over every element set of the batch and
// concatenates the passes into one table in batch order. Satellites are
// scanned in their own goroutines, bounded by a semaphore; a satellite whose
// element set fails to initialize is reported in its result and does not
// abort the batch.
func Analyze(ctx context.Context, req Request, logger *slog.Logger) ([]SatelliteResult, Table, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, nil, err
	}

	grid := TimeGrid(req.Config.Start, req.Config.HorizonHours)
	obs := transform.NewObserver(req.Config.Latitude, req.Config.Longitude, ObserverElevationM)

	results := make([]SatelliteResult, len(req.Sets))
	sem := make(chan struct{}, runtime.NumCPU())
	var wg sync.WaitGroup

	for i, set := range req.Sets {
		wg.Add(1)
		go func(idx int, set tle.ElementSet) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = SatelliteResult{Name: set.Name, Error: "cancelled"}
				return
			}

			records, err := Detect(set, obs, req.Config.RadiusKm, grid)
			if err != nil {
				logger.Warn("satellite skipped", "name", set.Name, "error", err)
				results[idx] = SatelliteResult{Name: set.Name, Error: err.Error()}
				return
			}
			results[idx] = SatelliteResult{Name: set.Name, Records: records}
		}(i, set)
	}

	wg.Wait()

	var table Table
	for _, res := range results {
		table = append(table, res.Records...)
	}
	return results, table, nil
}
