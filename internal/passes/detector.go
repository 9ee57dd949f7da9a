package passes

import (
	"time"

	"github.com/CoreaAsura/webspace-analyzer/internal/propagation"
	"github.com/CoreaAsura/webspace-analyzer/internal/tle"
	"github.com/CoreaAsura/webspace-analyzer/internal/transform"
)

// Event is one radius-crossing observation: the satellite state at the first
// sampled minute inside the radius (entry) or at the first sampled minute
// back outside it (exit).
type Event struct {
	Name   string             `json:"name"`
	Local  string             `json:"local_time"`
	Sample propagation.Sample `json:"sample"`
}

// Record is one completed pass: an entry paired with the chronologically
// next exit for the same satellite, plus the elapsed whole seconds between
// the two instants.
type Record struct {
	Entry       Event `json:"entry"`
	Exit        Event `json:"exit"`
	DurationSec int64 `json:"duration_sec"`
}

// Detect scans one element set over the grid and returns its completed
// passes in chronological order. An error is returned only when the element
// set cannot initialize the propagator; per-instant propagation failures are
// tolerated mid-scan.
func Detect(set tle.ElementSet, obs transform.Observer, radiusKm float64, grid []time.Time) ([]Record, error) {
	prop, err := propagation.New(set)
	if err != nil {
		return nil, err
	}
	entries, exits := scan(set.Name, grid, func(t time.Time) propagation.Sample {
		return prop.SampleAt(obs, t)
	}, radiusKm)
	return pair(entries, exits), nil
}

// scan advances a two-state inside/outside machine across the grid in order
// and collects the boundary events.
//
// The entry comparison is inclusive and the exit comparison is strict: a
// sample exactly at the radius counts as inside. An instant with no usable
// slant range (propagation failure) is skipped without touching the state.
func scan(name string, grid []time.Time, sample func(time.Time) propagation.Sample, radiusKm float64) (entries, exits []Event) {
	inside := false
	for _, t := range grid {
		s := sample(t)
		if !s.SlantRangeKm.Valid {
			continue
		}
		switch {
		case !inside && s.SlantRangeKm.Value <= radiusKm:
			entries = append(entries, Event{Name: name, Local: LocalTime(s.Time), Sample: s})
			inside = true
		case inside && s.SlantRangeKm.Value > radiusKm:
			exits = append(exits, Event{Name: name, Local: LocalTime(s.Time), Sample: s})
			inside = false
		}
	}
	return entries, exits
}

// pair zips entries with exits positionally: the Nth entry closes against
// the Nth exit. A trailing entry whose exit falls beyond the horizon yields
// no record.
func pair(entries, exits []Event) []Record {
	n := min(len(entries), len(exits))
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, Record{
			Entry:       entries[i],
			Exit:        exits[i],
			DurationSec: int64(exits[i].Sample.Time.Sub(entries[i].Sample.Time) / time.Second),
		})
	}
	return records
}
