package passes

import (
	"math"
	"testing"
	"time"

	"github.com/CoreaAsura/webspace-analyzer/internal/propagation"
)

var scanStart = time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)

// rangeSampler builds a deterministic sampler from a per-minute slant-range
// series. A NaN entry simulates a propagation failure at that instant.
func rangeSampler(ranges []float64) func(time.Time) propagation.Sample {
	return func(t time.Time) propagation.Sample {
		idx := int(t.Sub(scanStart) / time.Minute)
		s := propagation.Sample{Time: t}
		if idx < 0 || idx >= len(ranges) || math.IsNaN(ranges[idx]) {
			return s
		}
		s.SlantRangeKm = propagation.Field{Value: ranges[idx], Valid: true}
		s.SubLatDeg = propagation.Field{Value: 37.5, Valid: true}
		s.SubLonDeg = propagation.Field{Value: 127.0, Valid: true}
		s.AltKm = propagation.Field{Value: 420.0, Valid: true}
		s.HorizVelKmS = propagation.Field{Value: 7.123, Valid: true}
		return s
	}
}

// series builds a range sequence of n minutes, all at the given base value,
// then applies overrides at specific minute offsets.
func series(n int, base float64, overrides map[int]float64) []float64 {
	ranges := make([]float64, n)
	for i := range ranges {
		ranges[i] = base
	}
	for idx, v := range overrides {
		ranges[idx] = v
	}
	return ranges
}

func TestTimeGridSize(t *testing.T) {
	tests := []struct {
		hours int
		want  int
	}{
		{hours: 12, want: 720},
		{hours: 24, want: 1440},
		{hours: 48, want: 2880},
		{hours: 72, want: 4320},
	}

	for _, tt := range tests {
		grid := TimeGrid(scanStart, tt.hours)
		if len(grid) != tt.want {
			t.Errorf("TimeGrid(%dh): %d instants, want %d", tt.hours, len(grid), tt.want)
			continue
		}
		if !grid[0].Equal(scanStart) {
			t.Errorf("TimeGrid(%dh): first instant %v, want %v", tt.hours, grid[0], scanStart)
		}
		for i := 1; i < len(grid); i++ {
			if got := grid[i].Sub(grid[i-1]); got != time.Minute {
				t.Fatalf("TimeGrid(%dh): spacing at %d is %v, want 1m", tt.hours, i, got)
			}
		}
	}
}

func TestTimeGridNonPositiveHorizon(t *testing.T) {
	if grid := TimeGrid(scanStart, 0); grid != nil {
		t.Errorf("TimeGrid(0h) = %d instants, want none", len(grid))
	}
	if grid := TimeGrid(scanStart, -3); grid != nil {
		t.Errorf("TimeGrid(-3h) = %d instants, want none", len(grid))
	}
}

// TestScanAlternation verifies the state-machine invariant: exits strictly
// interleave with entries, and consecutive inside samples emit nothing.
func TestScanAlternation(t *testing.T) {
	// Three separate dips inside the radius, each several minutes long.
	ranges := series(60, 1500, map[int]float64{
		5: 800, 6: 700, 7: 800,
		20: 900, 21: 850,
		40: 600, 41: 500, 42: 600, 43: 900,
	})
	grid := TimeGrid(scanStart, 1)

	entries, exits := scan("TEST", grid, rangeSampler(ranges), 1000)
	if len(entries) != 3 || len(exits) != 3 {
		t.Fatalf("got %d entries, %d exits, want 3 and 3", len(entries), len(exits))
	}
	for i := range entries {
		if !entries[i].Sample.Time.Before(exits[i].Sample.Time) {
			t.Errorf("pass %d: entry %v not before exit %v", i, entries[i].Sample.Time, exits[i].Sample.Time)
		}
		if i > 0 && !exits[i-1].Sample.Time.Before(entries[i].Sample.Time) {
			t.Errorf("pass %d: entry %v precedes previous exit %v", i, entries[i].Sample.Time, exits[i-1].Sample.Time)
		}
	}
}

// TestScanInclusiveBoundary verifies that a sample exactly at the radius is
// classified inside: it triggers entry from outside and does not trigger
// exit from inside.
func TestScanInclusiveBoundary(t *testing.T) {
	ranges := series(10, 1500, map[int]float64{
		3: 1000, // exactly at radius: entry
		4: 1000, // still exactly at radius: no exit
		5: 999,
		6: 1000.001, // strictly above: exit
	})
	grid := TimeGrid(scanStart, 1)[:10]

	entries, exits := scan("TEST", grid, rangeSampler(ranges), 1000)
	if len(entries) != 1 || len(exits) != 1 {
		t.Fatalf("got %d entries, %d exits, want 1 and 1", len(entries), len(exits))
	}
	if got := entries[0].Sample.Time; !got.Equal(scanStart.Add(3 * time.Minute)) {
		t.Errorf("entry at %v, want minute 3", got)
	}
	if got := exits[0].Sample.Time; !got.Equal(scanStart.Add(6 * time.Minute)) {
		t.Errorf("exit at %v, want minute 6", got)
	}
}

// TestScanSkipsFailedInstants verifies that an instant with no usable slant
// range neither enters nor exits: the state survives the gap.
func TestScanSkipsFailedInstants(t *testing.T) {
	nan := math.NaN()
	ranges := series(12, 1500, map[int]float64{
		2: nan, // failure while outside: stay outside
		4: 500, // entry
		5: nan, // failure while inside: stay inside
		6: 400,
		7: 450, // still inside; the base value at minute 8 is the exit
	})
	grid := TimeGrid(scanStart, 1)[:12]

	entries, exits := scan("TEST", grid, rangeSampler(ranges), 1000)
	if len(entries) != 1 || len(exits) != 1 {
		t.Fatalf("got %d entries, %d exits, want 1 and 1", len(entries), len(exits))
	}
	if got := entries[0].Sample.Time; !got.Equal(scanStart.Add(4 * time.Minute)) {
		t.Errorf("entry at %v, want minute 4", got)
	}
	if got := exits[0].Sample.Time; !got.Equal(scanStart.Add(8 * time.Minute)) {
		t.Errorf("exit at %v, want minute 8", got)
	}
}

// TestScanFirstSampleInside verifies that a satellite already inside the
// radius at the first grid instant produces an immediate entry.
func TestScanFirstSampleInside(t *testing.T) {
	ranges := series(5, 500, map[int]float64{3: 1500, 4: 1500})
	grid := TimeGrid(scanStart, 1)[:5]

	entries, exits := scan("TEST", grid, rangeSampler(ranges), 1000)
	if len(entries) != 1 || len(exits) != 1 {
		t.Fatalf("got %d entries, %d exits, want 1 and 1", len(entries), len(exits))
	}
	if !entries[0].Sample.Time.Equal(scanStart) {
		t.Errorf("entry at %v, want the first grid instant", entries[0].Sample.Time)
	}
}

// TestPairPositional reproduces the canonical pairing case: entries at
// minutes 5 and 50, exits at minutes 10 and 55 give two 300-second passes.
// Pairing is by emission order, never by nearest timestamp.
func TestPairPositional(t *testing.T) {
	overrides := map[int]float64{}
	for m := 5; m < 10; m++ {
		overrides[m] = 800
	}
	for m := 50; m < 55; m++ {
		overrides[m] = 800
	}
	ranges := series(60, 1500, overrides)
	grid := TimeGrid(scanStart, 1)

	entries, exits := scan("TEST", grid, rangeSampler(ranges), 1000)
	records := pair(entries, exits)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	wantEntries := []int{5, 50}
	wantExits := []int{10, 55}
	for i, r := range records {
		if !r.Entry.Sample.Time.Equal(scanStart.Add(time.Duration(wantEntries[i]) * time.Minute)) {
			t.Errorf("record %d: entry at %v, want minute %d", i, r.Entry.Sample.Time, wantEntries[i])
		}
		if !r.Exit.Sample.Time.Equal(scanStart.Add(time.Duration(wantExits[i]) * time.Minute)) {
			t.Errorf("record %d: exit at %v, want minute %d", i, r.Exit.Sample.Time, wantExits[i])
		}
		if r.DurationSec != 300 {
			t.Errorf("record %d: duration %d sec, want 300", i, r.DurationSec)
		}
	}
}

// TestDanglingEntryDropped verifies that an entry still open when the grid
// ends yields no record.
func TestDanglingEntryDropped(t *testing.T) {
	overrides := map[int]float64{}
	for m := 5; m < 10; m++ {
		overrides[m] = 800
	}
	for m := 50; m < 60; m++ {
		overrides[m] = 800 // inside through the end of the grid
	}
	ranges := series(60, 1500, overrides)
	grid := TimeGrid(scanStart, 1)

	entries, exits := scan("TEST", grid, rangeSampler(ranges), 1000)
	if len(entries) != 2 || len(exits) != 1 {
		t.Fatalf("got %d entries, %d exits, want 2 and 1", len(entries), len(exits))
	}

	records := pair(entries, exits)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (trailing entry dropped)", len(records))
	}
	if records[0].DurationSec != 300 {
		t.Errorf("record duration %d sec, want 300", records[0].DurationSec)
	}
}

// TestDurationWholeMinutes verifies that durations from a one-minute grid
// are whole minutes, never less than one step.
func TestDurationWholeMinutes(t *testing.T) {
	ranges := series(30, 1500, map[int]float64{7: 900, 8: 900, 9: 900, 10: 900})
	grid := TimeGrid(scanStart, 1)[:30]

	records := pair(scan("TEST", grid, rangeSampler(ranges), 1000))
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	d := records[0].DurationSec
	if d < 60 || d%60 != 0 {
		t.Errorf("duration %d sec, want a positive multiple of 60", d)
	}
}

func TestScanEmptyGrid(t *testing.T) {
	entries, exits := scan("TEST", nil, rangeSampler(nil), 1000)
	if len(entries) != 0 || len(exits) != 0 {
		t.Errorf("empty grid produced %d entries, %d exits", len(entries), len(exits))
	}
}

func TestPairDefensiveExcessExits(t *testing.T) {
	e := Event{Name: "TEST", Sample: propagation.Sample{Time: scanStart}}
	x1 := Event{Name: "TEST", Sample: propagation.Sample{Time: scanStart.Add(time.Minute)}}
	x2 := Event{Name: "TEST", Sample: propagation.Sample{Time: scanStart.Add(2 * time.Minute)}}

	records := pair([]Event{e}, []Event{x1, x2})
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].DurationSec != 60 {
		t.Errorf("duration %d sec, want 60", records[0].DurationSec)
	}
}

func BenchmarkScan48h(b *testing.B) {
	overrides := map[int]float64{}
	for m := 100; m < 110; m++ {
		overrides[m] = 800
	}
	ranges := series(2880, 1500, overrides)
	grid := TimeGrid(scanStart, 48)
	sampler := rangeSampler(ranges)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		entries, exits := scan("BENCH", grid, sampler, 1000)
		pair(entries, exits)
	}
}
