// Package passes implements slant-range pass detection: scanning a
// satellite's propagated position against a fixed observer over a discrete
// time grid, detecting radius-crossing events and pairing them into closed
// entry/exit pass records.
package passes

import "time"

// TimeGrid returns the scan instants for a detection window: one instant per
// minute, horizonHours*60 in total, the first equal to start. The instant at
// start+horizon itself is not sampled.
func TimeGrid(start time.Time, horizonHours int) []time.Time {
	if horizonHours <= 0 {
		return nil
	}
	grid := make([]time.Time, horizonHours*60)
	t := start.UTC()
	for i := range grid {
		grid[i] = t
		t = t.Add(time.Minute)
	}
	return grid
}
