package transform

import (
	"math"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// TestJulianDate verifies the Julian Date calculation against known values.
func TestJulianDate(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
	}{
		{
			name:     "J2000.0 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
		},
		{
			// Vallado Example 3-15: April 6, 2004, 07:51:28.386 UTC.
			name:     "Vallado example date",
			time:     time.Date(2004, 4, 6, 7, 51, 28, 386009000, time.UTC),
			expected: 2453101.827411875,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDate(tt.time)
			if diff := math.Abs(got - tt.expected); diff > 1e-6 {
				t.Errorf("JulianDate(%v) = %.10f, want %.10f (diff=%.2e)", tt.time, got, tt.expected, diff)
			}
		})
	}
}

// TestGMST validates the GMST calculation against the go-satellite library's
// GSTimeFromDate, which implements the same IAU-82 model.
func TestGMST(t *testing.T) {
	tests := []struct {
		name string
		time time.Time
	}{
		{name: "J2000.0 epoch", time: time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)},
		{name: "Vallado example date", time: time.Date(2004, 4, 6, 7, 51, 28, 0, time.UTC)},
		{name: "scan-era date", time: time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			our := GMST(tt.time)
			ref := satellite.GSTimeFromDate(
				tt.time.Year(), int(tt.time.Month()), tt.time.Day(),
				tt.time.Hour(), tt.time.Minute(), tt.time.Second(),
			)

			// 1e-7 rad ≈ 0.02 arcsec; leaves room for rounding-path
			// differences in the two Julian Date computations.
			if diff := math.Abs(our - ref); diff > 1e-7 {
				t.Errorf("GMST(%v) = %.12f rad, go-satellite = %.12f rad (diff=%.2e)", tt.time, our, ref, diff)
			}
		})
	}
}

func TestTEMEToECEFPreservesMagnitude(t *testing.T) {
	s := StateTEME{X: 3469.947, Y: -5174.376, Z: 2399.843}
	p := TEMEToECEF(s, time.Date(2025, 2, 14, 12, 0, 0, 0, time.UTC))

	in := math.Sqrt(s.X*s.X + s.Y*s.Y + s.Z*s.Z)
	out := math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
	if math.Abs(in-out) > 1e-9 {
		t.Errorf("rotation changed magnitude: %.9f -> %.9f km", in, out)
	}
	if p.Z != s.Z {
		t.Errorf("Z changed under a Z-axis rotation: %.9f -> %.9f", s.Z, p.Z)
	}
}

func TestTEMEToECEFZeroAngleIdentity(t *testing.T) {
	s := StateTEME{X: 7000, Y: -1000, Z: 300}
	p := TEMEToECEFWithGMST(s, 0)
	if p.X != s.X || p.Y != s.Y || p.Z != s.Z {
		t.Errorf("GMST=0 should be identity, got %+v", p)
	}
}

func TestHorizontalSpeed(t *testing.T) {
	s := StateTEME{VX: 3, VY: 4, VZ: 12}
	if v := HorizontalSpeedKmS(s); math.Abs(v-5) > 1e-12 {
		t.Errorf("horizontal speed = %.12f, want 5 (VZ must be excluded)", v)
	}
}
