package propagation

import (
	"math"
	"strconv"
	"time"

	"github.com/CoreaAsura/webspace-analyzer/internal/transform"
)

// Field is a numeric sample value that may be unavailable. Propagation can
// fail for individual instants (decayed orbits, times far from epoch), and a
// failed instant must not abort the whole scan.
type Field struct {
	Value float64
	Valid bool
}

// String renders the value with exactly three decimal places, or the empty
// string when the value is unavailable.
func (f Field) String() string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Value, 'f', 3, 64)
}

// MarshalJSON renders the value as a JSON number with the same three-decimal
// quantization as String, or null when unavailable.
func (f Field) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return []byte(f.String()), nil
}

// UnmarshalJSON is the exact inverse of MarshalJSON: null marks the value
// unavailable, a JSON number yields an available value.
func (f *Field) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Field{}
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Field{Value: v, Valid: true}
	return nil
}

// Sample is the geodetic description of one satellite at one instant, as
// seen from a fixed observer: sub-point latitude/longitude in degrees,
// altitude and slant range in km, horizontal speed in km/s.
type Sample struct {
	Time         time.Time `json:"time"`
	SubLatDeg    Field     `json:"latitude"`
	SubLonDeg    Field     `json:"longitude"`
	AltKm        Field     `json:"altitude_km"`
	HorizVelKmS  Field     `json:"horizontal_velocity_kms"`
	SlantRangeKm Field     `json:"slant_range_km"`
}

// SampleAt propagates the satellite to the given instant and derives the
// observer-relative sample. It never returns an error: if propagation fails
// every field is marked unavailable, and downstream consumers render such
// fields as empty strings.
func (p *SGP4Propagator) SampleAt(obs transform.Observer, t time.Time) Sample {
	t = t.UTC()

	state, err := p.Propagate(t)
	if err != nil {
		return Sample{Time: t}
	}

	ecef := transform.TEMEToECEFWithGMST(state, transform.GMST(t))
	geo := transform.ECEFToGeodetic(ecef)

	s := Sample{
		Time:         t,
		SubLatDeg:    value(geo.LatDeg),
		SubLonDeg:    value(geo.LonDeg),
		AltKm:        value(geo.AltKm),
		SlantRangeKm: value(transform.SlantRangeKm(obs, ecef)),
	}

	// Velocity components can be NaN even when the position is usable; keep
	// the positional fields and drop only the speed.
	if hv := transform.HorizontalSpeedKmS(state); !math.IsNaN(hv) && !math.IsInf(hv, 0) {
		s.HorizVelKmS = value(hv)
	}
	return s
}

// value quantizes to three decimal places at capture time so that every
// consumer (JSON, CSV, comparisons in tests) sees the same number.
func value(v float64) Field {
	return Field{Value: math.Round(v*1000) / 1000, Valid: true}
}
