package transform

import (
	"math"
	"time"
)

// StateTEME is a satellite state vector in the TEME frame, as produced by
// SGP4: position in km, velocity in km/s.
type StateTEME struct {
	X, Y, Z    float64
	VX, VY, VZ float64
}

// PositionECEF is a satellite position in the Earth-fixed frame, km.
type PositionECEF struct {
	X, Y, Z float64
}

// TEMEToECEF rotates a TEME position into the ECEF frame at the given UTC
// time: r_ECEF = R3(GMST) * r_TEME. Polar motion and the equation of the
// equinoxes are ignored (~50 m error at most, well inside one grid sample of
// satellite motion).
//
// Velocity is deliberately not rotated: the horizontal-speed output of the
// analyzer is defined on the inertial velocity components, and nothing
// consumes an Earth-fixed velocity.
func TEMEToECEF(s StateTEME, t time.Time) PositionECEF {
	return TEMEToECEFWithGMST(s, GMST(t))
}

// TEMEToECEFWithGMST is TEMEToECEF with a precomputed GMST angle (radians).
// Useful when evaluating several quantities at the same instant.
func TEMEToECEFWithGMST(s StateTEME, gmst float64) PositionECEF {
	cosG := math.Cos(gmst)
	sinG := math.Sin(gmst)

	return PositionECEF{
		X: s.X*cosG + s.Y*sinG,
		Y: -s.X*sinG + s.Y*cosG,
		Z: s.Z,
	}
}

// HorizontalSpeedKmS returns the magnitude of the two equatorial-plane
// components of the TEME velocity. The polar-axis component is excluded:
// this is the analyzer's horizontal ground-relative speed approximation,
// not full orbital speed.
func HorizontalSpeedKmS(s StateTEME) float64 {
	return math.Sqrt(s.VX*s.VX + s.VY*s.VY)
}
