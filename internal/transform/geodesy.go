// Package transform provides the coordinate machinery behind pass detection:
// WGS-84 geodesy for the observer and the satellite sub-point, the GMST
// rotation tying the SGP4 output frame (TEME) to the rotating Earth (ECEF),
// and the slant-range distance between satellite and observer.
//
// All lengths are kilometers. SGP4 emits kilometers and every output of the
// analyzer is specified in kilometers, so nothing here converts units.
package transform

import "math"

// WGS-84 ellipsoid parameters, in km.
const (
	wgs84A  = 6378.137              // semi-major axis
	wgs84F  = 1.0 / 298.257223563   // flattening
	wgs84E2 = wgs84F * (2 - wgs84F) // first eccentricity squared
)

// Observer is a ground location with its ECEF position precomputed once so
// it can be reused across every sample of a scan.
type Observer struct {
	LatDeg, LonDeg float64 // geodetic degrees
	ElevM          float64 // meters above the ellipsoid
	X, Y, Z        float64 // ECEF, km
}

// NewObserver builds an Observer from geodetic coordinates. Latitude and
// longitude are degrees; elevation is meters above the WGS-84 ellipsoid.
func NewObserver(latDeg, lonDeg, elevM float64) Observer {
	lat := latDeg * math.Pi / 180
	lon := lonDeg * math.Pi / 180
	elevKm := elevM / 1000

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Radius of curvature in the prime vertical.
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return Observer{
		LatDeg: latDeg,
		LonDeg: lonDeg,
		ElevM:  elevM,
		X:      (n + elevKm) * cosLat * math.Cos(lon),
		Y:      (n + elevKm) * cosLat * math.Sin(lon),
		Z:      (n*(1-wgs84E2) + elevKm) * sinLat,
	}
}

// SlantRangeKm returns the straight-line distance between the observer and an
// ECEF position, in km. Euclidean distance is frame-invariant under the GMST
// rotation, so comparing it against a radius threshold needs no topocentric
// rotation.
func SlantRangeKm(o Observer, p PositionECEF) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// GeodeticPoint is a satellite sub-point: geodetic latitude/longitude in
// degrees and altitude above the ellipsoid in km.
type GeodeticPoint struct {
	LatDeg, LonDeg, AltKm float64
}

// ECEFToGeodetic converts an ECEF position (km) to geodetic coordinates using
// the iterative Bowring method. Converges in 2-3 iterations for Earth orbits.
func ECEFToGeodetic(p PositionECEF) GeodeticPoint {
	lon := math.Atan2(p.Y, p.X)

	rho := math.Sqrt(p.X*p.X + p.Y*p.Y)

	lat := math.Atan2(p.Z, rho*(1-wgs84E2))
	for i := 0; i < 5; i++ {
		sinLat := math.Sin(lat)
		n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)
		lat = math.Atan2(p.Z+wgs84E2*n*sinLat, rho)
	}

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	var alt float64
	if math.Abs(cosLat) > 1e-10 {
		alt = rho/cosLat - n
	} else {
		alt = math.Abs(p.Z)/math.Abs(sinLat) - n*(1-wgs84E2)
	}

	return GeodeticPoint{
		LatDeg: lat * 180 / math.Pi,
		LonDeg: lon * 180 / math.Pi,
		AltKm:  alt,
	}
}
