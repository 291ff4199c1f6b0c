package srs

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	emath "github.com/Freshhand-j/osgearth/pkg/math"
)

// WGS-84 ellipsoid parameters.
const (
	wgs84SemiMajor   = 6378137.0
	wgs84Flattening  = 1.0 / 298.257223563
	wgs84SemiMinor   = wgs84SemiMajor * (1 - wgs84Flattening)
	geodeticMaxIters = 10
)

// Ellipsoid is an oblate spheroid model of the planet.
type Ellipsoid struct {
	Name      string
	SemiMajor float64 // meters
	SemiMinor float64 // meters
	e2        float64 // first eccentricity squared
}

// WGS84 is the World Geodetic System 1984 ellipsoid.
var WGS84 = NewEllipsoid("WGS84", wgs84SemiMajor, wgs84SemiMinor)

// NewEllipsoid creates an ellipsoid from its semi-axes in meters.
func NewEllipsoid(name string, semiMajor, semiMinor float64) *Ellipsoid {
	return &Ellipsoid{
		Name:      name,
		SemiMajor: semiMajor,
		SemiMinor: semiMinor,
		e2:        1 - (semiMinor*semiMinor)/(semiMajor*semiMajor),
	}
}

// primeVerticalRadius is the radius of curvature in the prime vertical.
func (e *Ellipsoid) primeVerticalRadius(sinLat float64) float64 {
	return e.SemiMajor / math.Sqrt(1-e.e2*sinLat*sinLat)
}

// GeodeticToGeocentric converts latitude/longitude in radians and height in
// meters above the ellipsoid to geocentric (ECEF) meters.
func (e *Ellipsoid) GeodeticToGeocentric(latRad, lonRad, height float64) mgl64.Vec3 {
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)
	n := e.primeVerticalRadius(sinLat)

	return mgl64.Vec3{
		(n + height) * cosLat * cosLon,
		(n + height) * cosLat * sinLon,
		(n*(1-e.e2) + height) * sinLat,
	}
}

// GeocentricToGeodetic converts ECEF meters to latitude/longitude in radians
// and height in meters, iterating Bowring's latitude update until it settles.
func (e *Ellipsoid) GeocentricToGeodetic(p mgl64.Vec3) (latRad, lonRad, height float64) {
	x, y, z := p[0], p[1], p[2]
	lonRad = math.Atan2(y, x)
	r := math.Hypot(x, y)

	if r == 0 {
		// On the polar axis.
		latRad = math.Copysign(math.Pi/2, z)
		if z == 0 {
			latRad = 0
		}
		return latRad, lonRad, math.Abs(z) - e.SemiMinor
	}

	latRad = math.Atan2(z, r*(1-e.e2))
	for range geodeticMaxIters {
		sinLat := math.Sin(latRad)
		n := e.primeVerticalRadius(sinLat)
		next := math.Atan2(z+e.e2*n*sinLat, r)
		if math.Abs(next-latRad) < 1e-15 {
			latRad = next
			break
		}
		latRad = next
	}

	sinLat, cosLat := math.Sincos(latRad)
	n := e.primeVerticalRadius(sinLat)
	if math.Abs(cosLat) > 1e-10 {
		height = r/cosLat - n
	} else {
		height = math.Abs(z)/math.Abs(sinLat) - n*(1-e.e2)
	}
	return latRad, lonRad, height
}

// ComputeCoordinateFrame returns the East-North-Up rotation at the given
// latitude and longitude (radians). Its columns are the east, north and up
// unit vectors expressed in ECEF; it carries no translation.
func (e *Ellipsoid) ComputeCoordinateFrame(latRad, lonRad float64) mgl64.Mat4 {
	sinLat, cosLat := math.Sincos(latRad)
	sinLon, cosLon := math.Sincos(lonRad)

	up := mgl64.Vec3{cosLon * cosLat, sinLon * cosLat, sinLat}
	east := mgl64.Vec3{-sinLon, cosLon, 0}
	north := up.Cross(east)

	return emath.FromAxes(east, north, up)
}

