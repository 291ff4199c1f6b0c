package srs

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

// MercatorMaxLatitude is the latitude at which spherical mercator becomes square.
const MercatorMaxLatitude = 85.05112877980659

// MercatorHalfExtent is half the width of the spherical mercator plane in meters.
const MercatorHalfExtent = 20037508.342789244

// sphericalMercator is EPSG:3857, delegated to orb/project.
type sphericalMercator struct{}

func (sphericalMercator) forward(lon, lat float64) (float64, float64, error) {
	if math.Abs(lat) >= 90 || math.IsNaN(lat) || math.IsNaN(lon) {
		return 0, 0, fmt.Errorf("latitude %g: %w", lat, ErrOutOfDomain)
	}
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	return p[0], p[1], nil
}

func (sphericalMercator) inverse(x, y float64) (float64, float64, error) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, ErrOutOfDomain
	}
	p := project.Mercator.ToWGS84(orb.Point{x, y})
	return p[0], p[1], nil
}

// equirectangular is the plate carrée projection on the equatorial radius
// (EPSG:4087): x and y are arc lengths in meters along the equator and meridian.
type equirectangular struct {
	radius float64
}

func (p equirectangular) forward(lon, lat float64) (float64, float64, error) {
	if math.Abs(lat) > 90 || math.IsNaN(lat) || math.IsNaN(lon) {
		return 0, 0, fmt.Errorf("latitude %g: %w", lat, ErrOutOfDomain)
	}
	return lon * math.Pi / 180 * p.radius, lat * math.Pi / 180 * p.radius, nil
}

func (p equirectangular) inverse(x, y float64) (float64, float64, error) {
	lat := y / p.radius * 180 / math.Pi
	if math.Abs(lat) > 90 || math.IsNaN(lat) || math.IsNaN(x) {
		return 0, 0, fmt.Errorf("latitude %g: %w", lat, ErrOutOfDomain)
	}
	return x / p.radius * 180 / math.Pi, lat, nil
}
