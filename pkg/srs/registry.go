package srs

import (
	"fmt"
	"sort"
	"strings"
)

var (
	wgs84Geographic, wgs84Geocentric = newFamily("EPSG:4326", "EPSG:4978", WGS84)

	wgs84Mercator        = newProjected("EPSG:3857", Meters, wgs84Geographic, sphericalMercator{})
	wgs84Equirectangular = newProjected("EPSG:4087", Meters, wgs84Geographic, equirectangular{radius: wgs84SemiMajor})
)

// Geographic returns WGS-84 longitude/latitude in degrees (EPSG:4326).
func Geographic() *SRS { return wgs84Geographic }

// Geocentric returns WGS-84 earth-centered earth-fixed meters (EPSG:4978).
func Geocentric() *SRS { return wgs84Geocentric }

// SphericalMercator returns web mercator meters (EPSG:3857).
func SphericalMercator() *SRS { return wgs84Mercator }

// Equirectangular returns plate carrée meters (EPSG:4087).
func Equirectangular() *SRS { return wgs84Equirectangular }

var registry = map[string]*SRS{
	"epsg:4326":          wgs84Geographic,
	"wgs84":              wgs84Geographic,
	"geographic":         wgs84Geographic,
	"epsg:4978":          wgs84Geocentric,
	"geocentric":         wgs84Geocentric,
	"ecef":               wgs84Geocentric,
	"epsg:3857":          wgs84Mercator,
	"epsg:900913":        wgs84Mercator,
	"spherical-mercator": wgs84Mercator,
	"web-mercator":       wgs84Mercator,
	"epsg:4087":          wgs84Equirectangular,
	"equirectangular":    wgs84Equirectangular,
	"plate-carree":       wgs84Equirectangular,
}

// Get looks up a built-in reference by EPSG code or alias (case-insensitive).
func Get(name string) (*SRS, error) {
	s, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownSRS)
	}
	return s, nil
}

// Names returns all registered names and aliases, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
