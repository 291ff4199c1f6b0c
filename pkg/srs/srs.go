// Package srs defines the spatial reference contract used by the geodesy and
// elevation packages, plus a pure-Go WGS-84 reference implementation.
package srs

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Spatial reference errors.
var (
	ErrNilSRS      = errors.New("spatial reference is nil")
	ErrOutOfDomain = errors.New("coordinate outside projection domain")
	ErrUnknownSRS  = errors.New("unknown spatial reference")
	ErrUnsupported = errors.New("unsupported transformation")
)

// SpatialReference identifies a coordinate system and converts points to
// other coordinate systems. Implementations are immutable and safe for
// concurrent use.
type SpatialReference interface {
	// Name returns a stable identifier such as "EPSG:4326".
	Name() string
	// Units returns the units of the horizontal axes.
	Units() Units
	IsGeographic() bool
	IsGeocentric() bool
	// Ellipsoid returns the ellipsoid model of the underlying datum.
	Ellipsoid() *Ellipsoid
	// GeographicSRS returns the lon/lat/height counterpart.
	GeographicSRS() SpatialReference
	// GeocentricSRS returns the ECEF counterpart.
	GeocentricSRS() SpatialReference
	// Transform converts p from this reference into to.
	Transform(p mgl64.Vec3, to SpatialReference) (mgl64.Vec3, error)
}

// Equal reports whether two references describe the same coordinate system.
func Equal(a, b SpatialReference) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name() == b.Name()
}

type kind int

const (
	kindGeographic kind = iota
	kindGeocentric
	kindProjected
)

// projection maps geographic degrees to planar coordinates and back.
type projection interface {
	forward(lonDeg, latDeg float64) (x, y float64, err error)
	inverse(x, y float64) (lonDeg, latDeg float64, err error)
}

// SRS is the built-in SpatialReference implementation. All SRS values that
// share an ellipsoid share their geographic and geocentric counterparts.
type SRS struct {
	name      string
	kind      kind
	units     Units
	ellipsoid *Ellipsoid
	proj      projection

	geographic *SRS
	geocentric *SRS
}

// newFamily creates the geographic and geocentric references for an ellipsoid.
func newFamily(geoName, ecefName string, e *Ellipsoid) (geo, ecef *SRS) {
	geo = &SRS{name: geoName, kind: kindGeographic, units: Degrees, ellipsoid: e}
	ecef = &SRS{name: ecefName, kind: kindGeocentric, units: Meters, ellipsoid: e}
	geo.geographic, geo.geocentric = geo, ecef
	ecef.geographic, ecef.geocentric = geo, ecef
	return geo, ecef
}

// newProjected creates a projected reference in the family of geo.
func newProjected(name string, units Units, geo *SRS, p projection) *SRS {
	return &SRS{
		name:       name,
		kind:       kindProjected,
		units:      units,
		ellipsoid:  geo.ellipsoid,
		proj:       p,
		geographic: geo,
		geocentric: geo.geocentric,
	}
}

// Name implements SpatialReference.
func (s *SRS) Name() string { return s.name }

// Units implements SpatialReference.
func (s *SRS) Units() Units { return s.units }

// IsGeographic implements SpatialReference.
func (s *SRS) IsGeographic() bool { return s.kind == kindGeographic }

// IsGeocentric implements SpatialReference.
func (s *SRS) IsGeocentric() bool { return s.kind == kindGeocentric }

// IsProjected reports whether the reference is a planar projection.
func (s *SRS) IsProjected() bool { return s.kind == kindProjected }

// Ellipsoid implements SpatialReference.
func (s *SRS) Ellipsoid() *Ellipsoid { return s.ellipsoid }

// GeographicSRS implements SpatialReference.
func (s *SRS) GeographicSRS() SpatialReference { return s.geographic }

// GeocentricSRS implements SpatialReference.
func (s *SRS) GeocentricSRS() SpatialReference { return s.geocentric }

// String returns the reference name.
func (s *SRS) String() string { return s.name }

// Transform implements SpatialReference. Points pass through geographic
// lon/lat/height; both references are assumed to share a datum.
func (s *SRS) Transform(p mgl64.Vec3, to SpatialReference) (mgl64.Vec3, error) {
	if to == nil {
		return mgl64.Vec3{}, ErrNilSRS
	}
	if Equal(s, to) {
		return p, nil
	}

	geo, err := s.toGeographic(p)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("%s to geographic: %w", s.name, err)
	}

	target, ok := to.(*SRS)
	if !ok {
		return transformForeign(s.geographic, geo, to)
	}

	out, err := target.fromGeographic(geo)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("geographic to %s: %w", target.name, err)
	}
	return out, nil
}

// transformForeign hands a geographic point to another implementation whose
// geographic counterpart has the same name as ours.
func transformForeign(geo *SRS, p mgl64.Vec3, to SpatialReference) (mgl64.Vec3, error) {
	foreignGeo := to.GeographicSRS()
	if _, ours := foreignGeo.(*SRS); ours || foreignGeo == nil || !Equal(foreignGeo, geo) {
		return mgl64.Vec3{}, fmt.Errorf("%s to %s: %w", geo.name, to.Name(), ErrUnsupported)
	}
	return foreignGeo.Transform(p, to)
}

// toGeographic converts p to lon/lat degrees and height in meters.
func (s *SRS) toGeographic(p mgl64.Vec3) (mgl64.Vec3, error) {
	switch s.kind {
	case kindGeographic:
		return p, nil
	case kindGeocentric:
		lat, lon, h := s.ellipsoid.GeocentricToGeodetic(p)
		return mgl64.Vec3{mgl64.RadToDeg(lon), mgl64.RadToDeg(lat), h}, nil
	default:
		lon, lat, err := s.proj.inverse(p[0], p[1])
		if err != nil {
			return mgl64.Vec3{}, err
		}
		return mgl64.Vec3{lon, lat, p[2]}, nil
	}
}

// fromGeographic converts lon/lat degrees and height into this reference.
func (s *SRS) fromGeographic(geo mgl64.Vec3) (mgl64.Vec3, error) {
	switch s.kind {
	case kindGeographic:
		return geo, nil
	case kindGeocentric:
		if math.Abs(geo[1]) > 90 {
			return mgl64.Vec3{}, fmt.Errorf("latitude %g: %w", geo[1], ErrOutOfDomain)
		}
		return s.ellipsoid.GeodeticToGeocentric(mgl64.DegToRad(geo[1]), mgl64.DegToRad(geo[0]), geo[2]), nil
	default:
		x, y, err := s.proj.forward(geo[0], geo[1])
		if err != nil {
			return mgl64.Vec3{}, err
		}
		return mgl64.Vec3{x, y, geo[2]}, nil
	}
}
