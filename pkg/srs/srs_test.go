package srs

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// vecNear reports whether a and b are within tol of each other.
func vecNear(a, b mgl64.Vec3, tol float64) bool {
	return a.Sub(b).Len() <= tol
}

func TestGeodeticToGeocentricKnownPoints(t *testing.T) {
	tests := []struct {
		name        string
		lat, lon, h float64
		want        mgl64.Vec3
	}{
		{"origin", 0, 0, 0, mgl64.Vec3{wgs84SemiMajor, 0, 0}},
		{"lon90", 0, 90, 0, mgl64.Vec3{0, wgs84SemiMajor, 0}},
		{"north pole", 90, 0, 0, mgl64.Vec3{0, 0, wgs84SemiMinor}},
		{"raised", 0, 180, 100, mgl64.Vec3{-(wgs84SemiMajor + 100), 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WGS84.GeodeticToGeocentric(mgl64.DegToRad(tt.lat), mgl64.DegToRad(tt.lon), tt.h)
			if !vecNear(got, tt.want, 1e-6) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGeocentricRoundTrip(t *testing.T) {
	for _, lat := range []float64{-89.9, -45, 0, 12.5, 60, 89.999} {
		for _, lon := range []float64{-179, -90, 0, 33.3, 135} {
			for _, h := range []float64{-400, 0, 8848} {
				p := WGS84.GeodeticToGeocentric(mgl64.DegToRad(lat), mgl64.DegToRad(lon), h)
				gotLat, gotLon, gotH := WGS84.GeocentricToGeodetic(p)
				if !near(mgl64.RadToDeg(gotLat), lat, 1e-9) || !near(mgl64.RadToDeg(gotLon), lon, 1e-9) || !near(gotH, h, 1e-4) {
					t.Errorf("(%v,%v,%v) round trip = (%v,%v,%v)", lat, lon, h,
						mgl64.RadToDeg(gotLat), mgl64.RadToDeg(gotLon), gotH)
				}
			}
		}
	}
}

func TestGeocentricToGeodeticPole(t *testing.T) {
	lat, _, h := WGS84.GeocentricToGeodetic(mgl64.Vec3{0, 0, -(wgs84SemiMinor + 10)})
	if !near(lat, -math.Pi/2, 1e-12) || !near(h, 10, 1e-6) {
		t.Errorf("south pole: lat=%v h=%v", lat, h)
	}
}

func TestComputeCoordinateFrameAtOrigin(t *testing.T) {
	m := WGS84.ComputeCoordinateFrame(0, 0)
	east := m.Col(0).Vec3()
	north := m.Col(1).Vec3()
	up := m.Col(2).Vec3()

	if !vecNear(east, mgl64.Vec3{0, 1, 0}, 1e-12) {
		t.Errorf("east = %v, want (0,1,0)", east)
	}
	if !vecNear(north, mgl64.Vec3{0, 0, 1}, 1e-12) {
		t.Errorf("north = %v, want (0,0,1)", north)
	}
	if !vecNear(up, mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("up = %v, want (1,0,0)", up)
	}
	if m[12] != 0 || m[13] != 0 || m[14] != 0 {
		t.Errorf("frame should not translate, got %v", m.Col(3))
	}
}

func TestComputeCoordinateFrameOrthonormal(t *testing.T) {
	m := WGS84.ComputeCoordinateFrame(mgl64.DegToRad(47.3), mgl64.DegToRad(-122.2))
	rot := m.Mat3()
	prod, ident := rot.Mul3(rot.Transpose()), mgl64.Ident3()
	for i := range prod {
		if !near(prod[i], ident[i], 1e-12) {
			t.Fatalf("frame is not orthonormal: R*Rt = %v", prod)
		}
	}
	if det := rot.Det(); !near(det, 1, 1e-12) {
		t.Errorf("frame determinant = %v, want 1", det)
	}
}

func TestTransformGeographicToGeocentric(t *testing.T) {
	got, err := Geographic().Transform(mgl64.Vec3{90, 0, 0}, Geocentric())
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !vecNear(got, mgl64.Vec3{0, wgs84SemiMajor, 0}, 1e-6) {
		t.Errorf("got %v", got)
	}
}

func TestTransformMercatorRoundTrip(t *testing.T) {
	in := mgl64.Vec3{-122.4194, 37.7749, 15}
	merc, err := Geographic().Transform(in, SphericalMercator())
	if err != nil {
		t.Fatalf("to mercator: %v", err)
	}
	if !near(merc[2], 15, 0) {
		t.Errorf("height should pass through, got %v", merc[2])
	}
	back, err := SphericalMercator().Transform(merc, Geographic())
	if err != nil {
		t.Fatalf("from mercator: %v", err)
	}
	if !vecNear(back, in, 1e-9) {
		t.Errorf("round trip = %v, want %v", back, in)
	}
}

func TestTransformMercatorEdge(t *testing.T) {
	got, err := Geographic().Transform(mgl64.Vec3{180, 0, 0}, SphericalMercator())
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if !near(got[0], MercatorHalfExtent, 1e-3) {
		t.Errorf("x at 180 = %v, want %v", got[0], MercatorHalfExtent)
	}
}

func TestTransformEquirectangularToGeocentric(t *testing.T) {
	// One degree of arc along the equator.
	x := wgs84SemiMajor * math.Pi / 180
	viaPlane, err := Equirectangular().Transform(mgl64.Vec3{x, 0, 50}, Geocentric())
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	direct, _ := Geographic().Transform(mgl64.Vec3{1, 0, 50}, Geocentric())
	if !vecNear(viaPlane, direct, 1e-6) {
		t.Errorf("plane->ecef = %v, geographic->ecef = %v", viaPlane, direct)
	}
}

func TestTransformErrors(t *testing.T) {
	if _, err := Geographic().Transform(mgl64.Vec3{}, nil); !errors.Is(err, ErrNilSRS) {
		t.Errorf("nil target: got %v, want ErrNilSRS", err)
	}
	if _, err := Geographic().Transform(mgl64.Vec3{0, 90, 0}, SphericalMercator()); !errors.Is(err, ErrOutOfDomain) {
		t.Errorf("pole to mercator: got %v, want ErrOutOfDomain", err)
	}
	if _, err := Geographic().Transform(mgl64.Vec3{0, 91, 0}, Geocentric()); !errors.Is(err, ErrOutOfDomain) {
		t.Errorf("lat 91 to ecef: got %v, want ErrOutOfDomain", err)
	}
}

func TestFamilies(t *testing.T) {
	for _, s := range []*SRS{Geographic(), Geocentric(), SphericalMercator(), Equirectangular()} {
		if s.GeographicSRS() != SpatialReference(Geographic()) {
			t.Errorf("%s: geographic counterpart = %v", s.Name(), s.GeographicSRS())
		}
		if s.GeocentricSRS() != SpatialReference(Geocentric()) {
			t.Errorf("%s: geocentric counterpart = %v", s.Name(), s.GeocentricSRS())
		}
		if s.Ellipsoid() != WGS84 {
			t.Errorf("%s: ellipsoid = %v", s.Name(), s.Ellipsoid())
		}
	}
	if !Geographic().IsGeographic() || Geographic().IsGeocentric() {
		t.Error("EPSG:4326 should be geographic only")
	}
	if !Geocentric().IsGeocentric() {
		t.Error("EPSG:4978 should be geocentric")
	}
	if !SphericalMercator().IsProjected() {
		t.Error("EPSG:3857 should be projected")
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		name string
		want *SRS
	}{
		{"EPSG:4326", Geographic()},
		{" wgs84 ", Geographic()},
		{"ECEF", Geocentric()},
		{"epsg:3857", SphericalMercator()},
		{"plate-carree", Equirectangular()},
	}
	for _, tt := range tests {
		got, err := Get(tt.name)
		if err != nil {
			t.Errorf("Get(%q): %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Get(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
	if _, err := Get("EPSG:32633"); !errors.Is(err, ErrUnknownSRS) {
		t.Errorf("unknown: got %v, want ErrUnknownSRS", err)
	}
	if len(Names()) != len(registry) {
		t.Errorf("Names() returned %d entries, want %d", len(Names()), len(registry))
	}
}

func TestEqual(t *testing.T) {
	if !Equal(Geographic(), Geographic()) {
		t.Error("same reference should be equal")
	}
	if Equal(Geographic(), SphericalMercator()) {
		t.Error("different references should not be equal")
	}
	if Equal(Geographic(), nil) {
		t.Error("nil should not equal a reference")
	}
}
