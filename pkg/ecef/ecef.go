// Package ecef converts points from any spatial reference into earth-centered
// earth-fixed coordinates and on into a caller-supplied local rendering frame.
//
// Local frames are mgl64.Mat4 values applied to column vectors:
// local = world2local * [ecef, 1].
package ecef

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	emath "github.com/Freshhand-j/osgearth/pkg/math"
	"github.com/Freshhand-j/osgearth/pkg/parallel"
	"github.com/Freshhand-j/osgearth/pkg/srs"
)

// BatchOptions controls how batch transforms are split across goroutines.
// Results never depend on these values.
type BatchOptions = parallel.Options

// DefaultBatchOptions returns 50-point chunks over GOMAXPROCS workers.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{Grain: parallel.DefaultGrain}
}

// TransformAndLocalize transforms p from in into the geocentric form of out
// and applies world2local.
func TransformAndLocalize(p mgl64.Vec3, in, out srs.SpatialReference, world2local mgl64.Mat4) (mgl64.Vec3, error) {
	if in == nil || out == nil {
		return mgl64.Vec3{}, srs.ErrNilSRS
	}

	geocentric, err := geocentricForm(out)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	ecef, err := in.Transform(p, geocentric)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("transform %v: %w", p, err)
	}
	return emath.TransformPoint(world2local, ecef), nil
}

// geocentricForm returns out's geocentric counterpart, or ErrNilSRS when a
// reference has none.
func geocentricForm(out srs.SpatialReference) (srs.SpatialReference, error) {
	geocentric := out.GeocentricSRS()
	if geocentric == nil {
		return nil, fmt.Errorf("%s has no geocentric form: %w", out.Name(), srs.ErrNilSRS)
	}
	return geocentric, nil
}

// TransformAndLocalizeBatch localizes every point. The result is index-aligned
// with points. Work is split into chunks of opts.Grain points run in parallel;
// the call returns once every chunk has finished. On error no output is returned.
func TransformAndLocalizeBatch(ctx context.Context, points []mgl64.Vec3, in, out srs.SpatialReference, world2local mgl64.Mat4, opts BatchOptions) ([]mgl64.Vec3, error) {
	if in == nil || out == nil {
		return nil, srs.ErrNilSRS
	}

	geocentric, err := geocentricForm(out)
	if err != nil {
		return nil, err
	}

	result := make([]mgl64.Vec3, len(points))
	err = parallel.For(ctx, len(points), opts, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			ecef, err := in.Transform(points[i], geocentric)
			if err != nil {
				return fmt.Errorf("point %d %v: %w", i, points[i], err)
			}
			result[i] = emath.TransformPoint(world2local, ecef)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// TransformAndLocalizeWithNormals localizes points as a polyline and derives a
// normal per vertex with CurveNormals.
func TransformAndLocalizeWithNormals(ctx context.Context, points []mgl64.Vec3, in, out srs.SpatialReference, world2local mgl64.Mat4, opts BatchOptions) (verts, normals []mgl64.Vec3, err error) {
	verts, err = TransformAndLocalizeBatch(ctx, points, in, out, world2local, opts)
	if err != nil {
		return nil, nil, err
	}
	return verts, CurveNormals(verts), nil
}

// CurveNormals estimates an upward-leaning normal for each vertex of a
// polyline. Each segment's normal is right x out, where right = out x +Z.
// The first vertex uses its outgoing segment, interior vertices average the
// normals built from the incoming and outgoing segments (both crossed with the
// outgoing right vector) and the last vertex reuses the final segment's normal.
// Fewer than two vertices yield no normals; a segment parallel to +Z yields a
// zero normal.
func CurveNormals(verts []mgl64.Vec3) []mgl64.Vec3 {
	if len(verts) < 2 {
		return nil
	}

	normals := make([]mgl64.Vec3, 0, len(verts))
	var outNormal mgl64.Vec3
	for v := 0; v < len(verts)-1; v++ {
		out := verts[v+1].Sub(verts[v])
		right := out.Cross(emath.Up)
		outNormal = right.Cross(out)

		normal := outNormal
		if v > 0 {
			in := verts[v].Sub(verts[v-1])
			inNormal := right.Cross(in)
			normal = inNormal.Add(outNormal).Mul(0.5)
		}
		normals = append(normals, emath.Normalize(normal))
	}

	// final one
	normals = append(normals, emath.Normalize(outNormal))
	return normals
}

// TransformAndGetRotationMatrix converts p to ECEF in out's geocentric form and
// returns the East-North-Up rotation at its latitude and longitude. Inputs in
// a non-geographic reference are first converted to geographic. The rotation
// does not depend on the point's height.
func TransformAndGetRotationMatrix(p mgl64.Vec3, in, out srs.SpatialReference) (mgl64.Vec3, mgl64.Mat4, error) {
	if in == nil || out == nil {
		return mgl64.Vec3{}, mgl64.Mat4{}, srs.ErrNilSRS
	}

	geoSRS := in.GeographicSRS()
	if geoSRS == nil {
		return mgl64.Vec3{}, mgl64.Mat4{}, fmt.Errorf("%s has no geographic form: %w", in.Name(), srs.ErrNilSRS)
	}
	ecefSRS, err := geocentricForm(out)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Mat4{}, err
	}
	ellipsoid := ecefSRS.Ellipsoid()
	if ellipsoid == nil {
		return mgl64.Vec3{}, mgl64.Mat4{}, fmt.Errorf("%s has no ellipsoid: %w", ecefSRS.Name(), srs.ErrNilSRS)
	}

	geoPoint := p
	if !in.IsGeographic() {
		geoPoint, err = in.Transform(p, geoSRS)
		if err != nil {
			return mgl64.Vec3{}, mgl64.Mat4{}, fmt.Errorf("to geographic: %w", err)
		}
	}

	rotation := ellipsoid.ComputeCoordinateFrame(
		mgl64.DegToRad(geoPoint[1]),
		mgl64.DegToRad(geoPoint[0]),
	)

	ecef, err := geoSRS.Transform(geoPoint, ecefSRS)
	if err != nil {
		return mgl64.Vec3{}, mgl64.Mat4{}, fmt.Errorf("to geocentric: %w", err)
	}
	return ecef, rotation, nil
}

// LocalToWorld returns the matrix placing an ENU frame at p: local +X east,
// +Y north, +Z up, origin at p's geocentric position. Its inverse is a
// world2local matrix for TransformAndLocalize.
func LocalToWorld(p mgl64.Vec3, in, out srs.SpatialReference) (mgl64.Mat4, error) {
	ecef, rotation, err := TransformAndGetRotationMatrix(p, in, out)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	return emath.WithTranslation(rotation, ecef), nil
}

// DelocalizeAndTransform undoes TransformAndLocalize: it maps a local point
// back to ECEF with localToWorld and transforms it from out's geocentric form
// into target.
func DelocalizeAndTransform(local mgl64.Vec3, localToWorld mgl64.Mat4, out, target srs.SpatialReference) (mgl64.Vec3, error) {
	if out == nil || target == nil {
		return mgl64.Vec3{}, srs.ErrNilSRS
	}
	geocentric, err := geocentricForm(out)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	ecef := emath.TransformPoint(localToWorld, local)
	p, err := geocentric.Transform(ecef, target)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("delocalize %v: %w", local, err)
	}
	return p, nil
}
