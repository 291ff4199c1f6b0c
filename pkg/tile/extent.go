// Package tile provides tiling profiles, tile keys and georeferenced extents.
package tile

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Freshhand-j/osgearth/pkg/srs"
)

// Extent is an axis-aligned rectangle in the units of its spatial reference.
type Extent struct {
	SRS   srs.SpatialReference
	Bound orb.Bound
}

// NewExtent creates an extent from its corners.
func NewExtent(s srs.SpatialReference, xMin, yMin, xMax, yMax float64) Extent {
	return Extent{
		SRS:   s,
		Bound: orb.Bound{Min: orb.Point{xMin, yMin}, Max: orb.Point{xMax, yMax}},
	}
}

// Valid reports whether the extent has a reference and positive area.
func (e Extent) Valid() bool {
	return e.SRS != nil && e.Bound.Max[0] > e.Bound.Min[0] && e.Bound.Max[1] > e.Bound.Min[1]
}

// XMin returns the west edge.
func (e Extent) XMin() float64 { return e.Bound.Min[0] }

// YMin returns the south edge.
func (e Extent) YMin() float64 { return e.Bound.Min[1] }

// XMax returns the east edge.
func (e Extent) XMax() float64 { return e.Bound.Max[0] }

// YMax returns the north edge.
func (e Extent) YMax() float64 { return e.Bound.Max[1] }

// Width returns xMax - xMin.
func (e Extent) Width() float64 { return e.Bound.Max[0] - e.Bound.Min[0] }

// Height returns yMax - yMin.
func (e Extent) Height() float64 { return e.Bound.Max[1] - e.Bound.Min[1] }

// Center returns the midpoint of the extent.
func (e Extent) Center() (x, y float64) {
	c := e.Bound.Center()
	return c[0], c[1]
}

// Contains reports whether (x, y) lies inside or on the edge of the extent.
func (e Extent) Contains(x, y float64) bool {
	return e.Bound.Contains(orb.Point{x, y})
}

// Intersects reports whether two extents in the same reference overlap.
func (e Extent) Intersects(o Extent) bool {
	return srs.Equal(e.SRS, o.SRS) && e.Bound.Intersects(o.Bound)
}

// Normalize maps (x, y) to (u, v) with (0,0) at the south-west corner and
// (1,1) at the north-east corner. Values outside the extent fall outside [0,1].
func (e Extent) Normalize(x, y float64) (u, v float64) {
	return (x - e.XMin()) / e.Width(), (y - e.YMin()) / e.Height()
}

// Interpolate maps normalized (u, v) back into the extent.
func (e Extent) Interpolate(u, v float64) (x, y float64) {
	return e.XMin() + u*e.Width(), e.YMin() + v*e.Height()
}

// String formats the extent for logs.
func (e Extent) String() string {
	name := "<nil>"
	if e.SRS != nil {
		name = e.SRS.Name()
	}
	return fmt.Sprintf("%s [%g, %g, %g, %g]", name, e.XMin(), e.YMin(), e.XMax(), e.YMax())
}
