// Package terrain builds renderable tile meshes from elevation fields.
package terrain

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// Vertex is a mesh vertex in the tile's local frame.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds a tile's grid mesh ready for upload. Positions are relative to
// LocalToWorld, an East-North-Up frame at the tile center.
type Mesh struct {
	Key          tile.Key
	Columns      int
	Rows         int
	Vertices     []Vertex
	Indices      []uint32
	Bounds       Bounds
	LocalToWorld mgl64.Mat4
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Center returns the middle of the box.
func (b Bounds) Center() [3]float32 {
	return [3]float32{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Contains reports whether p lies inside the box.
func (b Bounds) Contains(p [3]float32) bool {
	for i := range 3 {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}
