package terrain

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Freshhand-j/osgearth/pkg/ecef"
	"github.com/Freshhand-j/osgearth/pkg/elevation"
	emath "github.com/Freshhand-j/osgearth/pkg/math"
	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// ErrEmptyField is returned when the field holds no heights.
var ErrEmptyField = errors.New("elevation field is empty")

// Options controls mesh construction.
type Options struct {
	// World is the reference whose geocentric form the mesh is placed in.
	// Defaults to WGS-84 geographic.
	World srs.SpatialReference
	// NoDataHeight replaces missing heights.
	NoDataHeight float64
	Batch        ecef.BatchOptions
}

// BuildTileMesh builds one vertex per field post, placed in an East-North-Up
// frame at the center of the field's extent. Normals are the area-weighted
// average of the faces around each vertex.
func BuildTileMesh(ctx context.Context, field *elevation.Field, key tile.Key, opts Options) (*Mesh, error) {
	if !field.Valid() {
		return nil, ErrEmptyField
	}
	if opts.World == nil {
		opts.World = srs.Geographic()
	}

	extent := field.Extent()
	cols, rows := field.Columns(), field.Rows()

	cx, cy := extent.Center()
	localToWorld, err := ecef.LocalToWorld(mgl64.Vec3{cx, cy, 0}, extent.SRS, opts.World)
	if err != nil {
		return nil, fmt.Errorf("tile frame: %w", err)
	}

	points := make([]mgl64.Vec3, 0, cols*rows)
	for row := range rows {
		for col := range cols {
			x, y := extent.Interpolate(float64(col)/float64(cols-1), float64(row)/float64(rows-1))
			h := float64(field.HeightAt(col, row))
			if elevation.IsNoData(h) {
				h = opts.NoDataHeight
			}
			points = append(points, mgl64.Vec3{x, y, h})
		}
	}

	local, err := ecef.TransformAndLocalizeBatch(ctx, points, extent.SRS, opts.World, localToWorld.Inv(), opts.Batch)
	if err != nil {
		return nil, fmt.Errorf("placing vertices: %w", err)
	}

	// Initialize bounds
	bounds := Bounds{
		Min: [3]float32{1e30, 1e30, 1e30},
		Max: [3]float32{-1e30, -1e30, -1e30},
	}

	vertices := make([]Vertex, len(local))
	for i, p := range local {
		pos := toFloat32(p)
		vertices[i] = Vertex{
			Position: pos,
			TexCoord: [2]float32{
				float32(i%cols) / float32(cols-1),
				float32(i/cols) / float32(rows-1),
			},
		}
		updateBounds(&bounds, pos)
	}

	indices := gridIndices(cols, rows)
	vertexNormals(local, indices, vertices)

	return &Mesh{
		Key:          key,
		Columns:      cols,
		Rows:         rows,
		Vertices:     vertices,
		Indices:      indices,
		Bounds:       bounds,
		LocalToWorld: localToWorld,
	}, nil
}

// gridIndices returns two counter-clockwise triangles per grid cell, seen
// from above.
func gridIndices(cols, rows int) []uint32 {
	indices := make([]uint32, 0, 6*(cols-1)*(rows-1))
	for row := 0; row < rows-1; row++ {
		for col := 0; col < cols-1; col++ {
			sw := uint32(row*cols + col)
			se := sw + 1
			nw := sw + uint32(cols)
			ne := nw + 1
			indices = append(indices,
				sw, se, ne,
				sw, ne, nw,
			)
		}
	}
	return indices
}

// vertexNormals sums unnormalized face normals into each corner, which
// weights them by face area.
func vertexNormals(positions []mgl64.Vec3, indices []uint32, vertices []Vertex) {
	sums := make([]mgl64.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		n := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		sums[a] = sums[a].Add(n)
		sums[b] = sums[b].Add(n)
		sums[c] = sums[c].Add(n)
	}
	for i, s := range sums {
		n := emath.Normalize(s)
		if emath.IsZero(n) {
			n = emath.Up
		}
		vertices[i].Normal = toFloat32(n)
	}
}

// Helper functions

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
}

func toFloat32(v mgl64.Vec3) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
