package elevpool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Freshhand-j/osgearth/pkg/elevation"
	"github.com/Freshhand-j/osgearth/pkg/formats"
	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// Layer produces heightfields for tiles of a pool's profile.
type Layer interface {
	Name() string
	// MaxLOD is the deepest level the layer has real detail for. Deeper
	// tiles are upsampled from ancestors by the pool.
	MaxLOD() uint32
	// CreateHeightField returns a size x size grid over the key's extent
	// with NoDataValue where the layer has no coverage, or ErrNoData when
	// it covers none of the tile.
	CreateHeightField(ctx context.Context, key tile.Key, size int) (*elevation.GeoHeightField, error)
}

// GridLayer serves heights from a single georeferenced grid.
type GridLayer struct {
	name   string
	maxLOD uint32
	field  *elevation.Field
}

// NewGridLayer wraps a heightfield. The grid is copied.
func NewGridLayer(name string, hf *elevation.GeoHeightField, maxLOD uint32) (*GridLayer, error) {
	if !hf.Valid() {
		return nil, fmt.Errorf("layer %s: %w", name, elevation.ErrDegenerateHeightField)
	}
	return &GridLayer{name: name, maxLOD: maxLOD, field: elevation.NewField(hf, nil)}, nil
}

// NewHGTLayer loads an SRTM tile named after its south-west corner.
func NewHGTLayer(path string, maxLOD uint32) (*GridLayer, error) {
	h, err := formats.ParseHGTFile(path)
	if err != nil {
		return nil, err
	}
	hf, err := h.GeoHeightField()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return NewGridLayer(filepath.Base(path), hf, maxLOD)
}

// NewTIFFLayer loads a grayscale TIFF and places it over extent. Raw sample
// values are multiplied by scale and shifted by offset.
func NewTIFFLayer(path string, extent tile.Extent, scale, offset float32, maxLOD uint32) (*GridLayer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening TIFF: %w", err)
	}
	defer f.Close()

	hf, err := formats.DecodeTIFF(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	for i, h := range hf.Heights {
		hf.Heights[i] = h*scale + offset
	}
	return NewGridLayer(filepath.Base(path), &elevation.GeoHeightField{HeightField: *hf, Extent: extent}, maxLOD)
}

// Name implements Layer.
func (l *GridLayer) Name() string { return l.name }

// MaxLOD implements Layer.
func (l *GridLayer) MaxLOD() uint32 { return l.maxLOD }

// Extent returns the area covered by the grid.
func (l *GridLayer) Extent() tile.Extent { return l.field.Extent() }

// CreateHeightField implements Layer.
func (l *GridLayer) CreateHeightField(ctx context.Context, key tile.Key, size int) (*elevation.GeoHeightField, error) {
	coverage := l.field.Extent()
	if srs.Equal(key.Profile().SRS(), coverage.SRS) && !key.Extent().Intersects(coverage) {
		return nil, ErrNoData
	}
	return sampleGrid(ctx, key, size, coverage.SRS, func(x, y float64) float64 {
		if !coverage.Contains(x, y) {
			return elevation.NoDataValue
		}
		return l.field.Elevation(x, y).Height
	})
}

// FuncLayer computes heights from a function of map coordinates.
type FuncLayer struct {
	name   string
	maxLOD uint32
	srs    srs.SpatialReference
	height func(x, y float64) float64
}

// NewFuncLayer creates a layer evaluating height(x, y) with x, y in ref.
// height may return elevation.NoDataValue.
func NewFuncLayer(name string, ref srs.SpatialReference, maxLOD uint32, height func(x, y float64) float64) *FuncLayer {
	return &FuncLayer{name: name, maxLOD: maxLOD, srs: ref, height: height}
}

// Name implements Layer.
func (l *FuncLayer) Name() string { return l.name }

// MaxLOD implements Layer.
func (l *FuncLayer) MaxLOD() uint32 { return l.maxLOD }

// CreateHeightField implements Layer.
func (l *FuncLayer) CreateHeightField(ctx context.Context, key tile.Key, size int) (*elevation.GeoHeightField, error) {
	return sampleGrid(ctx, key, size, l.srs, l.height)
}

// sampleGrid evaluates height at every post of the key's grid, transforming
// post positions into ref first.
func sampleGrid(ctx context.Context, key tile.Key, size int, ref srs.SpatialReference, height func(x, y float64) float64) (*elevation.GeoHeightField, error) {
	out, err := elevation.NewGeoHeightField(key.Extent(), size, size)
	if err != nil {
		return nil, err
	}

	keySRS := key.Profile().SRS()
	same := srs.Equal(keySRS, ref)
	found := false
	for row := range size {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for col := range size {
			x, y := out.Position(col, row)
			if !same {
				p, err := keySRS.Transform(mgl64.Vec3{x, y, 0}, ref)
				if err != nil {
					out.Set(col, row, elevation.NoDataValue)
					continue
				}
				x, y = p[0], p[1]
			}
			h := height(x, y)
			if elevation.IsNoData(h) {
				out.Set(col, row, elevation.NoDataValue)
				continue
			}
			out.Set(col, row, float32(h))
			found = true
		}
	}
	if !found {
		return nil, ErrNoData
	}
	return out, nil
}
