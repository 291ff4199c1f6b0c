package elevation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	emath "github.com/Freshhand-j/osgearth/pkg/math"
	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

var (
	ErrNoSource        = errors.New("no elevation source")
	ErrTileUnavailable = errors.New("elevation tile unavailable")
	ErrSampleFailed    = errors.New("elevation sampling failed")
)

// DefaultNormalMapSize is the width and height of generated normal maps.
const DefaultNormalMapSize = 256

// taps per texel: west, east, south, north
const taps = 4

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithSize sets the normal map dimensions to n x n. Sizes below 2 are ignored.
func WithSize(n int) GeneratorOption {
	return func(g *Generator) {
		if n >= 2 {
			g.width, g.height = n, n
		}
	}
}

// WithLogger sets the logger used for warnings.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// Generator builds tangent-space normal maps for terrain tiles. It holds no
// per-call state and may be shared between goroutines.
type Generator struct {
	width  int
	height int
	log    *zap.Logger
}

// NewGenerator creates a generator.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		width:  DefaultNormalMapSize,
		height: DefaultNormalMapSize,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Size returns the dimensions of generated maps.
func (g *Generator) Size() (width, height int) {
	return g.width, g.height
}

// CreateNormalMap builds the normal map for key.
//
// For each texel four taps are placed one resolution step west, east,
// south and north of its map position, using the tile field's resolution at
// the matching grid post. All taps go to src in a single SampleMapCoords
// call. Taps on the tile border reach into neighbouring tiles. A texel with
// any no-data tap gets the up vector.
func (g *Generator) CreateNormalMap(ctx context.Context, key tile.Key, src Source, ws *WorkingSet) (*NormalMap, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if !key.Valid() {
		return nil, fmt.Errorf("%s: %w", key, tile.ErrInvalidKey)
	}

	field, err := src.Tile(ctx, key, true, ws)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", key, ErrTileUnavailable, err)
	}
	if !field.Valid() {
		return nil, fmt.Errorf("%s: %w", key, ErrTileUnavailable)
	}

	keySRS := key.Profile().SRS()
	points := g.tapPoints(key.Extent(), field)

	if _, err := src.SampleMapCoords(ctx, points, keySRS, ws); err != nil {
		g.log.Warn("elevation sampling failed",
			zap.Stringer("key", key),
			zap.Int("points", len(points)),
			zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", key, ErrSampleFailed, err)
	}

	extent := key.Extent()
	units := keySRS.Units()
	nm := NewNormalMap(g.width, g.height)
	for t := range g.height {
		y := extent.YMin() + float64(t)/float64(g.height-1)*extent.Height()
		for s := range g.width {
			p := points[taps*(t*g.width+s):]
			res := srs.NewDistance(p[0][3], units)
			dx := res.AsDistance(srs.Meters, y)
			dy := res.AsDistance(srs.Meters, 0)
			nm.Set(s, t, emath.PackNormal(surfaceNormal(p[0][2], p[1][2], p[2][2], p[3][2], dx, dy)))
		}
	}
	return nm, nil
}

// tapPoints lays out the west, east, south and north taps of every texel.
func (g *Generator) tapPoints(extent tile.Extent, field *Field) []mgl64.Vec4 {
	points := make([]mgl64.Vec4, taps*g.width*g.height)
	cols, rows := field.Columns(), field.Rows()

	i := 0
	for t := range g.height {
		v := float64(t) / float64(g.height-1)
		row := int(math.Round(v * float64(rows-1)))
		for s := range g.width {
			u := float64(s) / float64(g.width-1)
			col := int(math.Round(u * float64(cols-1)))
			x, y := extent.Interpolate(u, v)
			r := field.Resolution(col, row).Value

			points[i+0] = mgl64.Vec4{x - r, y, 0, r}
			points[i+1] = mgl64.Vec4{x + r, y, 0, r}
			points[i+2] = mgl64.Vec4{x, y - r, 0, r}
			points[i+3] = mgl64.Vec4{x, y + r, 0, r}
			i += taps
		}
	}
	return points
}

// surfaceNormal returns normalize((east-west) x (north-south)) for taps
// spaced dx and dy meters from the texel, or up when any height is missing
// or the normal has no length.
func surfaceNormal(west, east, south, north, dx, dy float64) mgl64.Vec3 {
	for _, h := range [...]float64{west, east, south, north} {
		if IsNoData(h) || math.IsNaN(h) {
			return emath.Up
		}
	}

	a0 := mgl64.Vec3{-dx, 0, west}
	a1 := mgl64.Vec3{dx, 0, east}
	a2 := mgl64.Vec3{0, -dy, south}
	a3 := mgl64.Vec3{0, dy, north}

	n := emath.Normalize(a1.Sub(a0).Cross(a3.Sub(a2)))
	if emath.IsZero(n) {
		return emath.Up
	}
	return n
}
