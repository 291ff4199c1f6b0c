// Package elevpool is an in-memory elevation source built from layers.
//
// A Pool composites its layers into tiles of a profile, caches the result and
// answers batched point queries by choosing, for each point, the level whose
// post spacing matches the requested resolution.
package elevpool

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Freshhand-j/osgearth/pkg/elevation"
	"github.com/Freshhand-j/osgearth/pkg/parallel"
	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

var (
	ErrNoData          = errors.New("no elevation data")
	ErrProfileMismatch = errors.New("tile key belongs to another profile")
)

// Defaults for Options fields left at zero.
const (
	DefaultTileSize  = 257
	DefaultCacheSize = 256
	DefaultMaxLOD    = 19
)

// Options configures a Pool.
type Options struct {
	Profile   *tile.Profile
	TileSize  int
	CacheSize int
	MaxLOD    uint32
	// Workers bounds the goroutines used by SampleMapCoords; 0 means GOMAXPROCS.
	Workers int
	Logger  *zap.Logger
}

// Pool implements elevation.Source over a stack of layers. Later layers
// override earlier ones wherever they have data. Safe for concurrent use.
type Pool struct {
	profile  *tile.Profile
	tileSize int
	maxLOD   uint32
	workers  int
	layers   []Layer
	log      *zap.Logger

	cache *elevation.WorkingSet
	// empty remembers keys none of the layers cover.
	empty *lru.Cache[tile.Key, struct{}]
	group singleflight.Group
	built atomic.Int64
}

var _ elevation.Source = (*Pool)(nil)

// New creates a pool.
func New(opts Options, layers ...Layer) (*Pool, error) {
	if opts.Profile == nil {
		opts.Profile = tile.GlobalGeodetic()
	}
	if opts.TileSize == 0 {
		opts.TileSize = DefaultTileSize
	}
	if opts.TileSize < 2 {
		return nil, fmt.Errorf("tile size %d: %w", opts.TileSize, elevation.ErrDegenerateHeightField)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if opts.MaxLOD == 0 {
		opts.MaxLOD = DefaultMaxLOD
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	empty, err := lru.New[tile.Key, struct{}](opts.CacheSize)
	if err != nil {
		return nil, err
	}

	return &Pool{
		profile:  opts.Profile,
		tileSize: opts.TileSize,
		maxLOD:   min(opts.MaxLOD, tile.MaxLOD),
		workers:  opts.Workers,
		layers:   layers,
		log:      opts.Logger,
		cache:    elevation.NewWorkingSet(opts.CacheSize),
		empty:    empty,
	}, nil
}

// Profile returns the tiling profile of the pool.
func (p *Pool) Profile() *tile.Profile { return p.profile }

// TileSize returns the number of posts along each tile edge.
func (p *Pool) TileSize() int { return p.tileSize }

// Layers returns the layers in compositing order.
func (p *Pool) Layers() []Layer { return p.layers }

// TilesBuilt returns how many tiles the pool has composited.
func (p *Pool) TilesBuilt() int64 { return p.built.Load() }

// Tile implements elevation.Source.
func (p *Pool) Tile(ctx context.Context, key tile.Key, allowUpsample bool, ws *elevation.WorkingSet) (*elevation.Field, error) {
	if !key.Valid() {
		return nil, fmt.Errorf("%s: %w", key, tile.ErrInvalidKey)
	}
	if key.Profile() != p.profile {
		return nil, fmt.Errorf("%s in %s, pool uses %s: %w", key, key.Profile(), p.profile, ErrProfileMismatch)
	}
	if f, ok := ws.Get(key); ok {
		return f, nil
	}
	if f, ok := p.cache.Get(key); ok {
		ws.Put(key, f)
		return f, nil
	}

	v, err, _ := p.group.Do(fmt.Sprintf("%s/%t", key, allowUpsample), func() (any, error) {
		if f, ok := p.cache.Get(key); ok {
			return f, nil
		}
		return p.build(ctx, key, allowUpsample, ws)
	})
	if err != nil {
		return nil, err
	}

	f := v.(*elevation.Field)
	ws.Put(key, f)
	return f, nil
}

// build composites the layers for key, falling back to the parent tile when
// none of them has data and upsampling is allowed.
func (p *Pool) build(ctx context.Context, key tile.Key, allowUpsample bool, ws *elevation.WorkingSet) (*elevation.Field, error) {
	hf, err := p.compositeOnce(ctx, key)
	if errors.Is(err, ErrNoData) && allowUpsample && key.LOD > 0 {
		var parent *elevation.Field
		parent, err = p.Tile(ctx, key.Parent(), true, ws)
		if err == nil {
			hf, err = parent.Resample(key.Extent(), p.tileSize, p.tileSize)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", key, err)
	}

	f := elevation.NewField(hf, nil)
	p.cache.Put(key, f)
	p.built.Add(1)
	p.log.Debug("built elevation tile", zap.Stringer("key", key))
	return f, nil
}

// compositeOnce runs composite unless an earlier run found no data for key.
func (p *Pool) compositeOnce(ctx context.Context, key tile.Key) (*elevation.GeoHeightField, error) {
	if p.empty.Contains(key) {
		return nil, ErrNoData
	}
	hf, err := p.composite(ctx, key)
	if errors.Is(err, ErrNoData) {
		p.empty.Add(key, struct{}{})
	}
	return hf, err
}

// composite merges every layer deep enough for key, in order.
func (p *Pool) composite(ctx context.Context, key tile.Key) (*elevation.GeoHeightField, error) {
	var out *elevation.GeoHeightField
	for _, layer := range p.layers {
		if key.LOD > layer.MaxLOD() {
			continue
		}
		hf, err := layer.CreateHeightField(ctx, key, p.tileSize)
		if errors.Is(err, ErrNoData) {
			continue
		}
		if err != nil {
			p.log.Warn("elevation layer failed",
				zap.String("layer", layer.Name()),
				zap.Stringer("key", key),
				zap.Error(err))
			return nil, fmt.Errorf("layer %s: %w", layer.Name(), err)
		}
		if hf.Columns != p.tileSize || hf.Rows != p.tileSize {
			return nil, fmt.Errorf("layer %s returned %dx%d, want %d: %w",
				layer.Name(), hf.Columns, hf.Rows, p.tileSize, elevation.ErrDegenerateHeightField)
		}

		if out == nil {
			out = hf
			continue
		}
		for i, h := range hf.Heights {
			if !elevation.IsNoData(float64(h)) {
				out.Heights[i] = h
			}
		}
	}
	if out == nil {
		return nil, ErrNoData
	}
	return out, nil
}

// SampleMapCoords implements elevation.Source. Points outside the profile or
// without data get NoDataValue. A point's resolution, converted into profile
// units, selects the level it is sampled from; a non-positive resolution
// samples the deepest level and is replaced by the spacing actually used
// when both references share a unit type.
func (p *Pool) SampleMapCoords(ctx context.Context, points []mgl64.Vec4, pointSRS srs.SpatialReference, ws *elevation.WorkingSet) (int, error) {
	if pointSRS == nil {
		return 0, srs.ErrNilSRS
	}

	profileSRS := p.profile.SRS()
	same := srs.Equal(pointSRS, profileSRS)

	var found atomic.Int64
	err := parallel.For(ctx, len(points), parallel.Options{Grain: parallel.DefaultGrain, Workers: p.workers}, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			ok, err := p.samplePoint(ctx, &points[i], pointSRS, profileSRS, same, ws)
			if err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
			if ok {
				found.Add(1)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(found.Load()), nil
}

func (p *Pool) samplePoint(ctx context.Context, pt *mgl64.Vec4, pointSRS, profileSRS srs.SpatialReference, same bool, ws *elevation.WorkingSet) (bool, error) {
	pt[2] = elevation.NoDataValue

	x, y := pt[0], pt[1]
	if !same {
		q, err := pointSRS.Transform(mgl64.Vec3{x, y, 0}, profileSRS)
		if err != nil {
			return false, nil
		}
		x, y = q[0], q[1]
	}

	lat := 0.0
	switch {
	case pointSRS.IsGeographic():
		lat = pt[1]
	case profileSRS.IsGeographic():
		lat = y
	}

	lod := p.maxLOD
	if pt[3] > 0 {
		res := p.toProfileUnits(srs.NewDistance(pt[3], pointSRS.Units()), lat)
		lod = p.profile.LODForResolution(res, p.tileSize, p.maxLOD)
	}

	key, err := p.profile.KeyAt(x, y, lod)
	if err != nil {
		return false, nil
	}
	field, err := p.Tile(ctx, key, true, ws)
	if errors.Is(err, ErrNoData) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	sample := field.Elevation(x, y)
	if !sample.HasData() {
		return false, nil
	}
	pt[2] = sample.Height
	if pt[3] <= 0 && sample.Resolution.Units.Type == pointSRS.Units().Type {
		pt[3] = sample.Resolution.As(pointSRS.Units())
	}
	return true, nil
}

// toProfileUnits converts a resolution into the profile's units. Linear to
// angular conversions use the length of a degree of longitude at latDeg.
func (p *Pool) toProfileUnits(d srs.Distance, latDeg float64) float64 {
	to := p.profile.SRS().Units()
	switch {
	case d.Units.Type == to.Type:
		return d.As(to)
	case to.IsLinear():
		return d.AsDistance(to, latDeg)
	default:
		metersPerDegree := srs.NewDistance(1, srs.Degrees).AsDistance(srs.Meters, latDeg)
		if metersPerDegree <= 0 {
			return 0
		}
		return srs.Convert(d.As(srs.Meters)/metersPerDegree, srs.Degrees, to)
	}
}
