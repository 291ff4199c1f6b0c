package tile

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"github.com/Freshhand-j/osgearth/pkg/srs"
)

// Profile errors.
var (
	ErrInvalidProfile = errors.New("invalid tiling profile")
	ErrOutsideProfile = errors.New("point outside profile extent")
)

// MaxLOD is the deepest level of detail a profile will address.
const MaxLOD = 30

// Profile describes how a spatial reference's extent is divided into a tile
// pyramid. Level 0 has TilesWide x TilesHigh tiles and every level doubles both.
// Tile rows are counted from the north edge.
type Profile struct {
	name      string
	extent    Extent
	tilesWide uint32
	tilesHigh uint32
}

// NewProfile creates a profile over the given extent.
func NewProfile(name string, extent Extent, tilesWide, tilesHigh uint32) (*Profile, error) {
	if !extent.Valid() {
		return nil, fmt.Errorf("%s: extent %s: %w", name, extent, ErrInvalidProfile)
	}
	if tilesWide == 0 || tilesHigh == 0 {
		return nil, fmt.Errorf("%s: zero tiles at level 0: %w", name, ErrInvalidProfile)
	}
	return &Profile{name: name, extent: extent, tilesWide: tilesWide, tilesHigh: tilesHigh}, nil
}

var (
	globalGeodetic = &Profile{
		name:      "global-geodetic",
		extent:    NewExtent(srs.Geographic(), -180, -90, 180, 90),
		tilesWide: 2,
		tilesHigh: 1,
	}
	sphericalMercator = &Profile{
		name:      "spherical-mercator",
		extent:    NewExtent(srs.SphericalMercator(), -srs.MercatorHalfExtent, -srs.MercatorHalfExtent, srs.MercatorHalfExtent, srs.MercatorHalfExtent),
		tilesWide: 1,
		tilesHigh: 1,
	}
)

// GlobalGeodetic returns the whole-earth lon/lat profile, two tiles at level 0.
func GlobalGeodetic() *Profile { return globalGeodetic }

// SphericalMercator returns the web mercator profile, one tile at level 0.
// Its keys coincide with XYZ (slippy map) tiles.
func SphericalMercator() *Profile { return sphericalMercator }

// ByName returns a built-in profile.
func ByName(name string) (*Profile, error) {
	switch name {
	case "global-geodetic", "geodetic", "wgs84":
		return globalGeodetic, nil
	case "spherical-mercator", "mercator", "web-mercator":
		return sphericalMercator, nil
	default:
		return nil, fmt.Errorf("profile %q: %w", name, ErrInvalidProfile)
	}
}

// Name returns the profile name.
func (p *Profile) Name() string { return p.name }

// SRS returns the profile's spatial reference.
func (p *Profile) SRS() srs.SpatialReference { return p.extent.SRS }

// Extent returns the full extent of the profile.
func (p *Profile) Extent() Extent { return p.extent }

// NumTiles returns the tile grid dimensions at a level.
func (p *Profile) NumTiles(lod uint32) (wide, high uint32) {
	return p.tilesWide << lod, p.tilesHigh << lod
}

// TileDimensions returns the width and height of one tile at a level.
func (p *Profile) TileDimensions(lod uint32) (width, height float64) {
	wide, high := p.NumTiles(lod)
	return p.extent.Width() / float64(wide), p.extent.Height() / float64(high)
}

// TileExtent returns the extent of tile (x, y) at a level.
func (p *Profile) TileExtent(lod, x, y uint32) Extent {
	w, h := p.TileDimensions(lod)
	xMin := p.extent.XMin() + float64(x)*w
	yMax := p.extent.YMax() - float64(y)*h
	return NewExtent(p.extent.SRS, xMin, yMax-h, xMin+w, yMax)
}

// Key returns the key for tile (x, y) at a level.
func (p *Profile) Key(lod, x, y uint32) Key {
	return Key{LOD: lod, X: x, Y: y, profile: p}
}

// KeyAt returns the key of the tile containing (x, y) at a level. Points on
// the east or south profile edge belong to the last column or row.
func (p *Profile) KeyAt(x, y float64, lod uint32) (Key, error) {
	if !p.extent.Contains(x, y) || math.IsNaN(x) || math.IsNaN(y) {
		return Key{}, fmt.Errorf("(%g, %g): %w", x, y, ErrOutsideProfile)
	}
	if p == sphericalMercator {
		return p.mercatorKeyAt(x, y, lod)
	}

	wide, high := p.NumTiles(lod)
	w, h := p.TileDimensions(lod)
	col := uint32(min(math.Floor((x-p.extent.XMin())/w), float64(wide-1)))
	row := uint32(min(math.Floor((p.extent.YMax()-y)/h), float64(high-1)))
	return p.Key(lod, col, row), nil
}

func (p *Profile) mercatorKeyAt(x, y float64, lod uint32) (Key, error) {
	geo, err := p.extent.SRS.Transform(mgl64.Vec3{x, y, 0}, p.extent.SRS.GeographicSRS())
	if err != nil {
		return Key{}, err
	}
	t := maptile.At(orb.Point{geo[0], geo[1]}, maptile.Zoom(lod))
	return KeyFromMapTile(t), nil
}

// LODForResolution returns the shallowest level whose sample spacing, for
// tiles of tileSize samples per side, is no coarser than resolution (in the
// profile's units). It returns maxLOD when no level is fine enough.
func (p *Profile) LODForResolution(resolution float64, tileSize int, maxLOD uint32) uint32 {
	if tileSize < 2 || resolution <= 0 {
		return maxLOD
	}
	for lod := uint32(0); lod < maxLOD; lod++ {
		_, h := p.TileDimensions(lod)
		if h/float64(tileSize-1) <= resolution {
			return lod
		}
	}
	return maxLOD
}

// String returns the profile name.
func (p *Profile) String() string { return p.name }
