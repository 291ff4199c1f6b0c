package tile

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/maptile"
)

// ErrInvalidKey is returned when a key string cannot be parsed.
var ErrInvalidKey = errors.New("invalid tile key")

// Key addresses one tile in a profile's pyramid. The zero Key is invalid.
type Key struct {
	LOD, X, Y uint32
	profile   *Profile
}

// Valid reports whether the key belongs to a profile and lies inside its grid.
func (k Key) Valid() bool {
	if k.profile == nil || k.LOD > MaxLOD {
		return false
	}
	wide, high := k.profile.NumTiles(k.LOD)
	return k.X < wide && k.Y < high
}

// Profile returns the profile the key belongs to.
func (k Key) Profile() *Profile { return k.profile }

// Extent returns the tile's extent in the profile's reference.
func (k Key) Extent() Extent {
	return k.profile.TileExtent(k.LOD, k.X, k.Y)
}

// Parent returns the key one level up. The parent of a level-0 key is invalid.
func (k Key) Parent() Key {
	if k.LOD == 0 {
		return Key{}
	}
	return Key{LOD: k.LOD - 1, X: k.X / 2, Y: k.Y / 2, profile: k.profile}
}

// Children returns the four keys one level down, in row-major order from north-west.
func (k Key) Children() [4]Key {
	lod, x, y := k.LOD+1, k.X*2, k.Y*2
	return [4]Key{
		{LOD: lod, X: x, Y: y, profile: k.profile},
		{LOD: lod, X: x + 1, Y: y, profile: k.profile},
		{LOD: lod, X: x, Y: y + 1, profile: k.profile},
		{LOD: lod, X: x + 1, Y: y + 1, profile: k.profile},
	}
}

// MapTile converts a spherical-mercator key to an XYZ tile.
func (k Key) MapTile() (maptile.Tile, bool) {
	if k.profile != sphericalMercator {
		return maptile.Tile{}, false
	}
	return maptile.New(k.X, k.Y, maptile.Zoom(k.LOD)), true
}

// KeyFromMapTile converts an XYZ tile to a spherical-mercator key.
func KeyFromMapTile(t maptile.Tile) Key {
	return Key{LOD: uint32(t.Z), X: t.X, Y: t.Y, profile: sphericalMercator}
}

// String formats the key as "lod/x/y".
func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d", k.LOD, k.X, k.Y)
}

// ParseKey parses "lod/x/y" into a key of the given profile.
func ParseKey(p *Profile, s string) (Key, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Key{}, fmt.Errorf("%q: %w", s, ErrInvalidKey)
	}

	var vals [3]uint32
	for i, part := range parts {
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return Key{}, fmt.Errorf("%q: %w", s, ErrInvalidKey)
		}
		vals[i] = uint32(v)
	}

	k := p.Key(vals[0], vals[1], vals[2])
	if !k.Valid() {
		return Key{}, fmt.Errorf("%q outside %s grid: %w", s, p.Name(), ErrInvalidKey)
	}
	return k, nil
}
