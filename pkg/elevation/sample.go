// Package elevation samples tiled heightfields and builds packed normal maps
// from them.
//
// A Field wraps one tile's heights over its extent. A Generator asks a Source
// for heights around every texel of a tile and turns the differences into
// octahedrally packed surface normals.
package elevation

import (
	"math"

	"github.com/Freshhand-j/osgearth/pkg/srs"
)

// NoDataValue marks a height that is not available.
const NoDataValue = -math.MaxFloat32

// IsNoData reports whether h is the no-data sentinel.
func IsNoData(h float64) bool {
	return h == NoDataValue
}

// Sample is a height and the ground spacing it represents.
type Sample struct {
	Height     float64
	Resolution srs.Distance
}

// HasData reports whether the sample carries a real height.
func (s Sample) HasData() bool {
	return !IsNoData(s.Height) && !math.IsNaN(s.Height)
}
