package elevation

import (
	"context"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// Source supplies elevation tiles and answers batched height queries.
type Source interface {
	// Tile returns the field for key. With allowUpsample the source may
	// derive it from an ancestor tile when the key itself has no data.
	Tile(ctx context.Context, key tile.Key, allowUpsample bool, ws *WorkingSet) (*Field, error)

	// SampleMapCoords writes a height into points[i][2] for every point
	// (x, y) given in pointSRS, or NoDataValue where no data exists.
	// points[i][3] carries the desired resolution; a source may overwrite a
	// non-positive value with the resolution it actually used. It returns
	// the number of points that received data. A non-nil error means the
	// source failed internally and the heights must not be used.
	SampleMapCoords(ctx context.Context, points []mgl64.Vec4, pointSRS srs.SpatialReference, ws *WorkingSet) (int, error)
}
