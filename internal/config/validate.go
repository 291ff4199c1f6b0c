package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	fail := func(format string, args ...any) {
		errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.NormalMap.Size < 2 {
		fail("normal_map.size %d is below 2", c.NormalMap.Size)
	}
	switch c.NormalMap.Format {
	case "png", "tiff":
	default:
		fail("normal_map.format %q is not png or tiff", c.NormalMap.Format)
	}

	if c.Batch.ChunkSize < 1 {
		fail("batch.chunk_size %d is below 1", c.Batch.ChunkSize)
	}
	if c.Batch.Workers < 0 {
		fail("batch.workers %d is negative", c.Batch.Workers)
	}

	if _, err := tile.ByName(c.Pool.Profile); err != nil {
		fail("pool.profile: %v", err)
	}
	if c.Pool.TileSize < 2 {
		fail("pool.tile_size %d is below 2", c.Pool.TileSize)
	}
	if c.Pool.CacheSize < 1 {
		fail("pool.cache_size %d is below 1", c.Pool.CacheSize)
	}
	if c.Pool.WorkingSetSize < 1 {
		fail("pool.working_set_size %d is below 1", c.Pool.WorkingSetSize)
	}
	if c.Pool.MaxLOD > tile.MaxLOD {
		fail("pool.max_lod %d exceeds %d", c.Pool.MaxLOD, tile.MaxLOD)
	}

	for i, l := range c.Data.TIFFLayers {
		if l.Path == "" {
			fail("data.tiff_layers[%d]: missing path", i)
		}
		if _, err := srs.Get(l.SRS); err != nil {
			fail("data.tiff_layers[%d].srs: %v", i, err)
		}
		if l.Extent[2] <= l.Extent[0] || l.Extent[3] <= l.Extent[1] {
			fail("data.tiff_layers[%d].extent %v is empty", i, l.Extent)
		}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		fail("logging.level %q is not debug, info, warn or error", c.Logging.Level)
	}

	return errs
}
