// Package config handles terraintool configuration loading and management.
package config

import (
	"go.uber.org/zap"

	"github.com/Freshhand-j/osgearth/internal/elevpool"
	"github.com/Freshhand-j/osgearth/pkg/ecef"
	"github.com/Freshhand-j/osgearth/pkg/elevation"
	"github.com/Freshhand-j/osgearth/pkg/parallel"
	"github.com/Freshhand-j/osgearth/pkg/srs"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// Config holds all terraintool settings.
type Config struct {
	NormalMap NormalMapConfig `yaml:"normal_map"`
	Batch     BatchConfig     `yaml:"batch"`
	Pool      PoolConfig      `yaml:"pool"`
	Data      DataConfig      `yaml:"data"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// NormalMapConfig holds normal map generation settings.
type NormalMapConfig struct {
	Size   int    `yaml:"size"`   // Texels per side
	Format string `yaml:"format"` // png or tiff
}

// BatchConfig holds batch coordinate transform settings.
type BatchConfig struct {
	ChunkSize int `yaml:"chunk_size"` // Points per parallel work unit
	Workers   int `yaml:"workers"`    // 0 = GOMAXPROCS
}

// PoolConfig holds elevation pool settings.
type PoolConfig struct {
	Profile        string `yaml:"profile"`
	TileSize       int    `yaml:"tile_size"`
	CacheSize      int    `yaml:"cache_size"`       // Tiles kept by the pool
	WorkingSetSize int    `yaml:"working_set_size"` // Tiles kept per session
	MaxLOD         uint32 `yaml:"max_lod"`
}

// DataConfig holds elevation data sources, composited in order.
type DataConfig struct {
	HGTPaths   []string          `yaml:"hgt_paths"`
	TIFFLayers []TIFFLayerConfig `yaml:"tiff_layers"`
}

// TIFFLayerConfig places a grayscale TIFF over an extent.
type TIFFLayerConfig struct {
	Path   string     `yaml:"path"`
	SRS    string     `yaml:"srs"`
	Extent [4]float64 `yaml:"extent"` // xmin, ymin, xmax, ymax
	Scale  float32    `yaml:"scale"`
	Offset float32    `yaml:"offset"`
	MaxLOD uint32     `yaml:"max_lod"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		NormalMap: NormalMapConfig{
			Size:   elevation.DefaultNormalMapSize,
			Format: "png",
		},
		Batch: BatchConfig{
			ChunkSize: parallel.DefaultGrain,
			Workers:   0,
		},
		Pool: PoolConfig{
			Profile:        "global-geodetic",
			TileSize:       elevpool.DefaultTileSize,
			CacheSize:      elevpool.DefaultCacheSize,
			WorkingSetSize: elevation.DefaultWorkingSetSize,
			MaxLOD:         elevpool.DefaultMaxLOD,
		},
		Logging: LoggingConfig{
			Level:      "info",
			LogFile:    "",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// BatchOptions converts the batch settings for the frame converter.
func (c BatchConfig) BatchOptions() ecef.BatchOptions {
	return ecef.BatchOptions{Grain: c.ChunkSize, Workers: c.Workers}
}

// Options resolves the pool settings. The profile name must be known.
func (c PoolConfig) Options(workers int, log *zap.Logger) (elevpool.Options, error) {
	profile, err := tile.ByName(c.Profile)
	if err != nil {
		return elevpool.Options{}, err
	}
	return elevpool.Options{
		Profile:   profile,
		TileSize:  c.TileSize,
		CacheSize: c.CacheSize,
		MaxLOD:    c.MaxLOD,
		Workers:   workers,
		Logger:    log,
	}, nil
}

// GeoExtent returns the layer extent in its own SRS.
func (c TIFFLayerConfig) GeoExtent() (tile.Extent, error) {
	ref, err := srs.Get(c.SRS)
	if err != nil {
		return tile.Extent{}, err
	}
	return tile.NewExtent(ref, c.Extent[0], c.Extent[1], c.Extent[2], c.Extent[3]), nil
}
