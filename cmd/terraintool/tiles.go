package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/image/tiff"

	"github.com/Freshhand-j/osgearth/internal/config"
	"github.com/Freshhand-j/osgearth/internal/elevpool"
	"github.com/Freshhand-j/osgearth/internal/logger"
	"github.com/Freshhand-j/osgearth/internal/terrain"
	"github.com/Freshhand-j/osgearth/pkg/elevation"
	"github.com/Freshhand-j/osgearth/pkg/tile"
)

// openPool builds an elevation pool from the configured layers followed by
// any HGT files given on the command line.
func openPool(cfg *config.Config, hgtFiles []string) (*elevpool.Pool, error) {
	var layers []elevpool.Layer

	for _, path := range append(append([]string(nil), cfg.Data.HGTPaths...), hgtFiles...) {
		l, err := elevpool.NewHGTLayer(path, cfg.Pool.MaxLOD)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}

	for _, lc := range cfg.Data.TIFFLayers {
		extent, err := lc.GeoExtent()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", lc.Path, err)
		}
		scale := lc.Scale
		if scale == 0 {
			scale = 1
		}
		maxLOD := lc.MaxLOD
		if maxLOD == 0 {
			maxLOD = cfg.Pool.MaxLOD
		}
		l, err := elevpool.NewTIFFLayer(lc.Path, extent, scale, lc.Offset, maxLOD)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}

	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: configure data layers or pass .hgt files", elevpool.ErrNoData)
	}

	opts, err := cfg.Pool.Options(cfg.Batch.Workers, logger.Named("pool"))
	if err != nil {
		return nil, err
	}
	return elevpool.New(opts, layers...)
}

func cmdNormalMap(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("normalmap", flag.ContinueOnError)
	output := fs.String("o", "", "Output file (.png or .tif); defaults to <lod>_<x>_<y>.<format>")
	raw := fs.Bool("raw", false, "Write packed RG8 bytes instead of an image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: terraintool normalmap [-o file] <lod/x/y> [file.hgt...]", errUsage)
	}

	pool, err := openPool(cfg, fs.Args()[1:])
	if err != nil {
		return err
	}
	key, err := tile.ParseKey(pool.Profile(), fs.Arg(0))
	if err != nil {
		return err
	}

	gen := elevation.NewGenerator(
		elevation.WithSize(cfg.NormalMap.Size),
		elevation.WithLogger(logger.Named("normalmap")),
	)
	ws := elevation.NewWorkingSet(cfg.Pool.WorkingSetSize)
	nm, err := gen.CreateNormalMap(ctx, key, pool, ws)
	if err != nil {
		return err
	}

	path := *output
	if path == "" {
		ext := cfg.NormalMap.Format
		if *raw {
			ext = "rg8"
		}
		path = fmt.Sprintf("%d_%d_%d.%s", key.LOD, key.X, key.Y, ext)
	}
	if err := writeNormalMap(path, nm, *raw); err != nil {
		return err
	}

	logger.Info("normal map written",
		zap.Stringer("key", key),
		zap.Int("size", nm.Width),
		zap.String("path", path),
		zap.Int64("tiles_built", pool.TilesBuilt()))
	fmt.Fprintf(out, "%s: %dx%d normal map for %s\n", path, nm.Width, nm.Height, key)
	return nil
}

// writeNormalMap encodes by file extension: .tif/.tiff as TIFF, anything
// else as PNG, or packed RG8 bytes when raw is set.
func writeNormalMap(path string, nm *elevation.NormalMap, raw bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); {
	case raw:
		_, err = f.Write(nm.RG8())
	case ext == ".tif" || ext == ".tiff":
		err = tiff.Encode(f, nm.Image(), &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(f, nm.Image())
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func cmdMesh(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("mesh", flag.ContinueOnError)
	upsample := fs.Bool("upsample", true, "Resample a parent tile when the key has no data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: terraintool mesh <lod/x/y> [file.hgt...]", errUsage)
	}

	pool, err := openPool(cfg, fs.Args()[1:])
	if err != nil {
		return err
	}
	key, err := tile.ParseKey(pool.Profile(), fs.Arg(0))
	if err != nil {
		return err
	}

	field, err := pool.Tile(ctx, key, *upsample, nil)
	if err != nil {
		return err
	}
	mesh, err := terrain.BuildTileMesh(ctx, field, key, terrain.Options{Batch: cfg.Batch.BatchOptions()})
	if err != nil {
		return err
	}

	var names []string
	for _, l := range pool.Layers() {
		names = append(names, l.Name())
	}

	c := mesh.Bounds.Center()
	fmt.Fprintf(out, "Tile:      %s (%s)\n", key, key.Extent())
	fmt.Fprintf(out, "Layers:    %s\n", strings.Join(names, ", "))
	fmt.Fprintf(out, "Grid:      %dx%d\n", mesh.Columns, mesh.Rows)
	fmt.Fprintf(out, "Vertices:  %d\n", len(mesh.Vertices))
	fmt.Fprintf(out, "Triangles: %d\n", len(mesh.Indices)/3)
	fmt.Fprintf(out, "Bounds:    %v - %v\n", mesh.Bounds.Min, mesh.Bounds.Max)
	fmt.Fprintf(out, "Center:    %.2f %.2f %.2f\n", c[0], c[1], c[2])
	return nil
}
