// terraintool is a CLI for geodetic frame conversion and terrain tile
// products: local frames, normal maps, tile meshes and heightfield files.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Freshhand-j/osgearth/internal/config"
	"github.com/Freshhand-j/osgearth/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
		fileCfg.MaxSizeMB = cfg.Logging.MaxSizeMB
		fileCfg.MaxBackups = cfg.Logging.MaxBackups
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, true); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, args[0], args[1:], os.Stdin, os.Stdout); err != nil {
		logger.Error("command failed", zap.String("command", args[0]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

// run dispatches one subcommand.
func run(ctx context.Context, cfg *config.Config, command string, args []string, in io.Reader, out io.Writer) error {
	switch command {
	case "ecef":
		return cmdECEF(args, out)
	case "localize", "local":
		return cmdLocalize(ctx, cfg, args, in, out)
	case "normalmap", "nm":
		return cmdNormalMap(ctx, cfg, args, out)
	case "mesh":
		return cmdMesh(ctx, cfg, args, out)
	case "info":
		return cmdInfo(args, out)
	case "srs":
		return cmdSRS(out)
	case "config":
		return cmdConfig(cfg, args, out)
	case "help", "-h", "--help":
		printUsage(out)
		return nil
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `terraintool - geodetic frames and terrain tile utility

Usage:
  terraintool [global options] <command> [options]

Global options:
  -config <file>       Config file (default ./terraintool.yaml)
  -debug               Debug logging
  -size <n>            Normal map size
  -chunk-size <n>      Points per batch chunk
  -workers <n>         Batch workers (0 = all CPUs)
  -profile <name>      Tiling profile
  -log-file <file>     Also log to file

Commands:
  ecef [-srs name] [-inverse] <x> <y> <z>         Convert a point to or from ECEF
  localize -origin x,y,z [-srs name] [-normals]   Localize points read from stdin
  normalmap [-o file] <lod/x/y> [file.hgt...]     Write a packed normal map
  mesh <lod/x/y> [file.hgt...]                    Build a tile mesh and show stats
  info <file.hgt|file.tif>                        Show heightfield information
  info -o <file.tif> <file.hgt>                   Also convert to a 16-bit TIFF
  srs                                             List known spatial references
  config [-o file] [-save]                        Show or save the effective config

Examples:
  terraintool ecef 7.5 46.5 1200
  echo "7.51 46.52 1500" | terraintool localize -origin 7.5,46.5,1200 -normals
  terraintool -size 512 normalmap -o n46e007.png 12/2133/1467 N46E007.hgt
  terraintool info N46E007.hgt`)
}
