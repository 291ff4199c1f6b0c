package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Freshhand-j/osgearth/internal/config"
	"github.com/Freshhand-j/osgearth/pkg/ecef"
	emath "github.com/Freshhand-j/osgearth/pkg/math"
	"github.com/Freshhand-j/osgearth/pkg/srs"
)

var errUsage = errors.New("usage")

func cmdECEF(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ecef", flag.ContinueOnError)
	refName := fs.String("srs", "wgs84", "Spatial reference of the input point")
	inverse := fs.Bool("inverse", false, "Convert from ECEF to -srs instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 3 {
		return fmt.Errorf("%w: terraintool ecef [-srs name] [-inverse] <x> <y> <z>", errUsage)
	}

	ref, err := srs.Get(*refName)
	if err != nil {
		return err
	}
	p, err := parseVec3(fs.Args())
	if err != nil {
		return err
	}

	from, to := srs.SpatialReference(ref), ref.GeocentricSRS()
	if *inverse {
		from, to = to, from
	}
	q, err := from.Transform(p, to)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%.6f %.6f %.6f\n", q[0], q[1], q[2])
	return nil
}

func cmdLocalize(ctx context.Context, cfg *config.Config, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("localize", flag.ContinueOnError)
	origin := fs.String("origin", "", "Frame origin as x,y,z in -srs")
	refName := fs.String("srs", "wgs84", "Spatial reference of the origin and points")
	normals := fs.Bool("normals", false, "Also print per-point curve normals")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *origin == "" {
		return fmt.Errorf("%w: terraintool localize -origin x,y,z [-srs name] [-normals] < points", errUsage)
	}

	ref, err := srs.Get(*refName)
	if err != nil {
		return err
	}
	o, err := parseVec3(strings.Split(*origin, ","))
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	localToWorld, err := ecef.LocalToWorld(o, ref, ref)
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}

	points, err := readPoints(in)
	if err != nil {
		return err
	}

	opts := cfg.Batch.BatchOptions()
	world2local := localToWorld.Inv()
	if !*normals {
		local, err := ecef.TransformAndLocalizeBatch(ctx, points, ref, ref, world2local, opts)
		if err != nil {
			return err
		}
		for _, p := range local {
			fmt.Fprintf(out, "%.4f %.4f %.4f\n", p[0], p[1], p[2])
		}
		return nil
	}

	local, norms, err := ecef.TransformAndLocalizeWithNormals(ctx, points, ref, ref, world2local, opts)
	if err != nil {
		return err
	}
	for i, p := range local {
		line := fmt.Sprintf("%.4f %.4f %.4f", p[0], p[1], p[2])
		if i < len(norms) {
			n := norms[i]
			line += fmt.Sprintf(" %.6f %.6f %.6f", n[0], n[1], n[2])
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

// readPoints reads one point per line. Fields may be separated by spaces
// or commas; blank lines and lines starting with # are skipped.
func readPoints(r io.Reader) ([]mgl64.Vec3, error) {
	var points []mgl64.Vec3
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		p, err := parseVec3(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading points: %w", err)
	}
	return points, nil
}

// parseVec3 parses two or three finite numbers; a missing z is 0.
func parseVec3(fields []string) (mgl64.Vec3, error) {
	if len(fields) != 2 && len(fields) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("expected 2 or 3 coordinates, got %d", len(fields))
	}
	var v mgl64.Vec3
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return mgl64.Vec3{}, fmt.Errorf("coordinate %q: %w", f, err)
		}
		v[i] = x
	}
	if !emath.IsFinite(v) {
		return mgl64.Vec3{}, fmt.Errorf("coordinates %v are not finite", v)
	}
	return v, nil
}

func cmdSRS(out io.Writer) error {
	for _, name := range srs.Names() {
		ref, err := srs.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-20s %s (%s)\n", name, ref.Name(), ref.Units())
	}
	return nil
}
