package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Freshhand-j/osgearth/pkg/elevation"
	"github.com/Freshhand-j/osgearth/pkg/formats"
)

func cmdInfo(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	output := fs.String("o", "", "Also write the heightfield as a 16-bit TIFF")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("%w: terraintool info [-o file.tif] <file.hgt|file.tif>", errUsage)
	}
	path := fs.Arg(0)

	var hf *elevation.HeightField
	switch strings.ToLower(filepath.Ext(path)) {
	case ".hgt":
		h, err := formats.ParseHGTFile(path)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "File:    %s (SRTM)\n", path)
		if h.HasOrigin {
			fmt.Fprintf(out, "Extent:  %s\n", h.Extent())
		}
		hf = h.HeightField()
	case ".tif", ".tiff":
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		hf, err = formats.DecodeTIFF(f)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		fmt.Fprintf(out, "File:    %s (TIFF)\n", path)
	default:
		return fmt.Errorf("%s: unsupported heightfield format", path)
	}

	s := summarize(hf)
	fmt.Fprintf(out, "Grid:    %dx%d\n", hf.Columns, hf.Rows)
	if s.valid == 0 {
		fmt.Fprintln(out, "Heights: no data")
	} else {
		fmt.Fprintf(out, "Heights: %.1f .. %.1f (mean %.1f)\n", s.min, s.max, s.mean)
	}
	fmt.Fprintf(out, "NoData:  %d of %d samples\n", s.nodata, len(hf.Heights))

	if *output != "" {
		if err := writeHeightTIFF(*output, hf); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote:   %s\n", *output)
	}
	return nil
}

func writeHeightTIFF(path string, hf *elevation.HeightField) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	if err := formats.EncodeTIFF(f, hf); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

type heightStats struct {
	min, max, mean float64
	valid, nodata  int
}

func summarize(hf *elevation.HeightField) heightStats {
	s := heightStats{min: math.Inf(1), max: math.Inf(-1)}
	var sum float64
	for _, h := range hf.Heights {
		v := float64(h)
		if elevation.IsNoData(v) || math.IsNaN(v) {
			s.nodata++
			continue
		}
		s.valid++
		sum += v
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	if s.valid > 0 {
		s.mean = sum / float64(s.valid)
	}
	return s
}
