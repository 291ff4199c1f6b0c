// Package formats decodes heightfield rasters into elevation grids.
//
// Supported inputs are SRTM .hgt tiles and single-band 8 or 16 bit
// grayscale TIFF images.
package formats
