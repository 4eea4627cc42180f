// Package image resizes and re-encodes gallery photos. Photos are scaled
// down to fit the configured bounding box with Lanczos resampling and are
// never upscaled.
package image

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/webp"
)

// Options bounds and tunes photo processing.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int  // JPEG and WebP quality, 1..100
	WebP      bool // also write a WebP companion next to dstPath
}

// Result reports the dimensions of the written photo.
type Result struct {
	Width  int
	Height int
}

// Process opens the image at srcPath, scales it down to fit within
// opts.MaxWidth x opts.MaxHeight preserving aspect ratio, and writes it to
// dstPath in the source format (chosen by dstPath's extension). Images
// already inside the bounds are re-encoded at their original size. EXIF
// orientation is applied before resizing so rotated phone photos come out
// upright.
func Process(srcPath, dstPath string, opts Options) (Result, error) {
	src, err := imaging.Open(srcPath, imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("opening image %s: %w", srcPath, err)
	}

	bounds := src.Bounds()
	out := src
	if bounds.Dx() > opts.MaxWidth || bounds.Dy() > opts.MaxHeight {
		out = imaging.Fit(src, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory: %w", err)
	}

	if err := encode(out, dstPath, opts.Quality); err != nil {
		return Result{}, err
	}

	if opts.WebP {
		webpPath := strings.TrimSuffix(dstPath, filepath.Ext(dstPath)) + ".webp"
		if err := encodeWebP(out, webpPath, opts.Quality); err != nil {
			return Result{}, err
		}
	}

	outBounds := out.Bounds()
	return Result{Width: outBounds.Dx(), Height: outBounds.Dy()}, nil
}

// Dimensions returns the pixel dimensions of the image at path without
// keeping it in memory.
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("opening image %s: %w", path, err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image %s: %w", path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// encode writes img to outPath, choosing the codec from the file extension.
func encode(img image.Image, outPath string, quality int) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".png":
		if err := png.Encode(f, img); err != nil {
			return fmt.Errorf("encoding png %s: %w", outPath, err)
		}
	default: // jpeg
		if err := jpeg.Encode(f, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encoding jpeg %s: %w", outPath, err)
		}
	}
	return f.Close()
}

// encodeWebP writes img to outPath as WebP.
func encodeWebP(img image.Image, outPath string, quality int) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := webp.Encode(f, img, webp.Options{Quality: quality}); err != nil {
		return fmt.Errorf("encoding webp %s: %w", outPath, err)
	}
	return f.Close()
}
