package imageio

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// Save writes the raster to path, choosing the encoder by extension:
// .pgm (binary P5), .png, or .webp (lossless). Unknown extensions are
// rejected rather than guessed so a typo does not silently produce a
// differently-formatted map.
func Save(path string, r *grid.Raster) error {
	return writeFile(path, func(w io.Writer) error {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pgm":
			return EncodePGM(w, r)
		case ".png":
			return png.Encode(w, r.GrayImage())
		case ".webp":
			return nativewebp.Encode(w, r.GrayImage(), nil)
		default:
			return fmt.Errorf("unsupported output format %q (use .pgm, .png, or .webp)", filepath.Ext(path))
		}
	})
}

// SaveImage writes an already-composed image (such as the comparison
// panel) to path as PNG, or WebP when the extension asks for it.
func SaveImage(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error {
		if strings.EqualFold(filepath.Ext(path), ".webp") {
			return nativewebp.Encode(w, img, nil)
		}
		return png.Encode(w, img)
	})
}

// writeFile creates path, runs the encoder against it, and closes the
// file, reporting the first error of the three.
func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644) //nolint:gosec // maps are not secrets
	if err != nil {
		return fmt.Errorf("imageio: create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		_ = f.Close() //nolint:errcheck // encode error takes precedence
		return fmt.Errorf("imageio: save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("imageio: save %s: %w", path, err)
	}
	return nil
}
