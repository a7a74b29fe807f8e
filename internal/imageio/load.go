package imageio

import (
	"fmt"
	"image"
	"image/color"
	_ "image/png" // map exports are commonly PNG
	"os"
	"path/filepath"
	"strings"

	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// Load reads a map image from path and returns it as a grayscale
// raster. PGM files are decoded by the built-in codec; everything else
// goes through image.Decode. A missing or undecodable file is a load
// failure surfaced to the caller immediately; there is nothing to retry.
func Load(path string) (*grid.Raster, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided map path is the point
	if err != nil {
		return nil, fmt.Errorf("imageio: could not load %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".pgm") {
		r, err := DecodePGM(f)
		if err != nil {
			return nil, fmt.Errorf("imageio: could not load %s: %w", path, err)
		}
		return r, nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("imageio: could not load %s: %w", path, err)
	}
	return toRaster(img), nil
}

// toRaster converts any decoded image to a grayscale raster. Grayscale
// sources are copied row-wise; anything else is converted per pixel.
func toRaster(img image.Image) *grid.Raster {
	if g, ok := img.(*image.Gray); ok {
		return grid.FromGray(g)
	}

	b := img.Bounds()
	out := grid.NewRaster(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out.Set(x, y, c.Y)
		}
	}
	return out
}
