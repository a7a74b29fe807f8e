package visualize

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// ErrDimensionMismatch is returned when the original and cleaned
// rasters do not share dimensions. The pipeline guarantees they do, so
// this only fires on misuse.
var ErrDimensionMismatch = errors.New("visualize: original and cleaned rasters differ in size")

// Intensity bounds used to spot removed obstacles in the diff panel: a
// cell that was dark (obstacle) in the original and bright (free) in
// the cleaned map was erased by the filter.
const (
	removedObstacleMax = 50
	removedFreeMin     = 200
)

// Panel label colors.
var (
	labelRed   = color.NRGBA{R: 255, A: 255}
	labelGreen = color.NRGBA{G: 180, A: 255}
	removedRed = color.NRGBA{R: 255, A: 255}
)

// Comparison composes the three-panel comparison image for a cleaning
// run: original | cleaned | removed-highlighted. Each panel carries a
// text label in its top-left corner. The panels are disjoint areas of
// one NRGBA image and are rendered concurrently.
func Comparison(original, cleaned *grid.Raster) (*image.NRGBA, error) {
	if original.Width != cleaned.Width || original.Height != cleaned.Height {
		return nil, fmt.Errorf("%w: %dx%d vs %dx%d", ErrDimensionMismatch,
			original.Width, original.Height, cleaned.Width, cleaned.Height)
	}

	w, h := original.Width, original.Height
	out := image.NewNRGBA(image.Rect(0, 0, 3*w, h))

	var g errgroup.Group
	g.Go(func() error {
		drawGrayPanel(out, 0, original)
		drawLabel(out, 0, "Original", labelRed)
		return nil
	})
	g.Go(func() error {
		drawGrayPanel(out, w, cleaned)
		drawLabel(out, w, "Clean", labelGreen)
		return nil
	})
	g.Go(func() error {
		drawDiffPanel(out, 2*w, original, cleaned)
		drawLabel(out, 2*w, "Removed (red)", labelRed)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// drawGrayPanel paints a grayscale raster into the panel starting at
// column xoff.
func drawGrayPanel(dst *image.NRGBA, xoff int, src *grid.Raster) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			v := src.At(x, y)
			i := dst.PixOffset(xoff+x, y)
			dst.Pix[i] = v
			dst.Pix[i+1] = v
			dst.Pix[i+2] = v
			dst.Pix[i+3] = 255
		}
	}
}

// drawDiffPanel paints the original with removed obstacle cells in red.
func drawDiffPanel(dst *image.NRGBA, xoff int, original, cleaned *grid.Raster) {
	drawGrayPanel(dst, xoff, original)
	for y := 0; y < original.Height; y++ {
		for x := 0; x < original.Width; x++ {
			if original.At(x, y) < removedObstacleMax && cleaned.At(x, y) >= removedFreeMin {
				dst.SetNRGBA(xoff+x, y, removedRed)
			}
		}
	}
}

// drawLabel renders text near the top-left corner of the panel starting
// at column xoff.
func drawLabel(dst *image.NRGBA, xoff int, text string, c color.NRGBA) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(xoff+10, 20),
	}
	d.DrawString(text)
}
