package grid

import (
	"fmt"
	"image"
)

// Canonical occupancy grid intensities. Every reconstructed map contains
// only these three values.
const (
	// Free is the intensity of traversable space.
	Free uint8 = 255

	// Occupied is the intensity of obstacle cells.
	Occupied uint8 = 0

	// Unknown is the intensity of unexplored cells.
	Unknown uint8 = 205
)

// Raster is a grayscale occupancy grid: Width*Height single-byte
// intensity samples stored row-major in Pix.
type Raster struct {
	// Width is the number of columns.
	Width int

	// Height is the number of rows.
	Height int

	// Pix holds the samples, len = Width*Height, Pix[y*Width+x].
	Pix []uint8
}

// NewRaster allocates a zeroed raster of the given dimensions.
// It panics if either dimension is negative.
func NewRaster(w, h int) *Raster {
	if w < 0 || h < 0 {
		panic(fmt.Sprintf("grid: negative raster dimensions %dx%d", w, h))
	}
	return &Raster{
		Width:  w,
		Height: h,
		Pix:    make([]uint8, w*h),
	}
}

// At returns the sample at (x, y). The caller must keep the coordinates
// in bounds; this is a hot-path accessor and performs no checks beyond
// the slice's own.
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.Width+x]
}

// Set writes the sample at (x, y).
func (r *Raster) Set(x, y int, v uint8) {
	r.Pix[y*r.Width+x] = v
}

// Fill sets every sample to v.
func (r *Raster) Fill(v uint8) {
	for i := range r.Pix {
		r.Pix[i] = v
	}
}

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	out := &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    make([]uint8, len(r.Pix)),
	}
	copy(out.Pix, r.Pix)
	return out
}

// Equal reports whether two rasters have identical dimensions and samples.
func (r *Raster) Equal(other *Raster) bool {
	if other == nil || r.Width != other.Width || r.Height != other.Height {
		return false
	}
	for i, v := range r.Pix {
		if other.Pix[i] != v {
			return false
		}
	}
	return true
}

// FromGray copies an image.Gray into a Raster. The image's bounds may
// have a non-zero origin; the raster is always origin-based.
func FromGray(img *image.Gray) *Raster {
	b := img.Bounds()
	out := NewRaster(b.Dx(), b.Dy())
	for y := 0; y < out.Height; y++ {
		src := img.Pix[(y+b.Min.Y-img.Rect.Min.Y)*img.Stride+(b.Min.X-img.Rect.Min.X):]
		copy(out.Pix[y*out.Width:(y+1)*out.Width], src[:out.Width])
	}
	return out
}

// GrayImage returns the raster as an image.Gray sharing no storage with
// the raster, suitable for handing to an encoder.
func (r *Raster) GrayImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+r.Width], r.Pix[y*r.Width:(y+1)*r.Width])
	}
	return img
}
