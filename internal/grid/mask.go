package grid

// maskOn is the foreground value of a binary mask. Masks only ever
// contain 0 and maskOn, mirroring the 0/255 convention of the original
// binarized maps.
const maskOn uint8 = 255

// Mask is a binary raster marking a set of foreground cells, with the
// same row-major layout as Raster.
type Mask struct {
	// Width is the number of columns.
	Width int

	// Height is the number of rows.
	Height int

	// Pix holds the samples, restricted to {0, 255}.
	Pix []uint8
}

// NewMask allocates an all-background mask of the given dimensions.
func NewMask(w, h int) *Mask {
	r := NewRaster(w, h)
	return &Mask{Width: r.Width, Height: r.Height, Pix: r.Pix}
}

// At reports whether (x, y) is foreground.
func (m *Mask) At(x, y int) bool {
	return m.Pix[y*m.Width+x] != 0
}

// Set marks (x, y) as foreground.
func (m *Mask) Set(x, y int) {
	m.Pix[y*m.Width+x] = maskOn
}

// Clear marks (x, y) as background.
func (m *Mask) Clear(x, y int) {
	m.Pix[y*m.Width+x] = 0
}

// Count returns the number of foreground cells.
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the mask.
func (m *Mask) Clone() *Mask {
	out := &Mask{
		Width:  m.Width,
		Height: m.Height,
		Pix:    make([]uint8, len(m.Pix)),
	}
	copy(out.Pix, m.Pix)
	return out
}

// Equal reports whether two masks have identical dimensions and cells.
func (m *Mask) Equal(other *Mask) bool {
	if other == nil || m.Width != other.Width || m.Height != other.Height {
		return false
	}
	for i, v := range m.Pix {
		if (v != 0) != (other.Pix[i] != 0) {
			return false
		}
	}
	return true
}

// Overlaps reports whether any cell is foreground in both masks.
// Masks of different dimensions never overlap.
func (m *Mask) Overlaps(other *Mask) bool {
	if other == nil || m.Width != other.Width || m.Height != other.Height {
		return false
	}
	for i, v := range m.Pix {
		if v != 0 && other.Pix[i] != 0 {
			return true
		}
	}
	return false
}
