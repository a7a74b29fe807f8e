package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Kimchi-Robotics/map-post-processing/internal/grid"
)

// ErrNotPGM is returned when the input does not start with a PGM magic
// number.
var ErrNotPGM = errors.New("pgm: not a PGM file")

// maxPGMValue is the largest sample value of a single-byte PGM. Maps
// with 16-bit samples are rejected; occupancy grids are 8-bit by
// convention.
const maxPGMValue = 255

// DecodePGM reads a PGM image (P5 binary or P2 ASCII) into a Raster.
// Comments in the header are skipped. Only 8-bit images are accepted.
func DecodePGM(r io.Reader) (*grid.Raster, error) {
	br := bufio.NewReader(r)

	magic, err := nextToken(br)
	if err != nil {
		return nil, fmt.Errorf("pgm: read magic: %w", err)
	}
	if magic != "P5" && magic != "P2" {
		return nil, fmt.Errorf("%w: magic %q", ErrNotPGM, magic)
	}

	width, err := nextInt(br)
	if err != nil {
		return nil, fmt.Errorf("pgm: read width: %w", err)
	}
	height, err := nextInt(br)
	if err != nil {
		return nil, fmt.Errorf("pgm: read height: %w", err)
	}
	maxval, err := nextInt(br)
	if err != nil {
		return nil, fmt.Errorf("pgm: read maxval: %w", err)
	}

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("pgm: invalid dimensions %dx%d", width, height)
	}
	if maxval <= 0 || maxval > maxPGMValue {
		return nil, fmt.Errorf("pgm: unsupported maxval %d (want 1-255)", maxval)
	}

	out := grid.NewRaster(width, height)
	if magic == "P5" {
		if _, err := io.ReadFull(br, out.Pix); err != nil {
			return nil, fmt.Errorf("pgm: read raster: %w", err)
		}
		return out, nil
	}

	// P2: one ASCII integer per sample.
	for i := range out.Pix {
		v, err := nextInt(br)
		if err != nil {
			return nil, fmt.Errorf("pgm: read sample %d: %w", i, err)
		}
		if v < 0 || v > maxval {
			return nil, fmt.Errorf("pgm: sample %d out of range: %d", i, v)
		}
		out.Pix[i] = uint8(v)
	}
	return out, nil
}

// EncodePGM writes the raster as binary PGM (P5) with maxval 255.
func EncodePGM(w io.Writer, r *grid.Raster) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P5\n%d %d\n255\n", r.Width, r.Height); err != nil {
		return fmt.Errorf("pgm: write header: %w", err)
	}
	if _, err := bw.Write(r.Pix); err != nil {
		return fmt.Errorf("pgm: write raster: %w", err)
	}
	return bw.Flush()
}

// nextToken returns the next whitespace-delimited token, skipping PGM
// comments (# to end of line).
func nextToken(br *bufio.Reader) (string, error) {
	var tok []byte
	inComment := false
	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}

		switch {
		case inComment:
			if b == '\n' {
				inComment = false
			}
		case b == '#':
			inComment = true
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, b)
		}
	}
}

// nextInt parses the next header or ASCII-raster token as an integer.
func nextInt(br *bufio.Reader) (int, error) {
	tok, err := nextToken(br)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", tok)
	}
	return v, nil
}
