package detection

import (
	"fmt"
)

// PixelBuffer is a row-major RGBA raster with 4 bytes per pixel.
//
// It is the input contract of the pipeline (filled by the acquisition side)
// and the format of the rectified output raster. The pipeline never mutates
// a PixelBuffer it did not allocate.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPixelBuffer allocates a zeroed (transparent black) buffer.
func NewPixelBuffer(width, height int) PixelBuffer {
	return PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Validate checks that Pix holds exactly Width*Height RGBA pixels.
func (b PixelBuffer) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*4 {
		return fmt.Errorf("pixel data has %d bytes, want %d for %dx%d RGBA",
			len(b.Pix), b.Width*b.Height*4, b.Width, b.Height)
	}
	return nil
}

// GrayBuffer is a single-channel intensity raster (0-255), row-major.
type GrayBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// BinaryMask marks foreground (ink) pixels with 1 and background with 0.
// It always has the dimensions of the GrayBuffer it was derived from.
type BinaryMask struct {
	Width  int
	Height int
	Bits   []uint8
}

// Count returns the number of foreground pixels.
func (m BinaryMask) Count() int {
	n := 0
	for _, v := range m.Bits {
		if v != 0 {
			n++
		}
	}
	return n
}

// At reports whether (x, y) is foreground. Out-of-range coordinates are background.
func (m BinaryMask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x] != 0
}
