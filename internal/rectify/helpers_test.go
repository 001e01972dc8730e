package rectify

import (
	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

// identity maps every point to itself.
var identity = Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}

// whiteCanvas creates an opaque white RGBA buffer
func whiteCanvas(width, height int) detection.PixelBuffer {
	buf := detection.NewPixelBuffer(width, height)
	for i := range buf.Pix {
		buf.Pix[i] = 255
	}
	return buf
}

// fillSquare paints a size x size block of the given gray value at (x, y)
func fillSquare(buf detection.PixelBuffer, x, y, size int, v uint8) {
	for yy := y; yy < y+size; yy++ {
		for xx := x; xx < x+size; xx++ {
			i := (yy*buf.Width + xx) * 4
			buf.Pix[i] = v
			buf.Pix[i+1] = v
			buf.Pix[i+2] = v
			buf.Pix[i+3] = 255
		}
	}
}

// markerPage builds a white width x height page with 40x40 black squares
// inset by margin from each listed corner (TL, TR, BR, BL order).
func markerPage(width, height, margin int, corners ...int) detection.PixelBuffer {
	buf := whiteCanvas(width, height)
	const size = 40
	pos := [4][2]int{
		{margin, margin},
		{width - margin - size, margin},
		{width - margin - size, height - margin - size},
		{margin, height - margin - size},
	}
	for _, c := range corners {
		fillSquare(buf, pos[c][0], pos[c][1], size, 0)
	}
	return buf
}

// pixelAt returns the RGBA bytes at (x, y)
func pixelAt(buf detection.PixelBuffer, x, y int) [4]uint8 {
	i := (y*buf.Width + x) * 4
	return [4]uint8{buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3]}
}
