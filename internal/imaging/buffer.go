package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/clone"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

// ToPixelBuffer converts any decoded image into the pipeline's RGBA buffer.
// The result always starts at (0,0) and owns its pixel slice.
func ToPixelBuffer(img image.Image) detection.PixelBuffer {
	rgba := clone.AsRGBA(img)
	b := rgba.Bounds()
	w, h := b.Dx(), b.Dy()

	buf := detection.NewPixelBuffer(w, h)
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		copy(buf.Pix[y*w*4:(y+1)*w*4], src)
	}
	return buf
}

// ToImage wraps a pixel buffer as an *image.RGBA without copying.
func ToImage(buf detection.PixelBuffer) *image.RGBA {
	return &image.RGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * 4,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
}
