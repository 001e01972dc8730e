package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

func TestToPixelBuffer(t *testing.T) {
	// Non-zero origin and a non-RGBA type exercise the copy path
	img := image.NewNRGBA(image.Rect(5, 7, 8, 9))
	img.Set(5, 7, color.NRGBA{10, 20, 30, 255})
	img.Set(7, 8, color.NRGBA{200, 100, 50, 255})

	buf := ToPixelBuffer(img)
	if err := buf.Validate(); err != nil {
		t.Fatalf("invalid buffer: %v", err)
	}
	if buf.Width != 3 || buf.Height != 2 {
		t.Fatalf("got %dx%d, want 3x2", buf.Width, buf.Height)
	}

	if got := buf.Pix[0:4]; got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 255 {
		t.Errorf("first pixel = %v", got)
	}
	last := (1*3 + 2) * 4
	if got := buf.Pix[last : last+4]; got[0] != 200 || got[1] != 100 || got[2] != 50 {
		t.Errorf("last pixel = %v", got)
	}
}

func TestToImage(t *testing.T) {
	buf := detection.NewPixelBuffer(4, 3)
	i := (2*4 + 1) * 4
	buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2], buf.Pix[i+3] = 1, 2, 3, 255

	img := ToImage(buf)
	if img.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if c := img.RGBAAt(1, 2); c != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("RGBAAt(1,2) = %v", c)
	}

	// Shares memory with the buffer
	img.Pix[0] = 99
	if buf.Pix[0] != 99 {
		t.Error("ToImage copied the pixel slice")
	}
}
