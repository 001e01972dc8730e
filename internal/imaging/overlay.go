package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

// DefaultOverlayColor marks detected markers in diagnostic images.
const DefaultOverlayColor = "#FF0000"

// markerSquare is the side of the square drawn on each marker centroid.
const markerSquare = 12

// ParseOverlayColor parses a "#RRGGBB" (or "#RGB") color into an opaque RGBA.
func ParseOverlayColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid overlay color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// RenderDiagnostic draws the binary mask white-on-black and marks every
// centroid with a filled square in the overlay color. Squares are clipped to
// the image.
func RenderDiagnostic(mask detection.BinaryMask, centroids []detection.Point, overlay color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, mask.Width, mask.Height))

	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			var v uint8
			if mask.At(x, y) {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}

	half := float64(markerSquare) / 2
	for _, c := range centroids {
		x0 := int(math.Round(c.X - half))
		y0 := int(math.Round(c.Y - half))
		r := image.Rect(x0, y0, x0+markerSquare, y0+markerSquare).Intersect(img.Bounds())
		draw.Draw(img, r, &image.Uniform{C: overlay}, image.Point{}, draw.Src)
	}

	return img
}
