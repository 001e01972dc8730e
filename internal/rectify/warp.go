package rectify

import (
	"math"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

// Warp resamples src into a width x height raster through an inverse transform.
//
// Parameters:
//   - src: source RGBA buffer (read only).
//   - inverse: maps destination pixel coordinates to source coordinates.
//   - width, height: size of the output raster.
//
// # Sampling
//
// For every destination pixel the inverse transform yields homogeneous
// source coordinates, normalized by w (a zero w is replaced by Epsilon).
// The result is rounded half-up to the nearest source pixel. Inside the
// source, that pixel's RGB is copied with alpha 255; outside (or when the
// coordinates are not finite) the pixel is opaque white.
//
// This is nearest-neighbor sampling: no interpolation and no anti-aliasing.
func Warp(src detection.PixelBuffer, inverse Homography, width, height int) detection.PixelBuffer {
	dst := detection.NewPixelBuffer(width, height)
	sw := float64(src.Width)
	sh := float64(src.Height)

	for y := 0; y < height; y++ {
		fy := float64(y)
		row := y * width * 4
		for x := 0; x < width; x++ {
			xs, ys := inverse.Apply(float64(x), fy)
			xr := math.Floor(xs + 0.5)
			yr := math.Floor(ys + 0.5)

			di := row + x*4
			// NaN fails every comparison and lands in the white branch
			if xr >= 0 && yr >= 0 && xr < sw && yr < sh {
				si := (int(yr)*src.Width + int(xr)) * 4
				dst.Pix[di] = src.Pix[si]
				dst.Pix[di+1] = src.Pix[si+1]
				dst.Pix[di+2] = src.Pix[si+2]
			} else {
				dst.Pix[di] = 255
				dst.Pix[di+1] = 255
				dst.Pix[di+2] = 255
			}
			dst.Pix[di+3] = 255
		}
	}
	return dst
}
