package rectify

import (
	"math"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

// SizeLimits bounds the output raster when no explicit size is requested.
type SizeLimits struct {
	MinWidth  int
	MaxWidth  int
	MinHeight int
	MaxHeight int
}

// DefaultSizeLimits keeps pages readable without producing huge rasters.
func DefaultSizeLimits() SizeLimits {
	return SizeLimits{
		MinWidth:  700,
		MaxWidth:  1500,
		MinHeight: 900,
		MaxHeight: 2200,
	}
}

// quadEdges returns the natural width (longer of the top and bottom edges)
// and height (longer of the left and right edges) of q, rounded.
func quadEdges(q detection.Quad) (w, h float64) {
	w = math.Round(math.Max(
		q[detection.TopLeft].Distance(q[detection.TopRight]),
		q[detection.BottomLeft].Distance(q[detection.BottomRight])))
	h = math.Round(math.Max(
		q[detection.TopLeft].Distance(q[detection.BottomLeft]),
		q[detection.TopRight].Distance(q[detection.BottomRight])))
	return w, h
}

// TargetSize derives an output size that follows the quad's proportions.
//
// The width is the natural width clamped to the limits, then the height is
// scaled by the same factor and clamped.
func TargetSize(q detection.Quad, limits SizeLimits) (width, height int) {
	w, h := quadEdges(q)

	width = clamp(int(w), limits.MinWidth, limits.MaxWidth)
	if w <= 0 {
		return width, limits.MinHeight
	}
	height = clamp(int(math.Round(h/w*float64(width))), limits.MinHeight, limits.MaxHeight)
	return width, height
}

// CompleteSize resolves a requested output size in which either side may be
// zero. Both zero defers to TargetSize. When only one side is given it is
// kept and the other follows the quad's aspect ratio, unclamped and at least
// one pixel; a degenerate quad falls back to the minimum limit for the
// missing side. Negative sides are the caller's to reject.
func CompleteSize(q detection.Quad, width, height int, limits SizeLimits) (int, int) {
	switch {
	case width > 0 && height > 0:
		return width, height
	case width <= 0 && height <= 0:
		return TargetSize(q, limits)
	}

	w, h := quadEdges(q)
	if width > 0 {
		if w <= 0 {
			return width, limits.MinHeight
		}
		return width, max(1, int(math.Round(h/w*float64(width))))
	}
	if h <= 0 {
		return limits.MinWidth, height
	}
	return max(1, int(math.Round(w/h*float64(height)))), height
}

// clamp constrains an integer value to the range [min, max].
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
