package detection

import (
	"math"

	"github.com/ironsheep/docrectify-mcp/internal/failure"
)

// Point is a real-valued image coordinate. Origin top-left, Y grows downward.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Corner indexes of a Quad.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

var cornerNames = [4]string{"top-left", "top-right", "bottom-right", "bottom-left"}

// Quad is a quadrilateral in [TopLeft, TopRight, BottomRight, BottomLeft] order.
type Quad [4]Point

// OrderQuad arranges four unordered points as [TL, TR, BR, BL].
//
// TL has the smallest x+y, BR the largest x+y, TR the largest x-y and BL the
// smallest x-y. This is a coordinate heuristic rather than a hull sort and
// assumes the page is not heavily rotated in the frame.
//
// Ties are broken by input order: the lowest index wins. If that leaves the
// same input point at two corners (for example a square rotated by 45
// degrees) the ordering is meaningless and failure.AmbiguousQuad is returned.
func OrderQuad(points [4]Point) (Quad, error) {
	var tl, br, tr, bl int
	for i := 1; i < 4; i++ {
		p := points[i]
		sum, diff := p.X+p.Y, p.X-p.Y
		if sum < points[tl].X+points[tl].Y {
			tl = i
		}
		if sum > points[br].X+points[br].Y {
			br = i
		}
		if diff > points[tr].X-points[tr].Y {
			tr = i
		}
		if diff < points[bl].X-points[bl].Y {
			bl = i
		}
	}

	picked := [4]int{tl, tr, br, bl}
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if picked[i] == picked[j] {
				return Quad{}, failure.NewAmbiguousQuad(cornerNames[i], cornerNames[j])
			}
		}
	}

	return Quad{points[tl], points[tr], points[br], points[bl]}, nil
}

// PolygonArea returns the absolute area of q using the shoelace formula over
// consecutive vertex pairs.
func PolygonArea(q Quad) float64 {
	var area float64
	for i := range q {
		a := q[i]
		b := q[(i+1)%len(q)]
		area += a.X*b.Y - a.Y*b.X
	}
	return math.Abs(area) / 2
}
