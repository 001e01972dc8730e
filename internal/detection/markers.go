package detection

import (
	"math"
	"sort"

	"github.com/ironsheep/docrectify-mcp/internal/failure"
)

// MarkerCount is the number of fiducials a document carries.
const MarkerCount = 4

// Ranker orders qualifying components so the first MarkerCount are the
// markers. It must not modify the components themselves.
type Ranker func(candidates []Component, width, height int) []Component

// Criteria holds the shape filters and ranking used by SelectMarkers.
type Criteria struct {
	// MinAreaFraction rejects components whose bounding box covers no more
	// than this fraction of the image (noise specks).
	MinAreaFraction float64

	// MinAspect and MaxAspect bound width/height exclusively (near-square).
	MinAspect float64
	MaxAspect float64

	// MinFill rejects components whose fill ratio is not above it
	// (rings, outlines, sparse shapes).
	MinFill float64

	// Rank orders the survivors. Nil means FarthestFromCenter.
	Rank Ranker
}

// DefaultCriteria returns the filters tuned for black square markers near the
// corners of a page.
func DefaultCriteria() Criteria {
	return Criteria{
		MinAreaFraction: 0.0001,
		MinAspect:       0.7,
		MaxAspect:       1.4,
		MinFill:         0.4,
		Rank:            FarthestFromCenter,
	}
}

// Qualifies reports whether c passes every shape filter for an image of the
// given size.
func (cr Criteria) Qualifies(c Component, width, height int) bool {
	imgArea := float64(width) * float64(height)
	if float64(c.BoxArea()) <= imgArea*cr.MinAreaFraction {
		return false
	}
	ar := c.AspectRatio()
	if ar <= cr.MinAspect || ar >= cr.MaxAspect {
		return false
	}
	return c.FillRatio() > cr.MinFill
}

// FarthestFromCenter sorts candidates by descending distance between their
// centroid and the image center. Equal distances keep their input order.
//
// This biases selection toward markers printed near the page corners.
func FarthestFromCenter(candidates []Component, width, height int) []Component {
	cx := float64(width) / 2
	cy := float64(height) / 2

	ranked := make([]Component, len(candidates))
	copy(ranked, candidates)
	dist := func(c Component) float64 {
		p := c.Centroid()
		return math.Hypot(p.X-cx, p.Y-cy)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return dist(ranked[i]) > dist(ranked[j])
	})
	return ranked
}

// SelectMarkers picks the four components most likely to be the document's
// fiducial markers.
//
// Parameters:
//   - components: output of Label.
//   - width, height: image dimensions, used for the area filter and ranking.
//   - criteria: shape filters and ranking function.
//
// Returns:
//   - []Component: exactly MarkerCount components, in ranking order.
//   - error: failure.InsufficientMarkers (carrying the qualifying count) when
//     fewer than MarkerCount components pass the filters.
func SelectMarkers(components []Component, width, height int, criteria Criteria) ([]Component, error) {
	candidates := make([]Component, 0)
	for _, c := range components {
		if criteria.Qualifies(c, width, height) {
			candidates = append(candidates, c)
		}
	}

	logger().Debug("marker candidates",
		"components", len(components),
		"qualifying", len(candidates))

	if len(candidates) < MarkerCount {
		return nil, failure.NewInsufficientMarkers(len(candidates))
	}

	rank := criteria.Rank
	if rank == nil {
		rank = FarthestFromCenter
	}
	ranked := rank(candidates, width, height)
	if len(ranked) < MarkerCount {
		return nil, failure.NewInsufficientMarkers(len(ranked))
	}
	return ranked[:MarkerCount], nil
}

// Centroids returns the centroid of each component, in order.
func Centroids(components []Component) []Point {
	points := make([]Point, len(components))
	for i, c := range components {
		points[i] = c.Centroid()
	}
	return points
}
