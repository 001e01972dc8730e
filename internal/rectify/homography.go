package rectify

import (
	"math"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

// Epsilon replaces an exactly-zero pivot, determinant or homogeneous w so the
// math never divides by zero.
const Epsilon = 1e-12

// singularTolerance is the pivot magnitude, relative to the largest
// coefficient of the system, below which the solve is reported as singular.
const singularTolerance = 1e-12

// Homography is a row-major 3x3 projective transform:
//
//	| h0 h1 h2 |
//	| h3 h4 h5 |
//	| h6 h7 h8 |
//
// Estimated transforms have h8 fixed at 1.
type Homography [9]float64

// Apply maps (x, y) through the transform, dividing by the homogeneous w.
// A zero w is replaced by Epsilon.
func (h Homography) Apply(x, y float64) (float64, float64) {
	w := h[6]*x + h[7]*y + h[8]
	if w == 0 {
		w = Epsilon
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w
}

// Determinant returns the determinant of the 3x3 matrix.
func (h Homography) Determinant() float64 {
	return h[0]*(h[4]*h[8]-h[5]*h[7]) -
		h[1]*(h[3]*h[8]-h[5]*h[6]) +
		h[2]*(h[3]*h[7]-h[4]*h[6])
}

// Inverse returns the inverse transform via the adjugate divided by the
// determinant.
//
// A zero determinant is replaced by Epsilon so the result is always finite;
// singular reports whether |det| fell below Epsilon, in which case the
// inverse is meaningless and should not be trusted.
func (h Homography) Inverse() (inv Homography, singular bool) {
	a, b, c := h[0], h[1], h[2]
	d, e, f := h[3], h[4], h[5]
	g, hh, i := h[6], h[7], h[8]

	// Cofactors
	A := e*i - f*hh
	B := -(d*i - f*g)
	C := d*hh - e*g
	D := -(b*i - c*hh)
	E := a*i - c*g
	F := -(a*hh - b*g)
	G := b*f - c*e
	H := -(a*f - c*d)
	I := a*e - b*d

	det := h.Determinant()
	singular = math.Abs(det) < Epsilon || math.IsNaN(det)
	if det == 0 {
		det = Epsilon
	}

	// Adjugate is the transposed cofactor matrix
	return Homography{
		A / det, D / det, G / det,
		B / det, E / det, H / det,
		C / det, F / det, I / det,
	}, singular
}

// Corners returns the destination rectangle for a width x height raster in
// quad order: (0,0), (W-1,0), (W-1,H-1), (0,H-1).
func Corners(width, height int) detection.Quad {
	w := float64(width - 1)
	h := float64(height - 1)
	return detection.Quad{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
}

// EstimateHomography computes the transform that maps src onto the corners
// of a width x height rectangle.
//
// Parameters:
//   - src: ordered source quadrilateral (TL, TR, BR, BL).
//   - width, height: target raster size. Corner i of src maps to corner i of
//     Corners(width, height).
//
// Returns:
//   - Homography: the forward transform with h8 = 1.
//   - bool: true when the linear system was singular or nearly so. The
//     transform is still finite, but low-confidence.
//
// # Algorithm
//
// Direct linear transform: each correspondence (x, y) -> (u, v) contributes
// two rows to an 8x8 system A*h = b,
//
//	[x y 1 0 0 0 -x*u -y*u] h = u
//	[0 0 0 x y 1 -x*v -y*v] h = v
//
// solved by Gauss-Jordan elimination with partial pivoting.
func EstimateHomography(src detection.Quad, width, height int) (Homography, bool) {
	dst := Corners(width, height)

	var a [8][8]float64
	var b [8]float64
	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		r := 2 * i

		a[r] = [8]float64{x, y, 1, 0, 0, 0, -x * u, -y * u}
		b[r] = u

		a[r+1] = [8]float64{0, 0, 0, x, y, 1, -x * v, -y * v}
		b[r+1] = v
	}

	h, singular := solveLinearSystem(a, b)
	return Homography{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, singular
}

// solveLinearSystem solves a*x = b in place on copies of its arguments.
//
// At each column the row with the largest absolute entry is swapped into the
// pivot position, the pivot row is normalized and the column is eliminated
// from every other row. A pivot of exactly zero is replaced by Epsilon;
// singular is set whenever a pivot is tiny relative to the system's scale.
func solveLinearSystem(a [8][8]float64, b [8]float64) (x [8]float64, singular bool) {
	const n = 8

	scale := 0.0
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			scale = math.Max(scale, math.Abs(a[r][c]))
		}
	}
	tol := singularTolerance * math.Max(scale, 1)

	for col := 0; col < n; col++ {
		pivotRow := col
		for r := col + 1; r < n; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivotRow][col]) {
				pivotRow = r
			}
		}
		a[col], a[pivotRow] = a[pivotRow], a[col]
		b[col], b[pivotRow] = b[pivotRow], b[col]

		pivot := a[col][col]
		if math.Abs(pivot) < tol || math.IsNaN(pivot) {
			singular = true
		}
		if pivot == 0 {
			pivot = Epsilon
		}
		for c := col; c < n; c++ {
			a[col][c] /= pivot
		}
		b[col] /= pivot

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			factor := a[r][col]
			if factor == 0 {
				continue
			}
			for c := col; c < n; c++ {
				a[r][c] -= factor * a[col][c]
			}
			b[r] -= factor * b[col]
		}
	}

	return b, singular
}
