package detection

import "math"

// Grayscale converts an RGBA buffer to intensities using ITU-R BT.601 weights.
//
// Each output pixel is round(0.299*R + 0.587*G + 0.114*B); alpha is ignored.
// The result has the same dimensions as the input.
func Grayscale(src PixelBuffer) GrayBuffer {
	n := src.Width * src.Height
	gray := GrayBuffer{
		Width:  src.Width,
		Height: src.Height,
		Pix:    make([]uint8, n),
	}
	for i, j := 0, 0; i < n; i, j = i+1, j+4 {
		r := float64(src.Pix[j])
		g := float64(src.Pix[j+1])
		b := float64(src.Pix[j+2])
		gray.Pix[i] = uint8(math.Round(0.299*r + 0.587*g + 0.114*b))
	}
	return gray
}

// Histogram counts the pixels of each intensity level.
func Histogram(gray GrayBuffer) [256]int {
	var hist [256]int
	for _, v := range gray.Pix {
		hist[v]++
	}
	return hist
}

// OtsuThreshold selects the cut point that maximizes between-class variance.
//
// Returns:
//   - int: threshold in [0, 255]. Pixels <= threshold form the background
//     class of the split, pixels above it the foreground class.
//
// # Algorithm
//
// Candidate thresholds t = 0..255 are scanned while accumulating the weight
// (wB) and intensity sum of the classes at or below t. Candidates where either
// class is empty are skipped. The between-class variance is
//
//	wB * wF * (meanB - meanF)^2
//
// and only a strictly larger value replaces the current best, so the lowest
// threshold wins ties. An image with a single intensity yields 0.
func OtsuThreshold(gray GrayBuffer) int {
	return OtsuFromHistogram(Histogram(gray))
}

// OtsuFromHistogram runs the Otsu scan on a precomputed histogram.
func OtsuFromHistogram(hist [256]int) int {
	total := 0
	sum := 0.0
	for t, c := range hist {
		total += c
		sum += float64(t * c)
	}

	var (
		sumB      float64
		wB        int
		best      float64
		threshold int
	)
	for t := 0; t < 256; t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t * hist[t])

		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = t
		}
	}
	return threshold
}

// Binarize splits an intensity buffer into foreground and background.
//
// With invert set (dark ink on light paper, the usual case) a pixel is
// foreground when its intensity is <= threshold; otherwise when it is
// > threshold. The result depends only on (intensity, threshold, invert).
func Binarize(gray GrayBuffer, threshold int, invert bool) BinaryMask {
	mask := BinaryMask{
		Width:  gray.Width,
		Height: gray.Height,
		Bits:   make([]uint8, len(gray.Pix)),
	}
	for i, v := range gray.Pix {
		if (int(v) <= threshold) == invert {
			mask.Bits[i] = 1
		}
	}
	return mask
}
