package detection

import (
	"bytes"
	"testing"
)

func TestGrayscale(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{"white", 255, 255, 255, 255},
		{"black", 0, 0, 0, 0},
		{"pure red", 255, 0, 0, 76},    // 76.245
		{"pure green", 0, 255, 0, 150}, // 149.685 rounds up
		{"pure blue", 0, 0, 255, 29},   // 29.07
		{"mid gray", 128, 128, 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := createPixelBuffer(2, 2, tt.r, tt.g, tt.b)
			gray := Grayscale(buf)

			if gray.Width != 2 || gray.Height != 2 || len(gray.Pix) != 4 {
				t.Fatalf("dimensions: got %dx%d (%d px)", gray.Width, gray.Height, len(gray.Pix))
			}
			for i, v := range gray.Pix {
				if v != tt.want {
					t.Errorf("pixel %d: got %d, want %d", i, v, tt.want)
				}
			}
		})
	}
}

func TestGrayscale_IgnoresAlpha(t *testing.T) {
	buf := createPixelBuffer(1, 1, 200, 200, 200)
	buf.Pix[3] = 0

	if got := Grayscale(buf).Pix[0]; got != 200 {
		t.Errorf("got %d, want 200", got)
	}
}

func TestOtsuThreshold_Bimodal(t *testing.T) {
	// Two well-separated peaks around 40 and 200
	var hist [256]int
	for v := 30; v <= 50; v++ {
		hist[v] = 100
	}
	for v := 190; v <= 210; v++ {
		hist[v] = 120
	}

	th := OtsuFromHistogram(hist)
	if th <= 40 || th >= 200 {
		t.Errorf("threshold %d should lie strictly between the peaks (40, 200)", th)
	}
	// Every cut between the two clusters separates them perfectly; the lowest wins.
	if th != 50 {
		t.Errorf("threshold: got %d, want 50", th)
	}
}

func TestOtsuThreshold_TwoValues(t *testing.T) {
	// Every t in [20, 219] gives the same variance; the lowest wins.
	pix := make([]uint8, 0, 100)
	for i := 0; i < 50; i++ {
		pix = append(pix, 20, 220)
	}
	gray := GrayBuffer{Width: 100, Height: 1, Pix: pix}

	if got := OtsuThreshold(gray); got != 20 {
		t.Errorf("got %d, want 20", got)
	}
}

func TestOtsuThreshold_Uniform(t *testing.T) {
	gray := grayFromValues(128, 128, 128, 128)

	if got := OtsuThreshold(gray); got != 0 {
		t.Errorf("uniform image: got %d, want 0", got)
	}
}

func TestHistogram(t *testing.T) {
	hist := Histogram(grayFromValues(0, 0, 7, 255))

	if hist[0] != 2 || hist[7] != 1 || hist[255] != 1 {
		t.Errorf("unexpected counts: h[0]=%d h[7]=%d h[255]=%d", hist[0], hist[7], hist[255])
	}
}

func TestBinarize(t *testing.T) {
	gray := grayFromValues(0, 99, 100, 101, 255)

	tests := []struct {
		name   string
		invert bool
		want   []uint8
	}{
		{"dark foreground", true, []uint8{1, 1, 1, 0, 0}},
		{"light foreground", false, []uint8{0, 0, 0, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := Binarize(gray, 100, tt.invert)
			if !bytes.Equal(mask.Bits, tt.want) {
				t.Errorf("got %v, want %v", mask.Bits, tt.want)
			}
			if mask.Width != gray.Width || mask.Height != gray.Height {
				t.Errorf("mask dimensions %dx%d differ from gray", mask.Width, mask.Height)
			}
		})
	}
}

func TestBinarize_Deterministic(t *testing.T) {
	pix := make([]uint8, 256)
	for i := range pix {
		pix[i] = uint8(i)
	}
	gray := GrayBuffer{Width: 16, Height: 16, Pix: pix}

	for _, th := range []int{0, 1, 127, 254, 255} {
		for _, invert := range []bool{true, false} {
			a := Binarize(gray, th, invert)
			b := Binarize(gray, th, invert)
			if !bytes.Equal(a.Bits, b.Bits) {
				t.Errorf("threshold %d invert %v: masks differ between runs", th, invert)
			}
			for i, v := range pix {
				fg := int(v) > th
				if invert {
					fg = int(v) <= th
				}
				if (a.Bits[i] == 1) != fg {
					t.Errorf("threshold %d invert %v: pixel %d (value %d) misclassified", th, invert, i, v)
				}
			}
		}
	}
}

func TestBinaryMask_CountAndAt(t *testing.T) {
	mask := maskFromRows(
		"#..",
		".##",
	)

	if mask.Count() != 3 {
		t.Errorf("Count: got %d, want 3", mask.Count())
	}
	if !mask.At(0, 0) || mask.At(1, 0) || !mask.At(2, 1) {
		t.Error("At returned wrong values")
	}
	if mask.At(-1, 0) || mask.At(3, 0) || mask.At(0, 2) {
		t.Error("out-of-range coordinates should be background")
	}
}

func TestPixelBuffer_Validate(t *testing.T) {
	tests := []struct {
		name    string
		buf     PixelBuffer
		wantErr bool
	}{
		{"valid", NewPixelBuffer(3, 2), false},
		{"zero width", PixelBuffer{Width: 0, Height: 2}, true},
		{"short data", PixelBuffer{Width: 2, Height: 2, Pix: make([]uint8, 12)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate: got %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
