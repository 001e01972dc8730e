package imaging

import (
	"image/color"
	"testing"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
)

func TestParseOverlayColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#FF0000", color.RGBA{255, 0, 0, 255}, false},
		{"#00ff80", color.RGBA{0, 255, 128, 255}, false},
		{"#0f0", color.RGBA{0, 255, 0, 255}, false},
		{"red", color.RGBA{}, true},
		{"", color.RGBA{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOverlayColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderDiagnostic(t *testing.T) {
	mask := detection.BinaryMask{Width: 40, Height: 30, Bits: make([]uint8, 40*30)}
	mask.Bits[0] = 1        // (0,0) foreground
	mask.Bits[29*40+39] = 1 // (39,29) foreground
	red := color.RGBA{255, 0, 0, 255}

	img := RenderDiagnostic(mask, []detection.Point{{X: 20, Y: 15}, {X: 1, Y: 1}}, red)

	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"foreground is white", 39, 29, color.RGBA{255, 255, 255, 255}},
		{"background is black", 30, 2, color.RGBA{0, 0, 0, 255}},
		{"square top-left", 14, 9, red},
		{"square bottom-right", 25, 20, red},
		{"outside square", 26, 15, color.RGBA{0, 0, 0, 255}},
		{"clipped square covers origin", 0, 0, red},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
				t.Errorf("(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}
