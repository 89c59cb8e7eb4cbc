package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/coin-counter/internal/valuation"
)

// sampleColor returns the colour at (x, y), failing the test when the point
// lies outside img.
func sampleColor(t *testing.T, img image.Image, x, y int) ColorResult {
	t.Helper()
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		t.Fatalf("(%d,%d) outside image bounds %v", x, y, img.Bounds())
	}
	return DescribeColor(img.At(x, y))
}

func TestDescribeColor(t *testing.T) {
	tests := []struct {
		name    string
		color   color.Color
		wantHex string
		wantRGB RGBColor
	}{
		{"pure red", color.RGBA{255, 0, 0, 255}, "#ff0000", RGBColor{255, 0, 0}},
		{"fallback green", valuation.FallbackColor, "#00ff00", RGBColor{0, 255, 0}},
		{"white", color.White, "#ffffff", RGBColor{255, 255, 255}},
		{"gray", color.RGBA{128, 128, 128, 255}, "#808080", RGBColor{128, 128, 128}},
		{"gold nrgba", color.NRGBA{255, 215, 0, 255}, "#ffd700", RGBColor{255, 215, 0}},
		{"orange", color.RGBA{255, 128, 64, 255}, "#ff8040", RGBColor{255, 128, 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescribeColor(tt.color)
			if got.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", got.Hex, tt.wantHex)
			}
			if got.RGB != tt.wantRGB {
				t.Errorf("RGB: got %+v, want %+v", got.RGB, tt.wantRGB)
			}
		})
	}
}

func TestDescribeColor_MatchesTableHex(t *testing.T) {
	for _, e := range valuation.Default().Entries() {
		if got := DescribeColor(e.Color).Hex; got != e.Hex() {
			t.Errorf("%s: got %s, want %s", e.Label, got, e.Hex())
		}
	}
}
