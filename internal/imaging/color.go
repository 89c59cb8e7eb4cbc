package imaging

import (
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// ColorResult describes a colour as hex and RGB, the form used in JSON output.
type ColorResult struct {
	Hex string   `json:"hex"` // Hex format "#rrggbb" (no alpha)
	RGB RGBColor `json:"rgb"`
}

// DescribeColor converts c into a ColorResult, ignoring alpha.
func DescribeColor(c color.Color) ColorResult {
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	cf := colorful.Color{R: float64(r8) / 255.0, G: float64(g8) / 255.0, B: float64(b8) / 255.0}
	return ColorResult{
		Hex: cf.Hex(),
		RGB: RGBColor{R: r8, G: g8, B: b8},
	}
}
