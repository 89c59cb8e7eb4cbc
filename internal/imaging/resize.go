package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DefaultDisplayHeight is the viewport height annotated images are shown at.
const DefaultDisplayHeight = 650

// FitHeight resizes img to exactly height pixels tall, keeping the aspect ratio
// (width rounded down, at least 1), using Lanczos resampling. Images are scaled
// up as well as down.
func FitHeight(img image.Image, height int) (*image.NRGBA, error) {
	if height <= 0 {
		return nil, fmt.Errorf("invalid display height %d", height)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("cannot resize empty image")
	}

	ratio := float64(height) / float64(b.Dy())
	width := int(float64(b.Dx()) * ratio)
	if width < 1 {
		width = 1
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}
