package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// captionEmPerScale is the caption em size in pixels per unit of font scale.
// At font scale 0.7 this gives roughly the cap height of OpenCV's
// FONT_HERSHEY_SIMPLEX at the same scale.
const captionEmPerScale = 30.0

var (
	captionFontOnce sync.Once
	captionFont     *opentype.Font
	captionFontErr  error
)

func parsedCaptionFont() (*opentype.Font, error) {
	captionFontOnce.Do(func() {
		captionFont, captionFontErr = opentype.Parse(gobold.TTF)
	})
	return captionFont, captionFontErr
}

// captionFace opens the caption face for the given font scale. The caller
// closes it.
func captionFace(fontScale float64) (font.Face, error) {
	f, err := parsedCaptionFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse caption font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    captionEmPerScale * fontScale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create caption face: %w", err)
	}
	return face, nil
}

// textSize returns the rendered width and the height above the baseline of
// text, accounting for the extra columns added by over-striking.
func textSize(face font.Face, text string, thickness int) (w, h int) {
	bounds, advance := font.BoundString(face, text)
	w = advance.Ceil()
	if thickness > 1 {
		w += thickness - 1
	}
	h = (-bounds.Min.Y).Ceil()
	if h < 0 {
		h = 0
	}
	return w, h
}

// drawText renders text with its baseline starting at (x, y). Thickness above
// one is emulated by drawing the string again one pixel to the right per step.
func drawText(dst draw.Image, face font.Face, text string, x, y, thickness int, src image.Image) {
	if thickness < 1 {
		thickness = 1
	}
	for i := 0; i < thickness; i++ {
		d := &font.Drawer{
			Dst:  dst,
			Src:  src,
			Face: face,
			Dot:  fixed.P(x+i, y),
		}
		d.DrawString(text)
	}
}
