package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/coin-counter/internal/detection"
)

// Colorer resolves a detection label to its annotation colour.
type Colorer interface {
	ColorOf(label string) color.NRGBA
}

// CaptionColor is the caption text colour.
var CaptionColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// Style holds the annotation sizes for one image. All sizes derive from a
// single scale factor so overlays stay proportionate at any resolution.
type Style struct {
	Scale         float64
	BoxThickness  int
	TextThickness int
	FontScale     float64
	Padding       int
}

// Scale returns max(1, width/1000).
func Scale(width int) float64 {
	return math.Max(1.0, float64(width)/1000.0)
}

// StyleFor returns the annotation style for an image of the given width.
func StyleFor(width int) Style {
	s := Scale(width)
	return Style{
		Scale:         s,
		BoxThickness:  int(4 * s),
		TextThickness: int(2 * s),
		FontScale:     0.7 * s,
		Padding:       int(10 * s),
	}
}

// Caption returns "<label> <confidence percent, rounded down>%".
func Caption(d detection.Detection) string {
	return fmt.Sprintf("%s %d%%", d.Label, int(d.Confidence*100))
}

// Annotate draws every detection's box and caption onto a copy of src.
//
// The returned image is a new *image.NRGBA with its origin at (0,0); src is never
// modified. Detections are drawn in input order, so later boxes may cover
// earlier ones. Captions sit directly above their box and are clipped at the
// image edge rather than moved inside it. Labels the colorer does not know are
// drawn in whatever fallback colour it returns.
//
// Annotate is deterministic: the same inputs always produce identical pixels.
func Annotate(src image.Image, dets []detection.Detection, colors Colorer) (*image.NRGBA, error) {
	dst := imaging.Clone(src)
	if len(dets) == 0 {
		return dst, nil
	}

	style := StyleFor(dst.Bounds().Dx())
	face, err := captionFace(style.FontScale)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	// Boxes are in source coordinates; the clone starts at (0,0).
	origin := src.Bounds().Min
	textSrc := image.NewUniform(CaptionColor)
	for _, d := range dets {
		c := colors.ColorOf(d.Label)
		fill := image.NewUniform(c)
		box := d.Box.Rect().Sub(origin)

		drawOutline(dst, box, style.BoxThickness, fill)

		caption := Caption(d)
		textW, textH := textSize(face, caption, style.TextThickness)
		bg := image.Rect(
			box.Min.X, box.Min.Y-textH-style.Padding*2,
			box.Min.X+textW+style.Padding, box.Min.Y,
		)
		draw.Draw(dst, bg, fill, image.Point{}, draw.Src)

		drawText(dst, face, caption,
			box.Min.X+style.Padding/2, box.Min.Y-style.Padding,
			style.TextThickness, textSrc)
	}

	return dst, nil
}

// drawOutline strokes r with lines of the given thickness centred on its edges.
// draw.Draw clips each strip to dst, so boxes touching the border are safe.
func drawOutline(dst draw.Image, r image.Rectangle, thickness int, src image.Image) {
	if thickness < 1 {
		thickness = 1
	}
	half := thickness / 2
	outer := image.Rect(r.Min.X-half, r.Min.Y-half, r.Max.X+thickness-half, r.Max.Y+thickness-half)

	strips := []image.Rectangle{
		image.Rect(outer.Min.X, outer.Min.Y, outer.Max.X, outer.Min.Y+thickness), // top
		image.Rect(outer.Min.X, outer.Max.Y-thickness, outer.Max.X, outer.Max.Y), // bottom
		image.Rect(outer.Min.X, outer.Min.Y, outer.Min.X+thickness, outer.Max.Y), // left
		image.Rect(outer.Max.X-thickness, outer.Min.Y, outer.Max.X, outer.Max.Y), // right
	}
	for _, s := range strips {
		draw.Draw(dst, s, src, image.Point{}, draw.Src)
	}
}
