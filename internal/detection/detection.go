package detection

import (
	"context"
	"fmt"
	"image"
)

// Bounds is a bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Rect converts the box to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// Valid reports whether the box has positive width and height.
func (b Bounds) Valid() bool {
	return b.Width() > 0 && b.Height() > 0
}

// Width returns X2 - X1.
func (b Bounds) Width() int { return b.X2 - b.X1 }

// Height returns Y2 - Y1.
func (b Bounds) Height() int { return b.Y2 - b.Y1 }

// Detection is one coin reported by the detector.
type Detection struct {
	Box        Bounds  `json:"box"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"` // 0.0 to 1.0
}

func (d Detection) String() string {
	return fmt.Sprintf("%s %.2f (%d,%d)-(%d,%d)", d.Label, d.Confidence, d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2)
}

// Detector finds coins in an image.
//
// Detect returns detections at or above the adapter's confidence threshold, in
// the order the model produced them. An empty result is not an error.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)

	// Close releases model resources.
	Close() error
}

// Sanitize drops detections below minConfidence and those with degenerate
// boxes. The input slice is not modified.
func Sanitize(dets []Detection, minConfidence float64) []Detection {
	out := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence < minConfidence || !d.Box.Valid() {
			continue
		}
		out = append(out, d)
	}
	return out
}
