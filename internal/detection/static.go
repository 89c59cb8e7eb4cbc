package detection

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"os"
)

// Static replays a fixed set of detections for every image.
//
// Err, when set, is returned from every Detect call wrapped as a detection
// failure. Static is what tests inject in place of a real model.
type Static struct {
	Detections    []Detection
	MinConfidence float64
	Err           error
}

// NewStatic returns a Static detector for dets.
func NewStatic(dets []Detection, minConfidence float64) *Static {
	return &Static{Detections: dets, MinConfidence: minConfidence}
}

// Detect returns a copy of the configured detections.
func (s *Static) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, Failed(err)
	}
	if s.Err != nil {
		return nil, Failed(s.Err)
	}
	return Sanitize(s.Detections, s.MinConfidence), nil
}

// Close is a no-op.
func (s *Static) Close() error { return nil }

// response is the JSON envelope shared by replay files and the inference service.
type response struct {
	Detections []wireDetection `json:"detections"`
}

// wireDetection accepts both a nested box and flat x1/y1/x2/y2 fields.
type wireDetection struct {
	Box        *Bounds `json:"box,omitempty"`
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Label      string  `json:"label"`
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
}

func (w wireDetection) toDetection() Detection {
	box := Bounds{X1: w.X1, Y1: w.Y1, X2: w.X2, Y2: w.Y2}
	if w.Box != nil {
		box = *w.Box
	}
	label := w.Label
	if label == "" {
		label = w.Class
	}
	return Detection{Box: box, Label: label, Confidence: w.Confidence}
}

func decodeResponse(data []byte) ([]Detection, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode detections: %w", err)
	}
	dets := make([]Detection, 0, len(resp.Detections))
	for _, w := range resp.Detections {
		dets = append(dets, w.toDetection())
	}
	return dets, nil
}

// LoadReplay reads a JSON file of the form {"detections": [...]} and returns a
// Static detector replaying it. A missing or malformed file makes the adapter
// unavailable.
func LoadReplay(path string, minConfidence float64) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Unavailable("failed to read detections file %s: %v", path, err)
	}
	dets, err := decodeResponse(data)
	if err != nil {
		return nil, Unavailable("%s: %v", path, err)
	}
	return NewStatic(dets, minConfidence), nil
}
