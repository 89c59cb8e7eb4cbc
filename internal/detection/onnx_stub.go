//go:build !gocv

package detection

import (
	"context"
	"image"
)

// ONNX is unavailable in builds without the "gocv" tag.
type ONNX struct{}

// NewONNX always fails: OpenCV support was not compiled in.
func NewONNX(cfg ONNXConfig) (*ONNX, error) {
	return nil, Unavailable("built without gocv support (rebuild with -tags gocv) for model %s", cfg.ModelPath)
}

// Detect is never reached because NewONNX never succeeds.
func (d *ONNX) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	return nil, Failed(ErrAdapterUnavailable)
}

// Close is a no-op.
func (d *ONNX) Close() error { return nil }
