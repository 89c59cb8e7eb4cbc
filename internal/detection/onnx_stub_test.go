//go:build !gocv

package detection

import (
	"errors"
	"testing"
)

func TestNewONNX_WithoutGoCV(t *testing.T) {
	_, err := NewONNX(ONNXConfig{ModelPath: "weights.onnx", Labels: []string{"5ft"}})
	if !errors.Is(err, ErrAdapterUnavailable) {
		t.Errorf("error %v should wrap ErrAdapterUnavailable", err)
	}
}
