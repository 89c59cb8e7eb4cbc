//go:build gocv

package detection

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// ONNX evaluates a YOLOv8-style ONNX export with OpenCV's DNN module.
//
// The network output is [1, 4+classes, candidates]: centre x, centre y, width,
// height in input pixels followed by one score per class. Candidates below the
// confidence threshold are discarded and the rest go through non-maximum
// suppression, run per class so adjacent coins of different denominations do
// not suppress each other.
//
// The input is resized to InputSize x InputSize without letterboxing. Boxes
// are scaled back per axis, which is exact for the stretch; models trained on
// letterboxed inputs lose a little accuracy on very wide or tall photographs.
type ONNX struct {
	cfg ONNXConfig

	// gocv.Net is not safe for concurrent Forward calls.
	mu  sync.Mutex
	net gocv.Net
}

// NewONNX loads the model. Any failure is reported as ErrAdapterUnavailable.
func NewONNX(cfg ONNXConfig) (*ONNX, error) {
	if _, err := os.Stat(cfg.ModelPath); os.IsNotExist(err) {
		return nil, Unavailable("model file not found: %s", cfg.ModelPath)
	}
	if len(cfg.Labels) == 0 {
		return nil, Unavailable("no class labels configured")
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = 640
	}

	net := gocv.ReadNetFromONNX(cfg.ModelPath)
	if net.Empty() {
		return nil, Unavailable("failed to load network from %s", cfg.ModelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return nil, Unavailable("failed to set preferable backend or target")
	}

	return &ONNX{cfg: cfg, net: net}, nil
}

// Detect runs the network on img.
func (d *ONNX) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, Failed(err)
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, Failed(fmt.Errorf("failed to convert image: %w", err))
	}
	defer mat.Close()
	if mat.Empty() {
		return nil, Failed(fmt.Errorf("converted image is empty"))
	}

	size := d.cfg.InputSize
	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(size, size), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	d.mu.Unlock()
	defer output.Close()

	dims := output.Size()
	if len(dims) != 3 || dims[1] < 5 {
		return nil, Failed(fmt.Errorf("unexpected output shape %v", dims))
	}
	rows, candidates := dims[1], dims[2]

	// (4+classes) x candidates -> candidates x (4+classes)
	plane := output.Reshape(1, rows)
	defer plane.Close()
	preds := gocv.NewMat()
	defer preds.Close()
	if err := gocv.Transpose(plane, &preds); err != nil {
		return nil, Failed(fmt.Errorf("failed to transpose output: %w", err))
	}

	sx := float32(mat.Cols()) / float32(size)
	sy := float32(mat.Rows()) / float32(size)

	var (
		boxes   []image.Rectangle
		scores  []float32
		classes []int
	)
	for i := 0; i < candidates; i++ {
		classID, best := -1, float32(0)
		for c := 4; c < rows; c++ {
			if s := preds.GetFloatAt(i, c); s > best {
				classID, best = c-4, s
			}
		}
		if classID < 0 || float64(best) < d.cfg.MinConfidence {
			continue
		}

		cx, cy := preds.GetFloatAt(i, 0), preds.GetFloatAt(i, 1)
		w, h := preds.GetFloatAt(i, 2), preds.GetFloatAt(i, 3)
		boxes = append(boxes, image.Rect(
			int((cx-w/2)*sx), int((cy-h/2)*sy),
			int((cx+w/2)*sx), int((cy+h/2)*sy),
		))
		scores = append(scores, best)
		classes = append(classes, classID)
	}

	if len(boxes) == 0 {
		return []Detection{}, nil
	}

	keep := perClassNMS(boxes, scores, classes, func(b []image.Rectangle, s []float32) []int {
		return gocv.NMSBoxes(b, s, float32(d.cfg.MinConfidence), float32(d.cfg.IoU))
	})

	dets := make([]Detection, 0, len(keep))
	for _, idx := range keep {
		r := boxes[idx]
		dets = append(dets, Detection{
			Box:        Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y},
			Label:      labelFor(d.cfg.Labels, classes[idx]),
			Confidence: float64(scores[idx]),
		})
	}
	return Sanitize(dets, d.cfg.MinConfidence), nil
}

// Close releases the network.
func (d *ONNX) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
