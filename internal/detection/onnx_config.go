package detection

// ONNXConfig configures the in-process YOLO adapter.
type ONNXConfig struct {
	ModelPath string
	// Labels are the class names in model class-id order.
	Labels        []string
	MinConfidence float64
	// IoU is the non-maximum suppression overlap threshold.
	IoU float64
	// InputSize is the square network input edge (640 for stock YOLOv8).
	InputSize int
}
