package counter

import (
	"errors"
	"fmt"
	"time"

	"github.com/ironsheep/coin-counter/internal/detection"
)

// ErrorCode classifies a ProcessingError.
type ErrorCode string

const (
	// ErrorAdapterUnavailable: the detector could not be constructed. Fatal for
	// the session.
	ErrorAdapterUnavailable ErrorCode = "ADAPTER_UNAVAILABLE"
	// ErrorDetectionFailed: the detector failed on one image.
	ErrorDetectionFailed ErrorCode = "DETECTION_FAILED"
	// ErrorImageLoadFailed: the input file could not be read or decoded.
	ErrorImageLoadFailed ErrorCode = "IMAGE_LOAD_FAILED"
	// ErrorUnsupportedFormat: the input is not JPEG or PNG.
	ErrorUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrorAnnotationFailed: the overlay could not be rendered.
	ErrorAnnotationFailed ErrorCode = "ANNOTATION_FAILED"
)

// ProcessingError is a coded failure for one image.
type ProcessingError struct {
	Code      ErrorCode
	Message   string
	ImageID   string
	Timestamp time.Time
	Details   map[string]interface{}
	Cause     error
}

func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// Is matches the detection sentinels by code, so callers can test
// errors.Is(err, detection.ErrAdapterUnavailable) even when Cause is nil.
func (e *ProcessingError) Is(target error) bool {
	switch target {
	case detection.ErrAdapterUnavailable:
		return e.Code == ErrorAdapterUnavailable
	case detection.ErrDetectionFailed:
		return e.Code == ErrorDetectionFailed
	}
	return false
}

// ToMap flattens the error for JSON responses.
func (e *ProcessingError) ToMap() map[string]interface{} {
	result := map[string]interface{}{
		"error_code": string(e.Code),
		"message":    e.Message,
		"image_id":   e.ImageID,
		"timestamp":  e.Timestamp,
	}

	for k, v := range e.Details {
		result[k] = v
	}

	if e.Cause != nil {
		result["cause"] = e.Cause.Error()
	}

	return result
}

// CodeOf returns the code of the first ProcessingError in err's chain, or ""
// if there is none.
func CodeOf(err error) ErrorCode {
	var pe *ProcessingError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}

func newUnsupportedFormatError(imageID, path string, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorUnsupportedFormat,
		Message:   fmt.Sprintf("Unsupported image format: %s", path),
		ImageID:   imageID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}

func newImageLoadFailedError(imageID, path string, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorImageLoadFailed,
		Message:   fmt.Sprintf("Failed to load image: %s", path),
		ImageID:   imageID,
		Timestamp: time.Now(),
		Details: map[string]interface{}{
			"path": path,
		},
		Cause: cause,
	}
}

// newDetectorError classifies a detector error. Construction failures that
// surface lazily keep their ADAPTER_UNAVAILABLE code.
func newDetectorError(imageID string, cause error) *ProcessingError {
	if errors.Is(cause, detection.ErrAdapterUnavailable) {
		return &ProcessingError{
			Code:      ErrorAdapterUnavailable,
			Message:   "Detector is unavailable",
			ImageID:   imageID,
			Timestamp: time.Now(),
			Cause:     cause,
		}
	}
	return &ProcessingError{
		Code:      ErrorDetectionFailed,
		Message:   "Detector failed on image",
		ImageID:   imageID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

// NewAdapterUnavailableError reports that no detector could be built.
func NewAdapterUnavailableError(cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorAdapterUnavailable,
		Message:   "Detector is unavailable",
		Timestamp: time.Now(),
		Cause:     cause,
	}
}

func newAnnotationFailedError(imageID string, cause error) *ProcessingError {
	return &ProcessingError{
		Code:      ErrorAnnotationFailed,
		Message:   "Failed to render annotations",
		ImageID:   imageID,
		Timestamp: time.Now(),
		Cause:     cause,
	}
}
