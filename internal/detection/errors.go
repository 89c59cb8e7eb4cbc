package detection

import (
	"errors"
	"fmt"
)

var (
	// ErrAdapterUnavailable means the detector could not be constructed.
	// It is fatal for the session.
	ErrAdapterUnavailable = errors.New("detector unavailable")

	// ErrDetectionFailed means the detector failed on a single image.
	ErrDetectionFailed = errors.New("detection failed")
)

// Unavailable wraps cause as an adapter construction failure.
func Unavailable(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAdapterUnavailable, fmt.Sprintf(format, args...))
}

// Failed wraps cause as a per-image detection failure. Errors that already
// carry either sentinel are returned unchanged.
func Failed(cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrDetectionFailed) || errors.Is(cause, ErrAdapterUnavailable) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrDetectionFailed, cause)
}
