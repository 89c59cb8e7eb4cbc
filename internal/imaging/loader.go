package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for files that are not JPEG or PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the decoded format: "png" or "jpeg".
	Format string `json:"format"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// FormatFromPath maps a file extension to "jpeg" or "png".
//
// Matching is case-insensitive:
//   - ".png" -> "png"
//   - ".jpg", ".jpeg" -> "jpeg"
//
// Any other extension returns ErrUnsupportedFormat.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// Load opens and decodes a JPEG or PNG file.
//
// Every call reads from disk; images are not cached between calls.
//
// # Errors
//
//   - ErrUnsupportedFormat (wrapped) if the extension is not .jpg/.jpeg/.png or the
//     content decodes as some other format
//   - an error if the file does not exist, cannot be read, or cannot be decoded
func Load(path string) (image.Image, *ImageInfo, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return nil, nil, fmt.Errorf("%w: content is %s", ErrUnsupportedFormat, format)
	}

	bounds := img.Bounds()
	return img, &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		FileSizeBytes: stat.Size(),
	}, nil
}
