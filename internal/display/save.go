package display

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
)

// JPEGQuality is used when saving .jpg/.jpeg files.
const JPEGQuality = 95

// SaveImage writes img to path, choosing PNG or JPEG by extension.
func SaveImage(path string, img image.Image) error {
	enc, err := encoderFor(path)
	if err != nil {
		return err
	}
	if err := imgio.Save(path, img, enc); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

func encoderFor(path string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(JPEGQuality), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", filepath.Base(path))
	}
}
