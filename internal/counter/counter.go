// Package counter runs the coin counting pipeline for one image at a time:
// load, detect, aggregate, annotate and format.
package counter

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/google/uuid"

	"github.com/ironsheep/coin-counter/internal/detection"
	"github.com/ironsheep/coin-counter/internal/imaging"
	"github.com/ironsheep/coin-counter/internal/logging"
	"github.com/ironsheep/coin-counter/internal/report"
	"github.com/ironsheep/coin-counter/internal/tally"
	"github.com/ironsheep/coin-counter/internal/valuation"
)

// Outcome is everything produced for one image.
type Outcome struct {
	ImageID    string
	Detections []detection.Detection
	Result     tally.Result
	Report     report.Report
	Annotated  *image.NRGBA
	Width      int // source width in pixels
	Height     int // source height in pixels
	Elapsed    time.Duration
}

// Counter owns a detector and a valuation table. It is safe for sequential
// use; concurrency depends on the detector.
type Counter struct {
	det   detection.Detector
	table *valuation.Table
	log   *logging.Logger
}

// New returns a Counter. A nil table means valuation.Default(); a nil logger
// discards output.
func New(det detection.Detector, table *valuation.Table, log *logging.Logger) *Counter {
	if table == nil {
		table = valuation.Default()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Counter{det: det, table: table, log: log}
}

// Table returns the valuation table in use.
func (c *Counter) Table() *valuation.Table {
	return c.table
}

// Close releases the detector.
func (c *Counter) Close() error {
	return c.det.Close()
}

// ProcessFile loads path and runs Process on it.
//
// Files that are not JPEG or PNG fail with UNSUPPORTED_FORMAT before any
// decoding; unreadable files fail with IMAGE_LOAD_FAILED.
func (c *Counter) ProcessFile(ctx context.Context, path string) (*Outcome, error) {
	id := uuid.NewString()

	if _, err := imaging.FormatFromPath(path); err != nil {
		c.log.Warn("rejected input", "image_id", id, "path", path, "error", err)
		return nil, newUnsupportedFormatError(id, path, err)
	}

	img, info, err := imaging.Load(path)
	if err != nil {
		c.log.Warn("failed to load image", "image_id", id, "path", path, "error", err)
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return nil, newUnsupportedFormatError(id, path, err)
		}
		return nil, newImageLoadFailedError(id, path, err)
	}
	c.log.Debug("image loaded", "image_id", id, "path", path,
		"width", info.Width, "height", info.Height, "format", info.Format)

	return c.process(ctx, id, img)
}

// Process runs detection, aggregation, annotation and formatting on img.
// Zero detections and unknown labels are not errors.
func (c *Counter) Process(ctx context.Context, img image.Image) (*Outcome, error) {
	return c.process(ctx, uuid.NewString(), img)
}

func (c *Counter) process(ctx context.Context, id string, img image.Image) (*Outcome, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing %s cancelled: %w", id, err)
	}

	dets, err := c.det.Detect(ctx, img)
	if err != nil {
		c.log.Error("detection failed", "image_id", id, "error", err)
		return nil, newDetectorError(id, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("processing %s cancelled: %w", id, err)
	}

	res := tally.Aggregate(dets, c.table)

	annotated, err := imaging.Annotate(img, dets, c.table)
	if err != nil {
		c.log.Error("annotation failed", "image_id", id, "error", err)
		return nil, newAnnotationFailedError(id, err)
	}

	rep := report.Format(res, c.table)
	bounds := img.Bounds()
	out := &Outcome{
		ImageID:    id,
		Detections: dets,
		Result:     res,
		Report:     rep,
		Annotated:  annotated,
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Elapsed:    time.Since(start),
	}

	c.log.Info("image counted", "image_id", id, "detections", res.Detections(),
		"total", res.Total, "elapsed", out.Elapsed)
	return out, nil
}
