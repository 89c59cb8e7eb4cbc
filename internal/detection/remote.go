package detection

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"
)

// RemoteConfig configures the HTTP inference adapter.
type RemoteConfig struct {
	// URL receives POST multipart uploads with the image in field "file".
	URL string
	// HealthURL is probed with GET at construction. Empty derives "<dir of URL>/health".
	HealthURL     string
	MinConfidence float64
	Timeout       time.Duration
	// Client overrides the HTTP client (tests).
	Client *http.Client
}

// Remote sends images to an external inference service.
//
// The service answers {"detections": [{"x1":..,"y1":..,"x2":..,"y2":..,
// "label":"10ft","confidence":0.91}, ...]}. Detections below MinConfidence are
// dropped locally as well, so a service ignoring the "conf" form field still
// honours the threshold.
type Remote struct {
	cfg    RemoteConfig
	client *http.Client
}

// NewRemote creates the adapter and checks that the service is healthy.
func NewRemote(ctx context.Context, cfg RemoteConfig) (*Remote, error) {
	if cfg.URL == "" {
		return nil, Unavailable("inference URL is empty")
	}
	if _, err := url.Parse(cfg.URL); err != nil {
		return nil, Unavailable("invalid inference URL %q: %v", cfg.URL, err)
	}
	if cfg.HealthURL == "" {
		cfg.HealthURL = healthURL(cfg.URL)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	r := &Remote{cfg: cfg, client: client}
	if err := r.CheckHealth(ctx); err != nil {
		return nil, Unavailable("%v", err)
	}
	return r, nil
}

// healthURL replaces the last path element of u with "health".
func healthURL(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u + "/health"
	}
	parsed.Path = path.Join(path.Dir(parsed.Path), "health")
	parsed.RawQuery = ""
	return parsed.String()
}

// CheckHealth verifies the inference service is reachable.
func (r *Remote) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.HealthURL, nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("inference service unreachable: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}
	return nil
}

// Detect uploads img as PNG and decodes the returned detections.
func (r *Remote) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return nil, Failed(fmt.Errorf("create form file: %w", err))
	}
	if err := png.Encode(part, img); err != nil {
		return nil, Failed(fmt.Errorf("encode image: %w", err))
	}
	if err := writer.WriteField("conf", strconv.FormatFloat(r.cfg.MinConfidence, 'f', -1, 64)); err != nil {
		return nil, Failed(fmt.Errorf("write conf field: %w", err))
	}
	if err := writer.Close(); err != nil {
		return nil, Failed(fmt.Errorf("close multipart writer: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.URL, body)
	if err != nil {
		return nil, Failed(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, Failed(fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Failed(fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, Failed(fmt.Errorf("inference failed with status: %d", resp.StatusCode))
	}

	dets, err := decodeResponse(data)
	if err != nil {
		return nil, Failed(err)
	}
	return Sanitize(dets, r.cfg.MinConfidence), nil
}

// Close is a no-op; the HTTP client holds no per-adapter resources.
func (r *Remote) Close() error { return nil }
