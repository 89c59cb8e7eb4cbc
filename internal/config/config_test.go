package config

import (
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"COIN_MODEL_PATH", "COIN_LABELS_PATH", "COIN_CONFIDENCE", "COIN_IOU",
		"COIN_INPUT_SIZE", "COIN_INFERENCE_URL", "COIN_INFERENCE_TIMEOUT",
		"COIN_DISPLAY_HEIGHT", "COIN_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}

	if cfg.ModelPath != "weights.onnx" {
		t.Errorf("ModelPath: got %s, want weights.onnx", cfg.ModelPath)
	}
	if cfg.Confidence != 0.45 {
		t.Errorf("Confidence: got %v, want 0.45", cfg.Confidence)
	}
	if cfg.InputSize != 640 {
		t.Errorf("InputSize: got %d, want 640", cfg.InputSize)
	}
	if cfg.DisplayHeight != 650 {
		t.Errorf("DisplayHeight: got %d, want 650", cfg.DisplayHeight)
	}
	if cfg.InferenceTimeout != 30*time.Second {
		t.Errorf("InferenceTimeout: got %v, want 30s", cfg.InferenceTimeout)
	}
	if cfg.InferenceURL != "" {
		t.Errorf("InferenceURL: got %q, want empty", cfg.InferenceURL)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("COIN_CONFIDENCE", "0.6")
	t.Setenv("COIN_DISPLAY_HEIGHT", "480")
	t.Setenv("COIN_INFERENCE_URL", "http://localhost:5000/predict")
	t.Setenv("COIN_INFERENCE_TIMEOUT", "5")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.Confidence != 0.6 {
		t.Errorf("Confidence: got %v, want 0.6", cfg.Confidence)
	}
	if cfg.DisplayHeight != 480 {
		t.Errorf("DisplayHeight: got %d, want 480", cfg.DisplayHeight)
	}
	if cfg.InferenceURL != "http://localhost:5000/predict" {
		t.Errorf("InferenceURL: got %q", cfg.InferenceURL)
	}
	if cfg.InferenceTimeout != 5*time.Second {
		t.Errorf("InferenceTimeout: got %v, want 5s", cfg.InferenceTimeout)
	}
}

func TestFromEnv_MalformedFallsBack(t *testing.T) {
	t.Setenv("COIN_INPUT_SIZE", "big")
	t.Setenv("COIN_CONFIDENCE", "high")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.InputSize != 640 {
		t.Errorf("InputSize: got %d, want default 640", cfg.InputSize)
	}
	if cfg.Confidence != 0.45 {
		t.Errorf("Confidence: got %v, want default 0.45", cfg.Confidence)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Confidence:       0.45,
			IoU:              0.45,
			InputSize:        640,
			DisplayHeight:    650,
			InferenceTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"confidence above one", func(c *Config) { c.Confidence = 1.5 }, true},
		{"negative iou", func(c *Config) { c.IoU = -0.1 }, true},
		{"zero input size", func(c *Config) { c.InputSize = 0 }, true},
		{"zero display height", func(c *Config) { c.DisplayHeight = 0 }, true},
		{"zero timeout", func(c *Config) { c.InferenceTimeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
