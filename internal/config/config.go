// Package config loads coin counter settings from the environment.
//
// An optional .env file in the working directory is read first; variables that
// are already set in the process environment take precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the detector, the display surfaces and logging.
type Config struct {
	// ModelPath is the ONNX weights file for the local detector.
	ModelPath string
	// LabelsPath lists class names, one per line, in model class-id order.
	LabelsPath string
	// Confidence is the detector threshold; detections below it are dropped.
	Confidence float64
	// IoU is the non-maximum suppression overlap threshold.
	IoU float64
	// InputSize is the square network input edge in pixels.
	InputSize int

	// InferenceURL selects the remote detector when non-empty.
	InferenceURL     string
	InferenceTimeout time.Duration

	// DisplayHeight is the viewport height annotated images are fitted to.
	DisplayHeight int

	LogLevel string
}

// Load reads .env (if present) and then the environment.
func Load() (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ModelPath:        getEnv("COIN_MODEL_PATH", "weights.onnx"),
		LabelsPath:       getEnv("COIN_LABELS_PATH", "labels.txt"),
		Confidence:       getEnvAsFloat("COIN_CONFIDENCE", 0.45),
		IoU:              getEnvAsFloat("COIN_IOU", 0.45),
		InputSize:        getEnvAsInt("COIN_INPUT_SIZE", 640),
		InferenceURL:     getEnv("COIN_INFERENCE_URL", ""),
		InferenceTimeout: time.Duration(getEnvAsInt("COIN_INFERENCE_TIMEOUT", 30)) * time.Second,
		DisplayHeight:    getEnvAsInt("COIN_DISPLAY_HEIGHT", 650),
		LogLevel:         getEnv("COIN_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Confidence < 0 || c.Confidence > 1 {
		return fmt.Errorf("COIN_CONFIDENCE must be within [0,1], got %v", c.Confidence)
	}
	if c.IoU < 0 || c.IoU > 1 {
		return fmt.Errorf("COIN_IOU must be within [0,1], got %v", c.IoU)
	}
	if c.InputSize <= 0 {
		return fmt.Errorf("COIN_INPUT_SIZE must be positive, got %d", c.InputSize)
	}
	if c.DisplayHeight <= 0 {
		return fmt.Errorf("COIN_DISPLAY_HEIGHT must be positive, got %d", c.DisplayHeight)
	}
	if c.InferenceTimeout <= 0 {
		return fmt.Errorf("COIN_INFERENCE_TIMEOUT must be positive, got %v", c.InferenceTimeout)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
