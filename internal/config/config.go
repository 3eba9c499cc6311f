// Package config holds the service configuration: defaults, SCRIPTOCR_*
// environment overrides and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig
	Engines    EngineConfig
	Preprocess PreprocessConfig
}

// ServerConfig holds configuration for the HTTP layer
type ServerConfig struct {
	Addr          string
	MaxUploadSize int64
	// Debug includes the per-engine diagnostics trace in responses.
	// Leave off in production.
	Debug bool
}

// EngineConfig holds configuration for the OCR/translation backends
type EngineConfig struct {
	Backend        string // "ollama" or "llamacpp"
	BackendURL     string
	VisionModel    string
	TranslateModel string
}

// PreprocessConfig holds the image normalization constants
type PreprocessConfig struct {
	MinWidth int
	Contrast float64
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:          ":8080",
			MaxUploadSize: 16 << 20, // 16MB
			Debug:         false,
		},
		Engines: EngineConfig{
			Backend:        "ollama",
			BackendURL:     "http://localhost:11434",
			VisionModel:    "llama3.2-vision",
			TranslateModel: "llama3.2",
		},
		Preprocess: PreprocessConfig{
			MinWidth: 1600,
			Contrast: 30,
		},
	}
}

// FromEnv returns the defaults overridden by SCRIPTOCR_* environment
// variables, validated.
func FromEnv() (*Config, error) {
	cfg := Default()

	cfg.Server.Addr = getEnv("SCRIPTOCR_ADDR", cfg.Server.Addr)
	cfg.Server.MaxUploadSize = getEnvInt64("SCRIPTOCR_MAX_UPLOAD", cfg.Server.MaxUploadSize)
	cfg.Server.Debug = getEnvBool("SCRIPTOCR_DEBUG", cfg.Server.Debug)

	cfg.Engines.Backend = getEnv("SCRIPTOCR_BACKEND", cfg.Engines.Backend)
	cfg.Engines.BackendURL = getEnv("SCRIPTOCR_BACKEND_URL", cfg.Engines.BackendURL)
	cfg.Engines.VisionModel = getEnv("SCRIPTOCR_VISION_MODEL", cfg.Engines.VisionModel)
	cfg.Engines.TranslateModel = getEnv("SCRIPTOCR_TRANSLATE_MODEL", cfg.Engines.TranslateModel)

	cfg.Preprocess.MinWidth = getEnvInt("SCRIPTOCR_MIN_WIDTH", cfg.Preprocess.MinWidth)
	cfg.Preprocess.Contrast = getEnvFloat("SCRIPTOCR_CONTRAST", cfg.Preprocess.Contrast)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr cannot be empty")
	}

	if c.Server.MaxUploadSize < 1024 {
		return fmt.Errorf("max upload size must be at least 1KB, got %d", c.Server.MaxUploadSize)
	}

	if c.Engines.Backend != "ollama" && c.Engines.Backend != "llamacpp" {
		return fmt.Errorf("backend must be 'ollama' or 'llamacpp', got %q", c.Engines.Backend)
	}

	if c.Engines.BackendURL == "" {
		return fmt.Errorf("backend URL cannot be empty")
	}

	if c.Engines.VisionModel == "" {
		return fmt.Errorf("vision model cannot be empty")
	}

	if c.Preprocess.MinWidth < 1 {
		return fmt.Errorf("preprocess min width must be positive, got %d", c.Preprocess.MinWidth)
	}

	if c.Preprocess.Contrast <= 0 || c.Preprocess.Contrast > 100 {
		return fmt.Errorf("preprocess contrast must be in (0, 100], got %v", c.Preprocess.Contrast)
	}

	return nil
}

// getEnv gets environment variable or returns default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int or returns default
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvInt64 gets environment variable as int64 or returns default
func getEnvInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvFloat gets environment variable as float64 or returns default
func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvBool gets environment variable as bool or returns default
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
