// Package config loads server and pipeline settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/docrectify-mcp/internal/detection"
	"github.com/ironsheep/docrectify-mcp/internal/logging"
	"github.com/ironsheep/docrectify-mcp/internal/rectify"
)

// Config holds the settings shared by the MCP server and the CLI.
type Config struct {
	LogLevel string

	// Acquisition: longest side in pixels after decoding, 0 disables.
	MaxDimension int

	// Marker selection
	MinMarkerArea float64
	MinAspect     float64
	MaxAspect     float64
	MinFill       float64

	// Area gate
	MinQuadArea float64

	AllowDegenerate bool

	// Diagnostics
	OverlayColor string

	// OCR
	OCRLanguage string
	TessdataDir string
}

// Default returns the built-in configuration without reading the environment.
func Default() *Config {
	return &Config{
		LogLevel:        "info",
		MaxDimension:    3400,
		MinMarkerArea:   0.0001,
		MinAspect:       0.7,
		MaxAspect:       1.4,
		MinFill:         0.4,
		MinQuadArea:     0.06,
		AllowDegenerate: false,
		OverlayColor:    "#FF0000",
		OCRLanguage:     "eng",
	}
}

// Load reads configuration from DOCRECTIFY_* environment variables, falling
// back to Default for anything unset or malformed.
func Load() (*Config, error) {
	d := Default()
	cfg := &Config{
		LogLevel:        getEnvOrDefault("DOCRECTIFY_LOG_LEVEL", d.LogLevel),
		MaxDimension:    getEnvAsIntOrDefault("DOCRECTIFY_MAX_DIMENSION", d.MaxDimension),
		MinMarkerArea:   getEnvAsFloatOrDefault("DOCRECTIFY_MIN_MARKER_AREA", d.MinMarkerArea),
		MinAspect:       getEnvAsFloatOrDefault("DOCRECTIFY_MIN_ASPECT", d.MinAspect),
		MaxAspect:       getEnvAsFloatOrDefault("DOCRECTIFY_MAX_ASPECT", d.MaxAspect),
		MinFill:         getEnvAsFloatOrDefault("DOCRECTIFY_MIN_FILL", d.MinFill),
		MinQuadArea:     getEnvAsFloatOrDefault("DOCRECTIFY_MIN_QUAD_AREA", d.MinQuadArea),
		AllowDegenerate: getEnvAsBoolOrDefault("DOCRECTIFY_ALLOW_DEGENERATE", d.AllowDegenerate),
		OverlayColor:    getEnvOrDefault("DOCRECTIFY_OVERLAY_COLOR", d.OverlayColor),
		OCRLanguage:     getEnvOrDefault("DOCRECTIFY_OCR_LANGUAGE", d.OCRLanguage),
		TessdataDir:     getEnvOrDefault("DOCRECTIFY_TESSDATA_DIR", d.TessdataDir),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("DOCRECTIFY_LOG_LEVEL: %w", err)
	}

	if c.MaxDimension < 0 {
		return fmt.Errorf("DOCRECTIFY_MAX_DIMENSION must be >= 0, got %d", c.MaxDimension)
	}

	if c.MinMarkerArea <= 0 || c.MinMarkerArea >= 1 {
		return fmt.Errorf("DOCRECTIFY_MIN_MARKER_AREA must be between 0 and 1, got %v", c.MinMarkerArea)
	}

	if c.MinAspect <= 0 || c.MinAspect >= c.MaxAspect {
		return fmt.Errorf("marker aspect bounds must satisfy 0 < MIN_ASPECT < MAX_ASPECT, got %v and %v",
			c.MinAspect, c.MaxAspect)
	}

	if c.MinFill < 0 || c.MinFill >= 1 {
		return fmt.Errorf("DOCRECTIFY_MIN_FILL must be in [0, 1), got %v", c.MinFill)
	}

	if c.MinQuadArea <= 0 || c.MinQuadArea >= 1 {
		return fmt.Errorf("DOCRECTIFY_MIN_QUAD_AREA must be between 0 and 1, got %v", c.MinQuadArea)
	}

	if _, err := colorful.Hex(c.OverlayColor); err != nil {
		return fmt.Errorf("DOCRECTIFY_OVERLAY_COLOR %q is not a #RRGGBB color: %w", c.OverlayColor, err)
	}

	if c.OCRLanguage == "" {
		return fmt.Errorf("DOCRECTIFY_OCR_LANGUAGE is required")
	}

	if c.TessdataDir != "" {
		info, err := os.Stat(c.TessdataDir)
		if err != nil {
			return fmt.Errorf("DOCRECTIFY_TESSDATA_DIR: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("DOCRECTIFY_TESSDATA_DIR %s is not a directory", c.TessdataDir)
		}
	}

	return nil
}

// PipelineOptions converts the configuration into rectify.Options.
func (c *Config) PipelineOptions() rectify.Options {
	opts := rectify.DefaultOptions()
	opts.Criteria = detection.Criteria{
		MinAreaFraction: c.MinMarkerArea,
		MinAspect:       c.MinAspect,
		MaxAspect:       c.MaxAspect,
		MinFill:         c.MinFill,
		Rank:            detection.FarthestFromCenter,
	}
	opts.MinQuadAreaFraction = c.MinQuadArea
	opts.AllowDegenerate = c.AllowDegenerate
	return opts
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
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

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
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

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
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
