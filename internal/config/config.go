package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ironsheep/partnum-ocr/internal/imaging"
)

// Config holds server configuration, read from the environment.
type Config struct {
	// HTTP server
	Addr            string
	MaxUploadBytes  int64
	MaxPixels       int
	CORSOrigins     []string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel string

	// OCR engine
	OCREngine      string
	OCRLanguage    string
	TessdataPrefix string
	OCRWhitelist   string
	OCRPageSegMode int
	AWSRegion      string

	// Preprocessing applied before recognition
	Preprocess []imaging.Step
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, seeds variables that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the current environment only.
func FromEnv() (*Config, error) {
	maxUploadMB, err := getEnvAsInt("PARTNUM_MAX_UPLOAD_MB", 20)
	if err != nil {
		return nil, err
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("PARTNUM_MAX_UPLOAD_MB must be positive, got %d", maxUploadMB)
	}

	maxPixels, err := getEnvAsInt("PARTNUM_MAX_PIXELS", imaging.DefaultMaxPixels)
	if err != nil {
		return nil, err
	}
	if maxPixels <= 0 {
		return nil, fmt.Errorf("PARTNUM_MAX_PIXELS must be positive, got %d", maxPixels)
	}

	psm, err := getEnvAsInt("PARTNUM_OCR_PSM", 3)
	if err != nil {
		return nil, err
	}

	shutdown, err := getEnvAsDuration("PARTNUM_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	steps, err := imaging.ParseSteps(getEnvOrDefault("PARTNUM_PREPROCESS", ""))
	if err != nil {
		return nil, fmt.Errorf("PARTNUM_PREPROCESS: %w", err)
	}

	return &Config{
		Addr:            getEnvOrDefault("PARTNUM_ADDR", ":8000"),
		MaxUploadBytes:  int64(maxUploadMB) << 20,
		MaxPixels:       maxPixels,
		CORSOrigins:     splitList(getEnvOrDefault("PARTNUM_CORS_ORIGINS", "*")),
		ShutdownTimeout: shutdown,
		LogLevel:        getEnvOrDefault("PARTNUM_LOG_LEVEL", "info"),
		OCREngine:       getEnvOrDefault("PARTNUM_OCR_ENGINE", "tesseract"),
		OCRLanguage:     getEnvOrDefault("PARTNUM_OCR_LANGUAGE", "eng"),
		TessdataPrefix:  getEnvOrDefault("PARTNUM_TESSDATA_PREFIX", ""),
		OCRWhitelist:    getEnvOrDefault("PARTNUM_OCR_WHITELIST", ""),
		OCRPageSegMode:  psm,
		AWSRegion:       getEnvOrDefault("AWS_REGION", "us-east-1"),
		Preprocess:      steps,
	}, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
