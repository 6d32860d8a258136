// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeminiConfig provides settings for the Gemini backend agent.
type GeminiConfig interface {
	GetGoogleAPIKey() string
	GetGeminiModel() string
	GetGeminiTimeout() time.Duration
}

// UploadConfig provides settings for media staging.
type UploadConfig interface {
	GetUploadMaxFileSize() int64
	GetUploadTempDir() string
}

// RateLimitConfig provides settings for the summarize endpoint rate limiter.
type RateLimitConfig interface {
	GetSummarizeRate() float64
	GetSummarizeBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env               string
	HTTPAddr          string
	CORSAllowAll      bool
	CORSOrigins       []string
	CORSAllowCreds    bool
	GoogleAPIKey      string
	GeminiModel       string
	GeminiTimeout     time.Duration
	UploadMaxFileSize int64
	UploadTempDir     string
	SummarizeRate     float64
	SummarizeBurst    int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GeminiConfig implementation
func (c *Config) GetGoogleAPIKey() string         { return c.GoogleAPIKey }
func (c *Config) GetGeminiModel() string          { return c.GeminiModel }
func (c *Config) GetGeminiTimeout() time.Duration { return c.GeminiTimeout }

// UploadConfig implementation
func (c *Config) GetUploadMaxFileSize() int64 { return c.UploadMaxFileSize }
func (c *Config) GetUploadTempDir() string    { return c.UploadTempDir }

// RateLimitConfig implementation
func (c *Config) GetSummarizeRate() float64 { return c.SummarizeRate }
func (c *Config) GetSummarizeBurst() int    { return c.SummarizeBurst }

// Load reads configuration from environment variables.
// The GOOGLE_API_KEY may be empty: callers can still supply a key per request,
// and a missing credential only fails the requests that depend on it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:               getEnv("APP_ENV", "development"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:      corsAllowAll,
		CORSOrigins:       corsOrigins,
		CORSAllowCreds:    strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		GeminiTimeout:     mustDuration(getEnv("GEMINI_TIMEOUT", "2m")),
		UploadMaxFileSize: mustInt64(getEnv("UPLOAD_MAX_FILE_SIZE", "209715200")),
		UploadTempDir:     getEnv("UPLOAD_TEMP_DIR", ""),
		SummarizeRate:     mustFloat64(getEnv("SUMMARIZE_RATE", "0.2")),
		SummarizeBurst:    int(mustInt64(getEnv("SUMMARIZE_BURST", "3"))),
	}

	if cfg.GeminiTimeout <= 0 {
		return nil, fmt.Errorf("GEMINI_TIMEOUT must be a positive duration")
	}
	if cfg.UploadMaxFileSize <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_FILE_SIZE must be a positive byte count")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat64(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
