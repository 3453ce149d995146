// Package config provides configuration loading and validation for the
// docgen service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds everything the service needs. All fields are optional in the
// JSON file; missing values fall back to environment variables and defaults.
type Config struct {
	// Server
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL; empty uses the in-memory store

	// AI providers
	GeminiAPIKey string `json:"gemini_api_key,omitempty"`
	GeminiModel  string `json:"gemini_model,omitempty"`
	ClaudeAPIKey string `json:"claude_api_key,omitempty"`
	ClaudeModel  string `json:"claude_model,omitempty"`

	// Blob storage (S3 compatible)
	S3EndpointURL string `json:"s3_endpoint_url,omitempty"` // Set for minio-style deployments
	S3Region      string `json:"s3_region,omitempty"`
	S3AccessKey   string `json:"s3_access_key,omitempty"`
	S3SecretKey   string `json:"s3_secret_key,omitempty"`
	S3Bucket      string `json:"s3_bucket,omitempty"`

	// Rendering
	AccentColor string `json:"accent_color,omitempty"`
	FontFamily  string `json:"font_family,omitempty"`

	// Limits
	PDFTimeoutSeconds int `json:"pdf_timeout_seconds,omitempty"`
	LinkTTLHours      int `json:"link_ttl_hours,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv builds a Config from environment variables. godotenv is loaded by
// main before this runs, so a local .env file works too.
func FromEnv() Config {
	port := 8080
	if raw := os.Getenv("PORT"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			port = parsed
		}
	}
	return Config{
		Port:          port,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   os.Getenv("GEMINI_MODEL"),
		ClaudeAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:   os.Getenv("CLAUDE_MODEL"),
		S3EndpointURL: os.Getenv("S3_ENDPOINT_URL"),
		S3Region:      os.Getenv("S3_REGION"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.PDFTimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'pdf_timeout_seconds' must be non-negative")
	}
	if c.LinkTTLHours < 0 {
		return fmt.Errorf("config error: 'link_ttl_hours' must be non-negative")
	}
	if c.GeminiAPIKey == "" && c.ClaudeAPIKey == "" {
		return fmt.Errorf("config error: at least one provider API key is required")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from
// defaults. File values win over environment values this way.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}
	if result.ClaudeAPIKey == "" {
		result.ClaudeAPIKey = defaults.ClaudeAPIKey
	}
	if result.ClaudeModel == "" {
		result.ClaudeModel = defaults.ClaudeModel
	}
	if result.S3EndpointURL == "" {
		result.S3EndpointURL = defaults.S3EndpointURL
	}
	if result.S3Region == "" {
		result.S3Region = defaults.S3Region
	}
	if result.S3AccessKey == "" {
		result.S3AccessKey = defaults.S3AccessKey
	}
	if result.S3SecretKey == "" {
		result.S3SecretKey = defaults.S3SecretKey
	}
	if result.S3Bucket == "" {
		result.S3Bucket = defaults.S3Bucket
	}
	if result.AccentColor == "" {
		result.AccentColor = defaults.AccentColor
	}
	if result.FontFamily == "" {
		result.FontFamily = defaults.FontFamily
	}
	if result.PDFTimeoutSeconds == 0 {
		result.PDFTimeoutSeconds = defaults.PDFTimeoutSeconds
	}
	if result.LinkTTLHours == 0 {
		result.LinkTTLHours = defaults.LinkTTLHours
	}

	return result
}
