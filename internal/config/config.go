package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

// Config holds all application configuration
// Supports environment variables with sensible defaults
//
// Environment Variables:
// Smartcat Configuration:
// - SMARTCAT_USERNAME: account id used for basic auth (required)
// - SMARTCAT_PASSWORD: API key used for basic auth (required)
// - SMARTCAT_SERVER: API base URL (default: https://smartcat.ai)
// - SMARTCAT_PROJECT_ID: target project for uploaded documents (required)
// - SMARTCAT_TIMEOUT: HTTP timeout in seconds (default: 30)
//
// Translation Configuration:
// - SOURCE_LANGUAGE: source language tag, display-only (default: ru)
// - TARGET_LANGUAGE: target language tag, display-only (default: en)
// - MAX_RETRIES: pre-translation poll rounds for text batches (default: 60)
// - RETRY_DELAY: seconds between poll rounds for text batches (default: 5)
// - FILES_MAX_RETRIES: pre-translation poll rounds for file batches (default: 5)
// - FILES_RETRY_DELAY: seconds between poll rounds for file batches (default: 60)
// - OUTPUT_DIR: directory for translated files (default: next to the source file)
//
// Service Configuration:
// - HTTP_ADDR: listen address for the HTTP API (default: :8080)
// - DB_PATH: sqlite path for the job ledger (default: data/smartcat.db)
// - WATCH_DIR: hot folder scanned for new files (default: disabled)
// - WATCH_CRON: five-field cron expression for hot-folder scans (default: */10 * * * *)
// - LOG_LEVEL: debug|info|warn|error|fatal (default: info)

type Config struct {
	Smartcat  SmartcatConfig  `json:"smartcat"`
	Translate TranslateConfig `json:"translate"`
	Service   ServiceConfig   `json:"service"`
}

// SmartcatConfig holds credentials and connection settings for the remote API.
type SmartcatConfig struct {
	Username  string `json:"username"`
	Password  string `json:"-"`
	ServerURL string `json:"server_url"`
	ProjectID string `json:"project_id"`
	Timeout   int    `json:"timeout"`
}

// TranslateConfig holds workflow settings: language tags (display-only at this
// layer) and the two polling policies described in the workflow design.
type TranslateConfig struct {
	SourceLanguage language.Tag `json:"source_language"`
	TargetLanguage language.Tag `json:"target_language"`

	// Pre-translation polling for inline text batches: patient, short delays.
	TextPollAttempts int           `json:"text_poll_attempts"`
	TextPollDelay    time.Duration `json:"text_poll_delay"`

	// Pre-translation polling for file batches: few rounds, long delays.
	FilePollAttempts int           `json:"file_poll_attempts"`
	FilePollDelay    time.Duration `json:"file_poll_delay"`

	OutputDir string `json:"output_dir"`
}

// ServiceConfig holds settings for the HTTP API and the watch folder.
type ServiceConfig struct {
	HTTPAddr  string `json:"http_addr"`
	DBPath    string `json:"db_path"`
	WatchDir  string `json:"watch_dir"`
	WatchCron string `json:"watch_cron"`
	LogLevel  string `json:"log_level"`
}

// Option is a function type for configuring Config
type Option func(*Config)

// NewFromEnv creates a new Config instance with values from environment variables and options
func NewFromEnv(opts ...Option) (*Config, error) {
	config := &Config{
		Smartcat: SmartcatConfig{
			Username:  getEnvString("SMARTCAT_USERNAME", ""),
			Password:  getEnvString("SMARTCAT_PASSWORD", ""),
			ServerURL: getEnvString("SMARTCAT_SERVER", "https://smartcat.ai"),
			ProjectID: getEnvString("SMARTCAT_PROJECT_ID", ""),
			Timeout:   getEnvInt("SMARTCAT_TIMEOUT", 30),
		},
		Translate: TranslateConfig{
			SourceLanguage:   getEnvLanguage("SOURCE_LANGUAGE", language.Russian),
			TargetLanguage:   getEnvLanguage("TARGET_LANGUAGE", language.English),
			TextPollAttempts: getEnvInt("MAX_RETRIES", 60),
			TextPollDelay:    time.Duration(getEnvInt("RETRY_DELAY", 5)) * time.Second,
			FilePollAttempts: getEnvInt("FILES_MAX_RETRIES", 5),
			FilePollDelay:    time.Duration(getEnvInt("FILES_RETRY_DELAY", 60)) * time.Second,
			OutputDir:        getEnvString("OUTPUT_DIR", ""),
		},
		Service: ServiceConfig{
			HTTPAddr:  getEnvString("HTTP_ADDR", ":8080"),
			DBPath:    getEnvString("DB_PATH", "data/smartcat.db"),
			WatchDir:  getEnvString("WATCH_DIR", ""),
			WatchCron: getEnvString("WATCH_CRON", "*/10 * * * *"),
			LogLevel:  getEnvString("LOG_LEVEL", "info"),
		},
	}

	// Apply custom options
	for _, opt := range opts {
		opt(config)
	}

	// Validate required configuration
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// validate checks if all required configuration is properly set
func (c *Config) validate() error {
	if c.Smartcat.Username == "" {
		return fmt.Errorf("SMARTCAT_USERNAME is required")
	}
	if c.Smartcat.Password == "" {
		return fmt.Errorf("SMARTCAT_PASSWORD is required")
	}
	if c.Smartcat.ProjectID == "" {
		return fmt.Errorf("SMARTCAT_PROJECT_ID is required")
	}
	if c.Translate.TextPollAttempts <= 0 || c.Translate.FilePollAttempts <= 0 {
		return fmt.Errorf("poll attempt counts must be positive")
	}
	return nil
}

// getEnvString gets a string value from environment variables with default
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer value from environment variables with default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvLanguage parses a BCP 47 language tag from environment variables with default
func getEnvLanguage(key string, defaultValue language.Tag) language.Tag {
	if value := os.Getenv(key); value != "" {
		if tag, err := language.Parse(value); err == nil {
			return tag
		}
	}
	return defaultValue
}
