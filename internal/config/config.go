package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// Reading-list API settings
	APIEndpoint string `json:"api_endpoint"`
	APIKey      string `json:"-"` // Don't expose in JSON

	// Fetch settings
	PageSize int `json:"page_size"`

	// Note settings
	DateFormat string `json:"date_format"` // moment-style tokens

	// Cache settings
	CacheDuration   int    `json:"cache_duration_hours"`
	RefreshSchedule string `json:"refresh_schedule"` // cron expression for deleted-slug eviction
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:            getEnvOrDefault("PORT", "8080"),
		Host:            getEnvOrDefault("HOST", "127.0.0.1"),
		APIEndpoint:     getEnvOrDefault("READSYNC_ENDPOINT", "https://api.readlater.app/api/graphql"),
		APIKey:          getEnvOrDefault("READSYNC_API_KEY", ""),
		PageSize:        getEnvOrDefaultInt("READSYNC_PAGE_SIZE", 10),
		DateFormat:      getEnvOrDefault("READSYNC_DATE_FORMAT", "YYYY-MM-DD"),
		CacheDuration:   getEnvOrDefaultInt("CACHE_DURATION_HOURS", 24),
		RefreshSchedule: getEnvOrDefault("REFRESH_SCHEDULE", "@hourly"),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.APIKey == "" {
		return &ConfigError{Field: "READSYNC_API_KEY", Message: "API key is required"}
	}
	if c.APIEndpoint == "" {
		return &ConfigError{Field: "READSYNC_ENDPOINT", Message: "API endpoint is required"}
	}
	if c.PageSize <= 0 {
		return &ConfigError{Field: "READSYNC_PAGE_SIZE", Message: "page size must be positive"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrDefaultInt returns environment variable value as int or default if not set
func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
