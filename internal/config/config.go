package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	OpenAI     OpenAIConfig
	Telegram   TelegramConfig
	Maps       MapsConfig
	RealEstate RealEstateConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
}

// OpenAIConfig holds the completion service configuration
type OpenAIConfig struct {
	APIKey  string
	Model   string
	Timeout int // seconds
}

// TelegramConfig holds the bot transport configuration
type TelegramConfig struct {
	Token       string
	PollTimeout int // seconds
}

// MapsConfig holds the static map image configuration
type MapsConfig struct {
	APIKey string
}

// RealEstateConfig holds the listing feed and search base URLs
type RealEstateConfig struct {
	SearchBaseURL string
	FeedBaseURL   string
	ItemBaseURL   string
	FetchTimeout  int // seconds
}

// ServerConfig holds the HTTP API configuration
type ServerConfig struct {
	Port           int
	Host           string
	GinMode        string
	AllowedOrigins string
}

// DatabaseConfig holds the optional feedback store configuration.
// An empty DSN disables feedback recording.
type DatabaseConfig struct {
	DSN                string
	MaxConnections     int
	MaxIdleConnections int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Env   string
	Level string
}

// ConfigurationError reports required credentials missing at startup.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (optional)
	_ = godotenv.Load()

	cfg := &Config{
		OpenAI: OpenAIConfig{
			APIKey:  getEnv("OPENAI_API_KEY", ""),
			Model:   getEnv("OPENAI_CHAT_MODEL", "gpt-4o-2024-08-06"),
			Timeout: getEnvAsInt("OPENAI_TIMEOUT", 60),
		},
		Telegram: TelegramConfig{
			Token:       getEnv("TELEGRAM_BOT_TOKEN", ""),
			PollTimeout: getEnvAsInt("TELEGRAM_POLL_TIMEOUT", 10),
		},
		Maps: MapsConfig{
			APIKey: getEnv("GOOGLE_MAPS_API_KEY", ""),
		},
		RealEstate: RealEstateConfig{
			SearchBaseURL: getEnv("REALESTATE_SEARCH_BASE_URL", "https://www.yad2.co.il/realestate"),
			FeedBaseURL:   getEnv("REALESTATE_FEED_BASE_URL", "https://gw.yad2.co.il/realestate-feed"),
			ItemBaseURL:   getEnv("REALESTATE_ITEM_BASE_URL", "https://www.yad2.co.il/realestate/item"),
			FetchTimeout:  getEnvAsInt("REALESTATE_FETCH_TIMEOUT", 30),
		},
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			GinMode:        getEnv("GIN_MODE", "release"),
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			DSN:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("PG_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("PG_MAX_IDLE_CONNECTIONS", 2),
		},
		Logging: LoggingConfig{
			Env:   getEnv("LOG_ENV", "prod"),
			Level: getEnv("LOG_LEVEL", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that every required external credential is present.
// A missing credential is startup-fatal.
func (c *Config) Validate() error {
	var missing []string
	if c.OpenAI.APIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.Telegram.Token == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if c.Maps.APIKey == "" {
		missing = append(missing, "GOOGLE_MAPS_API_KEY")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return value
}
