package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string
	Environment        string
	Database           DatabaseConfig
	Facebook           FacebookConfig
	JWTSecret          string
	WebhookVerifyToken string // WEBHOOKS_VERIFY_TOKEN: handshake secret for GET /api/webhooks/chatbot
	OrderLinkBaseURL   string // base URL of the storefront, used in chatbot order deep links
	LogLevel           string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// FacebookConfig is used to call the Graph API (profile lookup, Send API, page feed)
type FacebookConfig struct {
	AppID           string
	AppSecret       string
	PageAccessToken string
	GraphAPIVersion string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8000"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "weliveapp"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Facebook: FacebookConfig{
			AppID:           strings.TrimSpace(getEnvOrViper("FB_APP_ID", "")),
			AppSecret:       strings.TrimSpace(getEnvOrViper("FB_APP_SECRET", "")),
			PageAccessToken: strings.TrimSpace(getEnvOrViper("PAGE_ACCESS_TOKEN", "")),
			GraphAPIVersion: getEnvOrViper("FB_GRAPH_API_VERSION", "v20.0"),
		},
		JWTSecret:          strings.TrimSpace(getEnvOrViper("JWT_SECRET", "")),
		WebhookVerifyToken: strings.TrimSpace(getEnvOrViper("WEBHOOKS_VERIFY_TOKEN", "message001")),
		OrderLinkBaseURL:   strings.TrimSuffix(getEnvOrViper("ORDER_LINK_BASE_URL", "https://weliveapp.netlify.app"), "/"),
		LogLevel:           getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Facebook.PageAccessToken == "" {
		return nil, fmt.Errorf("PAGE_ACCESS_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
