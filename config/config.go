package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"campaign_ai_server/internal/ai"
)

// Config holds all configuration for the application.
// Mapstructure tags are used to map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"
	AppEnv        string `mapstructure:"APP_ENV"`        // "production" switches gin and zap to release mode
	LogLevel      string `mapstructure:"LOG_LEVEL"`      // debug, info, warn, error

	// AI Configuration
	APIKey         string        `mapstructure:"API_KEY"`        // credential for the text-generation endpoint
	ModelID        string        `mapstructure:"AI_MODEL_ID"`    // e.g., "gemini-2.5-flash"
	BaseURL        string        `mapstructure:"AI_BASE_URL"`    // OpenAI-compatible endpoint root
	Temperature    float32       `mapstructure:"AI_TEMPERATURE"` // sampling temperature
	RequestTimeout time.Duration `mapstructure:"AI_TIMEOUT"`     // upper bound for one generation call

	// Form sessions
	SessionTTL time.Duration `mapstructure:"SESSION_TTL"` // idle time before a session is dropped

	// Rate limiting (disabled when REDIS_URL is empty)
	RedisURL           string `mapstructure:"REDIS_URL"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"`

	// ConfigFile is the file that was read, empty when only the environment was used.
	ConfigFile string `mapstructure:"-"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":        ":8080",
	"APP_ENV":               "development",
	"LOG_LEVEL":             "info",
	"API_KEY":               "",
	"AI_MODEL_ID":           ai.DefaultModel,
	"AI_BASE_URL":           ai.DefaultBaseURL,
	"AI_TEMPERATURE":        0.7,
	"AI_TIMEOUT":            "90s",
	"SESSION_TTL":           "30m",
	"REDIS_URL":             "",
	"RATE_LIMIT_PER_MINUTE": 30,
}

// LoadConfig reads configuration from file and environment variables.
// Environment variables win over config.yaml.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)     // Path to look for the config file in
	v.SetConfigName("config") // Name of config file (without extension)
	v.SetConfigType("yaml")   // REQUIRED if the config file does not have the extension in the name

	// Unmarshal only sees keys viper knows about, so every key gets a default.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.ConfigFile = v.ConfigFileUsed()

	if config.RateLimitPerMinute < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", config.RateLimitPerMinute)
	}
	return config, nil
}

// IsProduction reports whether APP_ENV is "production".
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Generator returns the slice of the config the campaign generator needs.
func (c Config) Generator() ai.Config {
	return ai.Config{
		APIKey:      c.APIKey,
		Model:       c.ModelID,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		Timeout:     c.RequestTimeout,
	}
}

// Validate logs settings that leave parts of the service unusable. A missing
// API_KEY is not fatal: each generation request reports it instead.
func (c Config) Validate(log *zap.Logger) {
	if c.ConfigFile == "" {
		log.Info("config file not found, relying solely on environment variables")
	} else {
		log.Info("using configuration file", zap.String("file", c.ConfigFile))
	}
	if c.APIKey == "" {
		log.Warn("API_KEY is not set, generation requests will fail with a configuration error")
	}
	if c.RedisURL == "" {
		log.Info("REDIS_URL is not set, rate limiting disabled")
	}
}
