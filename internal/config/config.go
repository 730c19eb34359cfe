// Package config loads the application's configuration from the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application's configuration values. It is constructed once
// at process start and passed by reference; nothing reads the environment
// after loading.
type Config struct {
	ServerPort    string
	GroqAPIKey    string
	GroqBaseURL   string
	ModelName     string
	Temperature   float64
	LLMTimeout    time.Duration
	DBPath        string
	AllowedOrigin string
	LogLevel      slog.Level
	LogFormat     string
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. The Groq API key is
// the only required value; without it the service refuses to start.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("MODEL_NAME", "llama3-70b-8192")
	v.SetDefault("TEMPERATURE", 0.3)
	v.SetDefault("LLM_TIMEOUT_SECONDS", 60)
	v.SetDefault("DB_PATH", "data/reviews.db")
	v.SetDefault("ALLOWED_ORIGIN", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	if err := v.ReadInConfig(); err != nil {
		// A missing .env is fine, an unreadable one is not. With an explicit
		// config file viper reports the miss as a path error, not as its
		// ConfigFileNotFoundError.
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to read .env file, continuing with environment only", "error", err)
		}
	}

	if v.GetString("GROQ_API_KEY") == "" {
		return nil, fmt.Errorf("GROQ_API_KEY must be set")
	}

	timeout := v.GetInt("LLM_TIMEOUT_SECONDS")
	if timeout <= 0 {
		return nil, fmt.Errorf("LLM_TIMEOUT_SECONDS must be positive, got %d", timeout)
	}

	temperature := v.GetFloat64("TEMPERATURE")
	if temperature < 0 || temperature > 2 {
		return nil, fmt.Errorf("TEMPERATURE must be in [0, 2], got %v", temperature)
	}

	return &Config{
		ServerPort:    v.GetString("SERVER_PORT"),
		GroqAPIKey:    v.GetString("GROQ_API_KEY"),
		GroqBaseURL:   strings.TrimRight(v.GetString("GROQ_BASE_URL"), "/"),
		ModelName:     v.GetString("MODEL_NAME"),
		Temperature:   temperature,
		LLMTimeout:    time.Duration(timeout) * time.Second,
		DBPath:        v.GetString("DB_PATH"),
		AllowedOrigin: v.GetString("ALLOWED_ORIGIN"),
		LogLevel:      parseLogLevel(v.GetString("LOG_LEVEL")),
		LogFormat:     v.GetString("LOG_FORMAT"),
	}, nil
}

// parseLogLevel maps a level string onto slog.Level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		return slog.LevelInfo
	default:
		slog.Warn("unrecognized log level, defaulting to info", "provided", s)
		return slog.LevelInfo
	}
}
