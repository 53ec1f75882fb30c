// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AuthMode selects how TMDB credentials are attached to requests
type AuthMode string

// Supported auth modes
const (
	AuthModeV3 AuthMode = "v3" // api_key query parameter
	AuthModeV4 AuthMode = "v4" // Authorization: Bearer header
)

const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p/w500"
	defaultTimeout      = 15 * time.Second
	defaultPort         = "8080"
)

// Config holds settings established once at startup
type Config struct {
	TMDBAPIKey       string
	TMDBAuthMode     AuthMode
	TMDBBaseURL      string
	TMDBImageBaseURL string
	TMDBTimeout      time.Duration
	Port             string
	LogFile          string
}

// ParseAuthMode normalizes an auth mode string and rejects unknown values
func ParseAuthMode(s string) (AuthMode, error) {
	switch mode := AuthMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case AuthModeV3, AuthModeV4:
		return mode, nil
	default:
		return "", fmt.Errorf("TMDB_AUTH_MODE must be 'v3' or 'v4', got %q", s)
	}
}

// Load reads a .env file if present, then builds the Config from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}
	return FromEnv()
}

// FromEnv builds the Config from the current environment without touching .env
func FromEnv() (*Config, error) {
	apiKey := os.Getenv("TMDB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("TMDB_API_KEY environment variable is required")
	}

	mode, err := ParseAuthMode(getEnv("TMDB_AUTH_MODE", string(AuthModeV4)))
	if err != nil {
		return nil, err
	}

	timeout := defaultTimeout
	if raw := os.Getenv("TMDB_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid TMDB_TIMEOUT_SECONDS %q", raw)
		}
		timeout = time.Duration(secs) * time.Second
	}

	return &Config{
		TMDBAPIKey:       apiKey,
		TMDBAuthMode:     mode,
		TMDBBaseURL:      strings.TrimRight(getEnv("TMDB_BASE_URL", defaultTMDBBaseURL), "/"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", defaultImageBaseURL),
		TMDBTimeout:      timeout,
		Port:             getEnv("PORT", defaultPort),
		LogFile:          os.Getenv("LOG_FILE"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
