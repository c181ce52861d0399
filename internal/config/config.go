// Package config reads clipfinder settings from .env files and the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultAPIURL               = "https://api.twitch.tv/helix"
	DefaultTokenURL             = "https://id.twitch.tv/oauth2/token"
	DefaultSearchConcurrency    = 20
	DefaultThumbnailConcurrency = 20
	DefaultDownloadConcurrency  = 5
	DefaultRequestTimeout       = 10 * time.Second
	DefaultRateLimitRPS         = 13.0
)

// Config is the process configuration. Command-line flags override it.
type Config struct {
	ClientID     string
	ClientSecret string
	APIURL       string
	TokenURL     string
	ConfigDir    string

	SearchConcurrency    int
	ThumbnailConcurrency int
	DownloadConcurrency  int
	RequestTimeout       time.Duration
	RateLimitRPS         float64

	YTDLPBinary  string
	RedisURL     string
	LogLevel     string
	LogFormat    string
	OTLPEndpoint string
}

// Load reads the given .env files into the environment. Variables that are
// already set win. Missing files are ignored; with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	return Config{
		ClientID:     strings.TrimSpace(os.Getenv("TWITCH_CLIENT_ID")),
		ClientSecret: strings.TrimSpace(os.Getenv("TWITCH_CLIENT_SECRET")),
		APIURL:       GetEnv("CLIPFINDER_API_URL", DefaultAPIURL),
		TokenURL:     GetEnv("CLIPFINDER_TOKEN_URL", DefaultTokenURL),
		ConfigDir:    ConfigDir(),

		SearchConcurrency:    GetEnvInt("CLIPFINDER_SEARCH_CONCURRENCY", DefaultSearchConcurrency),
		ThumbnailConcurrency: GetEnvInt("CLIPFINDER_THUMBNAIL_CONCURRENCY", DefaultThumbnailConcurrency),
		DownloadConcurrency:  GetEnvInt("CLIPFINDER_DOWNLOAD_CONCURRENCY", DefaultDownloadConcurrency),
		RequestTimeout:       time.Duration(GetEnvInt("CLIPFINDER_REQUEST_TIMEOUT_SECONDS", int(DefaultRequestTimeout/time.Second))) * time.Second,
		RateLimitRPS:         GetEnvFloat("CLIPFINDER_RATE_LIMIT_RPS", DefaultRateLimitRPS),

		YTDLPBinary:  GetEnv("CLIPFINDER_YTDLP", "yt-dlp"),
		RedisURL:     strings.TrimSpace(os.Getenv("CLIPFINDER_REDIS_URL")),
		LogLevel:     GetEnv("LOG_LEVEL", "warn"),
		LogFormat:    GetEnv("LOG_FORMAT", "text"),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}
}

// ConfigDir returns the configuration directory path.
func ConfigDir() string {
	if dir := os.Getenv("CLIPFINDER_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "clipfinder")
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, not a valid integer or not positive.
func GetEnvInt(key string, fallback int) int {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// GetEnvFloat is GetEnvInt for floating point values. Zero is accepted.
func GetEnvFloat(key string, fallback float64) float64 {
	if s := strings.TrimSpace(os.Getenv(key)); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
			return f
		}
	}
	return fallback
}
