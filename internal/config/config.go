package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adamjhf/timeboxd/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port              string
	DBPath            string
	TMDBAPIKey        string
	TMDBBaseURL       string
	LetterboxdBaseURL string
	FilmTTL           time.Duration
	ReleaseTTL        time.Duration
	ProviderTTL       time.Duration
	TMDBRPS           float64
	TMDBBurst         int
	MaxConcurrent     int
	FallbackCountries []string
	RecencyWindowDays int
	ScrapeDelay       time.Duration
	LogLevel          string
	LogFormat         string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:              getEnv("PORT", constants.DefaultPort),
		DBPath:            getEnv("DB_PATH", constants.DefaultDBPath),
		TMDBAPIKey:        getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:       getEnv("TMDB_BASE_URL", constants.DefaultTMDBBaseURL),
		LetterboxdBaseURL: getEnv("LETTERBOXD_BASE_URL", constants.DefaultLetterboxdBaseURL),
		FilmTTL:           time.Duration(getEnvInt("FILM_TTL_DAYS", int(constants.DefaultFilmTTL/(24*time.Hour)))) * 24 * time.Hour,
		ReleaseTTL:        time.Duration(getEnvInt("RELEASE_TTL_HOURS", int(constants.DefaultReleaseTTL/time.Hour))) * time.Hour,
		ProviderTTL:       time.Duration(getEnvInt("PROVIDER_TTL_HOURS", int(constants.DefaultProviderTTL/time.Hour))) * time.Hour,
		TMDBRPS:           float64(getEnvInt("TMDB_RPS", constants.DefaultTMDBRPS)),
		TMDBBurst:         getEnvInt("TMDB_BURST", constants.DefaultTMDBBurst),
		MaxConcurrent:     getEnvInt("MAX_CONCURRENT", constants.DefaultConcurrency),
		FallbackCountries: splitCountries(getEnv("FALLBACK_COUNTRIES", constants.DefaultFallbackCountry)),
		RecencyWindowDays: getEnvInt("RECENCY_WINDOW_DAYS", constants.DefaultRecencyWindowDays),
		ScrapeDelay:       time.Duration(getEnvInt("LETTERBOXD_DELAY_MS", int(constants.DefaultScrapeDelay/time.Millisecond))) * time.Millisecond,
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DBPath
	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	// Validate TMDBAPIKey
	if c.TMDBAPIKey == "" {
		errors = append(errors, "TMDB_API_KEY cannot be empty")
	}

	// Validate TMDBBaseURL
	if c.TMDBBaseURL == "" {
		errors = append(errors, "TMDB_BASE_URL cannot be empty")
	} else {
		if _, err := url.Parse(c.TMDBBaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("TMDB_BASE_URL is not a valid URL: %s", c.TMDBBaseURL))
		}
	}

	// Validate TTLs
	if c.FilmTTL <= 0 {
		errors = append(errors, "FILM_TTL_DAYS must be positive")
	}
	if c.ReleaseTTL <= 0 {
		errors = append(errors, "RELEASE_TTL_HOURS must be positive")
	}
	if c.ProviderTTL <= 0 {
		errors = append(errors, "PROVIDER_TTL_HOURS must be positive")
	}

	// Validate rate limit settings
	if c.TMDBRPS <= 0 {
		errors = append(errors, "TMDB_RPS must be positive")
	}
	if c.TMDBBurst < 1 {
		errors = append(errors, "TMDB_BURST must be at least 1")
	}

	// Validate MaxConcurrent
	if c.MaxConcurrent < 1 {
		errors = append(errors, "MAX_CONCURRENT must be at least 1")
	}

	// Validate FallbackCountries
	for _, country := range c.FallbackCountries {
		if !validCountryCode(country) {
			errors = append(errors, fmt.Sprintf("FALLBACK_COUNTRIES entries must be 2-letter codes, got: %s", country))
		}
	}

	// Validate RecencyWindowDays
	if c.RecencyWindowDays < 0 {
		errors = append(errors, "RECENCY_WINDOW_DAYS cannot be negative")
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func validCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func splitCountries(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
