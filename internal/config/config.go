// Package config loads process-level settings from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	GeminiAPIKey    string
	GeminiModel     string
	GeminiGrounding bool

	SpotifyClientID     string
	SpotifyClientSecret string

	// AllowedOrigins is the browser CORS allow-list. "*" allows any origin.
	AllowedOrigins []string

	CachePath string

	AITimeout      time.Duration
	CatalogTimeout time.Duration

	WorkerCount int
	WorkerQueue int
}

func Load() (Config, error) {
	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiGrounding: getEnvBool("GEMINI_GROUNDING", false),
		AllowedOrigins:  splitOrigins(getEnv("ALLOWED_ORIGINS", "*")),
		CachePath:       getEnv("CACHE_PATH", "snapsong.db"),
		AITimeout:       time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 60)) * time.Second,
		CatalogTimeout:  time.Duration(getEnvInt("CATALOG_TIMEOUT_SECONDS", 8)) * time.Second,
		WorkerCount:     getEnvInt("WORKER_COUNT", 2),
		WorkerQueue:     getEnvInt("WORKER_QUEUE", 100),
	}

	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	cfg.SpotifyClientID = strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_ID"))
	cfg.SpotifyClientSecret = strings.TrimSpace(os.Getenv("SPOTIFY_CLIENT_SECRET"))

	switch {
	case cfg.GeminiAPIKey == "":
		return Config{}, errors.New("GOOGLE_API_KEY is required")
	case cfg.SpotifyClientID == "":
		return Config{}, errors.New("SPOTIFY_CLIENT_ID is required")
	case cfg.SpotifyClientSecret == "":
		return Config{}, errors.New("SPOTIFY_CLIENT_SECRET is required")
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}
	if cfg.WorkerQueue < 1 {
		cfg.WorkerQueue = 1
	}
	if cfg.AITimeout <= 0 {
		cfg.AITimeout = 60 * time.Second
	}
	if cfg.CatalogTimeout <= 0 {
		cfg.CatalogTimeout = 8 * time.Second
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
