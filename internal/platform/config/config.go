package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// GetEnvBool returns the boolean value of key as understood by strconv.ParseBool,
// or fallback if the variable is unset, empty, or not a valid boolean.
func GetEnvBool(key string, fallback bool) bool {
	if s := os.Getenv(key); s != "" {
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return fallback
}

// GetEnvFloat returns the float value of key, or fallback if the variable is
// unset, empty, or not a valid number.
func GetEnvFloat(key string, fallback float64) float64 {
	if s := os.Getenv(key); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Tracker is the environment-derived configuration of the tracker service.
type Tracker struct {
	Port      string
	LogLevel  string
	LogFormat string

	LogMediaEvents       bool
	LogPageEvents        bool
	ExcludeAdBreaks      bool
	ContentCompleteLimit float64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string
}

// FromEnv reads the tracker configuration from the environment.
func FromEnv() Tracker {
	return Tracker{
		Port:                 GetEnv("PORT", "8080"),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogFormat:            GetEnv("LOG_FORMAT", "json"),
		LogMediaEvents:       GetEnvBool("LOG_MEDIA_EVENTS", true),
		LogPageEvents:        GetEnvBool("LOG_PAGE_EVENTS", false),
		ExcludeAdBreaks:      GetEnvBool("EXCLUDE_AD_BREAKS_FROM_CONTENT_TIME", false),
		ContentCompleteLimit: GetEnvFloat("MEDIA_CONTENT_COMPLETE_LIMIT", 100),
		RedisAddr:            GetEnv("REDIS_ADDR", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		RedisDB:              GetEnvInt("REDIS_DB", 0),
		RedisChannel:         GetEnv("REDIS_CHANNEL", "media:events"),
	}
}
