// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// RedisURL is the Redis connection URL used by the country cache. Required.
	RedisURL string

	// AuthURL is the base URL of the identity provider's auth API
	// (e.g. https://<project>.supabase.co/auth/v1). Required.
	AuthURL string

	// AuthAPIKey is the identity provider API key sent with every auth call. Required.
	AuthAPIKey string

	// S3Endpoint is the host[:port] of the S3-compatible object store. Required.
	S3Endpoint string

	// S3Region is the bucket region. May be empty for MinIO deployments.
	S3Region string

	// S3Bucket is the bucket holding destination images. Required.
	S3Bucket string

	// S3AccessKey and S3SecretKey are the object store credentials. Required.
	S3AccessKey string
	S3SecretKey string

	// S3UseSSL controls whether object store connections use TLS. Defaults to true.
	S3UseSSL bool

	// UnsplashAccessKey is the Unsplash API key. Optional: when empty the
	// photo search endpoint reports a configuration error instead of failing
	// the whole process at startup.
	UnsplashAccessKey string

	// FrontendURL is the base URL password-reset emails redirect back to.
	// Defaults to "http://localhost:3000".
	FrontendURL string
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CORSOrigins:       splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		S3Region:          os.Getenv("S3_REGION"),
		S3UseSSL:          getBoolEnv("S3_USE_SSL", true),
		UnsplashAccessKey: os.Getenv("UNSPLASH_ACCESS_KEY"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	var missing []string
	for _, v := range []struct {
		key string
		dst *string
	}{
		{"DATABASE_URL", &cfg.DatabaseURL},
		{"REDIS_URL", &cfg.RedisURL},
		{"AUTH_URL", &cfg.AuthURL},
		{"AUTH_API_KEY", &cfg.AuthAPIKey},
		{"S3_ENDPOINT", &cfg.S3Endpoint},
		{"S3_BUCKET", &cfg.S3Bucket},
		{"S3_ACCESS_KEY", &cfg.S3AccessKey},
		{"S3_SECRET_KEY", &cfg.S3SecretKey},
	} {
		*v.dst = os.Getenv(v.key)
		if *v.dst == "" {
			missing = append(missing, v.key)
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getBoolEnv parses the named variable as a bool, returning fallback when the
// variable is unset or unparsable.
func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
