// Package config loads and validates server configuration from
// environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

const (
	defaultPort          = 3000
	defaultMaxUploadSize = 10 << 20 // 10 MiB
)

// Config holds every tunable of the file-sharing server.
type Config struct {
	// HTTP listen port (PORT)
	Port int
	// Directory holding uploaded blobs (DATA_DIR)
	DataDir string
	// Path of the JSON metadata document (METADATA_PATH)
	MetadataPath string
	// Maximum accepted upload body size in bytes (MAX_UPLOAD_SIZE)
	MaxUploadSize int64
	// Metadata backend: "json" or "sqlite" (STORE_BACKEND)
	StoreBackend string
	// Path of the sqlite database, used when StoreBackend is "sqlite" (SQLITE_PATH)
	SQLitePath string
	// Log level (LOG_LEVEL: debug, info, warn, error)
	LogLevel slog.Level
	// Log format (LOG_FORMAT: text, json)
	LogFormat string
}

// Load reads configuration from the environment, applies defaults and
// validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	port, err := getEnvInt("PORT", defaultPort)
	if err != nil {
		return nil, fmt.Errorf("PORT: %w", err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("PORT: %d is out of range", port)
	}
	cfg.Port = port

	cfg.DataDir = getEnvDefault("DATA_DIR", "data/uploads")
	cfg.MetadataPath = getEnvDefault("METADATA_PATH", "data/files.json")

	maxSize, err := getEnvInt64("MAX_UPLOAD_SIZE", defaultMaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE: %w", err)
	}
	if maxSize <= 0 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE: must be positive, got %d", maxSize)
	}
	cfg.MaxUploadSize = maxSize

	cfg.StoreBackend = getEnvDefault("STORE_BACKEND", "json")
	if cfg.StoreBackend != "json" && cfg.StoreBackend != "sqlite" {
		return nil, fmt.Errorf("STORE_BACKEND: unknown backend %q, expected json or sqlite", cfg.StoreBackend)
	}
	cfg.SQLitePath = getEnvDefault("SQLITE_PATH", "data/fileshare.db")

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	cfg.LogFormat = getEnvDefault("LOG_FORMAT", "text")
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT: unknown format %q, expected text or json", cfg.LogFormat)
	}

	return cfg, nil
}

func getEnvDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func getEnvInt64(key string, def int64) (int64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", v)
	}
	return n, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch s {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown level %q", s)
}
