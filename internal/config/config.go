package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// Resolution strategy names accepted by RESOLUTION_STRATEGY
var knownStrategies = []string{"exact", "threshold", "combined"}

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	FetchTimeout       time.Duration
	EvaluationTimeout  time.Duration
	MaxUploadSize      int64
	Workers            int
	ResolutionStrategy string
	AllowLocalPaths    bool
	LogLevel           string

	AzureStorageAccount string
	AzureStorageKey     string
}

func (c *Config) ServerAddress() string {
	// Trim any whitespace from host and port
	host := strings.TrimSpace(c.Host)
	port := strings.TrimSpace(c.Port)
	return net.JoinHostPort(host, port)
}

// AzureEnabled reports whether blob storage credentials are configured
func (c *Config) AzureEnabled() bool {
	return c.AzureStorageAccount != "" && c.AzureStorageKey != ""
}

func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		Port:                getEnvOrDefault("PORT", "8080"),
		RequestTimeout:      parseDurationOrDefault("REQUEST_TIMEOUT", 30*time.Second),
		FetchTimeout:        parseDurationOrDefault("FETCH_TIMEOUT", 15*time.Second),
		EvaluationTimeout:   parseDurationOrDefault("EVALUATION_TIMEOUT", 20*time.Second),
		MaxUploadSize:       parseIntOrDefault("MAX_UPLOAD_SIZE", 32*1024*1024), // 32MB
		Workers:             int(parseIntOrDefault("WORKERS", 0)),
		ResolutionStrategy:  strings.ToLower(getEnvOrDefault("RESOLUTION_STRATEGY", "combined")),
		AllowLocalPaths:     parseBoolOrDefault("ALLOW_LOCAL_PATHS", false),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		AzureStorageAccount: os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AzureStorageKey:     os.Getenv("AZURE_STORAGE_KEY"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	p, err := strconv.Atoi(strings.TrimSpace(c.Port))
	if err != nil || p < 1 || p > 65535 {
		return fmt.Errorf("invalid PORT: %q", c.Port)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be > 0 (got %d)", c.MaxUploadSize)
	}
	if c.RequestTimeout <= 0 || c.FetchTimeout <= 0 || c.EvaluationTimeout <= 0 {
		return fmt.Errorf("timeouts must be > 0 (got request=%s, fetch=%s, evaluation=%s)",
			c.RequestTimeout, c.FetchTimeout, c.EvaluationTimeout)
	}
	if c.Workers < 0 {
		return fmt.Errorf("WORKERS must be >= 0 (got %d)", c.Workers)
	}
	if !isKnownStrategy(c.ResolutionStrategy) {
		return fmt.Errorf("RESOLUTION_STRATEGY must be one of %s (got %q)",
			strings.Join(knownStrategies, ", "), c.ResolutionStrategy)
	}
	if (c.AzureStorageAccount == "") != (c.AzureStorageKey == "") {
		return fmt.Errorf("AZURE_STORAGE_ACCOUNT and AZURE_STORAGE_KEY must be set together")
	}
	return nil
}

func isKnownStrategy(name string) bool {
	for _, s := range knownStrategies {
		if s == name {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}
