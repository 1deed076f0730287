// Package config provides configuration loading from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/tilde-nya/akixi/internal/preview"
	"github.com/tilde-nya/akixi/pkg/akixi"
)

// Query and cache defaults
const (
	DefaultQueryMaxResultsValue = 1000
	DefaultQueryCacheSizeValue  = 128
)

// Config holds all configuration for the Akixi CLI and MCP server.
type Config struct {
	Host              string        // AKIXI_HOST, e.g. "acme" for acme.akixi.com
	Username          string        // AKIXI_USERNAME
	Password          string        // AKIXI_PASSWORD
	Locale            string        // AKIXI_LOCALE, default "en_GB"
	BaseURL           string        // AKIXI_BASE_URL, overrides the URL derived from AKIXI_HOST
	HTTPClientTimeout time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 30000ms (30s)

	// Report result processing
	QueryMaxResults int // QUERY_MAX_RESULTS, default 1000
	QueryCacheSize  int // QUERY_CACHE_SIZE, compiled jq expressions kept, default 128

	// Compaction defaults for displayed results
	CompactMaxArrayItems int // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int // COMPACT_MAX_STRING_LEN
	CompactMaxDepth      int // COMPACT_MAX_DEPTH

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Host:              getEnvString("AKIXI_HOST", ""),
		Username:          getEnvString("AKIXI_USERNAME", ""),
		Password:          getEnvString("AKIXI_PASSWORD", ""),
		Locale:            getEnvString("AKIXI_LOCALE", akixi.DefaultLocale),
		BaseURL:           getEnvString("AKIXI_BASE_URL", ""),
		HTTPClientTimeout: getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", int(akixi.DefaultTimeout/time.Millisecond)),

		QueryMaxResults: getEnvInt("QUERY_MAX_RESULTS", DefaultQueryMaxResultsValue),
		QueryCacheSize:  getEnvInt("QUERY_CACHE_SIZE", DefaultQueryCacheSizeValue),

		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", preview.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", preview.DefaultMaxStringLen),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", preview.DefaultMaxDepth),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// Validate reports missing credentials and malformed values.
func (c *Config) Validate() error {
	var errs []error
	if c.Host == "" && c.BaseURL == "" {
		errs = append(errs, errors.New("AKIXI_HOST or AKIXI_BASE_URL is required"))
	}
	if c.Username == "" {
		errs = append(errs, errors.New("AKIXI_USERNAME is required"))
	}
	if c.Password == "" {
		errs = append(errs, errors.New("AKIXI_PASSWORD is required"))
	}
	if _, err := ParseLocale(c.Locale); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParseLocale parses an Akixi locale such as "en_GB" into a language tag.
func ParseLocale(locale string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("invalid AKIXI_LOCALE %q: %w", locale, err)
	}
	return tag, nil
}

// SessionOptions returns the client options described by the configuration.
func (c *Config) SessionOptions() []akixi.Option {
	opts := []akixi.Option{
		akixi.WithLocale(c.Locale),
		akixi.WithTimeout(c.HTTPClientTimeout),
	}
	if c.BaseURL != "" {
		opts = append(opts, akixi.WithBaseURL(c.BaseURL))
	}
	return opts
}

// CompactOptions returns the result compaction settings.
func (c *Config) CompactOptions() *preview.Options {
	return &preview.Options{
		MaxArrayItems: c.CompactMaxArrayItems,
		MaxStringLen:  c.CompactMaxStringLen,
		MaxDepth:      c.CompactMaxDepth,
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
