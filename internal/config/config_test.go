package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AKIXI_HOST", "")
	t.Setenv("AKIXI_LOCALE", "")
	t.Setenv("HTTP_CLIENT_TIMEOUT_MS", "")
	t.Setenv("LOG_COMPRESS", "")

	cfg := Load()
	assert.Equal(t, "en_GB", cfg.Locale)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, DefaultQueryMaxResultsValue, cfg.QueryMaxResults)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("AKIXI_HOST", "acme")
	t.Setenv("AKIXI_USERNAME", "alice")
	t.Setenv("AKIXI_PASSWORD", "secret")
	t.Setenv("AKIXI_LOCALE", "en_US")
	t.Setenv("HTTP_CLIENT_TIMEOUT_MS", "1500")
	t.Setenv("QUERY_CACHE_SIZE", "not-a-number")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()
	assert.Equal(t, "acme", cfg.Host)
	assert.Equal(t, "en_US", cfg.Locale)
	assert.Equal(t, 1500*time.Millisecond, cfg.HTTPClientTimeout)
	assert.Equal(t, DefaultQueryCacheSizeValue, cfg.QueryCacheSize)
	assert.False(t, cfg.LogCompress)
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.SessionOptions(), 2)
}

func TestValidate_MissingCredentials(t *testing.T) {
	cfg := &Config{Locale: "en_GB"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AKIXI_HOST")
	assert.Contains(t, err.Error(), "AKIXI_USERNAME")
	assert.Contains(t, err.Error(), "AKIXI_PASSWORD")
}

func TestValidate_BaseURLReplacesHost(t *testing.T) {
	cfg := &Config{BaseURL: "http://localhost:9000/CCS/API/v1", Username: "u", Password: "p", Locale: "en_GB"}
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.SessionOptions(), 3)
}

func TestParseLocale(t *testing.T) {
	tag, err := ParseLocale("en_GB")
	require.NoError(t, err)
	assert.Equal(t, language.BritishEnglish, tag)

	_, err = ParseLocale("not a locale!")
	assert.Error(t, err)
}
