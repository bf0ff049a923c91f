package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseStringSlice(t *testing.T) {
	assert.Equal(t, []string{}, parseStringSlice(""))
	assert.Equal(t, []string{"http://a", "http://b"}, parseStringSlice("http://a,,http://b,"))
}

func TestParseFallbacks(t *testing.T) {
	assert.True(t, parseBool("true", false))
	assert.False(t, parseBool("nope", false))
	assert.Equal(t, 7, parseInt("7", 30))
	assert.Equal(t, 30, parseInt("seven", 30))
	assert.Equal(t, 48.5, parseFloat("48.5", 0))
	assert.Equal(t, 5*time.Second, parseDuration("bad", 5*time.Second))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("REDIS_REQUIRED", "true")
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "10")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("ENV", "production")

	cfg := Load()
	assert.True(t, cfg.RedisRequired)
	assert.Equal(t, 10, cfg.NotificationRetentionDays)
	assert.True(t, cfg.UsesS3())
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
