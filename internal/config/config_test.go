package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/salon")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, 30*time.Minute, cfg.SlotGranularity)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 5, cfg.CalendarBreakerFailures)
	assert.Equal(t, 30*time.Second, cfg.CalendarBreakerTimeout)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SALON_TIMEZONE", "Asia/Taipei")
	t.Setenv("SLOT_GRANULARITY", "15m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "Asia/Taipei", cfg.Location.String())
	assert.Equal(t, 15*time.Minute, cfg.SlotGranularity)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{"DB_DSN": ""}},
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"bad ttl", map[string]string{"JWT_ACCESS_TOKEN_TTL": "soon"}},
		{"bad redis db", map[string]string{"REDIS_DB": "zero"}},
		{"bad timezone", map[string]string{"SALON_TIMEZONE": "Mars/Olympus"}},
		{"zero granularity", map[string]string{"SLOT_GRANULARITY": "0s"}},
		{"sub-minute granularity", map[string]string{"SLOT_GRANULARITY": "90s"}},
		{"negative idle ttl", map[string]string{"SESSION_IDLE_TTL": "-1m"}},
		{"bad breaker failures", map[string]string{"CALENDAR_BREAKER_FAILURES": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
