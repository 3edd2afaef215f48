package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, 10*time.Minute, cfg.OrderTTL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("ORDER_TTL", "5m")
	t.Setenv("CONTACT_NUMBER", "628123456789")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, 30*time.Second, cfg.SweepInterval)
	assert.Equal(t, 5*time.Minute, cfg.OrderTTL)
	assert.Equal(t, "628123456789", cfg.ContactNumber)
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	t.Setenv("SWEEP_INTERVAL", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWEEP_INTERVAL")
}

func TestLoadRejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("ORDER_TTL", "-1m")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ORDER_TTL")
}
