package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("OVERDUE_CHECK_INTERVAL", "")

	cfg := Load()

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "password", cfg.AuthMode)
	assert.Equal(t, time.Hour, cfg.OverdueCheckInterval)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("AUTH_MODE", "bypass")
	t.Setenv("OVERDUE_CHECK_INTERVAL", "15m")

	cfg := Load()

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "bypass", cfg.AuthMode)
	assert.Equal(t, 15*time.Minute, cfg.OverdueCheckInterval)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("OVERDUE_CHECK_INTERVAL", "soon")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.OverdueCheckInterval)
}
