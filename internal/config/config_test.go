package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"loanflow/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost user=loanflow dbname=loanflow")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("COLD_CASE_THRESHOLD_HOURS", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, models.DefaultColdThresholdHours, cfg.ColdThresholdHours)
}

func TestLoadThresholdOverride(t *testing.T) {
	t.Setenv("DB_DSN", "host=localhost user=loanflow dbname=loanflow")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("COLD_CASE_THRESHOLD_HOURS", "72")

	cfg := Load()

	assert.Equal(t, 72, cfg.ColdThresholdHours)
}
