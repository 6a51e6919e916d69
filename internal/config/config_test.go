package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("PAYROLL_DEFAULT_DAYS", "14")
	t.Setenv("OUTBOX_POLL_INTERVAL", "500ms")
	t.Setenv("CONNECT_RETRIES", "-1")
	t.Setenv("KAFKA_BROKER", "")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 14, cfg.PayrollDefaultDays)
	assert.Equal(t, "Asia/Seoul", cfg.PayrollLocation.String())
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 5, cfg.ConnectRetries)
	assert.Equal(t, "host=db user=postgres password=secret dbname=pharmacy_hr port=5432 sslmode=disable", cfg.DB.DSN())

	assert.NoError(t, cfg.Require("DB_PASSWORD"))
	assert.EqualError(t, cfg.Require("DB_PASSWORD", "KAFKA_BROKER"), "KAFKA_BROKER is required")
}

func TestLoad_PayrollLocation(t *testing.T) {
	t.Setenv("PAYROLL_TZ", "Europe/Berlin")
	assert.Equal(t, "Europe/Berlin", Load().PayrollLocation.String())

	t.Setenv("PAYROLL_TZ", "Mars/Olympus")
	assert.Equal(t, time.UTC, Load().PayrollLocation)
}
