// Package config reads process configuration from the environment.
// Binaries call godotenv.Load before Load so a local .env file is honoured.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode,
	)
}

type SMTPConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	From     string
	FromName string
}

type Config struct {
	AppEnv             string
	Port               string
	DB                 DBConfig
	RedisAddr          string
	KafkaBroker        string
	JWTSecret          string
	SiteURL            string
	SMTP               SMTPConfig
	PayrollDefaultDays int
	// PayrollLocation decides which calendar date counts as "today" for payroll windows.
	PayrollLocation    *time.Location
	OutboxPollInterval time.Duration
	ConnectRetries     int
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func Load() Config {
	return Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     getEnv("DB_NAME", "pharmacy_hr"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		SiteURL:     getEnv("SITE_URL", "http://localhost:3000"),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnv("SMTP_PORT", "587"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			FromName: getEnv("SMTP_FROM_NAME", "Pharmacy HR"),
		},
		PayrollDefaultDays: getEnvInt("PAYROLL_DEFAULT_DAYS", 30),
		PayrollLocation:    getEnvLocation("PAYROLL_TZ", "Asia/Seoul"),
		OutboxPollInterval: getEnvDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
		ConnectRetries:     getEnvInt("CONNECT_RETRIES", 5),
	}
}

// Require reports the first missing value among the named settings.
func (c Config) Require(names ...string) error {
	values := map[string]string{
		"JWT_SECRET":   c.JWTSecret,
		"REDIS_ADDR":   c.RedisAddr,
		"KAFKA_BROKER": c.KafkaBroker,
		"SMTP_HOST":    c.SMTP.Host,
		"SMTP_FROM":    c.SMTP.From,
		"DB_PASSWORD":  c.DB.Password,
	}
	for _, name := range names {
		if values[name] == "" {
			return fmt.Errorf("%s is required", name)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// getEnvLocation falls back to UTC when the zone name is unknown.
func getEnvLocation(key, fallback string) *time.Location {
	loc, err := time.LoadLocation(getEnv(key, fallback))
	if err != nil {
		return time.UTC
	}
	return loc
}
