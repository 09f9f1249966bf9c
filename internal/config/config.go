package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // timezone database for hosts without one

	"scadenziario/internal/ledger"
	"scadenziario/internal/logger"
)

const dateLayout = "2006-01-02"

type Config struct {
	// Calendar Configuration
	Timezone string // IANA zone used to decide which calendar day "today" is
	Today    string // Optional fixed date (YYYY-MM-DD) replacing the wall clock

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string

	location *time.Location
	today    time.Time
}

func Load() (*Config, error) {
	config := &Config{
		Timezone:      getEnv("SCADENZIARIO_TIMEZONE", "Europe/Rome"),
		Today:         getEnv("SCADENZIARIO_TODAY", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when Load fails
func Default() *Config {
	return &Config{
		Timezone:      "Local",
		LogLevel:      "info",
		LogFormat:     "console",
		LogTimeFormat: time.RFC3339,
		LogOutput:     "stderr",
		location:      time.Local,
	}
}

func (c *Config) validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("SCADENZIARIO_TIMEZONE %q is not a known timezone: %w", c.Timezone, err)
	}
	c.location = loc

	if err := c.SetToday(c.Today); err != nil {
		return fmt.Errorf("SCADENZIARIO_TODAY: %w", err)
	}
	return nil
}

// SetToday fixes the evaluation date; an empty value restores the wall clock
func (c *Config) SetToday(value string) error {
	if value == "" {
		c.Today = ""
		c.today = time.Time{}
		return nil
	}

	today, err := time.ParseInLocation(dateLayout, value, c.Location())
	if err != nil {
		return fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", value, err)
	}
	c.Today = value
	c.today = today
	return nil
}

// Location returns the configured timezone
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

// Clock returns the clock status calculations run against
func (c *Config) Clock() ledger.Clock {
	if !c.today.IsZero() {
		return ledger.FixedClock(c.today)
	}
	return time.Now
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
