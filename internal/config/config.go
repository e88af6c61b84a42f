// Package config holds the service configuration. Values come from command
// line flags or environment variables (optionally seeded from a .env file)
// and are validated once at startup; the resulting Config is passed to the
// components that need it and never changed afterwards.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/lox/whattowear/internal/models"
)

// Secret is a string that never prints its value.
type Secret string

func (s Secret) String() string {
	if s == "" {
		return ""
	}
	return "[REDACTED]"
}

func (s Secret) LogValue() slog.Value { return slog.StringValue(s.String()) }

// Reveal returns the underlying value.
func (s Secret) Reveal() string { return string(s) }

// Config is the top-level configuration.
type Config struct {
	Port        string `help:"HTTP server port." env:"PORT" default:"8080" validate:"required,numeric"`
	LogLevel    string `help:"Log level (debug, info, warn, error)." env:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat   string `help:"Log format (text or json)." env:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
	Timezone    string `help:"IANA timezone used for the day context." env:"TIMEZONE" default:"Australia/Melbourne" validate:"required"`
	HourlyLimit int    `help:"Number of hourly forecasts kept from the 48 hour feed." env:"HOURLY_LIMIT" default:"24" validate:"gte=1,lte=48"`

	Defaults DefaultsConfig `embed:"" prefix:"default-"`
	Provider ProviderConfig `embed:"" prefix:"provider-"`
}

// DefaultsConfig holds the request defaults applied when a query parameter
// is missing. The stock location is Glen Waverley, VIC 3150.
type DefaultsConfig struct {
	Latitude  float64 `help:"Default latitude." env:"DEFAULT_LATITUDE" default:"-37.8828820" validate:"gte=-90,lte=90"`
	Longitude float64 `help:"Default longitude." env:"DEFAULT_LONGITUDE" default:"145.1776060" validate:"gte=-180,lte=180"`
	Units     string  `help:"Default units (m, e, h, s)." env:"DEFAULT_UNITS" default:"m" validate:"oneof=m e h s"`
	Language  string  `help:"Default forecast language." env:"DEFAULT_LANGUAGE" default:"en" validate:"required"`
}

// ProviderConfig configures the Weather Company client.
type ProviderConfig struct {
	URL        string        `help:"Weather Company service base URL." env:"PROVIDER_URL" default:"https://twcservice.mybluemix.net" validate:"required,url"`
	Username   string        `help:"Weather Company service username." env:"PROVIDER_USERNAME"`
	Password   Secret        `help:"Weather Company service password." env:"PROVIDER_PASSWORD"`
	Timeout    time.Duration `help:"Per-request timeout." env:"PROVIDER_TIMEOUT" default:"30s" validate:"gt=0"`
	MaxElapsed time.Duration `help:"Total retry budget per fetch (0 disables retries)." env:"PROVIDER_MAX_ELAPSED" default:"1m" validate:"gte=0"`
	RPS        float64       `help:"Requests per second allowed upstream." env:"PROVIDER_RPS" default:"5" validate:"gt=0"`
	Burst      int           `help:"Burst size for upstream requests." env:"PROVIDER_BURST" default:"5" validate:"gte=1"`
}

// ConfigErrorType categorises configuration failures.
type ConfigErrorType string

const (
	ErrDotenv     ConfigErrorType = "DOTENV_FAILED"
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	ErrTimezone   ConfigErrorType = "TIMEZONE_FAILED"
)

// ConfigError wraps a configuration failure with its category.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// LoadDotenv loads variables from path into the environment without
// overriding ones already set. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return &ConfigError{Type: ErrDotenv, Message: "load " + path, Err: err}
	}
	return nil
}

// Validate checks the struct rules and that the timezone resolves.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return &ConfigError{Type: ErrValidation, Message: "configuration validation failed", Err: err}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return &ConfigError{Type: ErrTimezone, Message: "unknown timezone " + c.Timezone, Err: err}
	}
	return nil
}

// Location returns the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		slog.Warn("could not load timezone, using UTC", "timezone", c.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

// DefaultQuery is the fetch query used when a request supplies no parameters.
func (c *Config) DefaultQuery() models.Query {
	return models.Query{
		Coordinates: models.Coordinates{Latitude: c.Defaults.Latitude, Longitude: c.Defaults.Longitude},
		Units:       c.Defaults.Units,
		Language:    c.Defaults.Language,
	}
}
