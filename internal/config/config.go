// Package config loads tracker configuration from the environment.
//
// Values are resolved as: OS environment -> .env file -> struct defaults,
// then validated. Invalid configuration stops startup.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Port      string `envconfig:"PORT" default:"50051" validate:"required,numeric"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"debug"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console" validate:"oneof=console json"`

	EventLogPath string `envconfig:"EVENT_LOG_PATH" default:"./brightness_log.txt" validate:"required"`

	PrefsType string `envconfig:"PREFS_TYPE" default:"memory" validate:"oneof=memory sqlite yaml"`
	DBPath    string `envconfig:"DB_PATH" default:"./tracker.db" validate:"required_if=PrefsType sqlite"`
	PrefsPath string `envconfig:"PREFS_PATH" default:"./tracker_prefs.yaml" validate:"required_if=PrefsType yaml"`

	DefaultThreshold int `envconfig:"DEFAULT_THRESHOLD" default:"100" validate:"gte=0"`

	Sensor SensorConfig
	TLS    TLSConfig
}

// SensorConfig selects and tunes the sample source
type SensorConfig struct {
	Type         string        `envconfig:"SENSOR_TYPE" default:"mock" validate:"oneof=mock gpio none"`
	Interval     time.Duration `envconfig:"SAMPLE_INTERVAL" default:"1s" validate:"gt=0"`
	MockBaseLux  float64       `envconfig:"MOCK_BASE_LUX" default:"120" validate:"gte=0"`
	MockVariance float64       `envconfig:"MOCK_VARIATION_LUX" default:"60" validate:"gte=0"`
	MockDropout  float64       `envconfig:"MOCK_DROPOUT" default:"0" validate:"gte=0,lte=1"`
}

// TLSConfig holds mTLS material; either all paths are set or none
type TLSConfig struct {
	Cert string `envconfig:"TLS_CERT" validate:"required_with=Key CA"` // path to this service's certificate
	Key  string `envconfig:"TLS_KEY" validate:"required_with=Cert CA"`  // path to this service's private key
	CA   string `envconfig:"TLS_CA" validate:"required_with=Cert Key"`  // path to the CA certificate
}

// Enabled reports whether mTLS is configured
func (t TLSConfig) Enabled() bool {
	return t.Cert != ""
}

// ErrorType classifies configuration failures
type ErrorType string

const (
	ErrParsing    ErrorType = "PARSING"
	ErrValidation ErrorType = "VALIDATION"
)

// Error is returned by Load
type Error struct {
	Type ErrorType
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] configuration: %v", e.Type, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Load reads an optional .env file, then the environment
func Load() (*Config, error) {
	// a missing .env is fine; existing variables are not overridden
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv populates and validates Config from the current environment only
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &Error{Type: ErrParsing, Err: err}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, &Error{Type: ErrValidation, Err: err}
	}

	return &cfg, nil
}
