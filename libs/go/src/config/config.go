// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/auth-platform/lazystatic/libs/go/concurrency/once"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultEnvPrefix is the environment variable prefix read by ApplyEnv.
const DefaultEnvPrefix = "LAZYSTATIC"

// Settings holds the configuration for lazy statics.
type Settings struct {
	Strategy  string          `yaml:"strategy" validate:"required,oneof=blocking spin"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"required,oneof=debug info warn error"`
	Format string `yaml:"format" validate:"required,oneof=json text"`
}

// TelemetryConfig defines OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	ServiceName string        `yaml:"service_name" validate:"required_if=Enabled true,max=100"`
	Endpoint    string        `yaml:"endpoint" validate:"required_if=Enabled true,omitempty,hostname_port"`
	Insecure    bool          `yaml:"insecure"`
	Timeout     time.Duration `yaml:"timeout" validate:"min=0,max=1m"`
}

var configValidator = validator.New()

// Default returns settings with blocking cells and info-level JSON logs.
func Default() *Settings {
	return &Settings{
		Strategy: once.Blocking.String(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			Timeout: 10 * time.Second,
		},
	}
}

// Load reads a YAML file over the defaults, applies environment overrides
// with DefaultEnvPrefix, and validates the result.
func Load(path string) (*Settings, error) {
	s := Default()
	if err := s.LoadFile(path); err != nil {
		return nil, err
	}
	if err := s.ApplyEnv(DefaultEnvPrefix); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadFile merges a YAML file into s. Keys absent from the file keep
// their current values.
func (s *Settings) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// ApplyEnv overrides settings from PREFIX_STRATEGY, PREFIX_LOGGING_LEVEL,
// PREFIX_LOGGING_FORMAT, PREFIX_TELEMETRY_ENABLED,
// PREFIX_TELEMETRY_SERVICE_NAME, PREFIX_TELEMETRY_ENDPOINT,
// PREFIX_TELEMETRY_INSECURE and PREFIX_TELEMETRY_TIMEOUT.
func (s *Settings) ApplyEnv(prefix string) error {
	lookup := func(key string) (string, bool) {
		return os.LookupEnv(prefix + "_" + key)
	}

	if v, ok := lookup("STRATEGY"); ok {
		s.Strategy = strings.ToLower(v)
	}
	if v, ok := lookup("LOGGING_LEVEL"); ok {
		s.Logging.Level = strings.ToLower(v)
	}
	if v, ok := lookup("LOGGING_FORMAT"); ok {
		s.Logging.Format = strings.ToLower(v)
	}
	if v, ok := lookup("TELEMETRY_SERVICE_NAME"); ok {
		s.Telemetry.ServiceName = v
	}
	if v, ok := lookup("TELEMETRY_ENDPOINT"); ok {
		s.Telemetry.Endpoint = v
	}

	var errs []error
	if v, ok := lookup("TELEMETRY_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s_TELEMETRY_ENABLED: %w", prefix, err))
		}
		s.Telemetry.Enabled = b
	}
	if v, ok := lookup("TELEMETRY_INSECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s_TELEMETRY_INSECURE: %w", prefix, err))
		}
		s.Telemetry.Insecure = b
	}
	if v, ok := lookup("TELEMETRY_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s_TELEMETRY_TIMEOUT: %w", prefix, err))
		}
		s.Telemetry.Timeout = d
	}
	return errors.Join(errs...)
}

// Validate checks every field against its rules.
func (s *Settings) Validate() error {
	if err := configValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Fields: fieldNames(verrs)}
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// StrategyValue returns the configured cell strategy.
func (s *Settings) StrategyValue() (once.Strategy, error) {
	return once.ParseStrategy(s.Strategy)
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config fields: %s", strings.Join(e.Fields, ", "))
}

func fieldNames(verrs validator.ValidationErrors) []string {
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Namespace())
	}
	return names
}
