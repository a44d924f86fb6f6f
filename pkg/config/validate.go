package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// ValidationError describes a single invalid configuration field.
type ValidationError struct {
	// Field is the dotted path of the invalid field (e.g., "provider.type")
	Field string

	// Message describes the problem
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %q: %s", e.Field, e.Message)
}

// Validate checks the configuration for invalid values. All fields are
// checked and every problem is reported, joined into a single error.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.ListenAddress == "" {
		errs = append(errs, (&ValidationError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		}).Error())
	}
	if cfg.Server.ReadTimeout < 0 {
		errs = append(errs, (&ValidationError{
			Field:   "server.read_timeout",
			Message: "timeout must not be negative",
		}).Error())
	}
	if cfg.Server.WriteTimeout < 0 {
		errs = append(errs, (&ValidationError{
			Field:   "server.write_timeout",
			Message: "timeout must not be negative",
		}).Error())
	}

	switch cfg.Provider.Type {
	case "openai":
	case "":
		errs = append(errs, (&ValidationError{
			Field:   "provider.type",
			Message: "provider type is required",
		}).Error())
	default:
		errs = append(errs, (&ValidationError{
			Field:   "provider.type",
			Message: fmt.Sprintf("unsupported provider type %q", cfg.Provider.Type),
		}).Error())
	}
	if cfg.Provider.Model == "" {
		errs = append(errs, (&ValidationError{
			Field:   "provider.model",
			Message: "model is required",
		}).Error())
	}
	if cfg.Provider.Timeout <= 0 {
		errs = append(errs, (&ValidationError{
			Field:   "provider.timeout",
			Message: "timeout must be positive",
		}).Error())
	}

	if cfg.Session.Eviction.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Session.Eviction.Schedule); err != nil {
			errs = append(errs, (&ValidationError{
				Field:   "session.eviction.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			}).Error())
		}
		if cfg.Session.Eviction.MaxIdle <= 0 {
			errs = append(errs, (&ValidationError{
				Field:   "session.eviction.max_idle",
				Message: "max idle must be positive when eviction is scheduled",
			}).Error())
		}
	}

	switch cfg.Telemetry.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, (&ValidationError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown log level %q", cfg.Telemetry.Logging.Level),
		}).Error())
	}
	switch cfg.Telemetry.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, (&ValidationError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown log format %q", cfg.Telemetry.Logging.Format),
		}).Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
