package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("expected defaulted config to validate, got %v", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "empty listen address",
			mutate: func(c *Config) { c.Server.ListenAddress = "" },
			field:  "server.listen_address",
		},
		{
			name:   "negative read timeout",
			mutate: func(c *Config) { c.Server.ReadTimeout = -time.Second },
			field:  "server.read_timeout",
		},
		{
			name:   "unsupported provider type",
			mutate: func(c *Config) { c.Provider.Type = "mystery" },
			field:  "provider.type",
		},
		{
			name:   "empty provider type",
			mutate: func(c *Config) { c.Provider.Type = "" },
			field:  "provider.type",
		},
		{
			name:   "empty model",
			mutate: func(c *Config) { c.Provider.Model = "" },
			field:  "provider.model",
		},
		{
			name:   "zero provider timeout",
			mutate: func(c *Config) { c.Provider.Timeout = 0 },
			field:  "provider.timeout",
		},
		{
			name: "invalid eviction schedule",
			mutate: func(c *Config) {
				c.Session.Eviction.Schedule = "often"
				c.Session.Eviction.MaxIdle = time.Hour
			},
			field: "session.eviction.schedule",
		},
		{
			name: "eviction without max idle",
			mutate: func(c *Config) {
				c.Session.Eviction.Schedule = "* * * * *"
				c.Session.Eviction.MaxIdle = 0
			},
			field: "session.eviction.max_idle",
		},
		{
			name:   "unknown log level",
			mutate: func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			field:  "telemetry.logging.level",
		},
		{
			name:   "unknown log format",
			mutate: func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			field:  "telemetry.logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to name %q, got %q", tt.field, err.Error())
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ListenAddress = ""
	cfg.Provider.Model = ""
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}

	for _, field := range []string{"server.listen_address", "provider.model", "telemetry.logging.level"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected combined error to name %q, got %q", field, err.Error())
		}
	}
}
