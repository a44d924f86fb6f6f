package config

import "time"

// Config is the root configuration for the Parley service.
type Config struct {
	// Server configures the HTTP server
	Server ServerConfig `yaml:"server"`

	// Provider configures the completion provider
	Provider ProviderConfig `yaml:"provider"`

	// Session configures conversation handling
	Session SessionConfig `yaml:"session"`

	// Telemetry configures logging and metrics
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the server binds to (e.g., ":8080")
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the request
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing the response
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// kept-alive connection
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// ProviderConfig contains completion provider settings.
type ProviderConfig struct {
	// Type is the provider type (currently only "openai")
	Type string `yaml:"type"`

	// BaseURL is the API endpoint base URL; empty uses the provider default
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication key (also settable via
	// PARLEY_PROVIDER_API_KEY)
	APIKey string `yaml:"api_key"`

	// Model is the fixed model identifier used for all completions
	Model string `yaml:"model"`

	// Timeout bounds each provider call
	Timeout time.Duration `yaml:"timeout"`

	// MaxIdleConns is the maximum number of idle connections in the pool
	MaxIdleConns int `yaml:"max_idle_conns"`

	// MaxIdleConnsPerHost is the maximum idle connections per host
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host"`

	// IdleConnTimeout is how long an idle connection remains in the pool
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// SessionConfig contains conversation handling settings.
type SessionConfig struct {
	// DefaultPersona seeds conversations created without an explicit
	// persona; empty uses the built-in compositor instruction
	DefaultPersona string `yaml:"default_persona"`

	// Eviction configures the idle-conversation sweeper
	Eviction EvictionConfig `yaml:"eviction"`
}

// EvictionConfig contains idle-conversation eviction settings.
type EvictionConfig struct {
	// Schedule is a cron expression for sweep frequency; empty disables
	// eviction
	Schedule string `yaml:"schedule"`

	// MaxIdle is how long a conversation may go without a turn before it
	// is evicted
	MaxIdle time.Duration `yaml:"max_idle"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	// Logging configures structured logging
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string `yaml:"level"`

	// Format is the output format ("json", "text")
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem component
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets are the histogram buckets for provider
	// request duration, in seconds
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}
