// Package config loads and validates the relay configuration from YAML
// files with environment variable interpolation.
package config

import "time"

// Config is the root configuration for the relay engine.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Execution ExecutionConfig `mapstructure:"execution" yaml:"execution" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" yaml:"cache"`
	Storage   StorageConfig   `mapstructure:"storage" yaml:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing" yaml:"tracing"`
}

// ServerConfig contains the HTTP surface settings.
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ExecutionConfig contains coordinator settings.
type ExecutionConfig struct {
	Timeout             time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"min=1ms"`
	BatchEnabled        bool          `mapstructure:"batch_enabled" yaml:"batch_enabled"`
	MaxBatchSize        int           `mapstructure:"max_batch_size" yaml:"max_batch_size" validate:"min=1,max=1000"`
	MaxConcurrent       int           `mapstructure:"max_concurrent" yaml:"max_concurrent" validate:"min=1,max=100"`
	GlobalRatePerSecond float64       `mapstructure:"global_rate_per_second" yaml:"global_rate_per_second" validate:"min=0"`
}

// CacheConfig contains result cache settings.
type CacheConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval" yaml:"sweep_interval"`
}

// StorageConfig contains the SQLite storage collaborator settings.
type StorageConfig struct {
	Path           string        `mapstructure:"path" yaml:"path"`
	MaxConnections int           `mapstructure:"max_connections" yaml:"max_connections" validate:"min=1,max=100"`
	BusyTimeout    time.Duration `mapstructure:"busy_timeout" yaml:"busy_timeout"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=json text"`
}

// MetricsConfig contains metrics collection and export settings.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Provider string `mapstructure:"provider" yaml:"provider" validate:"omitempty,oneof=prometheus otlp"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}

// TracingConfig contains distributed tracing settings.
type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
}
