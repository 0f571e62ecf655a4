package config

import "time"

// Default returns a Config populated with production defaults. Values are
// safe for a local deployment without a config file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Execution: ExecutionConfig{
			Timeout:             30 * time.Second,
			BatchEnabled:        true,
			MaxBatchSize:        10,
			MaxConcurrent:       5,
			GlobalRatePerSecond: 0,
		},
		Cache: CacheConfig{
			SweepInterval: time.Minute,
		},
		Storage: StorageConfig{
			Path:           "relay.db",
			MaxConnections: 10,
			BusyTimeout:    5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled:  true,
			Provider: "prometheus",
		},
		Tracing: TracingConfig{
			Enabled: false,
		},
	}
}
