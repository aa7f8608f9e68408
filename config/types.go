package config

// Config represents the complete configuration structure
type Config struct {
	BaseURL           string         `mapstructure:"base_url"`
	APIVersion        string         `mapstructure:"api_version"`
	APIKey            string         `mapstructure:"api_key"`
	Timeout           float64        `mapstructure:"timeout"`
	MaxRetries        int            `mapstructure:"max_retries"`
	RetryDelay        float64        `mapstructure:"retry_delay"`
	MaxBackoff        float64        `mapstructure:"max_backoff"`
	DefaultCatalogIDs []string       `mapstructure:"default_catalog_ids"`
	RateLimit         RateLimit      `mapstructure:"rate_limit"`
	CircuitBreaker    CircuitBreaker `mapstructure:"circuit_breaker"`
	Logging           LoggingConfig  `mapstructure:"logging"`
}

// RateLimit throttles outgoing requests. A zero rate disables it.
type RateLimit struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// CircuitBreaker contains circuit breaker settings
type CircuitBreaker struct {
	Enabled             bool    `mapstructure:"enabled"`
	ConsecutiveFailures uint32  `mapstructure:"consecutive_failures"`
	OpenTimeout         float64 `mapstructure:"open_timeout"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
