package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/s0up4200/catalogprobe/catalog"
	"github.com/s0up4200/catalogprobe/transport"
)

// DefaultEnvFile is read by Load when no env file is named
const DefaultEnvFile = ".env"

// Load builds the configuration from defaults, an optional config file, env
// files and environment variables, in increasing order of precedence.
//
// An empty configPath searches ./config.yaml and ~/.catalogprobe/config.yaml
// and carries on without a file when neither exists. Without envFiles the
// DefaultEnvFile is read if present; variables already set in the
// environment win over env file entries. The process environment is never
// modified.
func Load(configPath string, envFiles ...string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".catalogprobe"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	if err := applyEnvFiles(v, envFiles); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "https://api.example.com")
	v.SetDefault("api_version", catalog.DefaultAPIVersion)
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", 30)
	v.SetDefault("max_retries", 3)
	v.SetDefault("retry_delay", 1.0)
	v.SetDefault("max_backoff", transport.DefaultMaxBackoff.Seconds())
	v.SetDefault("default_catalog_ids", []string{string(catalog.CatalogNugs), string(catalog.CatalogPlayDead)})

	v.SetDefault("rate_limit.per_second", 0)
	v.SetDefault("rate_limit.burst", 1)

	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.consecutive_failures", 5)
	v.SetDefault("circuit_breaker.open_timeout", 60)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// applyEnvFiles copies env file entries for known keys into v unless the
// variable is already set in the environment.
func applyEnvFiles(v *viper.Viper, files []string) error {
	optional := len(files) == 0
	if optional {
		files = []string{DefaultEnvFile}
	}

	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if optional && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("error reading env file %s: %w", file, err)
		}

		for _, key := range v.AllKeys() {
			name := envName(key)
			value, ok := values[name]
			if !ok {
				continue
			}
			if _, set := os.LookupEnv(name); set {
				continue
			}
			v.Set(key, value)
		}
	}
	return nil
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL: %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %v", cfg.Timeout)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative: %d", cfg.MaxRetries)
	}
	if cfg.RetryDelay < 0 {
		return fmt.Errorf("retry_delay must not be negative: %v", cfg.RetryDelay)
	}
	if cfg.MaxBackoff < 0 {
		return fmt.Errorf("max_backoff must not be negative: %v", cfg.MaxBackoff)
	}

	if len(cfg.DefaultCatalogIDs) == 0 {
		return fmt.Errorf("default_catalog_ids must not be empty")
	}
	for _, id := range cfg.DefaultCatalogIDs {
		if _, err := catalog.ParseCatalogID(id); err != nil {
			return fmt.Errorf("default_catalog_ids: %w", err)
		}
	}

	if cfg.RateLimit.PerSecond < 0 {
		return fmt.Errorf("rate_limit.per_second must not be negative: %v", cfg.RateLimit.PerSecond)
	}
	if cfg.RateLimit.PerSecond > 0 && cfg.RateLimit.Burst < 1 {
		return fmt.Errorf("rate_limit.burst must be at least 1: %d", cfg.RateLimit.Burst)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// TransportConfig converts the second-based settings into a transport.Config
func (c *Config) TransportConfig() transport.Config {
	return transport.Config{
		BaseURL:      c.BaseURL,
		APIKey:       c.APIKey,
		Timeout:      seconds(c.Timeout),
		MaxRetries:   c.MaxRetries,
		RetryBackoff: seconds(c.RetryDelay),
		MaxBackoff:   seconds(c.MaxBackoff),
	}
}

// TransportOptions returns the rate limiter and circuit breaker options the
// configuration enables.
func (c *Config) TransportOptions() []transport.Option {
	var opts []transport.Option
	if c.RateLimit.PerSecond > 0 {
		opts = append(opts, transport.WithRateLimiter(rate.NewLimiter(rate.Limit(c.RateLimit.PerSecond), c.RateLimit.Burst)))
	}
	if c.CircuitBreaker.Enabled {
		opts = append(opts, transport.WithCircuitBreaker(transport.BreakerSettings{
			ConsecutiveFailures: c.CircuitBreaker.ConsecutiveFailures,
			OpenTimeout:         seconds(c.CircuitBreaker.OpenTimeout),
		}))
	}
	return opts
}

// CatalogIDs returns the default catalogs. Unknown entries are skipped.
func (c *Config) CatalogIDs() []catalog.CatalogID {
	ids := make([]catalog.CatalogID, 0, len(c.DefaultCatalogIDs))
	for _, s := range c.DefaultCatalogIDs {
		if id, err := catalog.ParseCatalogID(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// ClientOptions returns the catalog client options derived from the configuration
func (c *Config) ClientOptions() []catalog.Option {
	return []catalog.Option{
		catalog.WithAPIVersion(c.APIVersion),
		catalog.WithDefaultCatalogs(c.CatalogIDs()),
	}
}

// SearchEndpoint is the versioned search path
func (c *Config) SearchEndpoint() string {
	return c.endpoint("search")
}

// ReleaseChangesEndpoint is the versioned release-changes path
func (c *Config) ReleaseChangesEndpoint() string {
	return c.endpoint("release-changes")
}

func (c *Config) endpoint(path string) string {
	version := strings.Trim(c.APIVersion, "/")
	if version == "" {
		return path
	}
	return version + "/" + path
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
