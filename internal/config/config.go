// Package config loads YAML configuration and provides defaults.
// Delegates target and record-type validation to the normalize package.
package config

import (
	"fmt"
	"os"

	"github.com/sudo-tiz/dns-compare-go/internal/normalize"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultPrimary is OpenDNS, matching the historical default of the tool.
	DefaultPrimary = "208.67.222.222"
	// DefaultDNSTimeout is the fixed per-query timeout in seconds.
	DefaultDNSTimeout = 2
)

// Config is the root configuration structure.
type Config struct {
	Resolvers    ResolverConfig  `yaml:"resolvers,omitempty"`
	DNS          DNSConfig       `yaml:"dns,omitempty"`
	Report       ReportConfig    `yaml:"report,omitempty"`
	Server       ServerConfig    `yaml:"server,omitempty"`
	Worker       WorkerConfig    `yaml:"worker,omitempty"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting,omitempty"`
}

// ResolverConfig names the two nameservers under comparison.
type ResolverConfig struct {
	Primary   string `yaml:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty"`
}

// DNSConfig controls query behavior.
type DNSConfig struct {
	Timeout          int `yaml:"timeout,omitempty"`
	MaxEntriesPerReq int `yaml:"max_entries_per_req,omitempty"`
}

// ReportConfig controls CLI output.
type ReportConfig struct {
	Quiet   bool `yaml:"quiet,omitempty"`
	NoColor bool `yaml:"no_color,omitempty"`
}

// ServerConfig controls HTTP server timeouts and binding.
type ServerConfig struct {
	Host         string `yaml:"host,omitempty"`
	Port         string `yaml:"port,omitempty"`
	ReadTimeout  int    `yaml:"read_timeout,omitempty"`
	WriteTimeout int    `yaml:"write_timeout,omitempty"`
	IdleTimeout  int    `yaml:"idle_timeout,omitempty"`
}

// WorkerConfig controls Asynq worker concurrency.
type WorkerConfig struct {
	MaxWorkers int `yaml:"max_workers,omitempty"`
}

// RateLimitConfig controls tollbooth rate limiting.
type RateLimitConfig struct {
	RequestsPerSecond int `yaml:"requests_per_second,omitempty"`
	BurstSize         int `yaml:"burst_size,omitempty"`
}

// Validate checks the configured resolver targets.
func (r *ResolverConfig) Validate() error {
	if r.Primary != "" {
		if _, err := normalize.Target(r.Primary); err != nil {
			return fmt.Errorf("primary nameserver: %w", err)
		}
	}
	if r.Secondary != "" {
		if _, err := normalize.Target(r.Secondary); err != nil {
			return fmt.Errorf("secondary nameserver: %w", err)
		}
	}
	return nil
}

// Load reads YAML and validates resolver targets.
// Returns empty config if file missing - optional config approach.
func Load(filePath string) (*Config, error) {
	// #nosec G304 -- filePath is user-controlled via CLI flag by design
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Resolvers.Validate(); err != nil {
		return nil, fmt.Errorf("resolver validation failed: %w", err)
	}

	return &cfg, nil
}

// GetPrimary provides the OpenDNS default fallback.
func (c *Config) GetPrimary() string {
	if c.Resolvers.Primary != "" {
		return c.Resolvers.Primary
	}
	return DefaultPrimary
}

// GetSecondary has no default: the comparison target must be explicit.
func (c *Config) GetSecondary() string {
	return c.Resolvers.Secondary
}

// GetDNSTimeout provides default fallback (seconds).
func (c *Config) GetDNSTimeout() int {
	if c.DNS.Timeout > 0 {
		return c.DNS.Timeout
	}
	return DefaultDNSTimeout
}

// GetMaxEntriesPerReq provides default fallback.
func (c *Config) GetMaxEntriesPerReq() int {
	if c.DNS.MaxEntriesPerReq > 0 {
		return c.DNS.MaxEntriesPerReq
	}
	return 100
}

// GetServerHost provides default fallback.
func (c *Config) GetServerHost() string {
	if c.Server.Host != "" {
		return c.Server.Host
	}
	return "0.0.0.0"
}

// GetServerPort provides default fallback.
func (c *Config) GetServerPort() string {
	if c.Server.Port != "" {
		return c.Server.Port
	}
	return "5000"
}

// GetServerReadTimeout provides default fallback (seconds).
func (c *Config) GetServerReadTimeout() int {
	if c.Server.ReadTimeout > 0 {
		return c.Server.ReadTimeout
	}
	return 15
}

// GetServerWriteTimeout provides default fallback (seconds).
func (c *Config) GetServerWriteTimeout() int {
	if c.Server.WriteTimeout > 0 {
		return c.Server.WriteTimeout
	}
	return 15
}

// GetServerIdleTimeout provides default fallback (seconds).
func (c *Config) GetServerIdleTimeout() int {
	if c.Server.IdleTimeout > 0 {
		return c.Server.IdleTimeout
	}
	return 60
}

// GetMaxWorkers provides default fallback.
func (c *Config) GetMaxWorkers() int {
	if c.Worker.MaxWorkers > 0 {
		return c.Worker.MaxWorkers
	}
	return 4
}

// GetRateLimitRequestsPerSecond provides default fallback.
// Returns 0 if explicitly set to 0 (disables rate limiting).
func (c *Config) GetRateLimitRequestsPerSecond() int {
	if c.RateLimiting.RequestsPerSecond >= 0 {
		return c.RateLimiting.RequestsPerSecond
	}
	return 10
}

// GetRateLimitBurstSize provides default fallback.
func (c *Config) GetRateLimitBurstSize() int {
	if c.RateLimiting.BurstSize > 0 {
		return c.RateLimiting.BurstSize
	}
	return 20
}

// ApplyIntOverride applies a CLI flag override to a config int field with default fallback.
// If the CLI flag was changed and the value is positive, it overrides the config value.
// Otherwise, if the config value is zero, the default value is applied.
func ApplyIntOverride(flagChanged bool, flagValue int, target *int, defaultVal int) {
	if flagChanged && flagValue > 0 {
		*target = flagValue
	} else if *target == 0 {
		*target = defaultVal
	}
}

// ApplyStringOverride applies a CLI flag override to a config string field with default fallback.
// If the CLI value is non-empty, it overrides the config value.
// Otherwise, if the config value is empty, the default value is applied.
func ApplyStringOverride(cliValue string, target *string, defaultVal string) {
	if cliValue != "" {
		*target = cliValue
	} else if *target == "" {
		*target = defaultVal
	}
}
