// Package config loads the service configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Duration() time.Duration { return time.Duration(d) }

// Config holds everything the serve command needs.
type Config struct {
	// ListenAddr is the host:port the HTTP server binds to.
	ListenAddr string `yaml:"listen_addr"`

	// Issuer is the external base URL of this server, used in OAuth metadata
	// and endpoint URLs.
	Issuer string `yaml:"issuer"`

	// UpstreamTokenURL is the token endpoint of the upstream issuer real
	// access tokens come from.
	UpstreamTokenURL string `yaml:"upstream_token_url"`

	// NotifyAPIBaseURL is the base URL of the remote notification API.
	NotifyAPIBaseURL string `yaml:"notify_api_base_url"`

	// ServiceToken is the fallback credential for notification API calls
	// made without a forwarded bearer token.
	ServiceToken string `yaml:"service_token"`

	// SweepInterval controls how often expired OAuth entries are removed.
	SweepInterval Duration `yaml:"sweep_interval"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:    ":8080",
		Issuer:        "http://localhost:8080",
		SweepInterval: Duration(time.Minute),
	}
}

// Load reads the YAML file at path on top of the defaults. A missing file is
// not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("config: listen_addr must not be empty")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("config: sweep_interval must be positive")
	}
	return nil
}
