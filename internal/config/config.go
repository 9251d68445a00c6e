package config

import "fmt"

// Config holds runtime settings for the confctl CLI.
//
// Fields:
//   - Env: name of the target environment, resolved through Environments.
//   - BaseURL: explicit service URL; when set it wins over the environment.
//   - Environments: named service URLs, so operators can switch between a
//     production and a staging instance without retyping URLs.
//   - Debug: verbose logging plus re-raising of unexpected per-row errors.
type Config struct {
	Env          string
	BaseURL      string
	Environments map[string]string
	Debug        bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Env = "local"
	c.Environments = map[string]string{
		"local": "http://localhost:8000",
	}
}

// Endpoint resolves the service URL: the explicit BaseURL if set, otherwise
// the URL registered for the selected environment.
func (c *Config) Endpoint() (string, error) {
	if c.BaseURL != "" {
		return c.BaseURL, nil
	}
	url, ok := c.Environments[c.Env]
	if !ok {
		return "", fmt.Errorf("unknown environment %q", c.Env)
	}
	return url, nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
