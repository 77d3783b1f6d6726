// Package config loads the gateway binary's settings.
//
// Values are layered: built-in defaults, then an optional TOML file, then environment
// variables. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/miguagnxin/web-Joeyllmcahtinterface/gateway"
	"github.com/miguagnxin/web-Joeyllmcahtinterface/server"
)

// Environment variables read by Load.
const (
	EnvUpstreamURL = "JOEY_API_URL"
	EnvListen      = "JOEY_LISTEN"
	EnvDebug       = "JOEY_DEBUG"
	EnvBodyLimit   = "JOEY_BODY_LIMIT"
)

// Config is the complete gateway binary configuration.
type Config struct {
	Listen    string         `toml:"listen"`
	Debug     bool           `toml:"debug"`
	BodyLimit int            `toml:"body_limit"`
	Upstream  UpstreamConfig `toml:"upstream"`
}

// UpstreamConfig describes the chat-completion provider.
type UpstreamConfig struct {
	URL string `toml:"url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:    ":8080",
		BodyLimit: server.DefaultBodyLimit,
		Upstream: UpstreamConfig{
			URL: gateway.DefaultUpstreamURL,
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path (skipped when path
// is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
		}
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnvOverrides replaces fields whose environment variable is set and parses.
func (c *Config) ApplyEnvOverrides() {
	c.Upstream.URL = envStr(EnvUpstreamURL, c.Upstream.URL)
	c.Listen = envStr(EnvListen, c.Listen)
	c.Debug = envBool(EnvDebug, c.Debug)
	c.BodyLimit = envInt(EnvBodyLimit, c.BodyLimit)
}

// Validate checks that the configuration can be served.
func (c *Config) Validate() error {
	var errs []error

	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	if c.BodyLimit <= 0 {
		errs = append(errs, fmt.Errorf("body_limit must be positive, got %d", c.BodyLimit))
	}

	u, err := url.Parse(c.Upstream.URL)
	switch {
	case c.Upstream.URL == "":
		errs = append(errs, errors.New("upstream url is required"))
	case err != nil:
		errs = append(errs, fmt.Errorf("upstream url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("upstream url must be http or https, got %q", c.Upstream.URL))
	case u.Host == "":
		errs = append(errs, fmt.Errorf("upstream url has no host: %q", c.Upstream.URL))
	}

	return errors.Join(errs...)
}

// GatewayConfig returns the settings for gateway.New.
func (c *Config) GatewayConfig() gateway.Config {
	return gateway.Config{UpstreamURL: c.Upstream.URL}
}

// ServerConfig returns the settings for server.New.
func (c *Config) ServerConfig() server.Config {
	return server.Config{ListenAddr: c.Listen, BodyLimit: c.BodyLimit}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
