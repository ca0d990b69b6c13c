// Package config loads EPP server configuration from TOML files.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the server configuration.
type Config struct {
	// Host and Port are the network binding.
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// Proto selects the transport: "ssl" for TLS (the protocol's
	// mapping), "tcp" for plaintext test harnesses.
	Proto string `toml:"proto"`

	// SSLKeyFile and SSLCertFile are the server TLS material,
	// required when Proto is "ssl".
	SSLKeyFile  string `toml:"ssl_key_file"`
	SSLCertFile string `toml:"ssl_cert_file"`
	// ClientCAFile is the CA bundle for client certificate
	// validation.  When empty, client certificates are not required.
	ClientCAFile string `toml:"client_ca_file"`

	// IdleTimeout bounds the wait for each command frame.
	IdleTimeout duration `toml:"idle_timeout"`
	// MaxFrame bounds inbound frame payloads in bytes.
	MaxFrame int `toml:"max_frame"`

	// LogLevel is the zerolog level name ("debug", "info", ...).
	LogLevel string `toml:"log_level"`
}

// duration wraps time.Duration for TOML string values like "300s".
type duration time.Duration

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	*d = duration(v)
	return err
}

// IdleDuration returns the idle timeout as a time.Duration.
func (c *Config) IdleDuration() time.Duration { return time.Duration(c.IdleTimeout) }

// Addr returns the host:port binding string.
func (c *Config) Addr() string { return fmt.Sprintf("%s:%d", c.Host, c.Port) }

// Defaults returns a Config with the protocol defaults.
func Defaults() *Config {
	return &Config{
		Host:        "localhost",
		Port:        7000,
		Proto:       "ssl",
		IdleTimeout: duration(300 * time.Second),
		MaxFrame:    1 << 20,
		LogLevel:    "info",
	}
}

// Load reads a TOML config file over the defaults.  An empty path
// returns the defaults alone.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	switch c.Proto {
	case "ssl":
		if c.SSLKeyFile == "" || c.SSLCertFile == "" {
			return fmt.Errorf("proto %q requires ssl_key_file and ssl_cert_file", c.Proto)
		}
	case "tcp":
	default:
		return fmt.Errorf("unknown proto %q", c.Proto)
	}
	return nil
}
