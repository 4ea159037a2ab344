// Package config loads tileprobe configuration from a TOML file.
//
// Configuration covers the HTTP service, the tile fetcher, and export
// defaults. All fields are optional; [Default] provides working values and
// [Load] layers a file on top of them:
//
//	[server]
//	addr = ":8080"
//	read_timeout_seconds = 15
//	write_timeout_seconds = 30
//
//	[fetch]
//	timeout_seconds = 30
//	[fetch.headers]
//	Authorization = "Bearer ..."
//
//	[export]
//	sample_limit = 10
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tileprobe/tileprobe/pkg/errors"
	"github.com/tileprobe/tileprobe/pkg/export"
	"github.com/tileprobe/tileprobe/pkg/fetch"
)

// Config is the top-level configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Fetch  FetchConfig  `toml:"fetch"`
	Export ExportConfig `toml:"export"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr                string `toml:"addr"`
	ReadTimeoutSeconds  int    `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
}

// FetchConfig configures the tile fetcher.
type FetchConfig struct {
	TimeoutSeconds int               `toml:"timeout_seconds"`
	Headers        map[string]string `toml:"headers"`
}

// ExportConfig configures export rendering defaults.
type ExportConfig struct {
	SampleLimit int `toml:"sample_limit"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: int(fetch.DefaultTimeout / time.Second),
		},
		Export: ExportConfig{
			SampleLimit: export.DefaultSampleLimit,
		},
	}
}

// Load reads a TOML config file layered over [Default]. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s not readable", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s does not parse", path)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Server.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.addr cannot be empty")
	}
	if c.Fetch.TimeoutSeconds < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "fetch.timeout_seconds cannot be negative")
	}
	if err := errors.ValidateSampleLimit(c.Export.SampleLimit); err != nil {
		return err
	}
	return nil
}

// FetchTimeout returns the fetch timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// ReadTimeout returns the server read timeout as a duration.
func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout as a duration.
func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeoutSeconds) * time.Second
}
