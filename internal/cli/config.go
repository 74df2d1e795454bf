package cli

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"curvenet/pkg/api"
	"curvenet/pkg/snap"
)

// duration wraps time.Duration so TOML values can be written as "5s".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// serveConfig is the TOML configuration for the serve command.
type serveConfig struct {
	Addr           string   `toml:"addr"`
	ReadTimeout    duration `toml:"read_timeout"`
	WriteTimeout   duration `toml:"write_timeout"`
	RequestTimeout duration `toml:"request_timeout"`
	MaxConcurrent  int      `toml:"max_concurrent"`
	CORSOrigin     string   `toml:"cors_origin"`
	SnapRadius     float64  `toml:"snap_radius"`
}

// loadServeConfig reads a TOML config file, filling unset fields with the
// server defaults. An empty path yields pure defaults.
func loadServeConfig(path, addr string) (serveConfig, error) {
	def := api.DefaultConfig(addr)
	cfg := serveConfig{
		Addr:           def.Addr,
		ReadTimeout:    duration{def.ReadTimeout},
		WriteTimeout:   duration{def.WriteTimeout},
		RequestTimeout: duration{def.RequestTimeout},
		MaxConcurrent:  def.MaxConcurrent,
		SnapRadius:     snap.DefaultMaxDist,
	}
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return serveConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.MaxConcurrent <= 0 {
		return serveConfig{}, fmt.Errorf("config %s: max_concurrent must be positive", path)
	}
	if cfg.SnapRadius <= 0 {
		return serveConfig{}, fmt.Errorf("config %s: snap_radius must be positive", path)
	}
	return cfg, nil
}

// serverConfig converts the loaded TOML settings into the API server config.
func (c serveConfig) serverConfig() api.ServerConfig {
	return api.ServerConfig{
		Addr:           c.Addr,
		ReadTimeout:    c.ReadTimeout.Duration,
		WriteTimeout:   c.WriteTimeout.Duration,
		RequestTimeout: c.RequestTimeout.Duration,
		MaxConcurrent:  c.MaxConcurrent,
		CORSOrigin:     c.CORSOrigin,
	}
}
