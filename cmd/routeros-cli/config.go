package main

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const defaultPort = "8728"

type fileConfig struct {
	Addresses []string `toml:"addresses"`
	Username  string   `toml:"username"`
	Password  string   `toml:"password"`
	Timeout   string   `toml:"timeout"`
	MaxConns  int32    `toml:"max_conns"`
	LogLevel  string   `toml:"log_level"`
}

type cliConfig struct {
	Addresses []string
	Username  string
	Password  string
	Timeout   time.Duration
	MaxConns  int32
	LogLevel  zerolog.Level
}

func defaultConfig() cliConfig {
	return cliConfig{
		Addresses: []string{"192.168.88.1:8728"},
		Username:  "admin",
		Timeout:   10 * time.Second,
		MaxConns:  2,
		LogLevel:  zerolog.InfoLevel,
	}
}

// loadConfig reads a TOML file over the defaults. Keys absent from the
// file keep their default value.
func loadConfig(path string) (cliConfig, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return cliConfig{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cliConfig{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("addresses") {
		cfg.Addresses = normalizeAddresses(raw.Addresses)
	}

	if meta.IsDefined("username") {
		cfg.Username = strings.TrimSpace(raw.Username)
	}

	if meta.IsDefined("password") {
		cfg.Password = raw.Password
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return cliConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}

	if meta.IsDefined("max_conns") {
		cfg.MaxConns = raw.MaxConns
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return cliConfig{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	return cfg, cfg.validate()
}

func (c cliConfig) validate() error {
	if len(c.Addresses) == 0 {
		return fmt.Errorf("no router addresses")
	}
	if c.MaxConns <= 0 {
		return fmt.Errorf("max_conns must be > 0, got %d", c.MaxConns)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0, got %v", c.Timeout)
	}
	return nil
}

// normalizeAddresses trims entries, drops empty ones and adds the default
// API port where none is given.
func normalizeAddresses(in []string) []string {
	out := make([]string, 0, len(in))
	for _, addr := range in {
		v := strings.TrimSpace(addr)
		if v == "" {
			continue
		}
		if _, _, err := net.SplitHostPort(v); err != nil {
			v = net.JoinHostPort(v, defaultPort)
		}
		out = append(out, v)
	}
	return out
}
