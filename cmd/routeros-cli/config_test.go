package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigExample(t *testing.T) {
	cfg, err := loadConfig("ex.config.toml")
	require.NoError(t, err)

	require.Equal(t, cliConfig{
		Addresses: []string{"10.0.0.1:8728", "10.0.0.2:8729"},
		Username:  "api",
		Password:  "s3cret",
		Timeout:   3 * time.Second,
		MaxConns:  4,
		LogLevel:  zerolog.DebugLevel,
	}, cfg)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(writeConfig(t, `password = "x"`))
	require.NoError(t, err)

	want := defaultConfig()
	want.Password = "x"
	require.Equal(t, want, cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"bad timeout", `timeout = "soon"`, "parse timeout"},
		{"bad log level", `log_level = "loud"`, "parse log_level"},
		{"unknown key", `adresses = ["10.0.0.1"]`, "unknown key"},
		{"no addresses", `addresses = []`, "no router addresses"},
		{"zero conns", `max_conns = 0`, "max_conns"},
		{"not toml", `addresses = [`, "load config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content))
			require.ErrorContains(t, err, tt.errText)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestNormalizeAddresses(t *testing.T) {
	require.Equal(t,
		[]string{"10.0.0.1:8728", "router.lan:8729", "[fe80::1]:8728"},
		normalizeAddresses([]string{" 10.0.0.1 ", "", "router.lan:8729", "fe80::1"}),
	)
}
