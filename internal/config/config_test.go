package config_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/xssfilter/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Empty(t, cfg.WhitelistFile)
	assert.True(t, cfg.DefaultWhitelist)
	assert.Empty(t, cfg.AllowedSchemes)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, config.FormatText, cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("XSSFILTER_WHITELIST_FILE", "/etc/xssfilter.yaml")
	t.Setenv("XSSFILTER_DEFAULT_WHITELIST", "false")
	t.Setenv("XSSFILTER_ALLOWED_SCHEMES", "http,https,mailto")
	t.Setenv("XSSFILTER_LOG_LEVEL", "debug")
	t.Setenv("XSSFILTER_LOG_FORMAT", "json")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "/etc/xssfilter.yaml", cfg.WhitelistFile)
	assert.False(t, cfg.DefaultWhitelist)
	assert.Equal(t, []string{"http", "https", "mailto"}, cfg.AllowedSchemes)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, config.FormatJSON, cfg.LogFormat)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("XSSFILTER_ALLOWED_SCHEMES=https\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("XSSFILTER_ALLOWED_SCHEMES") })

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https"}, cfg.AllowedSchemes)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		err  error
	}{
		{name: "bad bool", key: "XSSFILTER_DEFAULT_WHITELIST", val: "maybe", err: config.ErrParsingConfig},
		{name: "bad level", key: "XSSFILTER_LOG_LEVEL", val: "loud", err: config.ErrParsingConfig},
		{name: "bad format", key: "XSSFILTER_LOG_FORMAT", val: "xml", err: config.ErrInvalidLogFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Config{LogLevel: slog.LevelWarn, LogFormat: config.FormatJSON}
	l := cfg.Logger(&buf)

	l.Info("hidden")
	l.Warn("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	cfg.LogFormat = config.FormatText
	cfg.Logger(&buf).Warn("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}
