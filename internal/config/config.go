// Package config loads the xssfilter command's settings from the
// environment, after reading an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	// ErrParsingConfig is returned when environment variables cannot be
	// parsed into Config.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidLogFormat is returned for a log format other than text or json.
	ErrInvalidLogFormat = errors.New("invalid log format")
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the command's settings.
type Config struct {
	// WhitelistFile is a YAML whitelist (see xssfilter.LoadWhitelist).
	WhitelistFile string `env:"XSSFILTER_WHITELIST_FILE"`
	// DefaultWhitelist registers the built-in preset before anything else.
	DefaultWhitelist bool `env:"XSSFILTER_DEFAULT_WHITELIST" envDefault:"true"`
	// AllowedSchemes turns on URL scheme filtering of attribute values
	// when non-empty.
	AllowedSchemes []string `env:"XSSFILTER_ALLOWED_SCHEMES" envSeparator:","`

	LogLevel  slog.Level `env:"XSSFILTER_LOG_LEVEL" envDefault:"info"`
	LogFormat string     `env:"XSSFILTER_LOG_FORMAT" envDefault:"text"`
}

// Load reads the given .env files (".env" when none are named; missing
// files are ignored) and parses the environment into a Config.
func Load(envFiles ...string) (Config, error) {
	// The .env file is optional.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	switch cfg.LogFormat {
	case FormatText, FormatJSON:
	default:
		return Config{}, fmt.Errorf("%w %q: must be %q or %q", ErrInvalidLogFormat, cfg.LogFormat, FormatText, FormatJSON)
	}
	return cfg, nil
}

// Logger returns a logger writing to w in the configured format and level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == FormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
