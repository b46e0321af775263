// Package logging builds the zerolog loggers used by the tools and tests.
package logging

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "SWAPPARTY_LOG_LEVEL"
	EnvLogNoColor = "SWAPPARTY_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

type Config struct {
	Level     zerolog.Level
	Timestamp bool
	NoColor   bool
}

func DefaultConfig(profile Profile) Config {
	switch profile {
	case ProfileTest:
		return Config{Level: zerolog.DebugLevel, NoColor: true}
	default:
		return Config{Level: zerolog.InfoLevel, Timestamp: true}
	}
}

// New returns a console logger for profile writing to w, with environment
// overrides applied.
func New(profile Profile, w io.Writer) zerolog.Logger {
	cfg := DefaultConfig(profile)
	ApplyEnv(&cfg)
	return NewWithConfig(cfg, w)
}

func NewWithConfig(cfg Config, w io.Writer) zerolog.Logger {
	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    cfg.NoColor,
		TimeFormat: time.RFC3339,
	}
	if !cfg.Timestamp {
		out.PartsExclude = []string{zerolog.TimestampFieldName}
	}
	ctx := zerolog.New(out).Level(cfg.Level).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// Test returns a logger that writes through t.Log.
func Test(t zerolog.TestingLog) zerolog.Logger {
	return New(ProfileTest, zerolog.NewTestWriter(t))
}

func ApplyEnv(cfg *Config) {
	if lvl, ok := ParseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.Level = lvl
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvLogNoColor))); err == nil {
		cfg.NoColor = v
	}
}

// ParseLevel accepts zerolog level names plus "off".
func ParseLevel(raw string) (zerolog.Level, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	switch raw {
	case "":
		return zerolog.NoLevel, false
	case "off", "none":
		return zerolog.Disabled, true
	}
	lvl, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.NoLevel, false
	}
	return lvl, true
}
