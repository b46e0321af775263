// Package config loads the TOML settings shared by swapctl and graph
// construction.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/delaneyj/swapparty/internal/logging"
	"github.com/delaneyj/swapparty/lockpool"
	"github.com/delaneyj/swapparty/object"
	"github.com/rs/zerolog"
)

type Config struct {
	PoolSize   int              `toml:"pool_size"`
	Guard      string           `toml:"guard"`
	LogLevel   string           `toml:"log_level"`
	Dispatcher DispatcherConfig `toml:"dispatcher"`
}

type DispatcherConfig struct {
	Resolution time.Duration `toml:"resolution"`
}

var (
	ErrInvalidPoolSize   = errors.New("config: pool_size must be positive")
	ErrInvalidGuard      = errors.New("config: guard must be auto, inspect or probe")
	ErrInvalidLogLevel   = errors.New("config: unknown log_level")
	ErrInvalidResolution = errors.New("config: dispatcher.resolution must be positive")
)

func Default() Config {
	return Config{
		PoolSize: lockpool.DefaultSize,
		Guard:    object.GuardAuto.String(),
		LogLevel: "info",
		Dispatcher: DispatcherConfig{
			Resolution: 10 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for in-memory documents.
func Parse(doc string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(doc, &cfg); err != nil {
		return Config{}, fmt.Errorf("config parse failed: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.PoolSize <= 0 {
		errs = append(errs, ErrInvalidPoolSize)
	}
	if _, err := ParseGuard(c.Guard); err != nil {
		errs = append(errs, err)
	}
	if _, ok := logging.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.LogLevel))
	}
	if c.Dispatcher.Resolution <= 0 {
		errs = append(errs, ErrInvalidResolution)
	}
	return errors.Join(errs...)
}

func ParseGuard(s string) (object.GuardStrategy, error) {
	switch s {
	case "", "auto":
		return object.GuardAuto, nil
	case "inspect":
		return object.GuardInspect, nil
	case "probe":
		return object.GuardProbe, nil
	}
	return object.GuardAuto, fmt.Errorf("%w: %q", ErrInvalidGuard, s)
}

func (c Config) Level() zerolog.Level {
	lvl, ok := logging.ParseLevel(c.LogLevel)
	if !ok {
		return zerolog.InfoLevel
	}
	return lvl
}

// Options turns the config into graph options. log is attached as is; its
// level is left to the caller.
func (c Config) Options(log zerolog.Logger) []object.Option {
	guard, _ := ParseGuard(c.Guard)
	return []object.Option{
		object.WithPoolSize(c.PoolSize),
		object.WithGuardStrategy(guard),
		object.WithLogger(log),
	}
}
