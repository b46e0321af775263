package main

import (
	"context"
	"log"
	"os"

	"github.com/delaneyj/swapparty/config"
	"github.com/delaneyj/swapparty/internal/logging"
	"github.com/delaneyj/swapparty/object"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

const (
	configKey   = "config"
	logLevelKey = "log-level"
)

func main() {
	cmd := &cli.Command{
		Name:  "swapctl",
		Usage: "Exercise and inspect identity-preserving object swaps",
		Commands: []*cli.Command{
			benchCommand(),
			stripesCommand(),
			dumpCommand(),
			demoCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func commonFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{
			Name:  configKey,
			Usage: "TOML config file",
		},
		&cli.StringFlag{
			Name:  logLevelKey,
			Usage: "Override the configured log level",
		},
	}, extra...)
}

type env struct {
	cfg config.Config
	log zerolog.Logger
}

// setup loads the config named by --config, or the defaults, and builds the
// logger from it. Environment overrides win over the file.
func setup(cmd *cli.Command) (*env, error) {
	cfg := config.Default()
	if path := cmd.String(configKey); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if lvl := cmd.String(logLevelKey); lvl != "" {
		cfg.LogLevel = lvl
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	lc := logging.DefaultConfig(logging.ProfileRuntime)
	lc.Level = cfg.Level()
	logging.ApplyEnv(&lc)
	return &env{
		cfg: cfg,
		log: logging.NewWithConfig(lc, os.Stderr),
	}, nil
}

func (e *env) graph() *object.Graph {
	return object.NewGraph(e.cfg.Options(e.log)...)
}
