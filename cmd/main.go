package main

import (
	"context"
	"os"

	"github.com/martium/fsh/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(".env"); err != nil {
		logger.Warn("ignoring env file", "error", err)
	}

	config, err := shared.ResolveConfig(defaultConfigPath)
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}
	if config.Log.Level != "" {
		if err := shared.SetLogLevelString(logger, config.Log.Level); err != nil {
			logger.Warn("keeping default log level", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: defaultConfigPath,
		Logger:     shared.WithLogger(logger, "session", shared.GenerateID()[:8]),
	})

	app := &cli.Command{
		Name:     "fsh",
		Usage:    "Keep the history of funeral services performed",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
