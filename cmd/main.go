package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/gamelog/internal/services"
	"github.com/desertthunder/gamelog/internal/session"
	"github.com/desertthunder/gamelog/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := "config.toml"
	config, err := shared.LoadConfig(configPath)
	switch {
	case errors.Is(err, shared.ErrMissingConfig):
		config = shared.DefaultConfig()
	case err != nil:
		logger.Warn("failed to load config, using defaults", "error", err)
		config = shared.DefaultConfig()
	}

	if err := shared.ApplyEnv(config); err != nil {
		logger.Warn("failed to apply environment", "error", err)
	}
	if err := shared.SetLogLevel(logger, config.Log.Level); err != nil {
		logger.Warn("ignoring log level", "error", err)
	}

	jar, closeJar := openCookieJar(config, logger)
	creds := session.NewCredentials(jar, config.Session.CookieName, config.Session.TTL())
	client := services.NewClient(services.ClientOpts{
		BaseURL:   config.Backend.BaseURL,
		Tokens:    creds,
		RateLimit: config.Backend.RateLimit,
		Timeout:   config.Backend.Timeout(),
		Logger:    logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:      config,
		ConfigPath:  configPath,
		Client:      client,
		Credentials: creds,
		Logger:      logger,
	})

	app := &cli.Command{
		Name:     "gamelog",
		Usage:    "Track the games you want to play, are playing, finished or gave up on",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	closeJar()
	if err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
