package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/profile"

	"github.com/roman-kulish/imu-inspect/cmd/imuload/app"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: &logLevel}))

	config, err := app.NewConfigFromCLI(args, stderr)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			logger.Error(err.Error())
		}
		return app.ExitCode(err)
	}

	logLevel.Set(config.LogLevel())

	if config.ProfileDir != "" {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(config.ProfileDir), profile.Quiet).Stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = app.Run(ctx, config, logger, stdout); err != nil {
		logger.Error(err.Error())
		return app.ExitCode(err)
	}

	return app.ExitOK
}
