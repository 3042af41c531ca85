package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"beholder/internal/app"
	"beholder/internal/shared/config"
	"beholder/internal/shared/logger"
	"beholder/internal/shared/pidfile"
	"beholder/internal/shared/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	pidPath := flag.String("pidfile", "/var/run/beholder.pid", "Path to the pidfile")
	configPath := flag.String("config", "beholder.ini", "Path to the daemon config file")
	flag.Parse()

	pf := pidfile.New(*pidPath)
	if pf.Exists() {
		fmt.Fprintf(os.Stderr, "beholder already running (pidfile '%s' exists)\n", *pidPath)
		return 1
	}

	cfg := new(types.Config)
	if err := config.Load(cfg, *configPath); err != nil {
		// Use standard fmt before logger is initialized.
		fmt.Fprintf(os.Stderr, "Fatal: failed to load config file '%s': %v\n", *configPath, err)
		return 1
	}

	if err := logger.Init(cfg.BeholderConf, uuid.NewString()); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal: failed to initialize logger: %v\n", err)
		return 1
	}

	pid, err := pf.Create()
	if err != nil {
		logger.Error().Err(err).Msg("failed to create pidfile")
		return 1
	}
	defer func() { _ = pf.Remove() }()
	logger.Info().Str("pid", pid).Msg("beholder starting")

	beholder := app.New(cfg)
	if err := beholder.Run(context.Background()); err != nil {
		logger.Error().Err(err).Msg("beholder exited with error")
		return 1
	}
	return 0
}
