package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dashgate/internal/buildinfo"
	"github.com/dmitrijs2005/dashgate/internal/client/cli"
	"github.com/dmitrijs2005/dashgate/internal/client/config"
	"github.com/dmitrijs2005/dashgate/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(logging.Config{
		Backend:  cfg.LogBackend,
		Level:    cfg.LogLevel,
		Encoding: cfg.LogFormat,
	}, os.Stderr)
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "cli stopped", "error", err)
	}

}
