package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/ratemymovie/internal/buildinfo"
	"github.com/dmitrijs2005/ratemymovie/internal/cli"
	"github.com/dmitrijs2005/ratemymovie/internal/config"
	"github.com/dmitrijs2005/ratemymovie/internal/logging"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// run returns instead of exiting so that its deferred cleanup always runs.
func run(args []string) error {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig(args)
	log := logging.NewTint(os.Stderr, logging.ParseLevel(cfg.LogLevel))

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		return err
	}
	defer app.Close()

	app.Run(ctx)
	return nil
}
