package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/eventops/confctl/internal/cli"
	"github.com/eventops/confctl/internal/config"
	"github.com/eventops/confctl/internal/flagx"
	"github.com/eventops/confctl/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	log := logging.New(os.Stderr, cfg.Debug).With("run", uuid.NewString())

	// everything after the global flags belongs to the subcommand
	args := flagx.Strip(os.Args[1:], config.GlobalValueFlags, config.GlobalBoolFlags)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := cli.NewApp(cfg, log, os.Stdout, os.Stderr)
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "confctl: %v\n", err)
		os.Exit(1)
	}
}
