package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/reoring/formtree/cmd/formtree/commands"
)

// Version information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := commands.Execute(ctx, Version, Commit, BuildDate); err != nil {
		if !errors.Is(err, commands.ErrInvalid) {
			log.Error().Err(err).Msg("Command execution failed")
		}
		os.Exit(1)
	}
}
