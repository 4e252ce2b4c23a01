// Package main replays Lua show scripts against an in-process game.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/louisbranch/improv.show/internal/platform/config"

	showcmd "github.com/louisbranch/improv.show/internal/cmd/show"
)

func main() {
	cfg, err := showcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("show: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := showcmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("show: %v", err)
	}
}
