// Package cmd carries the pieces shared by every improv binary: service
// names, env-then-flags config loading, and the telemetry-wrapped run
// loop.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/improv.show/internal/platform/config"
	"github.com/louisbranch/improv.show/internal/platform/otel"
)

// Services known to the launcher. The name doubles as the flag-set name
// and the tracing service attribute.
const (
	ServiceHost = "host"
	ServiceMCP  = "mcp"
	ServiceShow = "show"
)

// telemetryFlushTimeout bounds the final span flush on shutdown.
const telemetryFlushTimeout = 5 * time.Second

// ParseConfig fills cfg from the environment. Commands call it before
// registering flags so the flag defaults pick up the env values.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs applies command-line flags on top of the env-derived
// defaults already registered on fs.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs runs both halves of the config load: env first,
// then flags. Flags registered on fs after the env pass win.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry sets up tracing for service, executes run, and
// flushes any buffered spans on the way out regardless of how run
// returns.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return errors.New("service name is required")
	}
	if run == nil {
		return errors.New("run function is required")
	}

	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			log.Printf("%s telemetry shutdown: %v", service, err)
		}
	}()

	return run(ctx)
}
