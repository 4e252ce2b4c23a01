// Package config holds the environment-parsing and fatal-exit helpers
// shared by the command entry points.
//
// All service configuration is read from IMPROV_SHOW_* environment
// variables declared as env tags on per-command config structs, with
// command-line flags layered on top by the callers.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// ParseEnv fills target from the process environment according to its
// env struct tags. Fields without a matching variable keep their
// envDefault value.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf prints a formatted message to stderr and terminates the process
// with status 1. Entry points call it for configuration and startup
// failures that leave nothing to clean up.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
