// Package host parses console host flags and runs the Gemini-backed show.
package host

import (
	"context"
	"flag"

	hostservice "github.com/louisbranch/improv.show/internal/host"
	platformcmd "github.com/louisbranch/improv.show/internal/platform/cmd"
)

// Config holds host command configuration.
type Config struct {
	APIKey string `env:"IMPROV_SHOW_GEMINI_API_KEY"`
	Model  string `env:"IMPROV_SHOW_GEMINI_MODEL"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Model, "model", cfg.Model, "Gemini model name")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the console host and blocks until the show ends.
func Run(ctx context.Context, cfg Config) error {
	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceHost, func(ctx context.Context) error {
		h, err := hostservice.New(ctx, hostservice.Config{
			APIKey: cfg.APIKey,
			Model:  cfg.Model,
		})
		if err != nil {
			return err
		}
		defer h.Close()
		return h.Run(ctx)
	})
}
