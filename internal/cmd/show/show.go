// Package show parses show-script flags and replays Lua scripts in process.
package show

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"

	"github.com/louisbranch/improv.show/internal/catalog"
	platformcmd "github.com/louisbranch/improv.show/internal/platform/cmd"
	"github.com/louisbranch/improv.show/internal/tools/showscript"
)

// Config holds show command configuration.
type Config struct {
	Script     string `env:"IMPROV_SHOW_SCRIPT_FILE"`
	Scenarios  string `env:"IMPROV_SHOW_SCENARIO_FILE"`
	Assertions bool   `env:"IMPROV_SHOW_SCRIPT_ASSERT" envDefault:"true"`
	Verbose    bool   `env:"IMPROV_SHOW_SCRIPT_VERBOSE"`
	Seed       int64  `env:"IMPROV_SHOW_SCRIPT_SEED"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.Script, "script", cfg.Script, "path to show script lua file")
	fs.StringVar(&cfg.Scenarios, "scenarios", cfg.Scenarios, "path to scenario catalog yaml file")
	fs.BoolVar(&cfg.Assertions, "assert", cfg.Assertions, "enable assertions (disable to log expectations)")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "enable verbose logging")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for scenario draws (0 picks a fresh one)")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run executes the show command.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if cfg.Script == "" {
		return errors.New("script path is required")
	}

	deck := catalog.Catalog{}
	if cfg.Scenarios != "" {
		loaded, err := catalog.Load(cfg.Scenarios)
		if err != nil {
			return err
		}
		deck = loaded
	}

	mode := showscript.AssertionStrict
	if !cfg.Assertions {
		mode = showscript.AssertionLogOnly
	}

	logger := log.New(errOut, "", 0)
	if err := showscript.RunFile(ctx, showscript.Config{
		Catalog:    deck,
		Seed:       cfg.Seed,
		Assertions: mode,
		Verbose:    cfg.Verbose,
		Logger:     logger,
	}, cfg.Script); err != nil {
		return err
	}

	fmt.Fprintf(out, "show completed: %s\n", cfg.Script)
	return nil
}
