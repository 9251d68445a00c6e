package config

import (
	"flag"
	"os"

	"github.com/eventops/confctl/internal/flagx"
)

// GlobalValueFlags and GlobalBoolFlags name the flags handled by this
// package (plus the config-file flags of flagx.JSONConfigFlag). The CLI
// layer strips them from os.Args before looking for the subcommand.
var (
	GlobalValueFlags = []string{"-e", "-env", "--env", "-url", "--url", "-c", "-config", "--config"}
	GlobalBoolFlags  = []string{"-debug", "--debug"}
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-e string      target environment name (also -env)
//	-url string    explicit service URL, overrides the environment
//	-debug         verbose logging
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.Filter, to avoid interference with subcommand flags.
func parseFlags(cfg *Config) {
	args := flagx.Filter(os.Args[1:],
		[]string{"-e", "-env", "--env", "-url", "--url"},
		[]string{"-debug", "--debug"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Env, "e", cfg.Env, "target environment")
	fs.StringVar(&cfg.Env, "env", cfg.Env, "target environment")
	fs.StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "service URL, overrides the environment")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
