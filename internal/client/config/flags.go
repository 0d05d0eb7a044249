package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/dashgate/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   API base URL (overrides the environment preset)
//	-e string   environment: development, staging or production
//	-t int      request timeout in seconds
//	-s string   path of the local session database
//	-l string   log level
//	-ephemeral  keep the session token in memory only
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgsWithSwitches, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgsWithSwitches(os.Args[1:],
		[]string{"-a", "-e", "-t", "-s", "-l"}, []string{"-ephemeral"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	env := fs.String("e", string(cfg.Environment), "environment (development|staging|production)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.StoragePath, "s", cfg.StoragePath, "path of the local session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug|info|warn|error)")
	fs.BoolVar(&cfg.Ephemeral, "ephemeral", cfg.Ephemeral, "keep the session token in memory only")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Environment = Environment(*env)
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
