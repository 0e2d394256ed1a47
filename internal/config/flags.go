package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/ratemymovie/internal/flagx"
)

var knownFlags = []string{"-s", "-d", "-n", "-k", "-l", "-t", "-p", "-m", "-v"}

// parseFlags populates cfg from args. Only the flags listed in the package
// doc are considered; parse errors panic.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StoreDriver, "s", cfg.StoreDriver, "store driver: sqlite, postgres, redis, memory")
	fs.StringVar(&cfg.StoreDSN, "d", cfg.StoreDSN, "store DSN")
	fs.StringVar(&cfg.Namespace, "n", cfg.Namespace, "key namespace")
	fs.StringVar(&cfg.Catalog.APIKey, "k", cfg.Catalog.APIKey, "TMDB api key")
	fs.StringVar(&cfg.Catalog.Language, "l", cfg.Catalog.Language, "catalog language")
	timeout := fs.Int("t", int(cfg.Catalog.Timeout.Seconds()), "catalog timeout (in seconds)")
	fs.StringVar(&cfg.PasswordHashing, "p", cfg.PasswordHashing, "password hashing: plain, argon2")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogLevel, "v", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.Catalog.Timeout = time.Duration(*timeout) * time.Second
}
