package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/dmitrijs2005/petkeeper/internal/flagx"
)

// serverFlags are the short flags understood by parseFlags.
var serverFlags = []string{"-a", "-d", "-s", "-k", "-t", "-r"}

// parseFlags overlays command-line flags onto cfg:
//
//	-a string   HTTP bind address
//	-d string   PostgreSQL DSN
//	-s string   access token secret
//	-k string   refresh token secret
//	-t int      access token TTL, minutes
//	-r int      refresh token TTL, minutes
//
// Arguments other than these are ignored.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("petkeeper", flag.ContinueOnError)

	fs.StringVar(&cfg.HTTPAddress, "a", cfg.HTTPAddress, "address and port to run server")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.AccessTokenSecret, "s", cfg.AccessTokenSecret, "access token secret")
	fs.StringVar(&cfg.RefreshTokenSecret, "k", cfg.RefreshTokenSecret, "refresh token secret")
	accessTTL := fs.Int("t", int(cfg.AccessTokenTTL.Minutes()), "access token TTL (minutes)")
	refreshTTL := fs.Int("r", int(cfg.RefreshTokenTTL.Minutes()), "refresh token TTL (minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, serverFlags)); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// Only touch TTLs that were given explicitly so sub-minute values from
	// other sources survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			cfg.AccessTokenTTL = time.Duration(*accessTTL) * time.Minute
		case "r":
			cfg.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Minute
		}
	})
	return nil
}
