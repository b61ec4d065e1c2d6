package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
)

// parseFlags only looks at -a, -k and -t so that command flags such as
// -token pass through untouched.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-t"})

	fs := flag.NewFlagSet("chatctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the gRPC endpoint")
	fs.StringVar(&cfg.AdminKey, "k", cfg.AdminKey, "admin key")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "per-call timeout")

	return fs.Parse(args)
}
