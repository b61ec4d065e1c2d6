// Package config loads runtime configuration for chatctl.
//
// Sources, later ones winning: built-in defaults, an optional JSON file
// (-c / -config), GOPHCHAT_* environment variables, then flags:
//
//	-a string     address:port of the server's gRPC endpoint
//	-k string     admin key sent as x-admin-key
//	-t duration   per-call timeout
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "admin_key": "...",
//	  "timeout": "10s"
//	}
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ServerEndpointAddr string        `env:"GOPHCHAT_SERVER_ADDR"`
	AdminKey           string        `env:"GOPHCHAT_ADMIN_KEY"`
	Timeout            time.Duration `env:"GOPHCHAT_TIMEOUT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AdminKey = ""
	c.Timeout = 10 * time.Second
}

// LoadConfig builds a Config from defaults, JSON, the environment and args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
