package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/dmitrijs2005/gophchat/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	AdminKey           string         `json:"admin_key"`
	Timeout            timex.Duration `json:"timeout"`
}

// parseJson overlays cfg with the file named by -c / -config. Keys missing
// from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	jc := JsonConfig{
		ServerEndpointAddr: cfg.ServerEndpointAddr,
		AdminKey:           cfg.AdminKey,
		Timeout:            timex.Duration{Duration: cfg.Timeout},
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	cfg.AdminKey = jc.AdminKey
	cfg.Timeout = jc.Timeout.Duration
	return nil
}
