package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/dmitrijs2005/gophchat/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "15m" and integer nanoseconds.
type JsonConfig struct {
	HTTPAddr                    string         `json:"http_addr"`
	GRPCAddr                    string         `json:"grpc_addr"`
	Storage                     string         `json:"storage"`
	DatabaseDSN                 string         `json:"database_dsn"`
	MaxOpenConns                int            `json:"max_open_conns"`
	ConnAcquireTimeout          timex.Duration `json:"conn_acquire_timeout"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	SessionValidityDuration     timex.Duration `json:"session_validity_duration"`
	AdminKey                    string         `json:"admin_key"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
	OTelEndpoint                string         `json:"otel_endpoint"`
}

// parseJson overlays the file named by -c / -config onto config. Keys
// missing from the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	config.HTTPAddr = c.HTTPAddr
	config.GRPCAddr = c.GRPCAddr
	config.Storage = c.Storage
	config.DatabaseDSN = c.DatabaseDSN
	config.MaxOpenConns = c.MaxOpenConns
	config.ConnAcquireTimeout = c.ConnAcquireTimeout.Duration
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.SessionValidityDuration = c.SessionValidityDuration.Duration
	config.AdminKey = c.AdminKey
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.LogLevel = c.LogLevel
	config.LogFormat = c.LogFormat
	config.OTelEndpoint = c.OTelEndpoint
	return nil
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:                    c.HTTPAddr,
		GRPCAddr:                    c.GRPCAddr,
		Storage:                     c.Storage,
		DatabaseDSN:                 c.DatabaseDSN,
		MaxOpenConns:                c.MaxOpenConns,
		ConnAcquireTimeout:          timex.Duration{Duration: c.ConnAcquireTimeout},
		SecretKey:                   c.SecretKey,
		AccessTokenValidityDuration: timex.Duration{Duration: c.AccessTokenValidityDuration},
		SessionValidityDuration:     timex.Duration{Duration: c.SessionValidityDuration},
		AdminKey:                    c.AdminKey,
		S3RootUser:                  c.S3RootUser,
		S3RootPassword:              c.S3RootPassword,
		S3Bucket:                    c.S3Bucket,
		S3Region:                    c.S3Region,
		S3BaseEndpoint:              c.S3BaseEndpoint,
		LogLevel:                    c.LogLevel,
		LogFormat:                   c.LogFormat,
		OTelEndpoint:                c.OTelEndpoint,
	}
}
