package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-m", "-d", "-s", "-t", "-l", "-k", "-u", "-p", "-b", "-r", "-e"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     REST bind address (e.g., ":8080")
//	-g string     gRPC bind address (e.g., ":50051")
//	-m string     storage backend: postgres | memory
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   access token validity (e.g., "15m")
//	-l duration   session validity (e.g., "720h")
//	-k string     admin key
//	-u string     S3 root user
//	-p string     S3 root password
//	-b string     S3 bucket name
//	-r string     S3 region
//	-e string     S3 base endpoint (e.g., "http://127.0.0.1:9000/")
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port of the REST API")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "address and port of the gRPC endpoint")
	fs.StringVar(&config.Storage, "m", config.Storage, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidityDuration, "t", config.AccessTokenValidityDuration, "access token validity")
	fs.DurationVar(&config.SessionValidityDuration, "l", config.SessionValidityDuration, "session validity")
	fs.StringVar(&config.AdminKey, "k", config.AdminKey, "admin key")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	return fs.Parse(args)
}
