package config

import (
	"flag"
	"os"
	"time"

	"github.com/ledgerline/payroll-server/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-k string   base64-encoded 256-bit field-encryption key
//	-t int      access token TTL, hours
//	-r int      refresh token TTL, hours
//	-m int      remember-me TTL, hours
//
// os.Args is filtered to only these flags first, so other components'
// flags do not collide. Duration flags are integers in hours.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-k", "-t", "-r", "-m"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.JWTSecret, "s", config.JWTSecret, "JWT signing secret")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "base64 field-encryption key")

	accessTokenTTL := fs.Int("t", int(config.AccessTokenTTL.Hours()), "access token ttl (in hours)")
	refreshTokenTTL := fs.Int("r", int(config.RefreshTokenTTL.Hours()), "refresh token ttl (in hours)")
	rememberMeTTL := fs.Int("m", int(config.RememberMeTTL.Hours()), "remember-me ttl (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTokenTTL) * time.Hour
	config.RefreshTokenTTL = time.Duration(*refreshTokenTTL) * time.Hour
	config.RememberMeTTL = time.Duration(*rememberMeTTL) * time.Hour
}
