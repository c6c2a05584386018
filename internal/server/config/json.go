package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ledgerline/payroll-server/internal/flagx"
	"github.com/ledgerline/payroll-server/internal/timex"
)

// JsonConfig is the DTO used only for reading JSON configuration files.
// Duration fields accept both strings such as "24h" and integer
// nanoseconds; after unmarshalling the values are copied into the runtime
// Config.
type JsonConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http"`
	DatabaseDSN      string         `json:"database_dsn"`
	JWTSecret        string         `json:"jwt_secret"`
	EncryptionKey    string         `json:"encryption_key"`
	AccessTokenTTL   timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL  timex.Duration `json:"refresh_token_ttl"`
	RememberMeTTL    timex.Duration `json:"remember_me_ttl"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If neither flag is set,
// nothing is loaded. An unreadable or invalid file panics: a server with
// a half-applied config must not start.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.DatabaseDSN = c.DatabaseDSN
	config.JWTSecret = c.JWTSecret
	config.EncryptionKey = c.EncryptionKey
	config.AccessTokenTTL = time.Duration(c.AccessTokenTTL.Duration)
	config.RefreshTokenTTL = time.Duration(c.RefreshTokenTTL.Duration)
	config.RememberMeTTL = time.Duration(c.RememberMeTTL.Duration)
}
