package config

import "os"

// parseEnv applies environment overrides last, so deployment secrets win
// over anything baked into files or flags.
func parseEnv(config *Config) {
	if v := os.Getenv("PAYROLL_HTTP_ADDR"); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv("PAYROLL_DATABASE_DSN"); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv("PAYROLL_JWT_SECRET"); v != "" {
		config.JWTSecret = v
	}
	if v := os.Getenv("PAYROLL_ENCRYPTION_KEY"); v != "" {
		config.EncryptionKey = v
	}
}
