// Package config handles configuration for the Voices server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Voices server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC ledger endpoint.
//   - EndpointAddrHTTP: bind address for the JSON HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps the ledger in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - ResponseDelay: artificial latency added to every ledger call.
//   - SeedDemoData: load the demo accounts and proposals into an empty ledger.
type Config struct {
	EndpointAddrGRPC            string
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	ResponseDelay               time.Duration
	SeedDemoData                bool
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.ResponseDelay = 0
	c.SeedDemoData = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// InMemory reports whether the ledger lives in process memory.
func (c *Config) InMemory() bool {
	return c.DatabaseDSN == ""
}
