package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/voices/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-w string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN, empty for the in-memory ledger
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l int      artificial response delay, milliseconds
//	-m bool     seed demo data ("-m=true")
func parseFlags(config *Config) {
	var tokenMinutes, delayMillis int

	err := flagx.Parse("main", []string{"-a", "-w", "-d", "-s", "-t", "-l", "-m"}, func(fs *flag.FlagSet) {
		fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run gRPC server")
		fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "address and port to run HTTP server")
		fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
		fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
		fs.IntVar(&tokenMinutes, "t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
		fs.IntVar(&delayMillis, "l", int(config.ResponseDelay.Milliseconds()), "response delay (in milliseconds)")
		fs.BoolVar(&config.SeedDemoData, "m", config.SeedDemoData, "seed demo data")
	})
	if err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(tokenMinutes) * time.Minute
	config.ResponseDelay = time.Duration(delayMillis) * time.Millisecond
}
