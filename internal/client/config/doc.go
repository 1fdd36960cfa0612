// Package config loads runtime configuration for the Voices CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   address:port of the ledger gRPC endpoint
//	-i int      online status check interval (seconds)
//	-f string   SQLite file for the saved session
//	-r int      per-request timeout (seconds)
//
// # JSON schema
//
// Intervals are timex.Duration values, either strings like "3s" or integer
// nanoseconds. Keys that are absent keep their current value:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "database_file": "voices.db",
//	  "request_timeout": "10s"
//	}
package config
