// Package config loads runtime configuration for the dashgate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: a .env file in the working directory, then DASHGATE_*
//     variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-e string   environment (development|staging|production)
//	-t int      request timeout (seconds)
//	-s string   local session database path
//	-l string   log level
//	-ephemeral  keep the token in memory only
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so it can be either a
// string like "5s" or integer nanoseconds:
//
//	{
//	  "environment": "staging",
//	  "api_base_url": "https://staging.yourapi.com",
//	  "request_timeout": "5s",
//	  "storage_path": "session.db",
//	  "scopes": ["me"],
//	  "log_backend": "zap"
//	}
//
// Primary API
//
//   - type Config                 runtime settings
//   - func LoadConfig() *Config   defaults, env, JSON, then flags
//   - func (*Config) BaseURL()    effective API base URL
//   - func (*Config) Validate()   rejects settings the client cannot start with
package config
