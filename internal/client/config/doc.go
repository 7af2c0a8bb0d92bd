// Package config loads runtime configuration for the store admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. ADMIN_* environment variables (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   path to the local sqlite database file
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "30s" or integer nanoseconds:
//
//	{
//	  "api_base_url": "http://localhost:3000/api",
//	  "database_path": "admin.db",
//	  "request_timeout": "30s",
//	  "cache_ttl": "30s",
//	  "debounce_interval": "300ms",
//	  "max_retries": 3
//	}
package config
