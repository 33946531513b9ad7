// Package config loads runtime configuration for the SafeSend CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON or YAML file selected via -c or -config.
//  3. SAFESEND_* environment variables, with an optional .env file.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// # File schema
//
//	server_endpoint_addr: 127.0.0.1:50051
//	online_check_interval: 3s
//	keystore_path: safesend-keystore.json
//	local_db_path: safesend.db
//	indexed_history: false
//	receipt_timeout: 2m
package config
