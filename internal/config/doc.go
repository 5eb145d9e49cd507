// Package config handles configuration loading for unlockbot.
//
// # Overview
//
// Configuration is loaded from a TOML file with environment variable
// expansion. The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from UNLOCKBOT_CONFIG environment variable
//  2. ~/.config/unlockbot/config.toml (respecting XDG_CONFIG_HOME)
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	[api]
//	key = "${UNLOCK_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Configuration Sections
//
// Remote unlock service:
//
//	[api]
//	endpoint = "https://unlock.example.com/api"
//	key = "${UNLOCK_API_KEY}"
//	timeout = "10s"              # optional, Go duration syntax
//
// Code store:
//
//	[store]
//	backend = "file"             # file, sqlite, or memory
//	path = "/var/lib/unlockbot/codes.json"
//
// Theme commands (each flag registers one command; omitting the whole
// section enables all themes):
//
//	[themes]
//	orange = true
//	blue = true
//	pink = true
//	lucky = true
//	gold = true
//	all = true
//
// Command behavior:
//
//	[commands]
//	crypto = true                # register encrypt/decrypt
//	hide_prefix = false          # reply with raw values only
//	gold_key = true              # include the gold key on "all"
//
// Matrix frontend:
//
//	[matrix]
//	homeserver = "https://matrix.example.com"
//	user_id = "@unlockbot:example.com"
//	access_token = "${MATRIX_TOKEN}"
//	allowed_rooms = ["!room:example.com"]   # empty list allows all
//	command_prefix = "."
//
// Logging:
//
//	[logging]
//	level = "info"               # debug, info, warn, error
//
// # Validation
//
// Load() validates:
//
//   - Endpoint and homeserver URL syntax (http/https only)
//   - API key and Matrix credential presence
//   - Timeout duration format
//   - Store backend values
//
// # Usage
//
//	cfg, err := config.Load("/etc/unlockbot/config.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
