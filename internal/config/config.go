// ABOUTME: TOML configuration for the unlock bot
// ABOUTME: Loads from disk with ${VAR} expansion and validates before use

package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full bot configuration.
type Config struct {
	API      APIConfig      `toml:"api"`
	Store    StoreConfig    `toml:"store"`
	Themes   ThemesConfig   `toml:"themes"`
	Commands CommandsConfig `toml:"commands"`
	Matrix   MatrixConfig   `toml:"matrix"`
	Logging  LoggingConfig  `toml:"logging"`
}

// APIConfig locates the remote unlock service.
type APIConfig struct {
	Endpoint string `toml:"endpoint"`
	Key      string `toml:"key"`
	Timeout  string `toml:"timeout"` // Go duration syntax, e.g. "10s"
}

// StoreConfig selects the code store backend.
type StoreConfig struct {
	Backend string `toml:"backend"` // file, sqlite, or memory
	Path    string `toml:"path"`    // backing file; defaults to the XDG data dir
}

// ThemesConfig enables individual theme commands.
type ThemesConfig struct {
	Orange bool `toml:"orange"`
	Blue   bool `toml:"blue"`
	Pink   bool `toml:"pink"`
	Lucky  bool `toml:"lucky"`
	Gold   bool `toml:"gold"`
	All    bool `toml:"all"`
}

// CommandsConfig gates the non-theme commands and reply presentation.
type CommandsConfig struct {
	Crypto     bool `toml:"crypto"`      // register encrypt/decrypt
	HidePrefix bool `toml:"hide_prefix"` // reply with raw values only
	GoldKey    bool `toml:"gold_key"`    // surface the gold key on the aggregate theme
}

// MatrixConfig holds the chat frontend credentials and room policy.
type MatrixConfig struct {
	Homeserver    string   `toml:"homeserver"`
	UserID        string   `toml:"user_id"`
	AccessToken   string   `toml:"access_token"`
	AllowedRooms  []string `toml:"allowed_rooms"` // empty means all joined rooms
	CommandPrefix string   `toml:"command_prefix"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `toml:"level"` // debug, info, warn, error
}

// Load reads config from the given path, expanding environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables (${VAR} syntax)
	expanded := expandEnvVars(string(data))

	var cfg Config
	md, err := toml.Decode(expanded, &cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Theme commands are opt-out: a missing [themes] section enables all
	// of them, while an explicit section is taken verbatim.
	if !md.IsDefined("themes") {
		cfg.Themes = ThemesConfig{Orange: true, Blue: true, Pink: true, Lucky: true, Gold: true, All: true}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR} with environment variable values.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := strings.TrimSuffix(strings.TrimPrefix(match, "${"), "}")
		return os.Getenv(varName)
	})
}

func (c *Config) applyDefaults() {
	if c.Store.Backend == "" {
		c.Store.Backend = "file"
	}
	if c.Matrix.CommandPrefix == "" {
		c.Matrix.CommandPrefix = "."
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks that required config fields are present and valid.
func (c *Config) Validate() error {
	if c.API.Endpoint == "" {
		return fmt.Errorf("api.endpoint is required")
	}
	u, err := url.Parse(c.API.Endpoint)
	if err != nil {
		return fmt.Errorf("api.endpoint is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.endpoint must use http or https scheme")
	}
	if c.API.Key == "" {
		return fmt.Errorf("api.key is required")
	}
	if c.API.Timeout != "" {
		d, err := time.ParseDuration(c.API.Timeout)
		if err != nil {
			return fmt.Errorf("api.timeout is not a valid duration: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("api.timeout must be positive")
		}
	}
	switch c.Store.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("store.backend must be file, sqlite, or memory")
	}
	if c.Matrix.Homeserver == "" {
		return fmt.Errorf("matrix.homeserver is required")
	}
	if _, err := url.Parse(c.Matrix.Homeserver); err != nil {
		return fmt.Errorf("matrix.homeserver is not a valid URL: %w", err)
	}
	if c.Matrix.UserID == "" {
		return fmt.Errorf("matrix.user_id is required")
	}
	if c.Matrix.AccessToken == "" {
		return fmt.Errorf("matrix.access_token is required")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error")
	}
	return nil
}

// RequestTimeout returns the parsed api.timeout, or zero when unset so the
// API client can fall back to its own default.
func (c *Config) RequestTimeout() time.Duration {
	if c.API.Timeout == "" {
		return 0
	}
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// Enabled returns the tokens of all enabled themes in a fixed order.
func (t ThemesConfig) Enabled() []string {
	var tokens []string
	for _, e := range []struct {
		token string
		on    bool
	}{
		{"orange", t.Orange},
		{"blue", t.Blue},
		{"pink", t.Pink},
		{"lucky", t.Lucky},
		{"gold", t.Gold},
		{"all", t.All},
	} {
		if e.on {
			tokens = append(tokens, e.token)
		}
	}
	return tokens
}
