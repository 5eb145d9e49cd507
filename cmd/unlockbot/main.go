// ABOUTME: Entry point for the unlockbot Matrix bot
// ABOUTME: Wires config, code store, unlock client, and bridge together

package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fatih/color"

	"github.com/hexwatch/unlockbot/internal/bot"
	"github.com/hexwatch/unlockbot/internal/config"
	"github.com/hexwatch/unlockbot/internal/store"
	"github.com/hexwatch/unlockbot/internal/themes"
	"github.com/hexwatch/unlockbot/internal/unlock"
)

const banner = `
    ╭───────────────────────────────────╮
    │                                   │
    │   ╻ ╻┏┓╻╻  ┏━┓┏━╸╻┏    ┏┓ ┏━┓╺┳╸  │
    │   ┃ ┃┃┗┫┃  ┃ ┃┃  ┣┻┓   ┣┻┓┃ ┃ ┃  │
    │   ┗━┛╹ ╹┗━╸┗━┛┗━╸╹ ╹   ┗━┛┗━┛ ╹  │
    │                                   │
    │          theme unlock bot         │
    ╰───────────────────────────────────╯
`

// getConfigPath returns the path to the bot config file.
// Priority: UNLOCKBOT_CONFIG env var > XDG_CONFIG_HOME/unlockbot/config.toml > ~/.config/unlockbot/config.toml
func getConfigPath() string {
	if envPath := os.Getenv("UNLOCKBOT_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "unlockbot", "config.toml")
}

// getDataPath returns the path to the bot data directory.
// Priority: XDG_DATA_HOME/unlockbot > ~/.local/share/unlockbot
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "unlockbot")
}

func main() {
	// Check for init command
	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := runInit(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	configPath := getConfigPath()
	dataPath := getDataPath()

	// Ensure data directory exists
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	// Setup logger. Internal packages log through the default logger,
	// so install it process-wide.
	logger := setupLogger(cfg.Logging.Level)
	slog.SetDefault(logger)

	// Print startup info
	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:     %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Homeserver: %s\n", cfg.Matrix.Homeserver)
	green.Print("    ▶ ")
	fmt.Printf("User:       %s\n", cfg.Matrix.UserID)
	green.Print("    ▶ ")
	fmt.Printf("Endpoint:   %s\n", cfg.API.Endpoint)
	green.Print("    ▶ ")
	fmt.Printf("Store:      %s\n", cfg.Store.Backend)
	fmt.Println()

	// Open the code store
	st, err := openStore(cfg, dataPath)
	if err != nil {
		return fmt.Errorf("opening code store: %w", err)
	}
	defer st.Close()

	// Theme catalog and command handler
	table, err := themes.Load()
	if err != nil {
		return fmt.Errorf("loading theme catalog: %w", err)
	}

	client := unlock.New(cfg.API.Endpoint, cfg.API.Key, cfg.RequestTimeout())

	handler, err := bot.New(st, client, table, bot.Options{
		EnabledThemes: cfg.Themes.Enabled(),
		Crypto:        cfg.Commands.Crypto,
		HidePrefix:    cfg.Commands.HidePrefix,
		GoldKey:       cfg.Commands.GoldKey,
	}, logger)
	if err != nil {
		return fmt.Errorf("building command handler: %w", err)
	}

	// Create bridge
	bridge, err := NewBridge(cfg, handler, logger)
	if err != nil {
		return fmt.Errorf("creating bridge: %w", err)
	}
	defer bridge.Close()

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting unlockbot", "commands", handler.Commands())
	return bridge.Run(ctx)
}

// openStore builds the configured code store backend. An empty path
// lands the backing file in the XDG data directory.
func openStore(cfg *config.Config, dataPath string) (store.Store, error) {
	switch cfg.Store.Backend {
	case "sqlite":
		path := cfg.Store.Path
		if path == "" {
			path = filepath.Join(dataPath, "codes.db")
		}
		return store.NewSQLiteStore(path)
	case "memory":
		return store.NewMemoryStore(), nil
	default: // "file"; config validation rejects anything else
		path := cfg.Store.Path
		if path == "" {
			path = filepath.Join(dataPath, "codes.json")
		}
		return store.NewFileStore(path), nil
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func runInit() error {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	cyan.Print(banner)
	fmt.Println("    Interactive Setup")
	fmt.Println("    -----------------")
	fmt.Println()

	configPath := getConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		yellow.Printf("    Config already exists at %s\n", configPath)
		fmt.Print("    Overwrite? [y/N]: ")
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("    Aborted.")
			return nil
		}
		fmt.Println()
	}

	reader := bufio.NewReader(os.Stdin)

	// Gather config values
	green.Print("    ▶ ")
	fmt.Print("Matrix homeserver URL [https://matrix.org]: ")
	homeserver, _ := reader.ReadString('\n')
	homeserver = strings.TrimSpace(homeserver)
	if homeserver == "" {
		homeserver = "https://matrix.org"
	}

	green.Print("    ▶ ")
	fmt.Print("Matrix user ID (e.g. @unlockbot:matrix.org): ")
	userID, _ := reader.ReadString('\n')
	userID = strings.TrimSpace(userID)

	green.Print("    ▶ ")
	fmt.Print("Matrix access token: ")
	accessToken, _ := reader.ReadString('\n')
	accessToken = strings.TrimSpace(accessToken)

	green.Print("    ▶ ")
	fmt.Print("Unlock API endpoint: ")
	endpoint, _ := reader.ReadString('\n')
	endpoint = strings.TrimSpace(endpoint)

	green.Print("    ▶ ")
	fmt.Print("Unlock API key: ")
	apiKey, _ := reader.ReadString('\n')
	apiKey = strings.TrimSpace(apiKey)

	green.Print("    ▶ ")
	fmt.Print("Command prefix [.]: ")
	prefix, _ := reader.ReadString('\n')
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "."
	}

	// Generate config
	generated := fmt.Sprintf(`# unlockbot configuration
# Generated by unlockbot init

[api]
endpoint = "%s"
key = "%s"
timeout = "10s"

[store]
# file, sqlite, or memory. Empty path uses the XDG data directory.
backend = "file"
path = ""

[themes]
orange = true
blue = true
pink = true
lucky = true
gold = true
all = true

[commands]
crypto = true
hide_prefix = false
gold_key = true

[matrix]
homeserver = "%s"
user_id = "%s"
access_token = "%s"
# Only respond in these rooms (empty = all joined rooms)
allowed_rooms = []
command_prefix = "%s"

[logging]
level = "info"
`, endpoint, apiKey, homeserver, userID, accessToken, prefix)

	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	// The file carries credentials, keep it owner-readable
	if err := os.WriteFile(configPath, []byte(generated), 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	fmt.Println()
	green.Printf("    ✓ Config written to %s\n", configPath)
	fmt.Println()
	fmt.Println("    Next steps:")
	fmt.Println("    1. Run: unlockbot")
	fmt.Println()

	return nil
}
