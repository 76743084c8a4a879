// Package config handles application configuration.
//
// Settings come from three layers, later ones winning: built-in defaults,
// the klingwallet.conf file in the data directory, and command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config holds the wallet's runtime configuration.
type Config struct {
	DataDir string `conf:"datadir"`

	// RPC endpoints used for connectivity checks
	RPC RPCConfig

	// Wallet
	Wallet WalletConfig

	// Logging
	Log LogConfig
}

// RPCConfig holds per-network RPC base URLs. The API key is appended to
// each base URL, so "https://mainnet.infura.io/v3/" plus a key forms the
// full endpoint.
type RPCConfig struct {
	Ethereum string        `conf:"rpc.ethereum"`
	Polygon  string        `conf:"rpc.polygon"`
	Arbitrum string        `conf:"rpc.arbitrum"`
	Optimism string        `conf:"rpc.optimism"`
	APIKey   string        `conf:"rpc.apikey"`
	Timeout  time.Duration `conf:"rpc.timeout"`
}

// BaseURLs maps network ID to base URL.
func (c RPCConfig) BaseURLs() map[string]string {
	return map[string]string{
		"ethereum": c.Ethereum,
		"polygon":  c.Polygon,
		"arbitrum": c.Arbitrum,
		"optimism": c.Optimism,
	}
}

// WalletConfig holds wallet settings.
type WalletConfig struct {
	KeystoreDir string `conf:"wallet.keystore"` // default: <datadir>/keystore
	Words       int    `conf:"wallet.words"`    // phrase length for new wallets
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `conf:"log.level"`
	File  string `conf:"log.file"`
	JSON  bool   `conf:"log.json"`
}

// =============================================================================
// Directory helpers
// =============================================================================

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.klingwallet
//	macOS:   ~/Library/Application Support/Klingwallet
//	Windows: %APPDATA%\Klingwallet
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".klingwallet"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Klingwallet")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Klingwallet")
		}
		return filepath.Join(home, "AppData", "Roaming", "Klingwallet")
	default:
		return filepath.Join(home, ".klingwallet")
	}
}

// KeystoreDir returns the keystore directory.
func (c *Config) KeystoreDir() string {
	if c.Wallet.KeystoreDir != "" {
		return c.Wallet.KeystoreDir
	}
	return filepath.Join(c.DataDir, "keystore")
}

// PrefsDir returns the preference database directory.
func (c *Config) PrefsDir() string {
	return filepath.Join(c.DataDir, "prefs")
}

// LogsDir returns the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

// ConfigFile returns the config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, "klingwallet.conf")
}
