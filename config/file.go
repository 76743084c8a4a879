package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFile loads configuration from a .conf file.
// Format: key = value (one per line, # for comments)
func LoadFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]string), nil
		}
		return nil, err
	}
	defer file.Close()

	values := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: invalid format (expected key = value)", lineNum)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present
		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		values[key] = value
	}

	return values, scanner.Err()
}

// ApplyFileConfig applies file configuration to a Config struct.
func ApplyFileConfig(cfg *Config, values map[string]string) error {
	for key, value := range values {
		if err := setConfigValue(cfg, key, value); err != nil {
			return fmt.Errorf("config key %q: %w", key, err)
		}
	}
	return nil
}

// setConfigValue sets a config value by key. Unknown keys are ignored.
func setConfigValue(cfg *Config, key, value string) error {
	switch key {
	case "datadir":
		cfg.DataDir = value

	// RPC
	case "rpc.ethereum":
		cfg.RPC.Ethereum = value
	case "rpc.polygon":
		cfg.RPC.Polygon = value
	case "rpc.arbitrum":
		cfg.RPC.Arbitrum = value
	case "rpc.optimism":
		cfg.RPC.Optimism = value
	case "rpc.apikey":
		cfg.RPC.APIKey = value
	case "rpc.timeout":
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		cfg.RPC.Timeout = d

	// Wallet
	case "wallet.keystore":
		cfg.Wallet.KeystoreDir = value
	case "wallet.words":
		n, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		cfg.Wallet.Words = n

	// Logging
	case "log.level":
		cfg.Log.Level = value
	case "log.file":
		cfg.Log.File = value
	case "log.json":
		cfg.Log.JSON = parseBool(value)
	}
	return nil
}

// parseBool parses a boolean value.
func parseBool(s string) bool {
	s = strings.ToLower(s)
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// parseDuration accepts Go durations ("15s") or a bare number of seconds.
func parseDuration(s string) (time.Duration, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// WriteDefaultConfig writes a default configuration file.
func WriteDefaultConfig(path string) error {
	d := Default()
	content := `# Klingwallet Configuration
#
# Command-line flags override the values in this file.

# Data directory (default: ~/.klingwallet)
# datadir = ~/.klingwallet

# ============================================================================
# RPC endpoints
# ============================================================================

# Base URL per network. rpc.apikey is appended to each, so a base URL that
# ends in "/" is only usable once an API key is set.
rpc.ethereum = ` + d.RPC.Ethereum + `
rpc.polygon = ` + d.RPC.Polygon + `
rpc.arbitrum = ` + d.RPC.Arbitrum + `
rpc.optimism = ` + d.RPC.Optimism + `
# rpc.apikey =

# Per-request timeout
rpc.timeout = ` + d.RPC.Timeout.String() + `

# ============================================================================
# Wallet
# ============================================================================

# Keystore directory (default: <datadir>/keystore)
# wallet.keystore =

# Recovery phrase length for new wallets: 12, 15, 18, 21 or 24
wallet.words = ` + strconv.Itoa(d.Wallet.Words) + `

# ============================================================================
# Logging
# ============================================================================

log.level = info
# log.file =
log.json = false
`
	return os.WriteFile(path, []byte(content), 0644)
}
