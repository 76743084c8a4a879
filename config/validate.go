package config

import (
	"fmt"
	"net/url"

	klog "github.com/Klingon-tech/klingwallet/internal/log"
)

// Validate checks runtime config for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("datadir is empty")
	}
	if !klog.ValidLevel(cfg.Log.Level) {
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	if cfg.RPC.Timeout <= 0 {
		return fmt.Errorf("rpc.timeout must be positive")
	}
	switch cfg.Wallet.Words {
	case 12, 15, 18, 21, 24:
	default:
		return fmt.Errorf("wallet.words must be 12, 15, 18, 21 or 24")
	}

	for id, raw := range cfg.RPC.BaseURLs() {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("rpc.%s: %w", id, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("rpc.%s must be an http or https URL", id)
		}
		if u.Host == "" {
			return fmt.Errorf("rpc.%s has no host", id)
		}
	}
	return nil
}
