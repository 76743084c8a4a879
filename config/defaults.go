package config

import "time"

// DefaultRPCTimeout bounds a single connectivity check.
const DefaultRPCTimeout = 10 * time.Second

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		RPC: RPCConfig{
			// Infura-style base URLs; without rpc.apikey they stay unconfigured.
			Ethereum: "https://mainnet.infura.io/v3/",
			Polygon:  "https://polygon-mainnet.infura.io/v3/",
			Arbitrum: "https://arbitrum-mainnet.infura.io/v3/",
			Optimism: "https://optimism-mainnet.infura.io/v3/",
			Timeout:  DefaultRPCTimeout,
		},
		Wallet: WalletConfig{
			Words: 12,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
