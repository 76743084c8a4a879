package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"
)

// Version is reported by --version.
const Version = "0.1.0"

// Flags holds parsed command-line flags.
type Flags struct {
	// Commands
	Help    bool
	Version bool

	// Core
	DataDir string
	Config  string

	// RPC
	RPCAPIKey  string
	RPCTimeout time.Duration

	// Logging
	LogLevel string
	LogFile  string
	LogJSON  bool

	// Remaining args (the command and its arguments)
	Args []string

	// Explicitly-set bool flags (for true/false overrides).
	SetLogJSON bool
}

// ParseFlags parses the global flags in args (without the program name).
// Parsing stops at the first non-flag argument, which starts the command.
func ParseFlags(args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet("klingwallet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	// Commands
	fs.BoolVar(&f.Help, "help", false, "Show help message")
	fs.BoolVar(&f.Help, "h", false, "Show help message (shorthand)")
	fs.BoolVar(&f.Version, "version", false, "Show version information")
	fs.BoolVar(&f.Version, "v", false, "Show version (shorthand)")

	// Core
	fs.StringVar(&f.DataDir, "datadir", "", "Data directory path")
	fs.StringVar(&f.Config, "config", "", "Config file path")
	fs.StringVar(&f.Config, "c", "", "Config file path (shorthand)")

	// RPC
	fs.StringVar(&f.RPCAPIKey, "rpc-apikey", "", "API key appended to every RPC base URL")
	fs.DurationVar(&f.RPCTimeout, "rpc-timeout", 0, "Per-request RPC timeout")

	// Logging
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&f.LogFile, "log-file", "", "Log file path")
	fs.BoolVar(&f.LogJSON, "log-json", false, "Output logs as JSON")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			f.Help = true
			return f, nil
		}
		return nil, err
	}

	f.SetLogJSON = isFlagSet(fs, "log-json")
	f.Args = fs.Args()
	return f, nil
}

// ApplyFlags applies command-line flags to a Config struct.
func ApplyFlags(cfg *Config, f *Flags) {
	if f.DataDir != "" {
		cfg.DataDir = f.DataDir
	}

	// RPC
	if f.RPCAPIKey != "" {
		cfg.RPC.APIKey = f.RPCAPIKey
	}
	if f.RPCTimeout != 0 {
		cfg.RPC.Timeout = f.RPCTimeout
	}

	// Logging
	if f.LogLevel != "" {
		cfg.Log.Level = f.LogLevel
	}
	if f.LogFile != "" {
		cfg.Log.File = f.LogFile
	}
	if f.SetLogJSON {
		cfg.Log.JSON = f.LogJSON
	}
}

// isFlagSet checks if a flag was explicitly set.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// PrintGlobalOptions writes the help text for the global flags.
func PrintGlobalOptions(w io.Writer) {
	fmt.Fprint(w, `Global Options:
  --help, -h      Show this help message
  --version, -v   Show version information
  --datadir       Data directory (default: ~/.klingwallet)
  --config, -c    Config file path (default: <datadir>/klingwallet.conf)
  --rpc-apikey    API key appended to every RPC base URL
  --rpc-timeout   Per-request RPC timeout (default: 10s)
  --log-level     Log level: debug, info, warn, error (default: info)
  --log-file      Log file path (default: stdout)
  --log-json      Output logs as JSON
`)
}

// Load loads configuration with the following precedence:
// 1. Default values
// 2. Auto-create data dirs + default config (idempotent)
// 3. Config file
// 4. Command-line flags
//
// Help and version requests are returned in Flags without touching disk.
func Load(args []string) (*Config, *Flags, error) {
	flags, err := ParseFlags(args)
	if err != nil {
		return nil, nil, err
	}
	if flags.Help || flags.Version {
		return nil, flags, nil
	}

	cfg := Default()
	if flags.DataDir != "" {
		cfg.DataDir = flags.DataDir
	}

	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}

	configPath := flags.Config
	if configPath == "" {
		configPath = cfg.ConfigFile()
	}

	fileValues, err := LoadFile(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	// Flags win over the file, including a datadir set in the file.
	ApplyFlags(cfg, flags)
	if err := Validate(cfg); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, nil, fmt.Errorf("ensuring data dirs: %w", err)
	}
	return cfg, flags, nil
}

// LoadFromFile loads config from defaults + conf file only (no CLI flags).
// Used by the desktop wallet which has no CLI flags.
func LoadFromFile(dataDir string) (*Config, error) {
	cfg := Default()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := EnsureDataDirs(cfg); err != nil {
		return nil, fmt.Errorf("ensuring data dirs: %w", err)
	}
	fileValues, err := LoadFile(cfg.ConfigFile())
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := ApplyFileConfig(cfg, fileValues); err != nil {
		return nil, fmt.Errorf("applying config: %w", err)
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnsureDataDirs creates the data directory structure and a default config
// file if they don't already exist. Safe to call on every startup.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{
		cfg.DataDir,
		cfg.KeystoreDir(),
		cfg.PrefsDir(),
		cfg.LogsDir(),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	configPath := cfg.ConfigFile()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := WriteDefaultConfig(configPath); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}
