package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Klingon-tech/klingwallet/config"
	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/internal/network"
	"github.com/Klingon-tech/klingwallet/internal/onboard"
	"github.com/Klingon-tech/klingwallet/internal/prefs"
	"github.com/Klingon-tech/klingwallet/internal/storage"
	"github.com/Klingon-tech/klingwallet/internal/wallet"
)

// qtSettings is the persistent configuration written to qt-settings.json.
// Values here override klingwallet.conf.
type qtSettings struct {
	APIKey       string `json:"rpc_api_key,omitempty"`
	ActiveWallet string `json:"active_wallet,omitempty"`
	Notify       *bool  `json:"notify,omitempty"`
}

// App manages application lifecycle and settings.
type App struct {
	ctx context.Context
	cfg *config.Config
	db  storage.DB

	mu           sync.RWMutex
	activeWallet string // keystore name of the last imported wallet
	notify       bool
	svc          *onboard.Service
	registry     *network.Registry
	prefs        *prefs.Store
	keystore     *wallet.Keystore

	onboarding *OnboardingService
	network    *NetworkService
}

// NewApp loads configuration from dataDir and opens the preference store.
func NewApp(dataDir string) (*App, error) {
	cfg, err := config.LoadFromFile(dataDir)
	if err != nil {
		return nil, err
	}
	if err := klog.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	db, err := storage.NewBadger(cfg.PrefsDir())
	if err != nil {
		return nil, err
	}
	app, err := newApp(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(cfg *config.Config, db storage.DB) (*App, error) {
	ks, err := wallet.NewKeystore(cfg.KeystoreDir())
	if err != nil {
		return nil, err
	}
	app := &App{
		cfg:      cfg,
		db:       db,
		notify:   true,
		keystore: ks,
		prefs:    prefs.New(storage.NewPrefixDB(db, []byte("prefs/"))),
	}
	app.onboarding = &OnboardingService{app: app}
	app.network = &NetworkService{app: app}
	app.loadSettings()
	app.rebuild()
	return app, nil
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	klog.App.Info().Str("datadir", a.cfg.DataDir).Msg("Klingwallet started")
}

func (a *App) shutdown(_ context.Context) {
	if err := a.db.Close(); err != nil {
		klog.App.Error().Err(err).Msg("Failed to close preference store")
	}
}

// rebuild recreates the registry and service after an RPC setting changes.
// Callers must not hold a.mu.
func (a *App) rebuild() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.registry = network.NewRegistry(a.cfg.RPC.BaseURLs(), a.cfg.RPC.APIKey, a.cfg.RPC.Timeout)
	a.svc = onboard.NewService(a.keystore, a.prefs, a.registry, wallet.DefaultParams())
}

func (a *App) service() *onboard.Service {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.svc
}

func (a *App) networks() *network.Registry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.registry
}

// settingsPath returns the path to qt-settings.json.
func (a *App) settingsPath() string {
	return filepath.Join(a.cfg.DataDir, "qt-settings.json")
}

// ── Settings persistence ─────────────────────────────────────────────

func (a *App) loadSettings() {
	data, err := os.ReadFile(a.settingsPath())
	if err != nil {
		return // first launch
	}
	var s qtSettings
	if err := json.Unmarshal(data, &s); err != nil {
		klog.App.Warn().Err(err).Msg("Ignoring unreadable qt-settings.json")
		return
	}
	if s.APIKey != "" {
		a.cfg.RPC.APIKey = s.APIKey
	}
	a.activeWallet = s.ActiveWallet
	if s.Notify != nil {
		a.notify = *s.Notify
	}
}

func (a *App) saveSettings() {
	a.mu.RLock()
	notify := a.notify
	s := qtSettings{
		APIKey:       a.cfg.RPC.APIKey,
		ActiveWallet: a.activeWallet,
		Notify:       &notify,
	}
	a.mu.RUnlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return
	}
	if err := os.WriteFile(a.settingsPath(), data, 0600); err != nil {
		klog.App.Error().Err(err).Msg("Failed to save settings")
	}
}

// ── Getters / Setters (each setter persists) ─────────────────────────

// GetDataDir returns the data directory.
func (a *App) GetDataDir() string {
	return a.cfg.DataDir
}

// GetKeystoreDir returns where encrypted wallets are stored.
func (a *App) GetKeystoreDir() string {
	return a.cfg.KeystoreDir()
}

// HasAPIKey reports whether an RPC API key is set. The key itself is never
// returned to the frontend.
func (a *App) HasAPIKey() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg.RPC.APIKey != ""
}

// SetAPIKey updates the RPC API key and reconnects.
func (a *App) SetAPIKey(key string) {
	a.mu.Lock()
	a.cfg.RPC.APIKey = key
	a.mu.Unlock()
	a.rebuild()
	a.saveSettings()
}

// GetActiveWallet returns the keystore name of the current wallet.
func (a *App) GetActiveWallet() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.activeWallet
}

func (a *App) setActiveWallet(name string) {
	a.mu.Lock()
	a.activeWallet = name
	a.mu.Unlock()
	a.saveSettings()
}

// GetNotifications reports whether desktop notifications are enabled.
func (a *App) GetNotifications() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.notify
}

// SetNotifications enables or disables desktop notifications.
func (a *App) SetNotifications(on bool) {
	a.mu.Lock()
	a.notify = on
	a.mu.Unlock()
	a.saveSettings()
}

func (a *App) notifyUser(title, body string) {
	if a.GetNotifications() {
		sendOSNotification(title, body)
	}
}

// GetVersion returns the application version.
func (a *App) GetVersion() string {
	return config.Version
}

func defaultDataDir() string {
	return config.DefaultDataDir()
}
