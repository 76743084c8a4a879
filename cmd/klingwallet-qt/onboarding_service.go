package main

import (
	"context"
	"time"

	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/internal/wallet"
)

// OnboardingService exposes wallet onboarding to the frontend.
type OnboardingService struct {
	app *App
}

// ValidationResult is returned by the live validators. Valid results carry
// the canonical value; invalid ones carry the reason code and message.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	Address string `json:"address,omitempty"`
	Words   int    `json:"words,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// ImportRequest holds the parameters for importing a recovery phrase.
type ImportRequest struct {
	Name     string `json:"name"`
	Phrase   string `json:"phrase"`
	Password string `json:"password"`
}

// WalletInfo is returned after a wallet is added.
type WalletInfo struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
	Short   string `json:"short"`
	Type    string `json:"type"`
}

// StatusInfo describes the current onboarding state.
type StatusInfo struct {
	Onboarded    bool   `json:"onboarded"`
	Address      string `json:"address,omitempty"`
	Type         string `json:"type,omitempty"`
	ActiveWallet string `json:"active_wallet,omitempty"`
}

// ValidateAddress checks an address as the user types.
func (o *OnboardingService) ValidateAddress(raw string) ValidationResult {
	addr, err := wallet.ValidateAddress(raw)
	if err != nil {
		return invalidResult(err)
	}
	return ValidationResult{Valid: true, Address: addr.Hex()}
}

// ValidateMnemonic checks a recovery phrase and previews its first address.
// The phrase itself is never echoed back.
func (o *OnboardingService) ValidateMnemonic(raw string) ValidationResult {
	m, err := wallet.ValidateMnemonic(raw)
	if err != nil {
		return invalidResult(err)
	}
	addr, err := wallet.DeriveAddressFromMnemonic(m)
	if err != nil {
		return invalidResult(err)
	}
	return ValidationResult{Valid: true, Address: addr.Hex(), Words: m.WordCount()}
}

// ImportWallet encrypts and stores a recovery phrase.
func (o *OnboardingService) ImportWallet(req ImportRequest) (*WalletInfo, error) {
	password := []byte(req.Password)
	defer clear(password)

	res, err := o.app.service().ImportPhrase(req.Name, req.Phrase, password)
	if err != nil {
		return nil, uiError(err)
	}
	o.app.setActiveWallet(res.Name)
	o.app.notifyUser("Wallet imported", shortAddress(res.Address.Hex()))
	return &WalletInfo{
		Name:    res.Name,
		Address: res.Address.Hex(),
		Short:   shortAddress(res.Address.Hex()),
		Type:    "seed-phrase",
	}, nil
}

// WatchAddress stores a view-only address.
func (o *OnboardingService) WatchAddress(raw string) (*WalletInfo, error) {
	addr, err := o.app.service().WatchAddress(raw)
	if err != nil {
		return nil, uiError(err)
	}
	o.app.setActiveWallet("")
	o.app.notifyUser("Watching address", shortAddress(addr.Hex()))
	return &WalletInfo{
		Address: addr.Hex(),
		Short:   shortAddress(addr.Hex()),
		Type:    "address-only",
	}, nil
}

// Status returns the stored onboarding state.
func (o *OnboardingService) Status() StatusInfo {
	st := o.app.service().Status()
	info := StatusInfo{Onboarded: st.HasWallet()}
	if info.Onboarded {
		info.Address = st.Address.Hex()
		info.Type = string(st.Type)
		info.ActiveWallet = o.app.GetActiveWallet()
	}
	return info
}

// Reset forgets the current wallet. With deleteKeystore the encrypted
// phrases are removed as well.
func (o *OnboardingService) Reset(deleteKeystore bool) error {
	if err := o.app.service().Reset(deleteKeystore); err != nil {
		return uiError(err)
	}
	o.app.setActiveWallet("")
	klog.App.Info().Bool("keystore", deleteKeystore).Msg("Wallet reset from UI")
	return nil
}

// FactoryReset deletes every wallet file and every preference.
func (o *OnboardingService) FactoryReset() error {
	if err := o.app.service().FactoryReset(); err != nil {
		return uiError(err)
	}
	o.app.setActiveWallet("")
	klog.App.Info().Msg("Factory reset from UI")
	return nil
}

// NetworkStatus reports which networks answered a block-number probe.
func (o *OnboardingService) NetworkStatus() (map[string]bool, error) {
	ctx := o.app.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, o.app.cfg.RPC.Timeout+time.Second)
	defer cancel()

	status, err := o.app.service().NetworkStatus(ctx)
	if err != nil {
		return nil, uiError(err)
	}
	return status, nil
}
