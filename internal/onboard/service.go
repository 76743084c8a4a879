// Package onboard implements the two ways a user adds a wallet: importing a
// recovery phrase or watching an address.
package onboard

import (
	"context"
	"errors"
	"fmt"

	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/internal/network"
	"github.com/Klingon-tech/klingwallet/internal/prefs"
	"github.com/Klingon-tech/klingwallet/internal/wallet"
	"github.com/Klingon-tech/klingwallet/pkg/types"
)

// Service orchestrates validation, the keystore and the preference store.
type Service struct {
	keystore *wallet.Keystore
	prefs    *prefs.Store
	registry *network.Registry
	params   wallet.EncryptionParams
}

// NewService creates an onboarding service. registry may be nil when no
// network access is wanted.
func NewService(ks *wallet.Keystore, store *prefs.Store, registry *network.Registry, params wallet.EncryptionParams) *Service {
	return &Service{
		keystore: ks,
		prefs:    store,
		registry: registry,
		params:   params,
	}
}

// ImportResult describes a wallet added from a recovery phrase.
type ImportResult struct {
	Name    string        `json:"name"`
	Address types.Address `json:"address"`
	Words   int           `json:"words"`
}

// ImportPhrase validates rawPhrase, derives its first account, stores the
// encrypted phrase under name and marks onboarding complete. Nothing is
// written when validation fails.
func (s *Service) ImportPhrase(name, rawPhrase string, password []byte) (ImportResult, error) {
	m, err := wallet.ValidateMnemonic(rawPhrase)
	if err != nil {
		klog.Onboard.Debug().Str("reason", string(wallet.ReasonOf(err))).Msg("Recovery phrase rejected")
		return ImportResult{}, err
	}

	if err := wallet.ValidateWalletName(name); err != nil {
		return ImportResult{}, err
	}
	if len(password) == 0 {
		return ImportResult{}, ErrEmptyPassword
	}

	addr, err := wallet.DeriveAddressFromMnemonic(m)
	if err != nil {
		return ImportResult{}, err
	}

	if err := s.keystore.Create(name, m, addr, password, s.params); err != nil {
		if errors.Is(err, wallet.ErrWalletExists) {
			return ImportResult{}, err
		}
		return ImportResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if err := s.prefs.StoreSeedWallet(addr); err != nil {
		if derr := s.keystore.Delete(name); derr != nil {
			klog.Onboard.Error().Err(derr).Str("wallet", name).Msg("Failed to roll back keystore entry")
		}
		return ImportResult{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	klog.Onboard.Info().
		Str("wallet", name).
		Str("address", addr.Hex()).
		Int("words", m.WordCount()).
		Msg("Wallet imported")
	return ImportResult{Name: name, Address: addr, Words: m.WordCount()}, nil
}

// WatchAddress validates raw and stores it as a view-only wallet.
func (s *Service) WatchAddress(raw string) (types.Address, error) {
	addr, err := wallet.ValidateAddress(wallet.SanitizeAddress(raw))
	if err != nil {
		klog.Onboard.Debug().Str("reason", string(wallet.ReasonOf(err))).Msg("Address rejected")
		return types.Address{}, err
	}
	if err := s.prefs.StoreViewOnlyWallet(addr); err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	klog.Onboard.Info().Str("address", addr.Hex()).Msg("Watching address")
	return addr, nil
}

// Status returns the stored onboarding state.
func (s *Service) Status() prefs.WalletData {
	return s.prefs.WalletData()
}

// Wallets lists keystore entries.
func (s *Service) Wallets() ([]string, error) {
	names, err := s.keystore.List()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return names, nil
}

// Reset clears the onboarding state. With deleteKeystore set, every
// encrypted wallet is removed too.
func (s *Service) Reset(deleteKeystore bool) error {
	if deleteKeystore {
		if err := s.deleteWallets(); err != nil {
			return err
		}
	}
	if err := s.prefs.Clear(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if s.registry != nil {
		s.registry.Reset()
	}
	klog.Onboard.Info().Bool("keystore", deleteKeystore).Msg("Onboarding reset")
	return nil
}

// FactoryReset deletes every encrypted wallet and every preference,
// network selection included.
func (s *Service) FactoryReset() error {
	if err := s.deleteWallets(); err != nil {
		return err
	}
	if err := s.prefs.Wipe(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if s.registry != nil {
		s.registry.Reset()
	}
	klog.Onboard.Info().Msg("Factory reset")
	return nil
}

func (s *Service) deleteWallets() error {
	names, err := s.keystore.List()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	for _, name := range names {
		if err := s.keystore.Delete(name); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	return nil
}

// NetworkStatus reports connectivity for every supported network.
func (s *Service) NetworkStatus(ctx context.Context) (map[string]bool, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("%w: no network registry", network.ErrRPCNotConfigured)
	}
	return s.registry.Status(ctx), nil
}
