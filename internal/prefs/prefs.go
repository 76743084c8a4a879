// Package prefs persists the onboarding state: which wallet is active,
// how it was added, and which networks the user follows.
package prefs

import (
	"errors"
	"fmt"
	"strings"

	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/internal/storage"
	"github.com/Klingon-tech/klingwallet/pkg/types"
)

// Storage keys.
const (
	KeyWalletType          = "wallet_type"
	KeyCurrentAddress      = "current_address"
	KeyOnboardingCompleted = "onboarding_completed"
	KeySelectedNetworks    = "selected_networks"
)

// WalletType records how the current wallet was added.
type WalletType string

const (
	WalletAddressOnly WalletType = "address-only"
	WalletSeedPhrase  WalletType = "seed-phrase"
)

// WalletData is the stored onboarding state. Missing keys read as zero values.
type WalletData struct {
	Address   types.Address `json:"address"`
	Type      WalletType    `json:"type"`
	Onboarded bool          `json:"onboarded"`
}

// HasWallet reports whether a wallet was stored. The zero address is a
// valid watched address, so the type tag decides.
func (d WalletData) HasWallet() bool {
	return d.Onboarded && d.Type != ""
}

// Store reads and writes preferences through a storage.DB.
type Store struct {
	db storage.DB
}

// New wraps db. The store does not own db and never closes it.
func New(db storage.DB) *Store {
	return &Store{db: db}
}

// StoreViewOnlyWallet records addr as a watched address and completes onboarding.
func (s *Store) StoreViewOnlyWallet(addr types.Address) error {
	return s.storeWallet(addr, WalletAddressOnly)
}

// StoreSeedWallet records addr as the account of an imported recovery phrase
// and completes onboarding.
func (s *Store) StoreSeedWallet(addr types.Address) error {
	return s.storeWallet(addr, WalletSeedPhrase)
}

func (s *Store) storeWallet(addr types.Address, typ WalletType) error {
	err := s.write(func(w writer) error {
		if err := w.Put([]byte(KeyWalletType), []byte(typ)); err != nil {
			return err
		}
		if err := w.Put([]byte(KeyCurrentAddress), []byte(addr.Hex())); err != nil {
			return err
		}
		return w.Put([]byte(KeyOnboardingCompleted), []byte("true"))
	})
	if err != nil {
		return fmt.Errorf("store wallet: %w", err)
	}
	klog.Storage.Info().
		Str("address", addr.Hex()).
		Str("type", string(typ)).
		Msg("Wallet preferences saved")
	return nil
}

// WalletData returns the stored state. Read failures are logged and
// reported as "not onboarded" so callers fall back to onboarding.
func (s *Store) WalletData() WalletData {
	var d WalletData

	raw, err := s.get(KeyCurrentAddress)
	if err != nil {
		klog.Storage.Error().Err(err).Msg("Failed to load wallet data")
		return WalletData{}
	}
	if raw != "" {
		addr, err := types.ParseAddress(raw)
		if err != nil {
			klog.Storage.Error().Err(err).Msg("Stored address is corrupt")
			return WalletData{}
		}
		d.Address = addr
	}

	typ, err := s.get(KeyWalletType)
	if err != nil {
		klog.Storage.Error().Err(err).Msg("Failed to load wallet data")
		return WalletData{}
	}
	d.Type = WalletType(typ)

	onboarded, err := s.get(KeyOnboardingCompleted)
	if err != nil {
		klog.Storage.Error().Err(err).Msg("Failed to load wallet data")
		return WalletData{}
	}
	d.Onboarded = onboarded == "true"
	return d
}

// IsOnboardingCompleted reports whether onboarding finished. Read failures
// count as false.
func (s *Store) IsOnboardingCompleted() bool {
	v, err := s.get(KeyOnboardingCompleted)
	if err != nil {
		return false
	}
	return v == "true"
}

// Clear removes the wallet keys in one write. Network selection is kept.
func (s *Store) Clear() error {
	err := s.write(func(w writer) error {
		for _, k := range []string{KeyWalletType, KeyCurrentAddress, KeyOnboardingCompleted} {
			if err := w.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear wallet data: %w", err)
	}
	klog.Storage.Info().Msg("Wallet preferences cleared")
	return nil
}

// namespace is implemented by DBs scoped to the preference keys alone,
// such as storage.PrefixDB.
type namespace interface {
	DeleteAll() (int, error)
}

// Wipe removes every preference, network selection included. On a
// namespaced DB the whole namespace is dropped in one write.
func (s *Store) Wipe() error {
	if ns, ok := s.db.(namespace); ok {
		n, err := ns.DeleteAll()
		if err != nil {
			return fmt.Errorf("wipe preferences: %w", err)
		}
		klog.Storage.Info().Int("keys", n).Msg("Preferences wiped")
		return nil
	}
	err := s.write(func(w writer) error {
		for _, k := range []string{KeyWalletType, KeyCurrentAddress, KeyOnboardingCompleted, KeySelectedNetworks} {
			if err := w.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("wipe preferences: %w", err)
	}
	klog.Storage.Info().Msg("Preferences wiped")
	return nil
}

// SelectedNetworks returns the stored network IDs, or defaults when none
// are stored.
func (s *Store) SelectedNetworks(defaults []string) ([]string, error) {
	v, err := s.get(KeySelectedNetworks)
	if err != nil {
		return nil, fmt.Errorf("load selected networks: %w", err)
	}
	if v == "" {
		return append([]string(nil), defaults...), nil
	}
	return strings.Split(v, ","), nil
}

// SetSelectedNetworks stores ids in the given order.
func (s *Store) SetSelectedNetworks(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("select at least one network")
	}
	for _, id := range ids {
		if id == "" || strings.Contains(id, ",") {
			return fmt.Errorf("invalid network id %q", id)
		}
	}
	if err := s.db.Put([]byte(KeySelectedNetworks), []byte(strings.Join(ids, ","))); err != nil {
		return fmt.Errorf("store selected networks: %w", err)
	}
	return nil
}

// get returns "" for a missing key.
func (s *Store) get(key string) (string, error) {
	v, err := s.db.Get([]byte(key))
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

type writer interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// write applies fn atomically when the DB supports batches, otherwise
// key by key.
func (s *Store) write(fn func(w writer) error) error {
	b, ok := s.db.(storage.Batcher)
	if !ok {
		return fn(s.db)
	}
	batch := b.NewBatch()
	if err := fn(batch); err != nil {
		batch.Discard()
		return err
	}
	return batch.Commit()
}
