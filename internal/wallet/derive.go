package wallet

import (
	"errors"
	"fmt"

	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/pkg/types"
	"github.com/tyler-smith/go-bip39"
)

// ErrDerivation is wrapped by every DeriveAddressFromMnemonic failure.
// Seeing it means a mnemonic that should have been validated was not.
var ErrDerivation = errors.New("address derivation failed")

// DeriveAddressFromMnemonic returns the address of the first account
// (DefaultPath) for m with an empty BIP-39 passphrase.
func DeriveAddressFromMnemonic(m Mnemonic) (types.Address, error) {
	return DeriveAccountAddress(m, "", 0, 0)
}

// DeriveAccountAddress returns the address at m/44'/60'/account'/0/index.
func DeriveAccountAddress(m Mnemonic, passphrase string, account, index uint32) (types.Address, error) {
	done := klog.Benchmark("derive_address")
	defer done()

	if m.IsZero() || !bip39.IsMnemonicValid(m.Phrase()) {
		klog.Wallet.Error().
			Int("words", m.WordCount()).
			Msg("Derivation called with an unvalidated mnemonic")
		return types.Address{}, fmt.Errorf("%w: mnemonic is not valid", ErrDerivation)
	}

	seed, err := SeedFromMnemonic(m, passphrase)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	defer zero(seed)

	master, err := NewMasterKey(seed)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	key, err := master.DeriveAccount(account, ChangeExternal, index)
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	addr, err := key.Address()
	if err != nil {
		return types.Address{}, fmt.Errorf("%w: %v", ErrDerivation, err)
	}
	return addr, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
