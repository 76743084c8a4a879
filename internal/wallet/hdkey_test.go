package wallet

import (
	"bytes"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// testSeed returns the BIP-39 seed of "abandon" x11 + "about" with passphrase "TREZOR".
func testSeed(t *testing.T) []byte {
	t.Helper()
	seed, err := SeedFromMnemonic(testMnemonic(t), "TREZOR")
	if err != nil {
		t.Fatalf("SeedFromMnemonic() error: %v", err)
	}
	return seed
}

func testMaster(t *testing.T) *HDKey {
	t.Helper()
	master, err := NewMasterKey(testSeed(t))
	if err != nil {
		t.Fatalf("NewMasterKey() error: %v", err)
	}
	return master
}

func TestNewMasterKey(t *testing.T) {
	master := testMaster(t)

	if !master.IsPrivate() {
		t.Error("master key should be private")
	}
	if master.Depth() != 0 {
		t.Errorf("master key depth = %d, want 0", master.Depth())
	}
	if n := len(master.PrivateKeyBytes()); n != 32 {
		t.Errorf("private key length = %d, want 32", n)
	}
	if n := len(master.PublicKeyBytes()); n != 33 {
		t.Errorf("public key length = %d, want 33", n)
	}
}

func TestNewMasterKey_InvalidSeedLength(t *testing.T) {
	tests := []struct {
		name string
		seed []byte
	}{
		{"empty", []byte{}},
		{"too short", make([]byte, 32)},
		{"too long", make([]byte, 128)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMasterKey(tt.seed); err == nil {
				t.Error("expected error for invalid seed length")
			}
		})
	}
}

func TestDeriveChild(t *testing.T) {
	master := testMaster(t)

	child, err := master.DeriveChild(0)
	if err != nil {
		t.Fatalf("DeriveChild(0) error: %v", err)
	}
	if child.Depth() != 1 {
		t.Errorf("child depth = %d, want 1", child.Depth())
	}
	if !child.IsPrivate() {
		t.Error("child derived from private key should be private")
	}

	child2, err := master.DeriveChild(1)
	if err != nil {
		t.Fatalf("DeriveChild(1) error: %v", err)
	}
	if bytes.Equal(child.PrivateKeyBytes(), child2.PrivateKeyBytes()) {
		t.Error("different indices should produce different keys")
	}
}

func TestDerivePath(t *testing.T) {
	master := testMaster(t)

	c1, err := master.DeriveChild(PurposeBIP44)
	if err != nil {
		t.Fatalf("DeriveChild() error: %v", err)
	}
	c2, err := c1.DeriveChild(CoinTypeEthereum)
	if err != nil {
		t.Fatalf("DeriveChild() error: %v", err)
	}

	combined, err := master.DerivePath(PurposeBIP44, CoinTypeEthereum)
	if err != nil {
		t.Fatalf("DerivePath() error: %v", err)
	}
	if !bytes.Equal(c2.PrivateKeyBytes(), combined.PrivateKeyBytes()) {
		t.Error("DerivePath should equal sequential DeriveChild")
	}
}

func TestDeriveAccount(t *testing.T) {
	master := testMaster(t)

	key, err := master.DeriveAccount(0, ChangeExternal, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	// m / purpose' / coin' / account' / change / index
	if key.Depth() != 5 {
		t.Errorf("account key depth = %d, want 5", key.Depth())
	}

	other, err := master.DeriveAccount(1, ChangeExternal, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	if bytes.Equal(key.PrivateKeyBytes(), other.PrivateKeyBytes()) {
		t.Error("different accounts should produce different keys")
	}

	change, err := master.DeriveAccount(0, ChangeInternal, 0)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}
	if bytes.Equal(key.PrivateKeyBytes(), change.PrivateKeyBytes()) {
		t.Error("external and change keys should differ")
	}
}

func TestHDKey_Address_MatchesGoEthereum(t *testing.T) {
	master := testMaster(t)
	key, err := master.DeriveAccount(0, ChangeExternal, 3)
	if err != nil {
		t.Fatalf("DeriveAccount() error: %v", err)
	}

	addr, err := key.Address()
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	if addr.IsZero() {
		t.Fatal("derived address should not be zero")
	}

	priv, err := ethcrypto.ToECDSA(key.PrivateKeyBytes())
	if err != nil {
		t.Fatalf("ToECDSA() error: %v", err)
	}
	want := ethcrypto.PubkeyToAddress(priv.PublicKey)
	if addr.Hex() != want.Hex() {
		t.Errorf("Address() = %s, go-ethereum = %s", addr.Hex(), want.Hex())
	}
}
