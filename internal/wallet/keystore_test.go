package wallet

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testKeystore(t *testing.T) *Keystore {
	t.Helper()
	ks, err := NewKeystore(t.TempDir())
	if err != nil {
		t.Fatalf("NewKeystore() error: %v", err)
	}
	return ks
}

func createTestWallet(t *testing.T, ks *Keystore, name string, password []byte) Mnemonic {
	t.Helper()
	m := testMnemonic(t)
	addr, err := DeriveAddressFromMnemonic(m)
	if err != nil {
		t.Fatalf("DeriveAddressFromMnemonic() error: %v", err)
	}
	if err := ks.Create(name, m, addr, password, fastParams()); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	return m
}

func TestKeystore_CreateAndLoad(t *testing.T) {
	ks := testKeystore(t)
	password := []byte("test-password")
	m := createTestWallet(t, ks, "mywallet", password)

	loaded, err := ks.Load("mywallet", password)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Phrase() != m.Phrase() {
		t.Error("loaded mnemonic does not match original")
	}
	if loaded.WordCount() != 12 {
		t.Errorf("WordCount() = %d, want 12", loaded.WordCount())
	}
}

func TestKeystore_Address(t *testing.T) {
	ks := testKeystore(t)
	createTestWallet(t, ks, "mywallet", []byte("pass"))

	addr, err := ks.Address("mywallet")
	if err != nil {
		t.Fatalf("Address() error: %v", err)
	}
	if addr.Hex() != abandonAddress {
		t.Errorf("Address() = %s, want %s", addr.Hex(), abandonAddress)
	}
}

func TestKeystore_CreateDuplicate(t *testing.T) {
	ks := testKeystore(t)
	m := createTestWallet(t, ks, "dup", []byte("pass"))

	addr, _ := ks.Address("dup")
	err := ks.Create("dup", m, addr, []byte("pass"), fastParams())
	if !errors.Is(err, ErrWalletExists) {
		t.Errorf("second Create() error = %v, want ErrWalletExists", err)
	}
}

func TestKeystore_CreateRejects(t *testing.T) {
	ks := testKeystore(t)
	m := testMnemonic(t)
	addr, _ := DeriveAddressFromMnemonic(m)

	if err := ks.Create("w", Mnemonic{}, addr, []byte("pass"), fastParams()); err == nil {
		t.Error("Create() should reject a zero Mnemonic")
	}
	if err := ks.Create("w", m, addr, nil, fastParams()); err == nil {
		t.Error("Create() should reject an empty password")
	}
	for _, name := range []string{"", "  ", ".", "..", "a/b", `a\b`} {
		if err := ks.Create(name, m, addr, []byte("pass"), fastParams()); err == nil {
			t.Errorf("Create(%q) should reject the name", name)
		}
	}
}

func TestKeystore_LoadWrongPassword(t *testing.T) {
	ks := testKeystore(t)
	createTestWallet(t, ks, "wallet", []byte("correct"))

	_, err := ks.Load("wallet", []byte("wrong"))
	if !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Load() error = %v, want ErrWrongPassword", err)
	}
}

func TestKeystore_LoadNonexistent(t *testing.T) {
	ks := testKeystore(t)

	_, err := ks.Load("doesnotexist", []byte("pass"))
	if !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("Load() error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_TamperedAddress(t *testing.T) {
	ks := testKeystore(t)
	password := []byte("pass")
	createTestWallet(t, ks, "wallet", password)

	path := filepath.Join(ks.Dir(), "wallet"+walletExt)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	kf.Address = "0x0000000000000000000000000000000000000001"
	data, _ = json.Marshal(kf)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if _, err := ks.Load("wallet", password); err == nil {
		t.Error("Load() should fail when the stored address was changed")
	}
}

func TestKeystore_FileHasNoPlaintext(t *testing.T) {
	ks := testKeystore(t)
	createTestWallet(t, ks, "wallet", []byte("pass"))

	data, err := os.ReadFile(filepath.Join(ks.Dir(), "wallet"+walletExt))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if strings.Contains(string(data), "abandon") {
		t.Error("wallet file contains the plaintext phrase")
	}
}

func TestKeystore_ListExistsDelete(t *testing.T) {
	ks := testKeystore(t)

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("empty keystore List() = %v", names)
	}

	createTestWallet(t, ks, "bravo", []byte("pass"))
	createTestWallet(t, ks, "alpha", []byte("pass"))
	// Stray files are ignored.
	os.WriteFile(filepath.Join(ks.Dir(), "notes.txt"), []byte("x"), 0600)

	names, err = ks.List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "bravo" {
		t.Errorf("List() = %v, want [alpha bravo]", names)
	}

	if !ks.Exists("alpha") {
		t.Error("Exists(alpha) = false")
	}
	if err := ks.Delete("alpha"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if ks.Exists("alpha") {
		t.Error("Exists(alpha) after Delete = true")
	}
	if err := ks.Delete("alpha"); !errors.Is(err, ErrWalletNotFound) {
		t.Errorf("second Delete() error = %v, want ErrWalletNotFound", err)
	}
}

func TestKeystore_FilePermissions(t *testing.T) {
	ks := testKeystore(t)
	createTestWallet(t, ks, "wallet", []byte("pass"))

	info, err := os.Stat(filepath.Join(ks.Dir(), "wallet"+walletExt))
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("wallet file mode = %o, want 600", perm)
	}
}
