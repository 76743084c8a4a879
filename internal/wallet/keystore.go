package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	klog "github.com/Klingon-tech/klingwallet/internal/log"
	"github.com/Klingon-tech/klingwallet/pkg/types"
)

const (
	keystoreVersion = 1
	walletExt       = ".wallet"
)

// Keystore errors.
var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
)

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	Address           string    `json:"address"` // checksummed, account 0
	Words             int       `json:"words"`
	EncryptedMnemonic []byte    `json:"encrypted_mnemonic"`
}

// Keystore manages encrypted recovery phrases on disk, one file per wallet.
// Only a Mnemonic produced by ValidateMnemonic can be stored.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Dir returns the keystore directory.
func (ks *Keystore) Dir() string {
	return ks.path
}

// walletPath returns the file path for a wallet by name.
func (ks *Keystore) walletPath(name string) (string, error) {
	if err := ValidateWalletName(name); err != nil {
		return "", err
	}
	return filepath.Join(ks.path, name+walletExt), nil
}

// ValidateWalletName checks that name can be used as a keystore entry.
func ValidateWalletName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("wallet name is empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("wallet name %q must be a plain file name", name)
	}
	return nil
}

// associatedData binds the ciphertext to the address stored next to it.
func associatedData(addr string) []byte {
	return []byte("klingwallet:" + strings.ToLower(addr))
}

// Create encrypts m under password and writes a new wallet file.
// addr is the account-0 address derived from m.
func (ks *Keystore) Create(name string, m Mnemonic, addr types.Address, password []byte, params EncryptionParams) error {
	path, err := ks.walletPath(name)
	if err != nil {
		return err
	}
	if m.IsZero() {
		return fmt.Errorf("refusing to store an unvalidated mnemonic")
	}
	if len(password) == 0 {
		return fmt.Errorf("password is empty")
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}

	plain := []byte(m.Phrase())
	defer zero(plain)
	encrypted, err := Encrypt(plain, password, associatedData(addr.Hex()), params)
	if err != nil {
		return fmt.Errorf("encrypt mnemonic: %w", err)
	}

	kf := keystoreFile{
		Version:           keystoreVersion,
		CreatedAt:         time.Now().UTC(),
		Address:           addr.Hex(),
		Words:             m.WordCount(),
		EncryptedMnemonic: encrypted,
	}
	if err := ks.writeFile(path, &kf); err != nil {
		return err
	}

	klog.Wallet.Info().
		Str("wallet", name).
		Str("address", addr.Hex()).
		Int("words", m.WordCount()).
		Msg("Wallet stored in keystore")
	return nil
}

// Load decrypts a wallet and returns its mnemonic, re-validated.
func (ks *Keystore) Load(name string, password []byte) (Mnemonic, error) {
	kf, err := ks.read(name)
	if err != nil {
		return Mnemonic{}, err
	}

	plain, err := Decrypt(kf.EncryptedMnemonic, password, associatedData(kf.Address))
	if err != nil {
		return Mnemonic{}, fmt.Errorf("decrypt wallet: %w", err)
	}
	defer zero(plain)

	m, err := ValidateMnemonic(string(plain))
	if err != nil {
		return Mnemonic{}, fmt.Errorf("wallet %q holds an invalid mnemonic: %w", name, err)
	}
	return m, nil
}

// Address returns the stored account-0 address without decrypting.
func (ks *Keystore) Address(name string) (types.Address, error) {
	kf, err := ks.read(name)
	if err != nil {
		return types.Address{}, err
	}
	addr, err := types.ParseAddress(kf.Address)
	if err != nil {
		return types.Address{}, fmt.Errorf("wallet %q: %w", name, err)
	}
	return addr, nil
}

// Exists reports whether a wallet file with this name exists.
func (ks *Keystore) Exists(name string) bool {
	path, err := ks.walletPath(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// List returns the names of all wallet files in the keystore, sorted.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == walletExt {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	path, err := ks.walletPath(name)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove wallet: %w", err)
	}
	klog.Wallet.Info().Str("wallet", name).Msg("Wallet deleted from keystore")
	return nil
}

func (ks *Keystore) read(name string) (*keystoreFile, error) {
	path, err := ks.walletPath(name)
	if err != nil {
		return nil, err
	}
	return ks.readFile(path, name)
}

// writeFile writes through a temp file and rename so a crash never leaves
// a truncated wallet behind.
func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(path, name string) (*keystoreFile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
