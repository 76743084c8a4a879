// Package wallet implements recovery-phrase and address validation, HD key
// derivation for EVM accounts, and the encrypted keystore.
package wallet

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// MinMnemonicWords is the shortest accepted recovery phrase.
const MinMnemonicWords = 12

// mnemonicWordCounts are the BIP-39 phrase lengths.
var mnemonicWordCounts = map[int]bool{12: true, 15: true, 18: true, 21: true, 24: true}

// Mnemonic is a recovery phrase that passed ValidateMnemonic.
// The zero value is not a valid phrase.
type Mnemonic struct {
	phrase string
	words  int
}

// Phrase returns the normalized phrase: lowercase words joined by single spaces.
func (m Mnemonic) Phrase() string {
	return m.phrase
}

// WordCount returns the number of words in the phrase.
func (m Mnemonic) WordCount() int {
	return m.words
}

// IsZero reports whether m was not produced by ValidateMnemonic.
func (m Mnemonic) IsZero() bool {
	return m.phrase == ""
}

// String never includes the words.
func (m Mnemonic) String() string {
	return fmt.Sprintf("mnemonic(%d words)", m.words)
}

// ValidateMnemonic checks a user-supplied recovery phrase. Checks run in a
// fixed order and the first failure is reported: empty, fewer than 12 words,
// a length outside {12,15,18,21,24}, then wordlist membership and checksum.
// A non-nil error is always a *ValidationError.
func ValidateMnemonic(raw string) (Mnemonic, error) {
	words := strings.FieldsFunc(raw, isBlank)
	n := len(words)
	if n == 0 {
		return Mnemonic{}, invalid(FieldMnemonic, ReasonEmpty, "Please enter your recovery phrase")
	}
	if n < MinMnemonicWords {
		return Mnemonic{}, invalid(FieldMnemonic, ReasonTooShort,
			"Recovery phrase must be at least %d words (currently %d)", MinMnemonicWords, n)
	}
	if !mnemonicWordCounts[n] {
		return Mnemonic{}, invalid(FieldMnemonic, ReasonBadLength,
			"Invalid recovery phrase length. Must be 12, 15, 18, 21, or 24 words (currently %d)", n)
	}

	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	phrase := strings.Join(words, " ")
	if !bip39.IsMnemonicValid(phrase) {
		return Mnemonic{}, invalid(FieldMnemonic, ReasonBadChecksum,
			"Invalid recovery phrase. Please check your words and try again.")
	}
	return Mnemonic{phrase: phrase, words: n}, nil
}

// IsValidMnemonic reports whether raw passes ValidateMnemonic.
func IsValidMnemonic(raw string) bool {
	_, err := ValidateMnemonic(raw)
	return err == nil
}

// GenerateMnemonic creates a new random phrase of 12, 15, 18, 21 or 24 words.
func GenerateMnemonic(words int) (Mnemonic, error) {
	if !mnemonicWordCounts[words] {
		return Mnemonic{}, fmt.Errorf("unsupported word count %d", words)
	}
	// Each word carries 11 bits; one bit in 33 is checksum.
	entropy, err := bip39.NewEntropy(words * 11 * 32 / 33)
	if err != nil {
		return Mnemonic{}, fmt.Errorf("generate entropy: %w", err)
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return Mnemonic{}, fmt.Errorf("generate mnemonic: %w", err)
	}
	return ValidateMnemonic(phrase)
}
