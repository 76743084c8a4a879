package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressSize is the length of an address in bytes.
const AddressSize = 20

// AddressHexLength is the length of the textual form: "0x" + 40 hex digits.
const AddressHexLength = 2 + 2*AddressSize

// AddressPrefix is the mandatory prefix of the textual form.
const AddressPrefix = "0x"

// Address represents a 20-byte EVM account identifier.
type Address [AddressSize]byte

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Hex returns the EIP-55 mixed-case checksummed form ("0xAbC...").
func (a Address) Hex() string {
	return common.Address(a).Hex()
}

// String returns the checksummed form.
func (a Address) String() string {
	return a.Hex()
}

// Lower returns the all-lowercase "0x" form.
func (a Address) Lower() string {
	return AddressPrefix + hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as its checksummed string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Hex())
}

// UnmarshalJSON decodes a checksummed or single-case address string.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := ParseAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress parses a "0x"-prefixed 40-digit hex address.
// Single-case input is accepted as is; mixed-case input must carry a
// correct EIP-55 checksum. Surrounding whitespace is not trimmed.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, fmt.Errorf("empty address")
	}
	if !strings.HasPrefix(s, AddressPrefix) {
		return Address{}, fmt.Errorf("address must start with %s", AddressPrefix)
	}
	if len(s) != AddressHexLength {
		return Address{}, fmt.Errorf("address must be %d characters, got %d", AddressHexLength, len(s))
	}
	digits := s[len(AddressPrefix):]
	if !isHex40(digits) {
		return Address{}, fmt.Errorf("address contains non-hex characters")
	}
	a, err := HexToAddress(digits)
	if err != nil {
		return Address{}, err
	}
	if IsMixedCase(digits) && a.Hex() != s {
		return Address{}, fmt.Errorf("address checksum mismatch")
	}
	return a, nil
}

// HexToAddress converts 40 raw hex characters (no prefix) to an Address.
// No checksum is enforced.
func HexToAddress(s string) (Address, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Address{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) != AddressSize {
		return Address{}, fmt.Errorf("address must be %d bytes, got %d", AddressSize, len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// IsMixedCase reports whether s contains both upper- and lowercase hex letters.
func IsMixedCase(s string) bool {
	var upper, lower bool
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'f':
			lower = true
		case c >= 'A' && c <= 'F':
			upper = true
		}
	}
	return upper && lower
}

// isHex40 returns true if s is exactly 40 hex characters.
func isHex40(s string) bool {
	if len(s) != 2*AddressSize {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
