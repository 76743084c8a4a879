package wallet

import (
	"strings"
	"unicode/utf8"

	"github.com/Klingon-tech/klingwallet/pkg/types"
)

// ValidateAddress checks user-supplied text and returns the parsed address.
// Checks run in a fixed order and the first failure is reported:
// empty, missing "0x", wrong length, non-hex digits, bad EIP-55 checksum.
// Single-case input skips the checksum check. A non-nil error is always a
// *ValidationError; call Hex() on the result for the canonical form.
func ValidateAddress(raw string) (types.Address, error) {
	s := trimInput(raw)
	if s == "" {
		return types.Address{}, invalid(FieldAddress, ReasonEmpty, "Please enter a wallet address")
	}
	if !strings.HasPrefix(s, types.AddressPrefix) {
		return types.Address{}, invalid(FieldAddress, ReasonMissingPrefix, "Address must start with 0x")
	}
	if n := utf8.RuneCountInString(s); n != types.AddressHexLength {
		return types.Address{}, invalid(FieldAddress, ReasonWrongLength,
			"Address must be %d characters long (currently %d)", types.AddressHexLength, n)
	}

	digits := s[len(types.AddressPrefix):]
	addr, err := types.HexToAddress(digits)
	if err != nil {
		return types.Address{}, invalid(FieldAddress, ReasonBadCharacters,
			"Address contains invalid characters (only 0-9, a-f, A-F allowed)")
	}
	if types.IsMixedCase(digits) && addr.Hex() != s {
		return types.Address{}, invalid(FieldAddress, ReasonBadChecksum, "Invalid EVM address format")
	}
	return addr, nil
}

// IsValidAddress reports whether raw passes ValidateAddress.
func IsValidAddress(raw string) bool {
	_, err := ValidateAddress(raw)
	return err == nil
}

// SanitizeAddress returns the checksummed form of raw when it is a valid
// address, otherwise the trimmed input unchanged so it can be redisplayed
// next to the validation message.
func SanitizeAddress(raw string) string {
	s := trimInput(raw)
	addr, err := ValidateAddress(s)
	if err != nil {
		return s
	}
	return addr.Hex()
}

// FormatAddress shortens an address for display, e.g. "0x1234...5678".
// Addresses no longer than start+end characters are returned as is.
func FormatAddress(address string, start, end int) string {
	if address == "" {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}
	r := []rune(address)
	if len(r) <= start+end {
		return address
	}
	return string(r[:start]) + "..." + string(r[len(r)-end:])
}
