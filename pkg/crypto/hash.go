// Package crypto provides the hashing and key primitives used for EVM accounts.
package crypto

import (
	"fmt"

	"github.com/Klingon-tech/klingwallet/pkg/types"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// Keccak256 computes the legacy (pre-NIST) Keccak-256 hash used by Ethereum.
func Keccak256(data ...[]byte) types.Hash {
	d := sha3.NewLegacyKeccak256()
	for _, b := range data {
		d.Write(b)
	}
	var h types.Hash
	d.Sum(h[:0])
	return h
}

// AddressFromPubKey derives an account address from a secp256k1 public key
// in compressed (33 bytes) or uncompressed (65 bytes) form.
// Address = Keccak256(uncompressed_pubkey[1:])[12:].
func AddressFromPubKey(pubKey []byte) (types.Address, error) {
	pk, err := secp256k1.ParsePubKey(pubKey)
	if err != nil {
		return types.Address{}, fmt.Errorf("parse public key: %w", err)
	}
	uncompressed := pk.SerializeUncompressed()
	h := Keccak256(uncompressed[1:])
	var addr types.Address
	copy(addr[:], h[types.HashSize-types.AddressSize:])
	return addr, nil
}
