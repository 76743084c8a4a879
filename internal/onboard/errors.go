package onboard

import (
	"context"
	"errors"

	"github.com/Klingon-tech/klingwallet/internal/network"
	"github.com/Klingon-tech/klingwallet/internal/rpcclient"
	"github.com/Klingon-tech/klingwallet/internal/wallet"
)

// Code is a user-facing error category.
type Code string

const (
	CodeInvalidAddress    Code = "INVALID_ADDRESS"
	CodeInvalidSeedPhrase Code = "INVALID_SEED_PHRASE"
	CodeStorageFailed     Code = "STORAGE_FAILED"
	CodeRPCError          Code = "RPC_ERROR"
	CodeUnknown           Code = "UNKNOWN_ERROR"
)

var (
	// ErrStorage is wrapped by every failure to persist onboarding state.
	ErrStorage = errors.New("storage failed")
	// ErrEmptyPassword rejects importing a phrase without a password.
	ErrEmptyPassword = errors.New("password is required")
)

var messages = map[Code]string{
	CodeInvalidAddress:    "Please enter a valid wallet address",
	CodeInvalidSeedPhrase: "Invalid seed phrase format",
	CodeStorageFailed:     "Failed to save data. Please try again.",
	CodeRPCError:          "Blockchain network error. Please try again.",
	CodeUnknown:           "An unexpected error occurred",
}

// Describe maps err to a code and a message that can be shown to the user.
// Validation failures keep their own message.
func Describe(err error) (Code, string) {
	if err == nil {
		return "", ""
	}

	var ve *wallet.ValidationError
	if errors.As(err, &ve) {
		code := CodeInvalidAddress
		if ve.Field == wallet.FieldMnemonic {
			code = CodeInvalidSeedPhrase
		}
		if ve.Message != "" {
			return code, ve.Message
		}
		return code, messages[code]
	}

	switch {
	case errors.Is(err, wallet.ErrWalletExists):
		return CodeStorageFailed, "A wallet with this name already exists"
	case errors.Is(err, wallet.ErrWrongPassword):
		return CodeUnknown, "Wrong password"
	case errors.Is(err, ErrEmptyPassword):
		return CodeUnknown, "Please choose a password"
	case errors.Is(err, ErrStorage):
		return CodeStorageFailed, messages[CodeStorageFailed]
	case isRPCError(err):
		return CodeRPCError, messages[CodeRPCError]
	}

	if msg := err.Error(); msg != "" {
		return CodeUnknown, msg
	}
	return CodeUnknown, messages[CodeUnknown]
}

func isRPCError(err error) bool {
	var rpcErr *rpcclient.RPCError
	var httpErr *rpcclient.HTTPError
	return errors.As(err, &rpcErr) ||
		errors.As(err, &httpErr) ||
		errors.Is(err, network.ErrRPCNotConfigured) ||
		errors.Is(err, context.DeadlineExceeded)
}
