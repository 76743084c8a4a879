package main

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingwallet/internal/onboard"
	"github.com/Klingon-tech/klingwallet/internal/wallet"
)

// uiError converts err into "CODE: message" so the frontend can branch on
// the code and show the message as is.
func uiError(err error) error {
	if err == nil {
		return nil
	}
	code, msg := onboard.Describe(err)
	return fmt.Errorf("%s: %s", code, msg)
}

// invalidResult builds a failed ValidationResult from a validator error.
func invalidResult(err error) ValidationResult {
	var verr *wallet.ValidationError
	if errors.As(err, &verr) {
		return ValidationResult{Reason: string(verr.Reason), Message: verr.Message}
	}
	_, msg := onboard.Describe(err)
	return ValidationResult{Message: msg}
}

// shortAddress returns the "0x1234...abcd" display form.
func shortAddress(addr string) string {
	return wallet.FormatAddress(addr, 6, 4)
}
