package wallet

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Reason classifies why user input failed validation.
type Reason string

// Validation reasons. The set is closed; front-ends switch on it.
const (
	ReasonEmpty         Reason = "EMPTY"
	ReasonMissingPrefix Reason = "MISSING_PREFIX"
	ReasonWrongLength   Reason = "WRONG_LENGTH"
	ReasonBadCharacters Reason = "BAD_CHARACTERS"
	ReasonBadChecksum   Reason = "BAD_CHECKSUM"
	ReasonTooShort      Reason = "TOO_SHORT"
	ReasonBadLength     Reason = "BAD_LENGTH"
)

// Field identifies which input a ValidationError refers to.
type Field string

const (
	FieldAddress  Field = "address"
	FieldMnemonic Field = "mnemonic"
)

// ValidationError is the Invalid outcome of ValidateAddress and
// ValidateMnemonic. Message is ready to show to the user.
type ValidationError struct {
	Field   Field
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%s): %s", e.Field, e.Reason, e.Message)
}

func invalid(field Field, reason Reason, format string, args ...interface{}) error {
	return &ValidationError{
		Field:   field,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// ReasonOf returns the validation reason carried by err, or "" if err is
// not (and does not wrap) a *ValidationError.
func ReasonOf(err error) Reason {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Reason
	}
	return ""
}

// MessageOf returns the user-facing message carried by err, or "" if err
// is not a validation failure.
func MessageOf(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return ""
}

// isBlank reports whether r is whitespace in user input. U+FEFF is included
// because pasted text often starts with a byte order mark.
func isBlank(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// trimInput strips leading and trailing blanks.
func trimInput(s string) string {
	return strings.TrimFunc(s, isBlank)
}
