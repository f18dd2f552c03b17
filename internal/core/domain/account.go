package domain

import (
	"errors"
	"fmt"
)

const (
	minAccountIDLen = 2
	maxAccountIDLen = 64
)

// ErrInvalidAccountID is returned when a string is not a valid NEAR account id.
var ErrInvalidAccountID = errors.New("invalid account id")

// AccountID is a syntactically valid NEAR account identifier.
type AccountID string

// ParseAccountID validates s against the NEAR account id rules:
// 2..64 chars of [a-z0-9] joined by single '-', '_' or '.' separators.
func ParseAccountID(s string) (AccountID, error) {
	if len(s) < minAccountIDLen || len(s) > maxAccountIDLen {
		return "", fmt.Errorf("%w: length %d", ErrInvalidAccountID, len(s))
	}

	prevSeparator := true // forbids a leading separator
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			prevSeparator = false
		case c == '-' || c == '_' || c == '.':
			if prevSeparator {
				return "", fmt.Errorf("%w: unexpected %q at %d", ErrInvalidAccountID, c, i)
			}
			prevSeparator = true
		default:
			return "", fmt.Errorf("%w: unexpected %q at %d", ErrInvalidAccountID, c, i)
		}
	}
	if prevSeparator {
		return "", fmt.Errorf("%w: trailing separator", ErrInvalidAccountID)
	}

	return AccountID(s), nil
}

// String returns the account id as a plain string.
func (a AccountID) String() string {
	return string(a)
}

// UnmarshalJSON decodes and validates an account id.
func (a *AccountID) UnmarshalJSON(data []byte) error {
	var s string
	if err := unmarshalString(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAccountID(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
