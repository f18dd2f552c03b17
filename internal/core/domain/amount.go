package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidAmount is returned when a string is not a non-negative integer.
var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a non-negative integer of arbitrary precision.
// The zero value is 0.
type Amount struct {
	v big.Int
}

// ParseAmount parses a plain decimal string. Signs, whitespace and
// non-digit characters are rejected.
func ParseAmount(s string) (Amount, error) {
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	var a Amount
	if _, ok := a.v.SetString(s, 10); !ok {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return a, nil
}

// MustParseAmount is ParseAmount for constants and tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// NewAmount returns an Amount from a uint64.
func NewAmount(n uint64) Amount {
	var a Amount
	a.v.SetUint64(n)
	return a
}

// Cmp compares a with b and returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// CmpUint64 compares a with n.
func (a Amount) CmpUint64(n uint64) int {
	return a.Cmp(NewAmount(n))
}

// IsZero reports whether the amount is 0.
func (a Amount) IsZero() bool {
	return a.v.Sign() == 0
}

// String returns the decimal representation.
func (a Amount) String() string {
	return a.v.String()
}

// MarshalJSON encodes the amount as a decimal string, since values routinely
// exceed what JSON consumers can hold in a float64.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.v.String())
}

// UnmarshalJSON accepts only a decimal string. Bare JSON numbers are
// rejected, matching the u128 string encoding used on chain.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("amount must be a decimal string: %w", err)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
