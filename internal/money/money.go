package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the fixed display precision for coin amounts.
const DisplayPlaces = 2

var (
	// ErrNotPositive indicates an amount that must be strictly positive.
	ErrNotPositive = errors.New("amount must be positive")
	// ErrNegative indicates a quantity that may never be negative.
	ErrNegative = errors.New("amount must not be negative")
)

// ParsePositive parses a user-entered transfer amount. The amount must be a
// well-formed decimal strictly greater than zero.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}
	return d, nil
}

// CheckNonNegative validates a server-reported quantity (balance, fee).
func CheckNonNegative(d decimal.Decimal) error {
	if d.IsNegative() {
		return ErrNegative
	}
	return nil
}

// Format renders an amount at the fixed display precision.
func Format(d decimal.Decimal) string {
	return d.StringFixed(DisplayPlaces)
}
