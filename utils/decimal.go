package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Money travels as Decimal128 in mongo and as strings on the wire.
// Arithmetic happens through shopspring decimals; these helpers are
// the only place the two representations meet.

var ZeroD128, _ = primitive.ParseDecimal128("0")

// ParseMoney parses a client-supplied amount and rejects negatives.
func ParseMoney(s string) (primitive.Decimal128, error) {
	if s == "" {
		return ZeroD128, fmt.Errorf("amount is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ZeroD128, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return ZeroD128, fmt.Errorf("amount must not be negative")
	}
	return ToDecimal128(d)
}

// ToDecimal128 converts a shopspring decimal for storage.
func ToDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	dec, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return ZeroD128, fmt.Errorf("convert decimal: %w", err)
	}
	return dec, nil
}

// FromDecimal128 converts a stored amount back for arithmetic.
func FromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	return decimal.NewFromString(d.String())
}

// MustDecimal128 is for constants and tests.
func MustDecimal128(s string) primitive.Decimal128 {
	d, err := primitive.ParseDecimal128(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsPositive reports whether the stored amount is > 0.
func IsPositive(d primitive.Decimal128) bool {
	dec, err := FromDecimal128(d)
	if err != nil {
		return false
	}
	return dec.IsPositive()
}
