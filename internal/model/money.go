package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// minorUnitExp is the number of decimal places amounts are stored with.
const minorUnitExp = 2

// ToMinor converts an amount to integer minor units (cents). Amounts with
// more than two decimal places, or too large to store, are rejected.
func ToMinor(amount decimal.Decimal) (int64, error) {
	if !amount.Equal(amount.Round(minorUnitExp)) {
		return 0, &ValidationError{Entity: "amount", Field: "amount", Message: fmt.Sprintf("amount %s has more than 2 decimal places", amount)}
	}
	shifted := amount.Shift(minorUnitExp)
	if !shifted.BigInt().IsInt64() {
		return 0, &ValidationError{Entity: "amount", Field: "amount", Message: fmt.Sprintf("amount %s out of range", amount)}
	}
	return shifted.IntPart(), nil
}

// FromMinor converts integer minor units back to a decimal amount.
func FromMinor(minor int64) decimal.Decimal {
	return decimal.New(minor, -minorUnitExp)
}
