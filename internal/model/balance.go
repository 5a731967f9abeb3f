package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side is the debit or credit side of a balance.
type Side string

const (
	Debit  Side = "Dr"
	Credit Side = "Cr"
)

// Balance is a tagged amount: a side plus a non-negative magnitude.
// Signed scalars (positive Dr, negative Cr) only appear at the storage and
// display boundary.
type Balance struct {
	Side      Side
	Magnitude decimal.Decimal
}

// ZeroBalance is a zero debit balance.
var ZeroBalance = Balance{Side: Debit, Magnitude: decimal.Zero}

// BalanceFromSigned converts a signed amount (positive Dr, negative Cr).
// Zero is reported on the debit side.
func BalanceFromSigned(amount decimal.Decimal) Balance {
	if amount.IsNegative() {
		return Balance{Side: Credit, Magnitude: amount.Abs()}
	}
	return Balance{Side: Debit, Magnitude: amount}
}

// DebitOf returns a debit balance of amount.
func DebitOf(amount decimal.Decimal) Balance {
	return Balance{Side: Debit, Magnitude: amount.Abs()}
}

// CreditOf returns a credit balance of amount.
func CreditOf(amount decimal.Decimal) Balance {
	return Balance{Side: Credit, Magnitude: amount.Abs()}
}

// Signed returns the balance as a signed amount (positive Dr, negative Cr).
func (b Balance) Signed() decimal.Decimal {
	if b.Side == Credit {
		return b.Magnitude.Neg()
	}
	return b.Magnitude
}

// IsZero reports whether the magnitude is zero.
func (b Balance) IsZero() bool {
	return b.Magnitude.IsZero()
}

// Add returns b plus other, re-tagging the side from the signed sum.
func (b Balance) Add(other Balance) Balance {
	return BalanceFromSigned(b.Signed().Add(other.Signed()))
}

// String formats the balance as "1500.00 Dr" / "42.50 Cr".
func (b Balance) String() string {
	side := b.Side
	if side == "" {
		side = Debit
	}
	return b.Magnitude.StringFixed(2) + " " + string(side)
}

type balanceJSON struct {
	Side      Side            `json:"side"`
	Magnitude decimal.Decimal `json:"magnitude"`
	Label     string          `json:"label,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (b Balance) MarshalJSON() ([]byte, error) {
	side := b.Side
	if side == "" {
		side = Debit
	}
	return json.Marshal(balanceJSON{Side: side, Magnitude: b.Magnitude, Label: b.String()})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Balance) UnmarshalJSON(data []byte) error {
	var raw balanceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	side, err := ParseSide(string(raw.Side))
	if err != nil {
		return err
	}
	b.Side = side
	b.Magnitude = raw.Magnitude.Abs()
	return nil
}

// ParseSide accepts "Dr"/"Cr" and the spelled-out forms, case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dr", "debit":
		return Debit, nil
	case "cr", "credit":
		return Credit, nil
	default:
		return "", &ValidationError{Entity: "balance", Field: "side", Message: fmt.Sprintf("unknown side %q, use Dr or Cr", s)}
	}
}

// ParseBalance parses "1500", "-200.50", "1500 Dr" or "200.50 Cr".
func ParseBalance(s string) (Balance, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Balance{}, &ValidationError{Entity: "balance", Field: "amount", Message: fmt.Sprintf("invalid amount %q", s)}
	}
	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return Balance{}, &ValidationError{Entity: "balance", Field: "amount", Message: fmt.Sprintf("invalid amount %q", fields[0])}
	}
	if len(fields) == 1 {
		return BalanceFromSigned(amount), nil
	}
	if amount.IsNegative() {
		return Balance{}, &ValidationError{Entity: "balance", Field: "amount", Message: "amount with an explicit side must not be negative"}
	}
	side, err := ParseSide(fields[1])
	if err != nil {
		return Balance{}, err
	}
	return Balance{Side: side, Magnitude: amount}, nil
}
