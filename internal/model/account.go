package model

import "time"

// Category places a group's accounts on the financial statements.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryIncome    Category = "income"
	CategoryExpense   Category = "expense"
	CategoryEquity    Category = "equity"
	CategoryOther     Category = "other"
)

// Categories lists every valid category in statement order.
func Categories() []Category {
	return []Category{
		CategoryAsset,
		CategoryLiability,
		CategoryEquity,
		CategoryIncome,
		CategoryExpense,
		CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Group classifies accounts (Assets, Sundry Debtors, ...).
type Group struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Account is a named ledger account owned by exactly one group.
type Account struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	GroupID   int64     `json:"group_id"`
	GroupName string    `json:"group_name,omitempty"`
	Category  Category  `json:"category,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
