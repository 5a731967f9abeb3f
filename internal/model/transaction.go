package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction moves Amount from one account to another. The from account is
// credited and the to account is debited.
type Transaction struct {
	ID          int64           `json:"id"`
	Date        time.Time       `json:"txn_date"`
	FromAccount int64           `json:"from_account_id"`
	FromName    string          `json:"from_account,omitempty"`
	ToAccount   int64           `json:"to_account_id"`
	ToName      string          `json:"to_account,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Note        string          `json:"note"`
	YearID      int64           `json:"financial_year_id"`
	CreatedBy   int64           `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OpeningBalance is an account's declared balance at the start of a year.
type OpeningBalance struct {
	AccountID   int64   `json:"account_id"`
	AccountName string  `json:"account_name,omitempty"`
	YearID      int64   `json:"financial_year_id"`
	Amount      Balance `json:"amount"`
}

// LedgerEntry is one transaction seen from a single account.
type LedgerEntry struct {
	TxnID      int64           `json:"txn_id"`
	Date       time.Time       `json:"date"`
	Particular string          `json:"particular"`
	Counter    int64           `json:"counter_account_id"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Note       string          `json:"note"`
}

// LedgerRow is a LedgerEntry with the running balance after it.
type LedgerRow struct {
	LedgerEntry
	Balance Balance `json:"balance"`
}
