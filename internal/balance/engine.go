// Package balance derives opening, running and closing balances from the
// transaction log and the declared opening balances.
//
// Transactions credit their from account and debit their to account. A
// balance is opening + debits - credits, kept exact in integer minor units
// or decimals and rounded only when displayed.
package balance

import (
	"context"
	"fmt"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Engine computes balances over the store.
type Engine struct {
	db *store.DB
}

// NewEngine creates an Engine.
func NewEngine(db *store.DB) *Engine {
	return &Engine{db: db}
}

func (e *Engine) checkYear(ctx context.Context, yearID int64) error {
	ok, err := store.Exists(ctx, e.db, "SELECT 1 FROM financial_years WHERE id = ?", yearID)
	if err != nil {
		return fmt.Errorf("checking financial year %d: %w", yearID, err)
	}
	if !ok {
		return &model.NotFoundError{Entity: "financial_year", ID: yearID}
	}
	return nil
}

func (e *Engine) checkAccount(ctx context.Context, accountID int64) error {
	ok, err := store.Exists(ctx, e.db, "SELECT 1 FROM accounts WHERE id = ?", accountID)
	if err != nil {
		return fmt.Errorf("checking account %d: %w", accountID, err)
	}
	if !ok {
		return &model.NotFoundError{Entity: "account", ID: accountID}
	}
	return nil
}

func (e *Engine) check(ctx context.Context, accountID, yearID int64, r *model.DateRange) error {
	if r != nil {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	if err := e.checkAccount(ctx, accountID); err != nil {
		return err
	}
	return e.checkYear(ctx, yearID)
}

// OpeningBalance returns the declared opening balance of an account for a
// year. An undeclared opening balance is zero.
func (e *Engine) OpeningBalance(ctx context.Context, accountID, yearID int64) (model.Balance, error) {
	if err := e.check(ctx, accountID, yearID, nil); err != nil {
		return model.Balance{}, err
	}
	return e.opening(ctx, accountID, yearID)
}

func (e *Engine) opening(ctx context.Context, accountID, yearID int64) (model.Balance, error) {
	var minor int64
	err := e.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM opening_balances
		WHERE account_id = ? AND financial_year_id = ?`, accountID, yearID).Scan(&minor)
	if err != nil {
		return model.Balance{}, fmt.Errorf("loading opening balance: %w", err)
	}
	return model.BalanceFromSigned(model.FromMinor(minor)), nil
}

const ledgerQuery = `
	SELECT t.id, t.txn_date, t.from_acc_id, fa.name, t.to_acc_id, ta.name, t.amount, t.note
	FROM transactions t
	JOIN accounts fa ON fa.id = t.from_acc_id
	JOIN accounts ta ON ta.id = t.to_acc_id
	WHERE t.financial_year_id = ?
	  AND (t.from_acc_id = ? OR t.to_acc_id = ?)
	  AND t.txn_date BETWEEN ? AND ?
	ORDER BY t.txn_date, t.id`

// LedgerEntries yields the account's transactions in the range, ordered by
// date then transaction ID. Each iteration runs a fresh query. Iteration
// stops after the first error.
func (e *Engine) LedgerEntries(ctx context.Context, accountID, yearID int64, r model.DateRange) iter.Seq2[model.LedgerEntry, error] {
	return func(yield func(model.LedgerEntry, error) bool) {
		if err := e.check(ctx, accountID, yearID, &r); err != nil {
			yield(model.LedgerEntry{}, err)
			return
		}

		from, to := r.Bounds()
		rows, err := e.db.QueryContext(ctx, ledgerQuery, yearID, accountID, accountID, from, to)
		if err != nil {
			yield(model.LedgerEntry{}, fmt.Errorf("querying ledger: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				entry            model.LedgerEntry
				date             string
				fromID, toID     int64
				fromName, toName string
				minor            int64
			)
			if err := rows.Scan(&entry.TxnID, &date, &fromID, &fromName, &toID, &toName, &minor, &entry.Note); err != nil {
				yield(model.LedgerEntry{}, fmt.Errorf("scanning ledger entry: %w", err))
				return
			}
			if entry.Date, err = model.ParseDate(date); err != nil {
				yield(model.LedgerEntry{}, fmt.Errorf("transaction %d: %w", entry.TxnID, err))
				return
			}

			amount := model.FromMinor(minor)
			if toID == accountID {
				entry.Debit, entry.Credit = amount, decimal.Zero
				entry.Counter, entry.Particular = fromID, fromName
			} else {
				entry.Debit, entry.Credit = decimal.Zero, amount
				entry.Counter, entry.Particular = toID, toName
			}
			if !yield(entry, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.LedgerEntry{}, fmt.Errorf("reading ledger: %w", err))
		}
	}
}

// AccountLedger collects LedgerEntries.
func (e *Engine) AccountLedger(ctx context.Context, accountID, yearID int64, r model.DateRange) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	for entry, err := range e.LedgerEntries(ctx, accountID, yearID, r) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Ledger is an account statement: the opening balance, each entry with the
// balance after it, the period totals and the closing balance.
type Ledger struct {
	Opening     model.Balance     `json:"opening"`
	Rows        []model.LedgerRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Closing     model.Balance     `json:"closing"`
}

// RunningLedger folds entries over opening in order, recording the running
// balance after each entry.
func RunningLedger(entries []model.LedgerEntry, opening model.Balance) Ledger {
	running := opening.Signed()
	l := Ledger{
		Opening:     model.BalanceFromSigned(running),
		Rows:        make([]model.LedgerRow, 0, len(entries)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, entry := range entries {
		running = running.Add(entry.Debit).Sub(entry.Credit)
		l.TotalDebit = l.TotalDebit.Add(entry.Debit)
		l.TotalCredit = l.TotalCredit.Add(entry.Credit)
		l.Rows = append(l.Rows, model.LedgerRow{LedgerEntry: entry, Balance: model.BalanceFromSigned(running)})
	}
	l.Closing = model.BalanceFromSigned(running)
	return l
}

// Statement loads the account's opening balance and entries and folds them.
func (e *Engine) Statement(ctx context.Context, accountID, yearID int64, r model.DateRange) (Ledger, error) {
	entries, err := e.AccountLedger(ctx, accountID, yearID, r)
	if err != nil {
		return Ledger{}, err
	}
	opening, err := e.opening(ctx, accountID, yearID)
	if err != nil {
		return Ledger{}, err
	}
	return RunningLedger(entries, opening), nil
}

// ClosingBalance computes opening + debits - credits for the range in a
// single aggregate query. It always agrees with the RunningLedger fold.
func (e *Engine) ClosingBalance(ctx context.Context, accountID, yearID int64, r model.DateRange) (model.Balance, error) {
	if err := e.check(ctx, accountID, yearID, &r); err != nil {
		return model.Balance{}, err
	}

	from, to := r.Bounds()
	var minor int64
	err := e.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM opening_balances
			 WHERE account_id = ? AND financial_year_id = ?)
			+ COALESCE(SUM(CASE WHEN to_acc_id = ? THEN amount ELSE 0 END), 0)
			- COALESCE(SUM(CASE WHEN from_acc_id = ? THEN amount ELSE 0 END), 0)
		FROM transactions
		WHERE financial_year_id = ?
		  AND (from_acc_id = ? OR to_acc_id = ?)
		  AND txn_date BETWEEN ? AND ?`,
		accountID, yearID, accountID, accountID, yearID, accountID, accountID, from, to).Scan(&minor)
	if err != nil {
		return model.Balance{}, fmt.Errorf("computing closing balance: %w", err)
	}
	return model.BalanceFromSigned(model.FromMinor(minor)), nil
}
