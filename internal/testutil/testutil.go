// Package testutil builds SQLite-backed ledger fixtures for tests.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// AdminUser is the seeded user every fixture transaction is created by.
const AdminUser int64 = 1

// NewDB opens a fresh database in a temp dir, closed on test cleanup.
func NewDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// Date returns a UTC calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Dec parses a decimal literal.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Builder inserts fixture rows directly, bypassing service validation.
type Builder struct {
	t  *testing.T
	db *store.DB
}

// NewBuilder creates a Builder over db.
func NewBuilder(t *testing.T, db *store.DB) *Builder {
	return &Builder{t: t, db: db}
}

func (b *Builder) insert(query string, args ...any) int64 {
	b.t.Helper()
	res, err := b.db.ExecContext(context.Background(), query, args...)
	require.NoError(b.t, err)
	id, err := res.LastInsertId()
	require.NoError(b.t, err)
	return id
}

// Year inserts an April-to-March financial year starting in startYear.
func (b *Builder) Year(startYear int, active bool) model.FinancialYear {
	b.t.Helper()
	y := model.FinancialYear{
		Label:  formatLabel(startYear),
		Start:  Date(startYear, time.April, 1),
		End:    Date(startYear+1, time.March, 31),
		Active: active,
	}
	from, to := y.Range().Bounds()
	y.ID = b.insert("INSERT INTO financial_years (label, start_date, end_date, is_active) VALUES (?, ?, ?, ?)",
		y.Label, from, to, active)
	return y
}

func formatLabel(startYear int) string {
	return fmt.Sprintf("%04d-%02d", startYear, (startYear+1)%100)
}

// Group inserts a group.
func (b *Builder) Group(name string, category model.Category) model.Group {
	b.t.Helper()
	id := b.insert("INSERT INTO groups (group_name, category) VALUES (?, ?)", name, string(category))
	return model.Group{ID: id, Name: name, Category: category}
}

// Account inserts an active account in group g.
func (b *Builder) Account(name string, g model.Group) model.Account {
	b.t.Helper()
	id := b.insert("INSERT INTO accounts (name, group_id) VALUES (?, ?)", name, g.ID)
	return model.Account{ID: id, Name: name, GroupID: g.ID, GroupName: g.Name, Category: g.Category, Active: true}
}

// Opening sets a signed opening balance (positive Dr, negative Cr).
func (b *Builder) Opening(acct model.Account, y model.FinancialYear, amount string) {
	b.t.Helper()
	minor, err := model.ToMinor(Dec(amount))
	require.NoError(b.t, err)
	b.insert(`INSERT INTO opening_balances (account_id, financial_year_id, amount) VALUES (?, ?, ?)
		ON CONFLICT(account_id, financial_year_id) DO UPDATE SET amount = excluded.amount`,
		acct.ID, y.ID, minor)
}

// Txn records amount moving from one account to another.
func (b *Builder) Txn(y model.FinancialYear, date time.Time, from, to model.Account, amount, note string) int64 {
	b.t.Helper()
	minor, err := model.ToMinor(Dec(amount))
	require.NoError(b.t, err)
	return b.insert(`INSERT INTO transactions (txn_date, from_acc_id, to_acc_id, amount, note, financial_year_id, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		date.Format(model.DateFormat), from.ID, to.ID, minor, note, y.ID, AdminUser)
}

// Chart is the standard fixture: one group per category and a few accounts.
type Chart struct {
	Assets, Liabilities, Income, Expenses, Equity model.Group

	Cash, Bank, Customer  model.Account
	Supplier, Loan        model.Account
	Sales, Office, Salary model.Account
	Capital               model.Account
}

// StandardChart inserts the Chart fixture.
func (b *Builder) StandardChart() Chart {
	b.t.Helper()
	var c Chart
	c.Assets = b.Group("Assets", model.CategoryAsset)
	c.Liabilities = b.Group("Liabilities", model.CategoryLiability)
	c.Income = b.Group("Income", model.CategoryIncome)
	c.Expenses = b.Group("Expenses", model.CategoryExpense)
	c.Equity = b.Group("Equity", model.CategoryEquity)

	c.Cash = b.Account("Cash", c.Assets)
	c.Bank = b.Account("Bank", c.Assets)
	c.Customer = b.Account("Acme Traders", c.Assets)
	c.Supplier = b.Account("Paper Supplies Ltd", c.Liabilities)
	c.Loan = b.Account("Bank Loan", c.Liabilities)
	c.Sales = b.Account("Sales Income", c.Income)
	c.Office = b.Account("Office Expenses", c.Expenses)
	c.Salary = b.Account("Salary Expense", c.Expenses)
	c.Capital = b.Account("Owner Capital", c.Equity)
	return c
}
