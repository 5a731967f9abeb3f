package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// MonthSummary is one calendar month of cash movement.
type MonthSummary struct {
	Month   string          `json:"month"` // YYYY-MM
	Inflow  decimal.Decimal `json:"inflow"`
	Outflow decimal.Decimal `json:"outflow"`
	Net     decimal.Decimal `json:"net"`
}

// CashFlow is the movement of a single cash or bank account. Inflows are
// transactions into the account, outflows transactions out of it.
type CashFlow struct {
	Period
	Account model.Account     `json:"account"`
	Opening model.Balance     `json:"opening"`
	Inflow  decimal.Decimal   `json:"inflow"`
	Outflow decimal.Decimal   `json:"outflow"`
	Net     decimal.Decimal   `json:"net"`
	Closing model.Balance     `json:"closing"`
	Rows    []model.LedgerRow `json:"rows"`
	Monthly []MonthSummary    `json:"monthly"`
}

const cashAccountSelect = `
	SELECT a.id, a.name, a.group_id, g.group_name, g.category, a.phone, a.address, a.is_active
	FROM accounts a
	JOIN groups g ON g.id = a.group_id`

func scanCashAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	var category string
	if err := row.Scan(&a.ID, &a.Name, &a.GroupID, &a.GroupName, &category, &a.Phone, &a.Address, &a.Active); err != nil {
		return model.Account{}, err
	}
	a.Category = model.Category(category)
	return a, nil
}

// CashFlow builds the cash flow of one account.
func (b *Builder) CashFlow(ctx context.Context, accountID int64, q Query) (CashFlow, error) {
	p, err := b.resolve(ctx, q)
	if err != nil {
		return CashFlow{}, err
	}

	acct, err := b.account(ctx, accountID)
	if err != nil {
		return CashFlow{}, err
	}

	ledger, err := b.engine.Statement(ctx, accountID, p.Year.ID, p.Range)
	if err != nil {
		return CashFlow{}, err
	}

	cf := CashFlow{
		Period:  p,
		Account: acct,
		Opening: ledger.Opening,
		Inflow:  ledger.TotalDebit,
		Outflow: ledger.TotalCredit,
		Net:     ledger.TotalDebit.Sub(ledger.TotalCredit),
		Closing: ledger.Closing,
		Rows:    ledger.Rows,
		Monthly: []MonthSummary{},
	}
	for _, row := range ledger.Rows {
		month := row.Date.Format("2006-01")
		n := len(cf.Monthly)
		if n == 0 || cf.Monthly[n-1].Month != month {
			cf.Monthly = append(cf.Monthly, MonthSummary{Month: month, Inflow: decimal.Zero, Outflow: decimal.Zero, Net: decimal.Zero})
			n++
		}
		m := &cf.Monthly[n-1]
		m.Inflow = m.Inflow.Add(row.Debit)
		m.Outflow = m.Outflow.Add(row.Credit)
		m.Net = m.Inflow.Sub(m.Outflow)
	}
	return cf, nil
}

// CashAccounts lists the active accounts in asset groups, the candidates for
// a cash flow report.
func (b *Builder) CashAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := b.db.QueryContext(ctx,
		cashAccountSelect+" WHERE g.category = ? AND a.is_active = 1 ORDER BY a.name", string(model.CategoryAsset))
	if err != nil {
		return nil, fmt.Errorf("listing cash accounts: %w", err)
	}
	defer rows.Close()

	var out []model.Account
	for rows.Next() {
		a, err := scanCashAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
