package balance

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// AccountBalance is one account's position over a range.
type AccountBalance struct {
	Account model.Account   `json:"account"`
	Opening model.Balance   `json:"opening"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Closing model.Balance   `json:"closing"`
}

const allBalancesQuery = `
	SELECT a.id, a.name, a.group_id, g.group_name, g.category, a.phone, a.address, a.is_active,
	       COALESCE(ob.amount, 0), COALESCE(dr.total, 0), COALESCE(cr.total, 0)
	FROM accounts a
	JOIN groups g ON g.id = a.group_id
	LEFT JOIN opening_balances ob
	       ON ob.account_id = a.id AND ob.financial_year_id = ?
	LEFT JOIN (
		SELECT to_acc_id AS account_id, SUM(amount) AS total
		FROM transactions
		WHERE financial_year_id = ? AND txn_date BETWEEN ? AND ?
		GROUP BY to_acc_id
	) dr ON dr.account_id = a.id
	LEFT JOIN (
		SELECT from_acc_id AS account_id, SUM(amount) AS total
		FROM transactions
		WHERE financial_year_id = ? AND txn_date BETWEEN ? AND ?
		GROUP BY from_acc_id
	) cr ON cr.account_id = a.id
	ORDER BY g.group_name, a.name`

// AllAccountBalances returns every account's opening, period debits and
// credits and closing balance in one batched query, ordered by group then
// account name. Inactive accounts are included. Each closing equals
// ClosingBalance for the same account.
func (e *Engine) AllAccountBalances(ctx context.Context, yearID int64, r model.DateRange) ([]AccountBalance, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if err := e.checkYear(ctx, yearID); err != nil {
		return nil, err
	}

	from, to := r.Bounds()
	rows, err := e.db.QueryContext(ctx, allBalancesQuery, yearID, yearID, from, to, yearID, from, to)
	if err != nil {
		return nil, fmt.Errorf("querying account balances: %w", err)
	}
	defer rows.Close()

	var out []AccountBalance
	for rows.Next() {
		var (
			ab                     AccountBalance
			category               string
			opening, debit, credit int64
		)
		a := &ab.Account
		if err := rows.Scan(&a.ID, &a.Name, &a.GroupID, &a.GroupName, &category, &a.Phone, &a.Address, &a.Active,
			&opening, &debit, &credit); err != nil {
			return nil, fmt.Errorf("scanning account balance: %w", err)
		}
		a.Category = model.Category(category)
		ab.Opening = model.BalanceFromSigned(model.FromMinor(opening))
		ab.Debit = model.FromMinor(debit)
		ab.Credit = model.FromMinor(credit)
		ab.Closing = model.BalanceFromSigned(model.FromMinor(opening + debit - credit))
		out = append(out, ab)
	}
	return out, rows.Err()
}
