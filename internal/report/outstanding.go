package report

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/balance"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// OutstandingLine is an account with a non-zero closing balance: a debit
// balance is receivable, a credit balance payable.
type OutstandingLine struct {
	AccountID  int64           `json:"account_id"`
	Account    string          `json:"account"`
	GroupID    int64           `json:"group_id"`
	Group      string          `json:"group"`
	Phone      string          `json:"phone,omitempty"`
	Closing    model.Balance   `json:"closing"`
	Receivable decimal.Decimal `json:"receivable"`
	Payable    decimal.Decimal `json:"payable"`
}

// Outstanding lists receivables and payables by account.
type Outstanding struct {
	Period
	Lines           []OutstandingLine `json:"lines"`
	TotalReceivable decimal.Decimal   `json:"total_receivable"`
	TotalPayable    decimal.Decimal   `json:"total_payable"`
	Net             decimal.Decimal   `json:"net"`
}

// GroupOutstanding rolls a group's outstanding accounts up.
type GroupOutstanding struct {
	GroupID    int64           `json:"group_id"`
	Group      string          `json:"group"`
	Category   model.Category  `json:"category"`
	Accounts   int             `json:"accounts"`
	Receivable decimal.Decimal `json:"receivable"`
	Payable    decimal.Decimal `json:"payable"`
	Net        model.Balance   `json:"net"`
}

// GroupedOutstanding lists receivables and payables by group. Groups without
// any outstanding account are omitted.
type GroupedOutstanding struct {
	Period
	Groups          []GroupOutstanding `json:"groups"`
	TotalReceivable decimal.Decimal    `json:"total_receivable"`
	TotalPayable    decimal.Decimal    `json:"total_payable"`
	Net             decimal.Decimal    `json:"net"`
}

func outstandingLine(ab balance.AccountBalance) OutstandingLine {
	line := OutstandingLine{
		AccountID:  ab.Account.ID,
		Account:    ab.Account.Name,
		GroupID:    ab.Account.GroupID,
		Group:      ab.Account.GroupName,
		Phone:      ab.Account.Phone,
		Closing:    ab.Closing,
		Receivable: decimal.Zero,
		Payable:    decimal.Zero,
	}
	if ab.Closing.Side == model.Credit {
		line.Payable = ab.Closing.Magnitude
	} else {
		line.Receivable = ab.Closing.Magnitude
	}
	return line
}

func (b *Builder) outstanding(ctx context.Context, q Query, keep func(model.Account) bool) (Outstanding, []balance.AccountBalance, error) {
	p, err := b.resolve(ctx, q)
	if err != nil {
		return Outstanding{}, nil, err
	}
	balances, err := b.engine.AllAccountBalances(ctx, p.Year.ID, p.Range)
	if err != nil {
		return Outstanding{}, nil, err
	}

	o := Outstanding{Period: p, Lines: []OutstandingLine{}, TotalReceivable: decimal.Zero, TotalPayable: decimal.Zero}
	var kept []balance.AccountBalance
	for _, ab := range balances {
		if ab.Closing.IsZero() || !keep(ab.Account) {
			continue
		}
		line := outstandingLine(ab)
		o.Lines = append(o.Lines, line)
		o.TotalReceivable = o.TotalReceivable.Add(line.Receivable)
		o.TotalPayable = o.TotalPayable.Add(line.Payable)
		kept = append(kept, ab)
	}
	o.Net = o.TotalReceivable.Sub(o.TotalPayable)
	return o, kept, nil
}

// Outstanding builds the per-account outstanding report.
func (b *Builder) Outstanding(ctx context.Context, q Query) (Outstanding, error) {
	o, _, err := b.outstanding(ctx, q, func(model.Account) bool { return true })
	return o, err
}

// OutstandingByGroup rolls the outstanding report up by group.
func (b *Builder) OutstandingByGroup(ctx context.Context, q Query) (GroupedOutstanding, error) {
	o, kept, err := b.outstanding(ctx, q, func(model.Account) bool { return true })
	if err != nil {
		return GroupedOutstanding{}, err
	}

	g := GroupedOutstanding{
		Period:          o.Period,
		Groups:          []GroupOutstanding{},
		TotalReceivable: o.TotalReceivable,
		TotalPayable:    o.TotalPayable,
		Net:             o.Net,
	}
	index := map[int64]int{}
	for i, line := range o.Lines {
		j, ok := index[line.GroupID]
		if !ok {
			j = len(g.Groups)
			index[line.GroupID] = j
			g.Groups = append(g.Groups, GroupOutstanding{
				GroupID:    line.GroupID,
				Group:      line.Group,
				Category:   kept[i].Account.Category,
				Receivable: decimal.Zero,
				Payable:    decimal.Zero,
			})
		}
		grp := &g.Groups[j]
		grp.Accounts++
		grp.Receivable = grp.Receivable.Add(line.Receivable)
		grp.Payable = grp.Payable.Add(line.Payable)
	}
	for i := range g.Groups {
		grp := &g.Groups[i]
		grp.Net = model.BalanceFromSigned(grp.Receivable.Sub(grp.Payable))
	}
	return g, nil
}

// GroupAccounts drills into one group's outstanding accounts.
func (b *Builder) GroupAccounts(ctx context.Context, groupID int64, q Query) (Outstanding, error) {
	if _, err := b.years.ActiveYear(ctx); err != nil {
		return Outstanding{}, err
	}
	ok, err := store.Exists(ctx, b.db, "SELECT 1 FROM groups WHERE id = ?", groupID)
	if err != nil {
		return Outstanding{}, fmt.Errorf("checking group %d: %w", groupID, err)
	}
	if !ok {
		return Outstanding{}, &model.NotFoundError{Entity: "group", ID: groupID}
	}
	o, _, err := b.outstanding(ctx, q, func(a model.Account) bool { return a.GroupID == groupID })
	return o, err
}
