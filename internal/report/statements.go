package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/balance"
	"github.com/cleared-dev/ledger/internal/model"
)

// GroupTotal is the sum of a group's lines on a statement.
type GroupTotal struct {
	GroupID int64           `json:"group_id"`
	Group   string          `json:"group"`
	Amount  decimal.Decimal `json:"amount"`
}

func groupTotals(lines []Line) []GroupTotal {
	var out []GroupTotal
	index := map[int64]int{}
	for _, l := range lines {
		i, ok := index[l.GroupID]
		if !ok {
			i = len(out)
			index[l.GroupID] = i
			out = append(out, GroupTotal{GroupID: l.GroupID, Group: l.Group, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(l.Amount)
	}
	return out
}

// ProfitLoss compares income with expenses. Income lines carry the credit
// balance of income accounts and expense lines the debit balance of expense
// accounts, so a refund shows as a negative line.
type ProfitLoss struct {
	Period
	Income        []Line          `json:"income"`
	Expenses      []Line          `json:"expenses"`
	IncomeGroups  []GroupTotal    `json:"income_groups"`
	ExpenseGroups []GroupTotal    `json:"expense_groups"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	Net           decimal.Decimal `json:"net"`
}

// Label is "Net Profit" or "Net Loss".
func (pl ProfitLoss) Label() string {
	return netLabel(pl.Net)
}

func netLabel(net decimal.Decimal) string {
	if net.IsNegative() {
		return "Net Loss"
	}
	return "Net Profit"
}

func profitLoss(p Period, balances []balance.AccountBalance) ProfitLoss {
	pl := ProfitLoss{Period: p, Income: []Line{}, Expenses: []Line{}}
	for _, ab := range balances {
		if ab.Closing.IsZero() {
			continue
		}
		switch ab.Account.Category {
		case model.CategoryIncome:
			pl.Income = append(pl.Income, lineOf(ab, ab.Closing.Signed().Neg()))
		case model.CategoryExpense:
			pl.Expenses = append(pl.Expenses, lineOf(ab, ab.Closing.Signed()))
		}
	}
	pl.IncomeGroups = groupTotals(pl.Income)
	pl.ExpenseGroups = groupTotals(pl.Expenses)
	pl.TotalIncome = sum(pl.Income)
	pl.TotalExpense = sum(pl.Expenses)
	pl.Net = pl.TotalIncome.Sub(pl.TotalExpense)
	return pl
}

// ProfitLoss builds the profit and loss statement.
func (b *Builder) ProfitLoss(ctx context.Context, q Query) (ProfitLoss, error) {
	p, err := b.resolve(ctx, q)
	if err != nil {
		return ProfitLoss{}, err
	}
	balances, err := b.engine.AllAccountBalances(ctx, p.Year.ID, p.Range)
	if err != nil {
		return ProfitLoss{}, err
	}
	return profitLoss(p, balances), nil
}

// BalanceSheet sets assets against liabilities and equity, with the net
// profit or loss for the period carried to the liabilities side. Accounts in
// "other" groups are placed by the side of their balance.
type BalanceSheet struct {
	Period
	Assets                 []Line          `json:"assets"`
	Liabilities            []Line          `json:"liabilities"`
	Equity                 []Line          `json:"equity"`
	NetProfit              decimal.Decimal `json:"net_profit"`
	NetLabel               string          `json:"net_label"`
	TotalAssets            decimal.Decimal `json:"total_assets"`
	TotalLiabilitiesEquity decimal.Decimal `json:"total_liabilities_equity"`
	Difference             decimal.Decimal `json:"difference"`
	Balanced               bool            `json:"balanced"`
}

// BalanceSheet builds the balance sheet.
func (b *Builder) BalanceSheet(ctx context.Context, q Query) (BalanceSheet, error) {
	p, err := b.resolve(ctx, q)
	if err != nil {
		return BalanceSheet{}, err
	}
	balances, err := b.engine.AllAccountBalances(ctx, p.Year.ID, p.Range)
	if err != nil {
		return BalanceSheet{}, err
	}

	bs := BalanceSheet{Period: p, Assets: []Line{}, Liabilities: []Line{}, Equity: []Line{}}
	for _, ab := range balances {
		if ab.Closing.IsZero() {
			continue
		}
		signed := ab.Closing.Signed()
		switch ab.Account.Category {
		case model.CategoryAsset:
			bs.Assets = append(bs.Assets, lineOf(ab, signed))
		case model.CategoryLiability:
			bs.Liabilities = append(bs.Liabilities, lineOf(ab, signed.Neg()))
		case model.CategoryEquity:
			bs.Equity = append(bs.Equity, lineOf(ab, signed.Neg()))
		case model.CategoryOther:
			if ab.Closing.Side == model.Debit {
				bs.Assets = append(bs.Assets, lineOf(ab, signed))
			} else {
				bs.Liabilities = append(bs.Liabilities, lineOf(ab, signed.Neg()))
			}
		}
	}

	bs.NetProfit = profitLoss(p, balances).Net
	bs.NetLabel = netLabel(bs.NetProfit)
	bs.TotalAssets = sum(bs.Assets)
	bs.TotalLiabilitiesEquity = sum(bs.Liabilities).Add(sum(bs.Equity)).Add(bs.NetProfit)
	bs.Difference = bs.TotalAssets.Sub(bs.TotalLiabilitiesEquity)
	bs.Balanced = bs.Difference.IsZero()
	return bs, nil
}
