package report

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// TrialBalanceLine is one account on the trial balance. Closing is split
// into the debit or credit column by its side.
type TrialBalanceLine struct {
	AccountID     int64           `json:"account_id"`
	Account       string          `json:"account"`
	Group         string          `json:"group"`
	Category      model.Category  `json:"category"`
	Opening       model.Balance   `json:"opening"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Closing       model.Balance   `json:"closing"`
	ClosingDebit  decimal.Decimal `json:"closing_debit"`
	ClosingCredit decimal.Decimal `json:"closing_credit"`
}

// TrialBalance lists every account's closing balance. Balanced is false when
// the debit and credit columns diverge; the divergence is reported as is.
type TrialBalance struct {
	Period
	Lines       []TrialBalanceLine `json:"lines"`
	TotalDebit  decimal.Decimal    `json:"total_debit"`
	TotalCredit decimal.Decimal    `json:"total_credit"`
	Difference  decimal.Decimal    `json:"difference"`
	Balanced    bool               `json:"balanced"`
}

// NonZero returns the lines with a non-zero closing balance.
func (tb TrialBalance) NonZero() []TrialBalanceLine {
	out := []TrialBalanceLine{}
	for _, l := range tb.Lines {
		if !l.Closing.IsZero() {
			out = append(out, l)
		}
	}
	return out
}

// TrialBalance builds the trial balance over every account, including
// inactive and zero-balance ones.
func (b *Builder) TrialBalance(ctx context.Context, q Query) (TrialBalance, error) {
	p, err := b.resolve(ctx, q)
	if err != nil {
		return TrialBalance{}, err
	}
	balances, err := b.engine.AllAccountBalances(ctx, p.Year.ID, p.Range)
	if err != nil {
		return TrialBalance{}, err
	}

	tb := TrialBalance{
		Period:      p,
		Lines:       make([]TrialBalanceLine, 0, len(balances)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, ab := range balances {
		line := TrialBalanceLine{
			AccountID:     ab.Account.ID,
			Account:       ab.Account.Name,
			Group:         ab.Account.GroupName,
			Category:      ab.Account.Category,
			Opening:       ab.Opening,
			Debit:         ab.Debit,
			Credit:        ab.Credit,
			Closing:       ab.Closing,
			ClosingDebit:  decimal.Zero,
			ClosingCredit: decimal.Zero,
		}
		if ab.Closing.Side == model.Credit {
			line.ClosingCredit = ab.Closing.Magnitude
		} else {
			line.ClosingDebit = ab.Closing.Magnitude
		}
		tb.TotalDebit = tb.TotalDebit.Add(line.ClosingDebit)
		tb.TotalCredit = tb.TotalCredit.Add(line.ClosingCredit)
		tb.Lines = append(tb.Lines, line)
	}
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.Balanced = tb.Difference.IsZero()
	return tb, nil
}
