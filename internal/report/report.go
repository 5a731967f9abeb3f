// Package report builds financial statements from account balances.
//
// Every builder is a pure function of the period and the ledger state. Each
// first resolves the active financial year and refuses to run without one.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/balance"
	"github.com/cleared-dev/ledger/internal/fiscal"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Years resolves the active year and looks years up by ID.
type Years interface {
	fiscal.ActiveYearProvider
	Get(ctx context.Context, id int64) (model.FinancialYear, error)
}

// Builder builds reports.
type Builder struct {
	years  Years
	engine *balance.Engine
	db     *store.DB
}

// NewBuilder creates a Builder.
func NewBuilder(years Years, engine *balance.Engine, db *store.DB) *Builder {
	return &Builder{years: years, engine: engine, db: db}
}

// Query selects the period a report covers. YearID 0 means the active year;
// zero dates default to the year's start and end. The range must lie inside
// the year.
type Query struct {
	YearID int64
	From   time.Time
	To     time.Time
}

// Period is the resolved year and date range of a report.
type Period struct {
	Year  model.FinancialYear `json:"year"`
	Range model.DateRange     `json:"range"`
}

func (b *Builder) resolve(ctx context.Context, q Query) (Period, error) {
	year, err := b.years.ActiveYear(ctx)
	if err != nil {
		return Period{}, err
	}
	if q.YearID != 0 && q.YearID != year.ID {
		if year, err = b.years.Get(ctx, q.YearID); err != nil {
			return Period{}, err
		}
	}

	r := year.Range()
	if !q.From.IsZero() {
		r.From = q.From
	}
	if !q.To.IsZero() {
		r.To = q.To
	}
	if err := r.Validate(); err != nil {
		return Period{}, err
	}
	if !year.Contains(r.From) || !year.Contains(r.To) {
		from, to := year.Range().Bounds()
		return Period{}, &model.ValidationError{
			Entity:  "range",
			Field:   "range",
			Message: fmt.Sprintf("range must fall inside financial year %s (%s to %s)", year.Label, from, to),
		}
	}
	return Period{Year: year, Range: r}, nil
}

// Line is one account's amount on a statement.
type Line struct {
	AccountID int64           `json:"account_id"`
	Account   string          `json:"account"`
	GroupID   int64           `json:"group_id"`
	Group     string          `json:"group"`
	Amount    decimal.Decimal `json:"amount"`
}

func lineOf(ab balance.AccountBalance, amount decimal.Decimal) Line {
	return Line{
		AccountID: ab.Account.ID,
		Account:   ab.Account.Name,
		GroupID:   ab.Account.GroupID,
		Group:     ab.Account.GroupName,
		Amount:    amount,
	}
}

func sum(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
