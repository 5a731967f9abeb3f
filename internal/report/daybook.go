package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
)

// DayBookEntry is one transaction in the day book.
type DayBookEntry struct {
	TxnID  int64           `json:"txn_id"`
	Date   time.Time       `json:"date"`
	FromID int64           `json:"from_account_id"`
	From   string          `json:"from_account"`
	ToID   int64           `json:"to_account_id"`
	To     string          `json:"to_account"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}

// DayTotal sums one day's transactions.
type DayTotal struct {
	Date    time.Time       `json:"date"`
	Entries int             `json:"entries"`
	Amount  decimal.Decimal `json:"amount"`
}

// DayBook lists every transaction in the period in date order.
type DayBook struct {
	Period
	Entries      []DayBookEntry  `json:"entries"`
	Days         []DayTotal      `json:"days"`
	TotalEntries int             `json:"total_entries"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// DayBook builds the day book.
func (b *Builder) DayBook(ctx context.Context, q Query) (DayBook, error) {
	p, err := b.resolve(ctx, q)
	if err != nil {
		return DayBook{}, err
	}

	from, to := p.Range.Bounds()
	rows, err := b.db.QueryContext(ctx, `
		SELECT t.id, t.txn_date, t.from_acc_id, fa.name, t.to_acc_id, ta.name, t.amount, t.note
		FROM transactions t
		JOIN accounts fa ON fa.id = t.from_acc_id
		JOIN accounts ta ON ta.id = t.to_acc_id
		WHERE t.financial_year_id = ? AND t.txn_date BETWEEN ? AND ?
		ORDER BY t.txn_date, t.id`, p.Year.ID, from, to)
	if err != nil {
		return DayBook{}, fmt.Errorf("querying day book: %w", err)
	}
	defer rows.Close()

	book := DayBook{Period: p, Entries: []DayBookEntry{}, Days: []DayTotal{}, TotalAmount: decimal.Zero}
	for rows.Next() {
		var e DayBookEntry
		var date string
		var minor int64
		if err := rows.Scan(&e.TxnID, &date, &e.FromID, &e.From, &e.ToID, &e.To, &minor, &e.Note); err != nil {
			return DayBook{}, fmt.Errorf("scanning day book entry: %w", err)
		}
		if e.Date, err = model.ParseDate(date); err != nil {
			return DayBook{}, err
		}
		e.Amount = model.FromMinor(minor)
		book.Entries = append(book.Entries, e)

		n := len(book.Days)
		if n == 0 || !book.Days[n-1].Date.Equal(e.Date) {
			book.Days = append(book.Days, DayTotal{Date: e.Date, Amount: decimal.Zero})
			n++
		}
		book.Days[n-1].Entries++
		book.Days[n-1].Amount = book.Days[n-1].Amount.Add(e.Amount)

		book.TotalEntries++
		book.TotalAmount = book.TotalAmount.Add(e.Amount)
	}
	return book, rows.Err()
}
