package journal

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Header is the CSV header for transaction files.
const Header = "date,from_account,to_account,amount,note"

const (
	numFields = 5
	colDate   = 0
	colFrom   = 1
	colTo     = 2
	colAmount = 3
	colNote   = 4
)

// Entry is one transaction row of a CSV file, with accounts named.
type Entry struct {
	Date   time.Time
	From   string
	To     string
	Amount decimal.Decimal
	Note   string
}

// ReadEntries reads transaction rows from a CSV reader (with header row).
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// WriteEntries writes transactions as CSV (including header), oldest first
// in the order given.
func WriteEntries(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		e := Entry{Date: t.Date, From: t.FromName, To: t.ToName, Amount: t.Amount, Note: t.Note}
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colDate] = e.Date.Format(model.DateFormat)
	row[colFrom] = e.From
	row[colTo] = e.To
	row[colAmount] = e.Amount.StringFixed(2)
	row[colNote] = e.Note
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(model.DateFormat, strings.TrimSpace(record[colDate]))
	if err != nil {
		return Entry{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(record[colAmount]))
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	e := Entry{
		Date:   date,
		From:   strings.TrimSpace(record[colFrom]),
		To:     strings.TrimSpace(record[colTo]),
		Amount: amount,
		Note:   strings.TrimSpace(record[colNote]),
	}
	if e.From == "" || e.To == "" {
		return Entry{}, fmt.Errorf("from_account and to_account are required")
	}
	return e, nil
}

// Import records every entry into a year in one transaction. Nothing is
// written if any entry fails validation.
func (s *Service) Import(ctx context.Context, yearID, createdBy int64, entries []Entry) ([]int64, error) {
	var ids []int64
	err := s.db.Tx(ctx, func(q store.Querier) error {
		ids = ids[:0]
		names := map[string]int64{}
		resolve := func(name string) (int64, error) {
			if id, ok := names[name]; ok {
				return id, nil
			}
			var id int64
			err := q.QueryRowContext(ctx, "SELECT id FROM accounts WHERE name = ?", name).Scan(&id)
			if errors.Is(err, sql.ErrNoRows) {
				return 0, &model.NotFoundError{Entity: "account", ID: name}
			}
			if err != nil {
				return 0, fmt.Errorf("loading account %q: %w", name, err)
			}
			names[name] = id
			return id, nil
		}

		for i, e := range entries {
			from, err := resolve(e.From)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
			to, err := resolve(e.To)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
			txn := model.Transaction{
				Date: e.Date, FromAccount: from, ToAccount: to, Amount: e.Amount,
				Note: e.Note, YearID: yearID, CreatedBy: createdBy,
			}
			if err := ValidateTransaction(txn, nil); err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
			id, err := s.insert(ctx, q, txn)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("transactions imported", "year", yearID, "count", len(ids))
	return ids, nil
}
