// Package journal records transactions between accounts and the opening
// balances they start from.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service records and edits transactions.
type Service struct {
	db               *store.DB
	enforceYearDates bool
}

// Option configures a Service.
type Option func(*Service)

// WithYearDates sets whether transaction dates must fall inside their
// financial year. Enforced by default.
func WithYearDates(enforce bool) Option {
	return func(s *Service) { s.enforceYearDates = enforce }
}

// NewService creates a journal Service.
func NewService(db *store.DB, opts ...Option) *Service {
	s := &Service{db: db, enforceYearDates: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddParams holds parameters for recording a transaction.
type AddParams struct {
	Date      time.Time
	From      int64
	To        int64
	Amount    decimal.Decimal
	Note      string
	YearID    int64
	CreatedBy int64
}

// UpdateParams holds the editable fields of a transaction. The year and
// creator are fixed once recorded.
type UpdateParams struct {
	Date   time.Time
	From   int64
	To     int64
	Amount decimal.Decimal
	Note   string
}

// ListFilter narrows List. Zero values match everything; a zero Range
// bound leaves that side open.
type ListFilter struct {
	YearID    int64
	AccountID int64
	Range     model.DateRange
}

const txnSelect = `
	SELECT t.id, t.txn_date, t.from_acc_id, fa.name, t.to_acc_id, ta.name,
	       t.amount, t.note, t.financial_year_id, t.created_by, t.created_at
	FROM transactions t
	JOIN accounts fa ON fa.id = t.from_acc_id
	JOIN accounts ta ON ta.id = t.to_acc_id`

func scanTxn(row interface{ Scan(...any) error }) (model.Transaction, error) {
	var t model.Transaction
	var date string
	var minor int64
	var created sql.NullTime
	if err := row.Scan(&t.ID, &date, &t.FromAccount, &t.FromName, &t.ToAccount, &t.ToName,
		&minor, &t.Note, &t.YearID, &t.CreatedBy, &created); err != nil {
		return model.Transaction{}, err
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("transaction %d: %w", t.ID, err)
	}
	t.Date = d
	t.Amount = model.FromMinor(minor)
	if created.Valid {
		t.CreatedAt = created.Time
	}
	return t, nil
}

func getTxn(ctx context.Context, q store.Querier, id int64) (model.Transaction, error) {
	t, err := scanTxn(q.QueryRowContext(ctx, txnSelect+" WHERE t.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, &model.NotFoundError{Entity: "transaction", ID: id}
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("loading transaction %d: %w", id, err)
	}
	return t, nil
}

func loadYear(ctx context.Context, q store.Querier, id int64) (model.FinancialYear, error) {
	var y model.FinancialYear
	var start, end string
	err := q.QueryRowContext(ctx,
		"SELECT id, label, start_date, end_date, is_active FROM financial_years WHERE id = ?", id).
		Scan(&y.ID, &y.Label, &start, &end, &y.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FinancialYear{}, &model.NotFoundError{Entity: "financial_year", ID: id}
	}
	if err != nil {
		return model.FinancialYear{}, fmt.Errorf("loading financial year %d: %w", id, err)
	}
	if y.Start, err = model.ParseDate(start); err != nil {
		return model.FinancialYear{}, err
	}
	if y.End, err = model.ParseDate(end); err != nil {
		return model.FinancialYear{}, err
	}
	return y, nil
}

// checkAccount verifies an account exists and, when requireActive, that it
// has not been deactivated.
func checkAccount(ctx context.Context, q store.Querier, id int64, field string, requireActive bool) error {
	var active bool
	err := q.QueryRowContext(ctx, "SELECT is_active FROM accounts WHERE id = ?", id).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return fmt.Errorf("loading account %d: %w", id, err)
	}
	if requireActive && !active {
		return violation(field, "account %d is inactive", id)
	}
	return nil
}

func (s *Service) yearFor(y model.FinancialYear) *model.FinancialYear {
	if s.enforceYearDates {
		return &y
	}
	return nil
}

// Add validates and records a transaction. From is credited, To is debited.
func (s *Service) Add(ctx context.Context, p AddParams) (model.Transaction, error) {
	txn := model.Transaction{
		Date:        p.Date,
		FromAccount: p.From,
		ToAccount:   p.To,
		Amount:      p.Amount,
		Note:        strings.TrimSpace(p.Note),
		YearID:      p.YearID,
		CreatedBy:   p.CreatedBy,
	}
	if err := ValidateTransaction(txn, nil); err != nil {
		return model.Transaction{}, err
	}

	var created model.Transaction
	err := s.db.Tx(ctx, func(q store.Querier) error {
		id, err := s.insert(ctx, q, txn)
		if err != nil {
			return err
		}
		created, err = getTxn(ctx, q, id)
		return err
	})
	if err != nil {
		return model.Transaction{}, err
	}

	slog.Debug("transaction added", "id", created.ID, "from", created.FromName, "to", created.ToName, "amount", created.Amount)
	return created, nil
}

func (s *Service) insert(ctx context.Context, q store.Querier, txn model.Transaction) (int64, error) {
	year, err := loadYear(ctx, q, txn.YearID)
	if err != nil {
		return 0, err
	}
	if err := checkAccount(ctx, q, txn.FromAccount, "from_account", true); err != nil {
		return 0, err
	}
	if err := checkAccount(ctx, q, txn.ToAccount, "to_account", true); err != nil {
		return 0, err
	}
	exists, err := store.Exists(ctx, q, "SELECT 1 FROM users WHERE id = ?", txn.CreatedBy)
	if err != nil {
		return 0, fmt.Errorf("checking user: %w", err)
	}
	if !exists {
		return 0, &model.NotFoundError{Entity: "user", ID: txn.CreatedBy}
	}
	if err := ValidateTransaction(txn, s.yearFor(year)); err != nil {
		return 0, err
	}

	minor, err := model.ToMinor(txn.Amount)
	if err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx, `
		INSERT INTO transactions (txn_date, from_acc_id, to_acc_id, amount, note, financial_year_id, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.Date.Format(model.DateFormat), txn.FromAccount, txn.ToAccount, minor, txn.Note,
		txn.YearID, txn.CreatedBy, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("inserting transaction: %w", err)
	}
	return res.LastInsertId()
}

// Update replaces a transaction's date, accounts, amount and note.
// Deactivated accounts already on the transaction may stay on it.
func (s *Service) Update(ctx context.Context, id int64, p UpdateParams) (model.Transaction, error) {
	var updated model.Transaction
	err := s.db.Tx(ctx, func(q store.Querier) error {
		old, err := getTxn(ctx, q, id)
		if err != nil {
			return err
		}
		txn := old
		txn.Date = p.Date
		txn.FromAccount = p.From
		txn.ToAccount = p.To
		txn.Amount = p.Amount
		txn.Note = strings.TrimSpace(p.Note)
		if err := ValidateTransaction(txn, nil); err != nil {
			return err
		}

		year, err := loadYear(ctx, q, txn.YearID)
		if err != nil {
			return err
		}
		if err := checkAccount(ctx, q, txn.FromAccount, "from_account", txn.FromAccount != old.FromAccount); err != nil {
			return err
		}
		if err := checkAccount(ctx, q, txn.ToAccount, "to_account", txn.ToAccount != old.ToAccount); err != nil {
			return err
		}
		if err := ValidateTransaction(txn, s.yearFor(year)); err != nil {
			return err
		}

		minor, err := model.ToMinor(txn.Amount)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx,
			"UPDATE transactions SET txn_date = ?, from_acc_id = ?, to_acc_id = ?, amount = ?, note = ? WHERE id = ?",
			txn.Date.Format(model.DateFormat), txn.FromAccount, txn.ToAccount, minor, txn.Note, id); err != nil {
			return fmt.Errorf("updating transaction: %w", err)
		}
		updated, err = getTxn(ctx, q, id)
		return err
	})
	if err != nil {
		return model.Transaction{}, err
	}

	slog.Debug("transaction updated", "id", id)
	return updated, nil
}

// Delete removes a transaction.
func (s *Service) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	if n == 0 {
		return &model.NotFoundError{Entity: "transaction", ID: id}
	}
	slog.Debug("transaction deleted", "id", id)
	return nil
}

// Get returns a transaction by ID.
func (s *Service) Get(ctx context.Context, id int64) (model.Transaction, error) {
	return getTxn(ctx, s.db, id)
}

// List returns matching transactions, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) ([]model.Transaction, error) {
	query := txnSelect + " WHERE 1 = 1"
	var args []any
	if f.YearID != 0 {
		query += " AND t.financial_year_id = ?"
		args = append(args, f.YearID)
	}
	if f.AccountID != 0 {
		query += " AND (t.from_acc_id = ? OR t.to_acc_id = ?)"
		args = append(args, f.AccountID, f.AccountID)
	}
	if !f.Range.From.IsZero() {
		query += " AND t.txn_date >= ?"
		args = append(args, f.Range.From.Format(model.DateFormat))
	}
	if !f.Range.To.IsZero() {
		query += " AND t.txn_date <= ?"
		args = append(args, f.Range.To.Format(model.DateFormat))
	}
	if !f.Range.From.IsZero() && !f.Range.To.IsZero() {
		if err := f.Range.Validate(); err != nil {
			return nil, err
		}
	}
	query += " ORDER BY t.txn_date DESC, t.id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		t, err := scanTxn(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
