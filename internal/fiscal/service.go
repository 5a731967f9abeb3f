package fiscal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// ActiveYearProvider resolves the currently active financial year.
type ActiveYearProvider interface {
	ActiveYear(ctx context.Context) (model.FinancialYear, error)
}

// Service manages financial years.
type Service struct {
	db        *store.DB
	yearStart string
}

// NewService creates a Service. yearStart is the "MM-DD" years begin on.
func NewService(db *store.DB, yearStart string) *Service {
	if yearStart == "" {
		yearStart = DefaultYearStart
	}
	return &Service{db: db, yearStart: yearStart}
}

const yearColumns = "id, label, start_date, end_date, is_active"

func scanYear(row interface{ Scan(...any) error }) (model.FinancialYear, error) {
	var y model.FinancialYear
	var start, end string
	if err := row.Scan(&y.ID, &y.Label, &start, &end, &y.Active); err != nil {
		return model.FinancialYear{}, err
	}
	var err error
	if y.Start, err = model.ParseDate(start); err != nil {
		return model.FinancialYear{}, fmt.Errorf("year %d start: %w", y.ID, err)
	}
	if y.End, err = model.ParseDate(end); err != nil {
		return model.FinancialYear{}, fmt.Errorf("year %d end: %w", y.ID, err)
	}
	return y, nil
}

func getYear(ctx context.Context, q store.Querier, id int64) (model.FinancialYear, error) {
	y, err := scanYear(q.QueryRowContext(ctx, "SELECT "+yearColumns+" FROM financial_years WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.FinancialYear{}, &model.NotFoundError{Entity: "financial_year", ID: id}
	}
	if err != nil {
		return model.FinancialYear{}, fmt.Errorf("loading financial year %d: %w", id, err)
	}
	return y, nil
}

// Add creates an inactive financial year from its label.
func (s *Service) Add(ctx context.Context, label string) (model.FinancialYear, error) {
	label = strings.TrimSpace(label)
	start, end, err := Dates(label, s.yearStart)
	if err != nil {
		return model.FinancialYear{}, err
	}

	startStr, endStr := model.DateRange{From: start, To: end}.Bounds()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO financial_years (label, start_date, end_date, is_active) VALUES (?, ?, ?, 0)",
		label, startStr, endStr)
	if store.IsUniqueViolation(err) {
		return model.FinancialYear{}, &model.ValidationError{Entity: "financial_year", Field: "label", Message: fmt.Sprintf("financial year %q already exists", label)}
	}
	if err != nil {
		return model.FinancialYear{}, fmt.Errorf("inserting financial year: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.FinancialYear{}, fmt.Errorf("reading financial year id: %w", err)
	}

	slog.Debug("financial year added", "id", id, "label", label)
	return model.FinancialYear{ID: id, Label: label, Start: start, End: end}, nil
}

// Update relabels a year, moving its start and end dates with the label.
func (s *Service) Update(ctx context.Context, id int64, label string) (model.FinancialYear, error) {
	label = strings.TrimSpace(label)
	start, end, err := Dates(label, s.yearStart)
	if err != nil {
		return model.FinancialYear{}, err
	}
	startStr, endStr := model.DateRange{From: start, To: end}.Bounds()

	var updated model.FinancialYear
	err = s.db.Tx(ctx, func(q store.Querier) error {
		current, err := getYear(ctx, q, id)
		if err != nil {
			return err
		}

		dup, err := store.Exists(ctx, q, "SELECT 1 FROM financial_years WHERE label = ? AND id != ?", label, id)
		if err != nil {
			return fmt.Errorf("checking duplicate label: %w", err)
		}
		if dup {
			return &model.ValidationError{Entity: "financial_year", Field: "label", Message: fmt.Sprintf("financial year %q already exists", label)}
		}

		outside, err := store.Exists(ctx, q,
			"SELECT 1 FROM transactions WHERE financial_year_id = ? AND (txn_date < ? OR txn_date > ?) LIMIT 1",
			id, startStr, endStr)
		if err != nil {
			return fmt.Errorf("checking transaction dates: %w", err)
		}
		if outside {
			return &model.ConflictError{Entity: "financial_year", ID: id, Reason: "transactions fall outside the relabelled year"}
		}

		if _, err := q.ExecContext(ctx,
			"UPDATE financial_years SET label = ?, start_date = ?, end_date = ? WHERE id = ?",
			label, startStr, endStr, id); err != nil {
			return fmt.Errorf("updating financial year: %w", err)
		}
		updated = model.FinancialYear{ID: id, Label: label, Start: start, End: end, Active: current.Active}
		return nil
	})
	if err != nil {
		return model.FinancialYear{}, err
	}
	return updated, nil
}

// Get returns a financial year by ID.
func (s *Service) Get(ctx context.Context, id int64) (model.FinancialYear, error) {
	return getYear(ctx, s.db, id)
}

// FindByLabel returns the year with the given label.
func (s *Service) FindByLabel(ctx context.Context, label string) (model.FinancialYear, error) {
	label = strings.TrimSpace(label)
	y, err := scanYear(s.db.QueryRowContext(ctx, "SELECT "+yearColumns+" FROM financial_years WHERE label = ?", label))
	if errors.Is(err, sql.ErrNoRows) {
		return model.FinancialYear{}, &model.NotFoundError{Entity: "financial_year", ID: label}
	}
	if err != nil {
		return model.FinancialYear{}, fmt.Errorf("loading financial year %q: %w", label, err)
	}
	return y, nil
}

// List returns all years, newest first.
func (s *Service) List(ctx context.Context) ([]model.FinancialYear, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+yearColumns+" FROM financial_years ORDER BY start_date DESC")
	if err != nil {
		return nil, fmt.Errorf("listing financial years: %w", err)
	}
	defer rows.Close()

	var years []model.FinancialYear
	for rows.Next() {
		y, err := scanYear(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning financial year: %w", err)
		}
		years = append(years, y)
	}
	return years, rows.Err()
}

// Active returns the active year, or model.ErrNoActiveYear.
func (s *Service) Active(ctx context.Context) (model.FinancialYear, error) {
	y, err := scanYear(s.db.QueryRowContext(ctx, "SELECT "+yearColumns+" FROM financial_years WHERE is_active = 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return model.FinancialYear{}, model.ErrNoActiveYear
	}
	if err != nil {
		return model.FinancialYear{}, fmt.Errorf("loading active financial year: %w", err)
	}
	return y, nil
}

// ActiveYear implements ActiveYearProvider.
func (s *Service) ActiveYear(ctx context.Context) (model.FinancialYear, error) {
	return s.Active(ctx)
}

// Activate makes id the only active year. Deactivating the previous year and
// activating the new one commit together.
func (s *Service) Activate(ctx context.Context, id int64) (model.FinancialYear, error) {
	var activated model.FinancialYear
	err := s.db.Tx(ctx, func(q store.Querier) error {
		y, err := getYear(ctx, q, id)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, "UPDATE financial_years SET is_active = 0 WHERE is_active = 1 AND id != ?", id); err != nil {
			return fmt.Errorf("deactivating financial years: %w", err)
		}
		if _, err := q.ExecContext(ctx, "UPDATE financial_years SET is_active = 1 WHERE id = ?", id); err != nil {
			return fmt.Errorf("activating financial year: %w", err)
		}
		y.Active = true
		activated = y
		return nil
	})
	if err != nil {
		return model.FinancialYear{}, err
	}

	slog.Debug("financial year activated", "id", id, "label", activated.Label)
	return activated, nil
}

// Delete removes a year that has no opening balances or transactions and is
// not the active year. The reference check and the delete are one statement.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.db.Tx(ctx, func(q store.Querier) error {
		res, err := q.ExecContext(ctx, `
			DELETE FROM financial_years
			WHERE id = ?
			  AND is_active = 0
			  AND NOT EXISTS (SELECT 1 FROM opening_balances WHERE financial_year_id = ?)
			  AND NOT EXISTS (SELECT 1 FROM transactions WHERE financial_year_id = ?)`,
			id, id, id)
		if err != nil {
			return fmt.Errorf("deleting financial year: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting financial year: %w", err)
		}
		if n > 0 {
			slog.Debug("financial year deleted", "id", id)
			return nil
		}
		return deleteBlocker(ctx, q, id)
	})
}

func deleteBlocker(ctx context.Context, q store.Querier, id int64) error {
	y, err := getYear(ctx, q, id)
	if err != nil {
		return err
	}
	if y.Active {
		return &model.ConflictError{Entity: "financial_year", ID: id, Reason: "cannot delete the active financial year"}
	}
	return &model.ConflictError{Entity: "financial_year", ID: id, Reason: "opening balances or transactions reference it"}
}
