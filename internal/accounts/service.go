// Package accounts manages account groups and the chart of accounts.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// Service manages groups and accounts.
type Service struct {
	db *store.DB
}

// NewService creates a Service.
func NewService(db *store.DB) *Service {
	return &Service{db: db}
}

// AccountParams holds the editable fields of an account.
type AccountParams struct {
	Name    string `json:"name"`
	GroupID int64  `json:"group_id"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (p *AccountParams) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Address = strings.TrimSpace(p.Address)
}

// Filter narrows ListAccounts.
type Filter struct {
	ActiveOnly bool
	GroupID    int64
	Category   model.Category
}

const accountSelect = `
	SELECT a.id, a.name, a.group_id, g.group_name, g.category, a.phone, a.address, a.is_active, a.created_at
	FROM accounts a
	JOIN groups g ON g.id = a.group_id`

func scanAccount(row interface{ Scan(...any) error }) (model.Account, error) {
	var a model.Account
	var category string
	var created sql.NullTime
	if err := row.Scan(&a.ID, &a.Name, &a.GroupID, &a.GroupName, &category, &a.Phone, &a.Address, &a.Active, &created); err != nil {
		return model.Account{}, err
	}
	a.Category = model.Category(category)
	if created.Valid {
		a.CreatedAt = created.Time
	}
	return a, nil
}

func getAccount(ctx context.Context, q store.Querier, id int64) (model.Account, error) {
	a, err := scanAccount(q.QueryRowContext(ctx, accountSelect+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, &model.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("loading account %d: %w", id, err)
	}
	return a, nil
}

func duplicateAccount(name string) error {
	return &model.ValidationError{Entity: "account", Field: "name", Message: fmt.Sprintf("account %q already exists", name)}
}

// AddAccount creates an active account.
func (s *Service) AddAccount(ctx context.Context, p AccountParams) (model.Account, error) {
	p.normalize()
	if p.Name == "" {
		return model.Account{}, &model.ValidationError{Entity: "account", Field: "name", Message: "name is required"}
	}

	var created model.Account
	err := s.db.Tx(ctx, func(q store.Querier) error {
		id, err := insertAccount(ctx, q, p)
		if err != nil {
			return err
		}
		created, err = getAccount(ctx, q, id)
		return err
	})
	if err != nil {
		return model.Account{}, err
	}

	slog.Debug("account added", "id", created.ID, "name", created.Name, "group", created.GroupName)
	return created, nil
}

func insertAccount(ctx context.Context, q store.Querier, p AccountParams) (int64, error) {
	if _, err := getGroup(ctx, q, p.GroupID); err != nil {
		return 0, err
	}
	res, err := q.ExecContext(ctx,
		"INSERT INTO accounts (name, group_id, phone, address, created_at) VALUES (?, ?, ?, ?, ?)",
		p.Name, p.GroupID, p.Phone, p.Address, time.Now().UTC())
	if store.IsUniqueViolation(err) {
		return 0, duplicateAccount(p.Name)
	}
	if store.IsForeignKeyViolation(err) {
		return 0, &model.NotFoundError{Entity: "group", ID: p.GroupID}
	}
	if err != nil {
		return 0, fmt.Errorf("inserting account: %w", err)
	}
	return res.LastInsertId()
}

// UpdateAccount replaces an account's editable fields.
func (s *Service) UpdateAccount(ctx context.Context, id int64, p AccountParams) (model.Account, error) {
	p.normalize()
	if p.Name == "" {
		return model.Account{}, &model.ValidationError{Entity: "account", Field: "name", Message: "name is required"}
	}

	var updated model.Account
	err := s.db.Tx(ctx, func(q store.Querier) error {
		if _, err := getAccount(ctx, q, id); err != nil {
			return err
		}
		if _, err := getGroup(ctx, q, p.GroupID); err != nil {
			return err
		}
		_, err := q.ExecContext(ctx,
			"UPDATE accounts SET name = ?, group_id = ?, phone = ?, address = ? WHERE id = ?",
			p.Name, p.GroupID, p.Phone, p.Address, id)
		if store.IsUniqueViolation(err) {
			return duplicateAccount(p.Name)
		}
		if err != nil {
			return fmt.Errorf("updating account: %w", err)
		}
		updated, err = getAccount(ctx, q, id)
		return err
	})
	return updated, err
}

// GetAccount returns an account by ID.
func (s *Service) GetAccount(ctx context.Context, id int64) (model.Account, error) {
	return getAccount(ctx, s.db, id)
}

// FindAccount returns an account by name.
func (s *Service) FindAccount(ctx context.Context, name string) (model.Account, error) {
	name = strings.TrimSpace(name)
	a, err := scanAccount(s.db.QueryRowContext(ctx, accountSelect+" WHERE a.name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, &model.NotFoundError{Entity: "account", ID: name}
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("loading account %q: %w", name, err)
	}
	return a, nil
}

// ListAccounts returns accounts ordered by name.
func (s *Service) ListAccounts(ctx context.Context, f Filter) ([]model.Account, error) {
	query := accountSelect + " WHERE 1 = 1"
	var args []any
	if f.ActiveOnly {
		query += " AND a.is_active = 1"
	}
	if f.GroupID != 0 {
		query += " AND a.group_id = ?"
		args = append(args, f.GroupID)
	}
	if f.Category != "" {
		query += " AND g.category = ?"
		args = append(args, string(f.Category))
	}
	query += " ORDER BY a.name"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// Deactivate soft-deletes an account; its history stays in every report.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, false)
}

// Activate re-enables a deactivated account.
func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE accounts SET is_active = ? WHERE id = ?", active, id)
	if err != nil {
		return fmt.Errorf("updating account status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating account status: %w", err)
	}
	if n == 0 {
		return &model.NotFoundError{Entity: "account", ID: id}
	}
	slog.Debug("account status changed", "id", id, "active", active)
	return nil
}

// DeleteAccount hard-deletes an account no transaction or opening balance
// references. Prefer Deactivate.
func (s *Service) DeleteAccount(ctx context.Context, id int64) error {
	return s.db.Tx(ctx, func(q store.Querier) error {
		res, err := q.ExecContext(ctx, `
			DELETE FROM accounts
			WHERE id = ?
			  AND NOT EXISTS (SELECT 1 FROM transactions WHERE from_acc_id = ? OR to_acc_id = ?)
			  AND NOT EXISTS (SELECT 1 FROM opening_balances WHERE account_id = ?)`,
			id, id, id, id)
		if err != nil {
			return fmt.Errorf("deleting account: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting account: %w", err)
		}
		if n > 0 {
			slog.Debug("account deleted", "id", id)
			return nil
		}
		if _, err := getAccount(ctx, q, id); err != nil {
			return err
		}
		return &model.ConflictError{Entity: "account", ID: id, Reason: "transactions or opening balances reference it; deactivate it instead"}
	})
}
