package accounts

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

func validateGroup(name string, category model.Category) error {
	var errs model.ValidationErrors
	if name == "" {
		errs = append(errs, &model.ValidationError{Entity: "group", Field: "name", Message: "name is required"})
	}
	if !category.Valid() {
		errs = append(errs, &model.ValidationError{Entity: "group", Field: "category", Message: fmt.Sprintf("unknown category %q", category)})
	}
	return errs.OrNil()
}

func duplicateGroup(name string) error {
	return &model.ValidationError{Entity: "group", Field: "name", Message: fmt.Sprintf("group %q already exists", name)}
}

func scanGroup(row interface{ Scan(...any) error }) (model.Group, error) {
	var g model.Group
	var category string
	if err := row.Scan(&g.ID, &g.Name, &category); err != nil {
		return model.Group{}, err
	}
	g.Category = model.Category(category)
	return g, nil
}

func getGroup(ctx context.Context, q store.Querier, id int64) (model.Group, error) {
	g, err := scanGroup(q.QueryRowContext(ctx, "SELECT id, group_name, category FROM groups WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Group{}, &model.NotFoundError{Entity: "group", ID: id}
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("loading group %d: %w", id, err)
	}
	return g, nil
}

// AddGroup creates a group.
func (s *Service) AddGroup(ctx context.Context, name string, category model.Category) (model.Group, error) {
	name = strings.TrimSpace(name)
	if err := validateGroup(name, category); err != nil {
		return model.Group{}, err
	}

	res, err := s.db.ExecContext(ctx, "INSERT INTO groups (group_name, category) VALUES (?, ?)", name, string(category))
	if store.IsUniqueViolation(err) {
		return model.Group{}, duplicateGroup(name)
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("inserting group: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Group{}, fmt.Errorf("reading group id: %w", err)
	}

	slog.Debug("group added", "id", id, "name", name, "category", category)
	return model.Group{ID: id, Name: name, Category: category}, nil
}

// UpdateGroup renames and/or recategorises a group.
func (s *Service) UpdateGroup(ctx context.Context, id int64, name string, category model.Category) (model.Group, error) {
	name = strings.TrimSpace(name)
	if err := validateGroup(name, category); err != nil {
		return model.Group{}, err
	}

	res, err := s.db.ExecContext(ctx, "UPDATE groups SET group_name = ?, category = ? WHERE id = ?", name, string(category), id)
	if store.IsUniqueViolation(err) {
		return model.Group{}, duplicateGroup(name)
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("updating group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Group{}, fmt.Errorf("updating group: %w", err)
	}
	if n == 0 {
		return model.Group{}, &model.NotFoundError{Entity: "group", ID: id}
	}
	return model.Group{ID: id, Name: name, Category: category}, nil
}

// GetGroup returns a group by ID.
func (s *Service) GetGroup(ctx context.Context, id int64) (model.Group, error) {
	return getGroup(ctx, s.db, id)
}

// FindGroup returns a group by name.
func (s *Service) FindGroup(ctx context.Context, name string) (model.Group, error) {
	name = strings.TrimSpace(name)
	g, err := scanGroup(s.db.QueryRowContext(ctx, "SELECT id, group_name, category FROM groups WHERE group_name = ?", name))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Group{}, &model.NotFoundError{Entity: "group", ID: name}
	}
	if err != nil {
		return model.Group{}, fmt.Errorf("loading group %q: %w", name, err)
	}
	return g, nil
}

// ListGroups returns all groups ordered by name.
func (s *Service) ListGroups(ctx context.Context) ([]model.Group, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, group_name, category FROM groups ORDER BY group_name")
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var groups []model.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// DeleteGroup removes a group no account belongs to.
func (s *Service) DeleteGroup(ctx context.Context, id int64) error {
	return s.db.Tx(ctx, func(q store.Querier) error {
		res, err := q.ExecContext(ctx,
			"DELETE FROM groups WHERE id = ? AND NOT EXISTS (SELECT 1 FROM accounts WHERE group_id = ?)", id, id)
		if err != nil {
			return fmt.Errorf("deleting group: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("deleting group: %w", err)
		}
		if n > 0 {
			slog.Debug("group deleted", "id", id)
			return nil
		}
		if _, err := getGroup(ctx, q, id); err != nil {
			return err
		}
		return &model.ConflictError{Entity: "group", ID: id, Reason: "accounts belong to it"}
	})
}
