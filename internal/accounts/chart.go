package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// ImportResult counts what ImportChart did.
type ImportResult struct {
	GroupsCreated   int `json:"groups_created"`
	AccountsCreated int `json:"accounts_created"`
	Skipped         int `json:"skipped"`
}

// ImportChart creates the accounts in rows in one transaction. Accounts that
// already exist are skipped. Unknown groups are created with the category of
// the matching default group, or "other".
func (s *Service) ImportChart(ctx context.Context, rows []ChartRow) (ImportResult, error) {
	var result ImportResult
	err := s.db.Tx(ctx, func(q store.Querier) error {
		result = ImportResult{}
		groups := map[string]int64{}
		for i, row := range rows {
			if row.Name == "" || row.Group == "" {
				return &model.ValidationError{Entity: "account", Field: "name",
					Message: fmt.Sprintf("row %d: account and group names are required", i+1)}
			}
			exists, err := store.Exists(ctx, q, "SELECT 1 FROM accounts WHERE name = ?", row.Name)
			if err != nil {
				return fmt.Errorf("checking account %q: %w", row.Name, err)
			}
			if exists {
				result.Skipped++
				continue
			}

			groupID, ok := groups[row.Group]
			if !ok {
				var created bool
				groupID, created, err = ensureGroup(ctx, q, row.Group)
				if err != nil {
					return err
				}
				if created {
					result.GroupsCreated++
				}
				groups[row.Group] = groupID
			}

			p := AccountParams{Name: row.Name, GroupID: groupID, Phone: row.Phone, Address: row.Address}
			p.normalize()
			if _, err := insertAccount(ctx, q, p); err != nil {
				return fmt.Errorf("importing %q: %w", row.Name, err)
			}
			result.AccountsCreated++
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}

	slog.Info("chart imported", "groups_created", result.GroupsCreated,
		"accounts_created", result.AccountsCreated, "skipped", result.Skipped)
	return result, nil
}

func ensureGroup(ctx context.Context, q store.Querier, name string) (int64, bool, error) {
	var id int64
	err := q.QueryRowContext(ctx, "SELECT id FROM groups WHERE group_name = ?", name).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, false, fmt.Errorf("loading group %q: %w", name, err)
	}

	category := model.CategoryOther
	for _, g := range DefaultGroups() {
		if g.Name == name {
			category = g.Category
		}
	}
	res, err := q.ExecContext(ctx, "INSERT INTO groups (group_name, category) VALUES (?, ?)", name, string(category))
	if err != nil {
		return 0, false, fmt.Errorf("creating group %q: %w", name, err)
	}
	id, err = res.LastInsertId()
	return id, true, err
}

// ExportChart returns every account as a chart row, ordered by name.
func (s *Service) ExportChart(ctx context.Context) ([]ChartRow, error) {
	accts, err := s.ListAccounts(ctx, Filter{})
	if err != nil {
		return nil, err
	}
	rows := make([]ChartRow, len(accts))
	for i, a := range accts {
		rows[i] = ChartRow{Name: a.Name, Group: a.GroupName, Phone: a.Phone, Address: a.Address}
	}
	return rows, nil
}

// Seed creates the default groups and starter accounts. Existing rows are kept.
func (s *Service) Seed(ctx context.Context) (ImportResult, error) {
	err := s.db.Tx(ctx, func(q store.Querier) error {
		for _, g := range DefaultGroups() {
			if _, err := q.ExecContext(ctx,
				"INSERT OR IGNORE INTO groups (group_name, category) VALUES (?, ?)", g.Name, string(g.Category)); err != nil {
				return fmt.Errorf("seeding group %q: %w", g.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return s.ImportChart(ctx, DefaultChart())
}
