package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/store"
)

// setOpening writes the opening balance unless the account already has
// activity in the year. Check and write are one statement.
const setOpening = `
	INSERT INTO opening_balances (account_id, financial_year_id, amount)
	SELECT ?, ?, ?
	WHERE NOT EXISTS (
		SELECT 1 FROM transactions
		WHERE financial_year_id = ? AND (from_acc_id = ? OR to_acc_id = ?)
	)
	ON CONFLICT(account_id, financial_year_id) DO UPDATE SET amount = excluded.amount`

// SetOpening declares an account's opening balance for a year. It is locked
// once any transaction in that year touches the account.
func (s *Service) SetOpening(ctx context.Context, accountID, yearID int64, amount model.Balance) (model.OpeningBalance, error) {
	minor, err := model.ToMinor(amount.Signed())
	if err != nil {
		return model.OpeningBalance{}, err
	}

	var ob model.OpeningBalance
	err = s.db.Tx(ctx, func(q store.Querier) error {
		if _, err := loadYear(ctx, q, yearID); err != nil {
			return err
		}
		name, err := accountName(ctx, q, accountID)
		if err != nil {
			return err
		}

		res, err := q.ExecContext(ctx, setOpening, accountID, yearID, minor, yearID, accountID, accountID)
		if err != nil {
			return fmt.Errorf("setting opening balance: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("setting opening balance: %w", err)
		}
		if n == 0 {
			return &model.ConflictError{
				Entity: "opening_balance",
				ID:     fmt.Sprintf("account %d year %d", accountID, yearID),
				Reason: "transactions already exist for this account in the year",
			}
		}
		ob = model.OpeningBalance{
			AccountID:   accountID,
			AccountName: name,
			YearID:      yearID,
			Amount:      model.BalanceFromSigned(model.FromMinor(minor)),
		}
		return nil
	})
	if err != nil {
		return model.OpeningBalance{}, err
	}

	slog.Debug("opening balance set", "account", accountID, "year", yearID, "amount", ob.Amount.String())
	return ob, nil
}

// GetOpening returns an account's opening balance for a year, zero when none
// was declared.
func (s *Service) GetOpening(ctx context.Context, accountID, yearID int64) (model.OpeningBalance, error) {
	if _, err := loadYear(ctx, s.db, yearID); err != nil {
		return model.OpeningBalance{}, err
	}
	name, err := accountName(ctx, s.db, accountID)
	if err != nil {
		return model.OpeningBalance{}, err
	}

	var minor int64
	err = s.db.QueryRowContext(ctx,
		"SELECT amount FROM opening_balances WHERE account_id = ? AND financial_year_id = ?",
		accountID, yearID).Scan(&minor)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return model.OpeningBalance{}, fmt.Errorf("loading opening balance: %w", err)
	}
	return model.OpeningBalance{
		AccountID:   accountID,
		AccountName: name,
		YearID:      yearID,
		Amount:      model.BalanceFromSigned(model.FromMinor(minor)),
	}, nil
}

// ListOpenings returns the declared opening balances of a year by account name.
func (s *Service) ListOpenings(ctx context.Context, yearID int64) ([]model.OpeningBalance, error) {
	if _, err := loadYear(ctx, s.db, yearID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ob.account_id, a.name, ob.amount
		FROM opening_balances ob
		JOIN accounts a ON a.id = ob.account_id
		WHERE ob.financial_year_id = ?
		ORDER BY a.name`, yearID)
	if err != nil {
		return nil, fmt.Errorf("listing opening balances: %w", err)
	}
	defer rows.Close()

	var out []model.OpeningBalance
	for rows.Next() {
		ob := model.OpeningBalance{YearID: yearID}
		var minor int64
		if err := rows.Scan(&ob.AccountID, &ob.AccountName, &minor); err != nil {
			return nil, fmt.Errorf("scanning opening balance: %w", err)
		}
		ob.Amount = model.BalanceFromSigned(model.FromMinor(minor))
		out = append(out, ob)
	}
	return out, rows.Err()
}

func accountName(ctx context.Context, q store.Querier, id int64) (string, error) {
	var name string
	err := q.QueryRowContext(ctx, "SELECT name FROM accounts WHERE id = ?", id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &model.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return "", fmt.Errorf("loading account %d: %w", id, err)
	}
	return name, nil
}
