package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cleared-dev/ledger/internal/balance"
	"github.com/cleared-dev/ledger/internal/model"
)

// AccountLedger is one account's statement over a report period.
type AccountLedger struct {
	Period
	Account model.Account `json:"account"`
	balance.Ledger
}

func (b *Builder) account(ctx context.Context, id int64) (model.Account, error) {
	acct, err := scanCashAccount(b.db.QueryRowContext(ctx, cashAccountSelect+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, &model.NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("loading account %d: %w", id, err)
	}
	return acct, nil
}

// Ledger builds the running-balance statement of one account.
func (b *Builder) Ledger(ctx context.Context, accountID int64, q Query) (AccountLedger, error) {
	p, err := b.resolve(ctx, q)
	if err != nil {
		return AccountLedger{}, err
	}
	acct, err := b.account(ctx, accountID)
	if err != nil {
		return AccountLedger{}, err
	}
	l, err := b.engine.Statement(ctx, accountID, p.Year.ID, p.Range)
	if err != nil {
		return AccountLedger{}, err
	}
	if l.Rows == nil {
		l.Rows = []model.LedgerRow{}
	}
	return AccountLedger{Period: p, Account: acct, Ledger: l}, nil
}
