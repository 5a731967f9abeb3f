package journal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/testutil"
)

type fixture struct {
	svc   *Service
	b     *testutil.Builder
	chart testutil.Chart
	year  model.FinancialYear
}

func newFixture(t *testing.T, opts ...Option) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	b := testutil.NewBuilder(t, db)
	return fixture{
		svc:   NewService(db, opts...),
		b:     b,
		chart: b.StandardChart(),
		year:  b.Year(2025, true),
	}
}

func (f fixture) params(from, to model.Account, amount string) AddParams {
	return AddParams{
		Date:      testutil.Date(2025, 4, 10),
		From:      from.ID,
		To:        to.ID,
		Amount:    testutil.Dec(amount),
		YearID:    f.year.ID,
		CreatedBy: testutil.AdminUser,
	}
}

func TestAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.params(f.chart.Sales, f.chart.Cash, "500")
	p.Note = "  invoice 17 "
	txn, err := f.svc.Add(ctx, p)
	require.NoError(t, err)

	assert.NotZero(t, txn.ID)
	assert.Equal(t, "Sales Income", txn.FromName)
	assert.Equal(t, "Cash", txn.ToName)
	assert.True(t, txn.Amount.Equal(testutil.Dec("500")))
	assert.Equal(t, "invoice 17", txn.Note)
	assert.Equal(t, f.year.ID, txn.YearID)
	assert.False(t, txn.CreatedAt.IsZero())

	got, err := f.svc.Get(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.Date, got.Date)
}

func TestAdd_References(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p := f.params(f.chart.Sales, f.chart.Cash, "1")
	p.To = 999
	_, err := f.svc.Add(ctx, p)
	assert.ErrorIs(t, err, model.ErrNotFound)

	p = f.params(f.chart.Sales, f.chart.Cash, "1")
	p.YearID = 999
	_, err = f.svc.Add(ctx, p)
	assert.ErrorIs(t, err, model.ErrNotFound)

	p = f.params(f.chart.Sales, f.chart.Cash, "1")
	p.CreatedBy = 42
	_, err = f.svc.Add(ctx, p)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAdd_InactiveAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.db.ExecContext(ctx, "UPDATE accounts SET is_active = 0 WHERE id = ?", f.chart.Cash.ID)
	require.NoError(t, err)

	_, err = f.svc.Add(ctx, f.params(f.chart.Sales, f.chart.Cash, "1"))
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "inactive")
}

func TestAdd_DateOutsideYear(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	p := f.params(f.chart.Sales, f.chart.Cash, "1")
	p.Date = testutil.Date(2026, 4, 1)
	_, err := f.svc.Add(ctx, p)
	assert.ErrorIs(t, err, model.ErrValidation)

	lax := newFixture(t, WithYearDates(false))
	p = lax.params(lax.chart.Sales, lax.chart.Cash, "1")
	p.Date = testutil.Date(2026, 4, 1)
	_, err = lax.svc.Add(ctx, p)
	assert.NoError(t, err)
}

func TestAdd_NothingWrittenOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.params(f.chart.Cash, f.chart.Cash, "1"))
	require.Error(t, err)

	txns, err := f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestAdd_AmountOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, f.params(f.chart.Sales, f.chart.Cash, "184467440737095516.17"))
	assert.ErrorIs(t, err, model.ErrValidation)

	txns, err := f.svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns)
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.b.Txn(f.year, testutil.Date(2025, 5, 1), f.chart.Sales, f.chart.Cash, "100", "")

	got, err := f.svc.Update(ctx, id, UpdateParams{
		Date:   testutil.Date(2025, 6, 1),
		From:   f.chart.Sales.ID,
		To:     f.chart.Bank.ID,
		Amount: testutil.Dec("120.50"),
		Note:   "corrected",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bank", got.ToName)
	assert.True(t, got.Amount.Equal(testutil.Dec("120.5")))
	assert.Equal(t, "2025-06-01", got.Date.Format(model.DateFormat))
	assert.Equal(t, f.year.ID, got.YearID)

	_, err = f.svc.Update(ctx, 999, UpdateParams{Date: testutil.Date(2025, 6, 1), From: 1, To: 2, Amount: testutil.Dec("1")})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.svc.Update(ctx, id, UpdateParams{Date: testutil.Date(2025, 6, 1), From: f.chart.Sales.ID, To: f.chart.Bank.ID})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdate_KeepsDeactivatedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.b.Txn(f.year, testutil.Date(2025, 5, 1), f.chart.Sales, f.chart.Customer, "100", "")
	_, err := f.svc.db.ExecContext(ctx, "UPDATE accounts SET is_active = 0 WHERE id = ?", f.chart.Customer.ID)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, id, UpdateParams{
		Date: testutil.Date(2025, 5, 2), From: f.chart.Sales.ID, To: f.chart.Customer.ID, Amount: testutil.Dec("90"),
	})
	assert.NoError(t, err)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.b.Txn(f.year, testutil.Date(2025, 5, 1), f.chart.Sales, f.chart.Cash, "100", "")

	require.NoError(t, f.svc.Delete(ctx, id))
	_, err := f.svc.Get(ctx, id)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.True(t, errors.Is(f.svc.Delete(ctx, id), model.ErrNotFound))
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := f.b.Year(2024, false)

	first := f.b.Txn(f.year, testutil.Date(2025, 5, 1), f.chart.Sales, f.chart.Cash, "100", "")
	second := f.b.Txn(f.year, testutil.Date(2025, 5, 1), f.chart.Cash, f.chart.Office, "20", "")
	third := f.b.Txn(f.year, testutil.Date(2025, 7, 1), f.chart.Bank, f.chart.Salary, "50", "")
	f.b.Txn(other, testutil.Date(2024, 6, 1), f.chart.Sales, f.chart.Cash, "5", "")

	all, err := f.svc.List(ctx, ListFilter{YearID: f.year.ID})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{third, second, first}, []int64{all[0].ID, all[1].ID, all[2].ID})

	cash, err := f.svc.List(ctx, ListFilter{YearID: f.year.ID, AccountID: f.chart.Cash.ID})
	require.NoError(t, err)
	assert.Len(t, cash, 2)

	may, err := f.svc.List(ctx, ListFilter{Range: model.DateRange{
		From: testutil.Date(2025, 5, 1), To: testutil.Date(2025, 5, 31),
	}})
	require.NoError(t, err)
	assert.Len(t, may, 2)

	_, err = f.svc.List(ctx, ListFilter{Range: model.DateRange{
		From: testutil.Date(2025, 6, 1), To: testutil.Date(2025, 5, 1),
	}})
	assert.ErrorIs(t, err, model.ErrValidation)
}
