package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/testutil"
)

func newService(t *testing.T) (*Service, *testutil.Builder) {
	t.Helper()
	db := testutil.NewDB(t)
	return NewService(db), testutil.NewBuilder(t, db)
}

func TestGroups(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	g, err := svc.AddGroup(ctx, " Sundry Debtors ", model.CategoryAsset)
	require.NoError(t, err)
	assert.Equal(t, "Sundry Debtors", g.Name)

	_, err = svc.AddGroup(ctx, "Sundry Debtors", model.CategoryAsset)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.AddGroup(ctx, "", "bogus")
	var verrs model.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)

	updated, err := svc.UpdateGroup(ctx, g.ID, "Debtors", model.CategoryOther)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, updated.Category)

	_, err = svc.UpdateGroup(ctx, 999, "Nope", model.CategoryAsset)
	assert.ErrorIs(t, err, model.ErrNotFound)

	found, err := svc.FindGroup(ctx, "Debtors")
	require.NoError(t, err)
	assert.Equal(t, g.ID, found.ID)

	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestDeleteGroup(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()

	used := b.Group("Assets", model.CategoryAsset)
	b.Account("Cash", used)
	empty := b.Group("Spare", model.CategoryOther)

	err := svc.DeleteGroup(ctx, used.ID)
	assert.ErrorIs(t, err, model.ErrConflict)

	require.NoError(t, svc.DeleteGroup(ctx, empty.ID))
	_, err = svc.GetGroup(ctx, empty.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteGroup(ctx, empty.ID), model.ErrNotFound)
}

func TestAddAccount(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	assets := b.Group("Assets", model.CategoryAsset)

	a, err := svc.AddAccount(ctx, AccountParams{Name: " Cash ", GroupID: assets.ID, Phone: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "Cash", a.Name)
	assert.Equal(t, "Assets", a.GroupName)
	assert.Equal(t, model.CategoryAsset, a.Category)
	assert.True(t, a.Active)
	assert.False(t, a.CreatedAt.IsZero())

	_, err = svc.AddAccount(ctx, AccountParams{Name: "Cash", GroupID: assets.ID})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.AddAccount(ctx, AccountParams{Name: "Bank", GroupID: 42})
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.AddAccount(ctx, AccountParams{GroupID: assets.ID})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUpdateAccount(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	assets := b.Group("Assets", model.CategoryAsset)
	liabilities := b.Group("Liabilities", model.CategoryLiability)
	cash := b.Account("Cash", assets)
	b.Account("Bank", assets)

	got, err := svc.UpdateAccount(ctx, cash.ID, AccountParams{Name: "Petty Cash", GroupID: liabilities.ID, Address: "Front desk"})
	require.NoError(t, err)
	assert.Equal(t, "Petty Cash", got.Name)
	assert.Equal(t, model.CategoryLiability, got.Category)
	assert.Equal(t, "Front desk", got.Address)

	_, err = svc.UpdateAccount(ctx, cash.ID, AccountParams{Name: "Bank", GroupID: assets.ID})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = svc.UpdateAccount(ctx, 999, AccountParams{Name: "X", GroupID: assets.ID})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListAccounts_Filters(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	c := b.StandardChart()
	require.NoError(t, svc.Deactivate(ctx, c.Loan.ID))

	all, err := svc.ListAccounts(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 9)
	assert.Equal(t, "Acme Traders", all[0].Name)

	active, err := svc.ListAccounts(ctx, Filter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 8)

	assets, err := svc.ListAccounts(ctx, Filter{GroupID: c.Assets.ID})
	require.NoError(t, err)
	assert.Len(t, assets, 3)

	expenses, err := svc.ListAccounts(ctx, Filter{Category: model.CategoryExpense})
	require.NoError(t, err)
	assert.Len(t, expenses, 2)
}

func TestActivateDeactivate(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	cash := b.Account("Cash", b.Group("Assets", model.CategoryAsset))

	require.NoError(t, svc.Deactivate(ctx, cash.ID))
	got, err := svc.GetAccount(ctx, cash.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	require.NoError(t, svc.Activate(ctx, cash.ID))
	got, err = svc.GetAccount(ctx, cash.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	assert.ErrorIs(t, svc.Deactivate(ctx, 999), model.ErrNotFound)
}

func TestDeleteAccount(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	c := b.StandardChart()
	y := b.Year(2024, true)
	b.Txn(y, testutil.Date(2024, 5, 1), c.Cash, c.Office, "10", "")
	b.Opening(c.Bank, y, "100")

	assert.ErrorIs(t, svc.DeleteAccount(ctx, c.Cash.ID), model.ErrConflict)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, c.Office.ID), model.ErrConflict)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, c.Bank.ID), model.ErrConflict)

	require.NoError(t, svc.DeleteAccount(ctx, c.Salary.ID))
	_, err := svc.GetAccount(ctx, c.Salary.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, svc.DeleteAccount(ctx, c.Salary.ID), model.ErrNotFound)
}

func TestImportChart(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	assets := b.Group("Assets", model.CategoryAsset)
	b.Account("Cash", assets)

	res, err := svc.ImportChart(ctx, []ChartRow{
		{Name: "Cash", Group: "Assets"},
		{Name: "Bank", Group: "Assets"},
		{Name: "Acme Traders", Group: "Sundry Debtors", Phone: "555-0100"},
		{Name: "Beta Stores", Group: "Sundry Debtors"},
		{Name: "Rent", Group: "Expenses"},
	})
	require.NoError(t, err)
	assert.Equal(t, ImportResult{GroupsCreated: 2, AccountsCreated: 4, Skipped: 1}, res)

	debtors, err := svc.FindGroup(ctx, "Sundry Debtors")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOther, debtors.Category)

	expenses, err := svc.FindGroup(ctx, "Expenses")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryExpense, expenses.Category)

	acme, err := svc.FindAccount(ctx, "Acme Traders")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", acme.Phone)
}

func TestImportChart_AllOrNothing(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ImportChart(ctx, []ChartRow{
		{Name: "Bank", Group: "Assets"},
		{Name: "", Group: "Assets"},
	})
	require.Error(t, err)

	accts, err := svc.ListAccounts(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, accts)
	groups, err := svc.ListGroups(ctx)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestSeedAndExport(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultChart()), res.AccountsCreated)
	assert.Zero(t, res.GroupsCreated)

	again, err := svc.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultChart()), again.Skipped)

	rows, err := svc.ExportChart(ctx)
	require.NoError(t, err)
	require.Len(t, rows, len(DefaultChart()))
	assert.Equal(t, ChartRow{Name: "Bank", Group: "Assets"}, rows[0])
}
