package balance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/testutil"
)

type fixture struct {
	engine *Engine
	b      *testutil.Builder
	chart  testutil.Chart
	year   model.FinancialYear
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	b := testutil.NewBuilder(t, db)
	return fixture{engine: NewEngine(db), b: b, chart: b.StandardChart(), year: b.Year(2025, true)}
}

func TestScenarioOpeningPlusSale(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.b.Opening(f.chart.Cash, f.year, "1000")
	f.b.Txn(f.year, testutil.Date(2025, 4, 10), f.chart.Sales, f.chart.Cash, "500", "")

	opening, err := f.engine.OpeningBalance(ctx, f.chart.Cash.ID, f.year.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000.00 Dr", opening.String())

	ledger, err := f.engine.Statement(ctx, f.chart.Cash.ID, f.year.ID, f.year.Range())
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 1)
	row := ledger.Rows[0]
	assert.True(t, row.Debit.Equal(testutil.Dec("500")))
	assert.True(t, row.Credit.IsZero())
	assert.Equal(t, "Sales Income", row.Particular)
	assert.Equal(t, "1500.00 Dr", row.Balance.String())
	assert.Equal(t, "1500.00 Dr", ledger.Closing.String())

	closing, err := f.engine.ClosingBalance(ctx, f.chart.Cash.ID, f.year.ID, f.year.Range())
	require.NoError(t, err)
	assert.Equal(t, "1500.00 Dr", closing.String())

	sales, err := f.engine.ClosingBalance(ctx, f.chart.Sales.ID, f.year.ID, f.year.Range())
	require.NoError(t, err)
	assert.Equal(t, "500.00 Cr", sales.String())
}

func TestScenarioSameDayOrdering(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := f.chart.Cash, f.chart.Customer
	day := testutil.Date(2025, 5, 1)
	first := f.b.Txn(f.year, day, a, b, "200", "")
	second := f.b.Txn(f.year, day, b, a, "50", "")

	ledger, err := f.engine.Statement(ctx, b.ID, f.year.ID, f.year.Range())
	require.NoError(t, err)
	require.Len(t, ledger.Rows, 2)

	assert.Equal(t, first, ledger.Rows[0].TxnID)
	assert.Equal(t, "200.00 Dr", ledger.Rows[0].Balance.String())
	assert.Equal(t, second, ledger.Rows[1].TxnID)
	assert.True(t, ledger.Rows[1].Credit.Equal(testutil.Dec("50")))
	assert.Equal(t, "150.00 Dr", ledger.Rows[1].Balance.String())
	assert.True(t, ledger.TotalDebit.Equal(testutil.Dec("200")))
	assert.True(t, ledger.TotalCredit.Equal(testutil.Dec("50")))
}

func TestRunningLedger_CrossesToCredit(t *testing.T) {
	entries := []model.LedgerEntry{
		{TxnID: 1, Debit: testutil.Dec("0"), Credit: testutil.Dec("300")},
		{TxnID: 2, Debit: testutil.Dec("50.25"), Credit: testutil.Dec("0")},
	}
	l := RunningLedger(entries, model.DebitOf(testutil.Dec("100")))

	assert.Equal(t, "200.00 Cr", l.Rows[0].Balance.String())
	assert.Equal(t, "149.75 Cr", l.Rows[1].Balance.String())
	assert.Equal(t, "149.75 Cr", l.Closing.String())
	assert.Equal(t, "100.00 Dr", l.Opening.String())
}

func TestRunningLedger_Empty(t *testing.T) {
	l := RunningLedger(nil, model.CreditOf(testutil.Dec("10")))
	assert.Empty(t, l.Rows)
	assert.Equal(t, "10.00 Cr", l.Closing.String())
	assert.True(t, l.TotalDebit.IsZero())
}

func TestRunningLedger_NoDrift(t *testing.T) {
	entries := make([]model.LedgerEntry, 1000)
	for i := range entries {
		entries[i] = model.LedgerEntry{Debit: testutil.Dec("0.10"), Credit: testutil.Dec("0")}
	}
	l := RunningLedger(entries, model.ZeroBalance)
	assert.True(t, l.Closing.Magnitude.Equal(testutil.Dec("100")))
}

func TestClosingBalanceMatchesFold(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.chart
	f.b.Opening(c.Cash, f.year, "1000")
	f.b.Opening(c.Capital, f.year, "-1000")
	f.b.Txn(f.year, testutil.Date(2025, 4, 2), c.Sales, c.Cash, "1234.56", "")
	f.b.Txn(f.year, testutil.Date(2025, 4, 3), c.Cash, c.Office, "99.99", "")
	f.b.Txn(f.year, testutil.Date(2025, 4, 3), c.Cash, c.Bank, "500.01", "")
	f.b.Txn(f.year, testutil.Date(2025, 6, 30), c.Loan, c.Cash, "0.01", "")
	f.b.Txn(f.year, testutil.Date(2025, 9, 1), c.Bank, c.Salary, "300", "")
	f.b.Txn(f.year, testutil.Date(2026, 3, 31), c.Customer, c.Cash, "10", "")

	ranges := []model.DateRange{
		f.year.Range(),
		{From: testutil.Date(2025, 4, 3), To: testutil.Date(2025, 4, 3)},
		{From: testutil.Date(2025, 5, 1), To: testutil.Date(2025, 12, 31)},
	}
	accounts := []model.Account{c.Cash, c.Bank, c.Customer, c.Supplier, c.Loan, c.Sales, c.Office, c.Salary, c.Capital}

	for _, r := range ranges {
		for _, a := range accounts {
			ledger, err := f.engine.Statement(ctx, a.ID, f.year.ID, r)
			require.NoError(t, err)
			closing, err := f.engine.ClosingBalance(ctx, a.ID, f.year.ID, r)
			require.NoError(t, err)
			assert.True(t, ledger.Closing.Signed().Equal(closing.Signed()),
				"%s over %v: fold %s, aggregate %s", a.Name, r, ledger.Closing, closing)
		}
	}
}

func TestRangeIsInclusive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.b.Txn(f.year, testutil.Date(2025, 4, 1), f.chart.Sales, f.chart.Cash, "1", "")
	f.b.Txn(f.year, testutil.Date(2025, 4, 30), f.chart.Sales, f.chart.Cash, "2", "")
	f.b.Txn(f.year, testutil.Date(2025, 5, 1), f.chart.Sales, f.chart.Cash, "4", "")

	april := model.DateRange{From: testutil.Date(2025, 4, 1), To: testutil.Date(2025, 4, 30)}
	closing, err := f.engine.ClosingBalance(ctx, f.chart.Cash.ID, f.year.ID, april)
	require.NoError(t, err)
	assert.Equal(t, "3.00 Dr", closing.String())
}

func TestYearScoping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prior := f.b.Year(2024, false)
	f.b.Txn(prior, testutil.Date(2024, 5, 1), f.chart.Sales, f.chart.Cash, "70", "")
	f.b.Opening(f.chart.Cash, prior, "5")

	closing, err := f.engine.ClosingBalance(ctx, f.chart.Cash.ID, f.year.ID, f.year.Range())
	require.NoError(t, err)
	assert.True(t, closing.IsZero())
}

func TestErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r := f.year.Range()

	_, err := f.engine.ClosingBalance(ctx, 999, f.year.ID, r)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.engine.ClosingBalance(ctx, f.chart.Cash.ID, 999, r)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.engine.OpeningBalance(ctx, 999, f.year.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	backwards := model.DateRange{From: r.To, To: r.From}
	_, err = f.engine.AccountLedger(ctx, f.chart.Cash.ID, f.year.ID, backwards)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "invalid range")

	_, err = f.engine.AllAccountBalances(ctx, f.year.ID, backwards)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.engine.AllAccountBalances(ctx, 999, r)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestLedgerEntries_RestartableAndStoppable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for day := 1; day <= 3; day++ {
		f.b.Txn(f.year, testutil.Date(2025, 4, day), f.chart.Sales, f.chart.Cash, "1", "")
	}

	seq := f.engine.LedgerEntries(ctx, f.chart.Cash.ID, f.year.ID, f.year.Range())
	count := func() int {
		n := 0
		for _, err := range seq {
			require.NoError(t, err)
			n++
		}
		return n
	}
	assert.Equal(t, 3, count())

	f.b.Txn(f.year, testutil.Date(2025, 4, 4), f.chart.Sales, f.chart.Cash, "1", "")
	assert.Equal(t, 4, count())

	var first model.LedgerEntry
	for entry, err := range seq {
		require.NoError(t, err)
		first = entry
		break
	}
	assert.Equal(t, "2025-04-01", first.Date.Format(model.DateFormat))
}

func TestAllAccountBalances(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.chart
	f.b.Opening(c.Cash, f.year, "1000")
	f.b.Opening(c.Capital, f.year, "-1000")
	f.b.Txn(f.year, testutil.Date(2025, 4, 10), c.Sales, c.Cash, "500", "")
	f.b.Txn(f.year, testutil.Date(2025, 4, 11), c.Cash, c.Office, "120", "")
	f.b.Txn(f.year, testutil.Date(2025, 4, 12), c.Supplier, c.Office, "80", "")

	balances, err := f.engine.AllAccountBalances(ctx, f.year.ID, f.year.Range())
	require.NoError(t, err)
	require.Len(t, balances, 9)

	total := testutil.Dec("0")
	for _, ab := range balances {
		closing, err := f.engine.ClosingBalance(ctx, ab.Account.ID, f.year.ID, f.year.Range())
		require.NoError(t, err)
		assert.True(t, closing.Signed().Equal(ab.Closing.Signed()), ab.Account.Name)
		total = total.Add(ab.Closing.Signed())

		if ab.Account.ID == c.Cash.ID {
			assert.Equal(t, "1000.00 Dr", ab.Opening.String())
			assert.True(t, ab.Debit.Equal(testutil.Dec("500")))
			assert.True(t, ab.Credit.Equal(testutil.Dec("120")))
			assert.Equal(t, "1380.00 Dr", ab.Closing.String())
			assert.Equal(t, "Assets", ab.Account.GroupName)
			assert.Equal(t, model.CategoryAsset, ab.Account.Category)
		}
	}
	assert.True(t, total.IsZero(), "debits and credits must balance, got %s", total)
}
