package commands_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/report"
)

func decodeJSON[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), out)
	return v
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seed records capital of 10000 in cash, 3000 of cash sales and 800 of
// office expenses paid in cash.
func seed(t *testing.T, cfg string) {
	t.Helper()
	in(t, cfg, "opening", "set", "Cash", "10000", "Dr")
	in(t, cfg, "opening", "set", "Opening Balance Equity", "10000", "Cr")
	in(t, cfg, "txn", "add", "--date", "2025-04-05", "--from", "Sales Income", "--to", "Cash", "--amount", "3000", "--note", "counter sales")
	in(t, cfg, "txn", "add", "--date", "2025-04-20", "--from", "Cash", "--to", "Office Expenses", "--amount", "800", "--note", "stationery")
}

func TestReports(t *testing.T) {
	cfg := initLedger(t)
	seed(t, cfg)

	tb := decodeJSON[report.TrialBalance](t, in(t, cfg, "report", "trial-balance", "--json"))
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebit.Equal(dec("13000")), tb.TotalDebit.String())
	assert.Len(t, tb.Lines, 4)

	all := decodeJSON[report.TrialBalance](t, in(t, cfg, "report", "trial-balance", "--all", "--json"))
	assert.Greater(t, len(all.Lines), len(tb.Lines))

	bs := decodeJSON[report.BalanceSheet](t, in(t, cfg, "report", "balance-sheet", "--json"))
	assert.True(t, bs.Balanced)
	assert.True(t, bs.TotalAssets.Equal(dec("12200")))
	assert.True(t, bs.NetProfit.Equal(dec("2200")))

	pl := decodeJSON[report.ProfitLoss](t, in(t, cfg, "report", "profit-loss", "--json"))
	assert.True(t, pl.Net.Equal(dec("2200")))

	l := decodeJSON[report.AccountLedger](t, in(t, cfg, "report", "ledger", "Cash", "--json"))
	assert.Equal(t, "10000.00 Dr", l.Opening.String())
	assert.Equal(t, "12200.00 Dr", l.Closing.String())

	cf := decodeJSON[report.CashFlow](t, in(t, cfg, "report", "cash-flow", "--json"))
	assert.Equal(t, "Cash", cf.Account.Name)
	assert.True(t, cf.Net.Equal(dec("2200")))

	book := decodeJSON[report.DayBook](t, in(t, cfg, "report", "day-book", "--from", "2025-04-01", "--to", "2025-04-10", "--json"))
	assert.Equal(t, 1, book.TotalEntries)

	out := in(t, cfg, "report", "trial-balance")
	assert.Contains(t, out, "Trial Balance  2025-26")
	assert.Contains(t, out, "13000.00")
	assert.NotContains(t, out, "Out of balance")

	out = in(t, cfg, "report", "profit-loss")
	assert.Contains(t, out, "Net Profit")
}

func TestTxnEditDeleteList(t *testing.T) {
	cfg := initLedger(t)
	seed(t, cfg)

	txns := decodeJSON[[]model.Transaction](t, in(t, cfg, "txn", "list", "--account", "Office Expenses", "--json"))
	require.Len(t, txns, 1)
	id := txns[0].ID

	out := in(t, cfg, "txn", "edit", itoa(id), "--amount", "950.50")
	assert.Contains(t, out, "950.50")

	txns = decodeJSON[[]model.Transaction](t, in(t, cfg, "txn", "list", "--json"))
	require.Len(t, txns, 2)
	assert.Equal(t, id, txns[0].ID, "newest first")
	assert.True(t, txns[0].Amount.Equal(dec("950.50")))
	assert.Equal(t, "stationery", txns[0].Note)

	in(t, cfg, "txn", "delete", itoa(id))
	txns = decodeJSON[[]model.Transaction](t, in(t, cfg, "txn", "list", "--json"))
	assert.Len(t, txns, 1)
}

func TestTxnRejected(t *testing.T) {
	cfg := initLedger(t)

	_, err := runLedger(t, "txn", "add", "--date", "2025-04-05", "--from", "Cash", "--to", "Cash", "--amount", "10", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from and to accounts must differ")

	_, err = runLedger(t, "txn", "add", "--date", "2024-04-05", "--from", "Bank", "--to", "Cash", "--amount", "10", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outside financial year")

	_, err = runLedger(t, "txn", "add", "--date", "2025-04-05", "--from", "Nobody", "--to", "Cash", "--amount", "10", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = runLedger(t, "txn", "add", "--date", "2025-04-05", "--from", "Bank", "--to", "Cash", "--amount", "1.005", "--config", cfg)
	require.Error(t, err)
}

func TestOpeningLockedAfterTransactions(t *testing.T) {
	cfg := initLedger(t)
	seed(t, cfg)

	out := in(t, cfg, "opening", "get", "Cash")
	assert.Contains(t, out, "10000.00 Dr")

	_, err := runLedger(t, "opening", "set", "Cash", "5000", "--config", cfg)
	require.Error(t, err)

	in(t, cfg, "opening", "set", "Bank", "250", "Cr")
	list := decodeJSON[[]model.OpeningBalance](t, in(t, cfg, "opening", "list", "--json"))
	require.Len(t, list, 3)
}

func TestYearLifecycle(t *testing.T) {
	cfg := initLedger(t)

	in(t, cfg, "year", "add", "2026-27")
	in(t, cfg, "year", "activate", "2026-27")
	assert.Contains(t, in(t, cfg, "year", "active"), "2026-27")

	_, err := runLedger(t, "year", "delete", "2026-27", "--config", cfg)
	require.Error(t, err, "active year cannot be deleted")

	in(t, cfg, "year", "delete", "2025-26")
	out := in(t, cfg, "year", "list")
	assert.NotContains(t, out, "2025-26")
}

func TestGroupAndAccountCommands(t *testing.T) {
	cfg := initLedger(t)

	in(t, cfg, "group", "add", "Sundry Debtors", "--category", "asset")
	in(t, cfg, "account", "add", "Acme Traders", "--group", "Sundry Debtors", "--phone", "555-0100")

	accts := decodeJSON[[]model.Account](t, in(t, cfg, "account", "list", "--group", "Sundry Debtors", "--json"))
	require.Len(t, accts, 1)
	assert.Equal(t, "555-0100", accts[0].Phone)

	in(t, cfg, "account", "update", "Acme Traders", "--name", "Acme Traders Ltd")
	in(t, cfg, "account", "deactivate", "Acme Traders Ltd")
	accts = decodeJSON[[]model.Account](t, in(t, cfg, "account", "list", "--group", "Sundry Debtors", "--active", "--json"))
	assert.Empty(t, accts)

	_, err := runLedger(t, "group", "delete", "Sundry Debtors", "--config", cfg)
	require.Error(t, err, "group with accounts cannot be deleted")

	in(t, cfg, "account", "delete", "Acme Traders Ltd")
	in(t, cfg, "group", "delete", "Sundry Debtors")
}

func TestAccountImportExport(t *testing.T) {
	cfg := initLedger(t)
	csvPath := filepath.Join(t.TempDir(), "chart.csv")
	content := "account_name,group_name,phone,address\n" +
		"Acme Traders,Sundry Debtors,555-0100,1 Main St\n" +
		"Cash,Assets,,\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	out := in(t, cfg, "account", "import", csvPath)
	assert.Contains(t, out, "Imported 1 accounts (1 new groups, 1 already present)")

	out = in(t, cfg, "account", "export")
	assert.True(t, strings.HasPrefix(out, "account_name,group_name,phone,address\n"))
	assert.Contains(t, out, "Acme Traders,Sundry Debtors,555-0100,1 Main St")
}

func TestTxnImportExport(t *testing.T) {
	cfg := initLedger(t)
	csvPath := filepath.Join(t.TempDir(), "txns.csv")
	content := "date,from_account,to_account,amount,note\n" +
		"2025-04-02,Sales Income,Cash,1200.00,invoice 1\n" +
		"2025-04-03,Cash,Bank,1000.00,deposit\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	out := in(t, cfg, "txn", "import", csvPath)
	assert.Contains(t, out, "Imported 2 transactions")

	out = in(t, cfg, "txn", "export", "--account", "Bank")
	assert.Contains(t, out, "2025-04-03,Cash,Bank,1000.00,deposit")
	assert.NotContains(t, out, "invoice 1")
}

func TestBackup(t *testing.T) {
	cfg := initLedger(t)
	dest := filepath.Join(t.TempDir(), "copy.db")

	out := in(t, cfg, "backup", dest)
	assert.Contains(t, out, dest)
	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	_, err = runLedger(t, "backup", dest, "--config", cfg)
	require.Error(t, err, "existing destination is not overwritten")
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestDebugLogsDatabaseOpenOnce(t *testing.T) {
	cfg := initLedger(t)

	var stderr strings.Builder
	cmd := exec.Command(binaryPath, "year", "list", "--debug", "--config", cfg)
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, strings.Count(stderr.String(), "database opened"), stderr.String())
}

func TestReportRangeOutsideYear(t *testing.T) {
	cfg := initLedger(t)

	_, err := runLedger(t, "report", "trial-balance", "--to", "2026-04-30", "--config", cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inside financial year 2025-26")
}
