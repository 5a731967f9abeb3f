package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/balance"
	"github.com/cleared-dev/ledger/internal/config"
	"github.com/cleared-dev/ledger/internal/fiscal"
	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
	"github.com/cleared-dev/ledger/internal/report"
	"github.com/cleared-dev/ledger/internal/store"
)

// app is an open ledger database with its services.
type app struct {
	db       *store.DB
	years    *fiscal.Service
	accounts *accounts.Service
	journal  *journal.Service
	reports  *report.Builder
	userID   int64
}

// open opens the configured database and builds the services over it.
func (g *globals) open(ctx context.Context) (*app, error) {
	return openApp(ctx, g.cfg, g.configPath)
}

func openApp(ctx context.Context, cfg *config.Config, configPath string) (*app, error) {
	path := cfg.DBPath(configPath)
	db, err := store.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	years := fiscal.NewService(db, cfg.Fiscal.YearStart)
	return &app{
		db:       db,
		years:    years,
		accounts: accounts.NewService(db),
		journal:  journal.NewService(db, journal.WithYearDates(cfg.Entry.EnforceYearDates)),
		reports:  report.NewBuilder(years, balance.NewEngine(db), db),
		userID:   cfg.Entry.UserID,
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// parseRef reports whether ref is a numeric ID.
func parseRef(ref string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64)
	return id, err == nil
}

// year resolves a year by ID or label. An empty ref means the active year.
func (a *app) year(ctx context.Context, ref string) (model.FinancialYear, error) {
	if ref == "" {
		return a.years.ActiveYear(ctx)
	}
	if id, ok := parseRef(ref); ok {
		return a.years.Get(ctx, id)
	}
	return a.years.FindByLabel(ctx, ref)
}

// yearID is year for callers that only need the ID.
func (a *app) yearID(ctx context.Context, ref string) (int64, error) {
	y, err := a.year(ctx, ref)
	return y.ID, err
}

// group resolves a group by ID or name.
func (a *app) group(ctx context.Context, ref string) (model.Group, error) {
	if id, ok := parseRef(ref); ok {
		return a.accounts.GetGroup(ctx, id)
	}
	return a.accounts.FindGroup(ctx, ref)
}

// account resolves an account by ID or name.
func (a *app) account(ctx context.Context, ref string) (model.Account, error) {
	if id, ok := parseRef(ref); ok {
		return a.accounts.GetAccount(ctx, id)
	}
	return a.accounts.FindAccount(ctx, ref)
}

// parseOptionalDate parses a YYYY-MM-DD flag value, zero when empty.
func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return model.ParseDate(s)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDate(t time.Time) string {
	return t.Format(model.DateFormat)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
