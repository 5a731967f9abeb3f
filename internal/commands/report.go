package commands

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/report"
)

// reportFlags holds the period and output flags shared by every report.
type reportFlags struct {
	year, from, to string
	asJSON         bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.year, "year", "", "financial year label or ID (default: active year)")
	cmd.PersistentFlags().StringVar(&f.from, "from", "", "start date YYYY-MM-DD (default: year start)")
	cmd.PersistentFlags().StringVar(&f.to, "to", "", "end date YYYY-MM-DD (default: year end)")
	cmd.PersistentFlags().BoolVar(&f.asJSON, "json", false, "print JSON")
}

func (f *reportFlags) query(ctx context.Context, a *app) (report.Query, error) {
	var q report.Query
	var err error
	if f.year != "" {
		if q.YearID, err = a.yearID(ctx, f.year); err != nil {
			return q, err
		}
	}
	if q.From, err = parseOptionalDate(f.from); err != nil {
		return q, err
	}
	if q.To, err = parseOptionalDate(f.to); err != nil {
		return q, err
	}
	return q, nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func printPeriod(w io.Writer, title string, p report.Period) {
	printf(w, "%s  %s  %s to %s\n\n", title, p.Year.Label, formatDate(p.Range.From), formatDate(p.Range.To))
}

// runReport opens the ledger, resolves the period and hands both to build.
func (g *globals) runReport(cmd *cobra.Command, f *reportFlags, build func(*app, report.Query) error) error {
	a, err := g.open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	q, err := f.query(cmd.Context(), a)
	if err != nil {
		return err
	}
	return build(a, q)
}

func newReportCommand(g *globals) *cobra.Command {
	f := &reportFlags{}

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Financial reports",
	}
	f.register(reportCmd)

	reportCmd.AddCommand(
		newLedgerReportCommand(g, f),
		newTrialBalanceCommand(g, f),
		newBalanceSheetCommand(g, f),
		newProfitLossCommand(g, f),
		newOutstandingCommand(g, f),
		newCashFlowCommand(g, f),
		newDayBookCommand(g, f),
	)
	return reportCmd
}

func newLedgerReportCommand(g *globals, f *reportFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ledger <account>",
		Short: "Account statement with running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runReport(cmd, f, func(a *app, q report.Query) error {
				acct, err := a.account(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				l, err := a.reports.Ledger(cmd.Context(), acct.ID, q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if f.asJSON {
					return printJSON(out, l)
				}

				printPeriod(out, "Ledger: "+l.Account.Name, l.Period)
				tw := newTable(out)
				printf(tw, "DATE\tPARTICULARS\tNOTE\tDEBIT\tCREDIT\tBALANCE\n")
				printf(tw, "\tOpening balance\t\t\t\t%s\n", l.Opening)
				for _, row := range l.Rows {
					printf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
						formatDate(row.Date), row.Particular, row.Note, money(row.Debit), money(row.Credit), row.Balance)
				}
				printf(tw, "\tTotal\t\t%s\t%s\t\n", money(l.TotalDebit), money(l.TotalCredit))
				printf(tw, "\tClosing balance\t\t\t\t%s\n", l.Closing)
				return tw.Flush()
			})
		},
	}
}

func newTrialBalanceCommand(g *globals, f *reportFlags) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "trial-balance",
		Short: "Closing balance of every account, checked for balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runReport(cmd, f, func(a *app, q report.Query) error {
				tb, err := a.reports.TrialBalance(cmd.Context(), q)
				if err != nil {
					return err
				}
				if !all {
					tb.Lines = tb.NonZero()
				}
				out := cmd.OutOrStdout()
				if f.asJSON {
					return printJSON(out, tb)
				}

				printPeriod(out, "Trial Balance", tb.Period)
				tw := newTable(out)
				printf(tw, "ACCOUNT\tGROUP\tDEBIT\tCREDIT\n")
				for _, line := range tb.Lines {
					printf(tw, "%s\t%s\t%s\t%s\n", line.Account, line.Group, money(line.ClosingDebit), money(line.ClosingCredit))
				}
				printf(tw, "Total\t\t%s\t%s\n", money(tb.TotalDebit), money(tb.TotalCredit))
				if err := tw.Flush(); err != nil {
					return err
				}
				if !tb.Balanced {
					printf(out, "\nOut of balance by %s\n", money(tb.Difference))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include accounts with a zero balance")
	return cmd
}

func printLines(tw io.Writer, heading string, lines []report.Line, total decimal.Decimal) {
	printf(tw, "%s\t\t\n", heading)
	for _, l := range lines {
		printf(tw, "  %s\t%s\t%s\n", l.Account, l.Group, money(l.Amount))
	}
	printf(tw, "Total %s\t\t%s\n", heading, money(total))
}

func sumLines(lines []report.Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}

func newBalanceSheetCommand(g *globals, f *reportFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "balance-sheet",
		Short: "Assets against liabilities, equity and net profit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runReport(cmd, f, func(a *app, q report.Query) error {
				bs, err := a.reports.BalanceSheet(cmd.Context(), q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if f.asJSON {
					return printJSON(out, bs)
				}

				printPeriod(out, "Balance Sheet", bs.Period)
				tw := newTable(out)
				printLines(tw, "Assets", bs.Assets, bs.TotalAssets)
				printf(tw, "\t\t\n")
				printLines(tw, "Liabilities", bs.Liabilities, sumLines(bs.Liabilities))
				printLines(tw, "Equity", bs.Equity, sumLines(bs.Equity))
				printf(tw, "%s\t\t%s\n", bs.NetLabel, money(bs.NetProfit))
				printf(tw, "Total Liabilities and Equity\t\t%s\n", money(bs.TotalLiabilitiesEquity))
				if err := tw.Flush(); err != nil {
					return err
				}
				if !bs.Balanced {
					printf(out, "\nOut of balance by %s\n", money(bs.Difference))
				}
				return nil
			})
		},
	}
}

func newProfitLossCommand(g *globals, f *reportFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "profit-loss",
		Short: "Income against expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runReport(cmd, f, func(a *app, q report.Query) error {
				pl, err := a.reports.ProfitLoss(cmd.Context(), q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if f.asJSON {
					return printJSON(out, pl)
				}

				printPeriod(out, "Profit and Loss", pl.Period)
				tw := newTable(out)
				printLines(tw, "Income", pl.Income, pl.TotalIncome)
				printf(tw, "\t\t\n")
				printLines(tw, "Expenses", pl.Expenses, pl.TotalExpense)
				printf(tw, "\t\t\n")
				printf(tw, "%s\t\t%s\n", pl.Label(), money(pl.Net.Abs()))
				return tw.Flush()
			})
		},
	}
}

func newOutstandingCommand(g *globals, f *reportFlags) *cobra.Command {
	var byGroup bool
	var group string

	cmd := &cobra.Command{
		Use:   "outstanding",
		Short: "Receivables and payables by account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runReport(cmd, f, func(a *app, q report.Query) error {
				out := cmd.OutOrStdout()
				if byGroup {
					grouped, err := a.reports.OutstandingByGroup(cmd.Context(), q)
					if err != nil {
						return err
					}
					if f.asJSON {
						return printJSON(out, grouped)
					}
					printPeriod(out, "Outstanding by Group", grouped.Period)
					tw := newTable(out)
					printf(tw, "GROUP\tACCOUNTS\tRECEIVABLE\tPAYABLE\tNET\n")
					for _, grp := range grouped.Groups {
						printf(tw, "%s\t%d\t%s\t%s\t%s\n",
							grp.Group, grp.Accounts, money(grp.Receivable), money(grp.Payable), grp.Net)
					}
					printf(tw, "Total\t\t%s\t%s\t%s\n",
						money(grouped.TotalReceivable), money(grouped.TotalPayable), money(grouped.Net))
					return tw.Flush()
				}

				var o report.Outstanding
				var err error
				if group != "" {
					grp, gerr := a.group(cmd.Context(), group)
					if gerr != nil {
						return gerr
					}
					o, err = a.reports.GroupAccounts(cmd.Context(), grp.ID, q)
				} else {
					o, err = a.reports.Outstanding(cmd.Context(), q)
				}
				if err != nil {
					return err
				}
				if f.asJSON {
					return printJSON(out, o)
				}
				printPeriod(out, "Outstanding", o.Period)
				tw := newTable(out)
				printf(tw, "ACCOUNT\tGROUP\tPHONE\tRECEIVABLE\tPAYABLE\n")
				for _, line := range o.Lines {
					printf(tw, "%s\t%s\t%s\t%s\t%s\n",
						line.Account, line.Group, line.Phone, money(line.Receivable), money(line.Payable))
				}
				printf(tw, "Total\t\t\t%s\t%s\n", money(o.TotalReceivable), money(o.TotalPayable))
				printf(tw, "Net\t\t\t%s\t\n", money(o.Net))
				return tw.Flush()
			})
		},
	}

	cmd.Flags().BoolVar(&byGroup, "groups", false, "summarize by group")
	cmd.Flags().StringVar(&group, "group", "", "only accounts in this group")
	cmd.MarkFlagsMutuallyExclusive("groups", "group")
	return cmd
}

func newCashFlowCommand(g *globals, f *reportFlags) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "cash-flow [account]",
		Short: "Money in and out of a cash or bank account",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runReport(cmd, f, func(a *app, q report.Query) error {
				out := cmd.OutOrStdout()
				if list {
					accts, err := a.reports.CashAccounts(cmd.Context())
					if err != nil {
						return err
					}
					if f.asJSON {
						return printJSON(out, accts)
					}
					for _, acct := range accts {
						printf(out, "%d\t%s\n", acct.ID, acct.Name)
					}
					return nil
				}

				ref := g.cfg.Reports.CashAccount
				if len(args) > 0 {
					ref = args[0]
				}
				acct, err := a.account(cmd.Context(), ref)
				if err != nil {
					return err
				}
				cf, err := a.reports.CashFlow(cmd.Context(), acct.ID, q)
				if err != nil {
					return err
				}
				if f.asJSON {
					return printJSON(out, cf)
				}

				printPeriod(out, "Cash Flow: "+cf.Account.Name, cf.Period)
				tw := newTable(out)
				printf(tw, "MONTH\tINFLOW\tOUTFLOW\tNET\n")
				for _, m := range cf.Monthly {
					printf(tw, "%s\t%s\t%s\t%s\n", m.Month, money(m.Inflow), money(m.Outflow), money(m.Net))
				}
				printf(tw, "Total\t%s\t%s\t%s\n", money(cf.Inflow), money(cf.Outflow), money(cf.Net))
				if err := tw.Flush(); err != nil {
					return err
				}
				printf(out, "\nOpening %s  Closing %s\n", cf.Opening, cf.Closing)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "list the accounts a cash flow can be run on")
	return cmd
}

func newDayBookCommand(g *globals, f *reportFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "day-book",
		Short: "Every transaction in date order with daily totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.runReport(cmd, f, func(a *app, q report.Query) error {
				book, err := a.reports.DayBook(cmd.Context(), q)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if f.asJSON {
					return printJSON(out, book)
				}

				printPeriod(out, "Day Book", book.Period)
				tw := newTable(out)
				printf(tw, "DATE\tFROM\tTO\tAMOUNT\tNOTE\n")
				for _, e := range book.Entries {
					printf(tw, "%s\t%s\t%s\t%s\t%s\n", formatDate(e.Date), e.From, e.To, money(e.Amount), e.Note)
				}
				printf(tw, "Total (%d entries)\t\t\t%s\t\n", book.TotalEntries, money(book.TotalAmount))
				return tw.Flush()
			})
		},
	}
}
