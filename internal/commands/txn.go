package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/journal"
	"github.com/cleared-dev/ledger/internal/model"
)

func newTxnCommand(g *globals) *cobra.Command {
	txnCmd := &cobra.Command{
		Use:   "txn",
		Short: "Record and edit transactions",
	}
	txnCmd.AddCommand(
		newTxnAddCommand(g),
		newTxnEditCommand(g),
		newTxnDeleteCommand(g),
		newTxnListCommand(g),
		newTxnImportCommand(g),
		newTxnExportCommand(g),
	)
	return txnCmd
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &model.ValidationError{Entity: "transaction", Field: "amount", Message: fmt.Sprintf("invalid amount %q", s)}
	}
	return d, nil
}

func printTxn(w io.Writer, verb string, txn model.Transaction) {
	printf(w, "%s transaction %d: %s %s -> %s %s\n",
		verb, txn.ID, formatDate(txn.Date), txn.FromName, txn.ToName, txn.Amount.StringFixed(2))
}

func newTxnAddCommand(g *globals) *cobra.Command {
	var date, from, to, amount, note, year string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction moving an amount from one account to another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = time.Now().Format(model.DateFormat)
			}
			d, err := model.ParseDate(date)
			if err != nil {
				return err
			}
			amt, err := parseAmount(amount)
			if err != nil {
				return err
			}

			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fromAcct, err := a.account(cmd.Context(), from)
			if err != nil {
				return err
			}
			toAcct, err := a.account(cmd.Context(), to)
			if err != nil {
				return err
			}
			yearID, err := a.yearID(cmd.Context(), year)
			if err != nil {
				return err
			}

			txn, err := a.journal.Add(cmd.Context(), journal.AddParams{
				Date:      d,
				From:      fromAcct.ID,
				To:        toAcct.ID,
				Amount:    amt,
				Note:      note,
				YearID:    yearID,
				CreatedBy: a.userID,
			})
			if err != nil {
				return err
			}
			printTxn(cmd.OutOrStdout(), "Recorded", txn)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&from, "from", "", "account credited (required)")
	cmd.Flags().StringVar(&to, "to", "", "account debited (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (required)")
	cmd.Flags().StringVar(&note, "note", "", "narration")
	cmd.Flags().StringVar(&year, "year", "", "financial year label or ID (default: active year)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newTxnEditCommand(g *globals) *cobra.Command {
	var date, from, to, amount, note string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a recorded transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := parseRef(args[0])
			if !ok {
				return &model.ValidationError{Entity: "transaction", Field: "id", Message: fmt.Sprintf("invalid id %q", args[0])}
			}

			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			current, err := a.journal.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			p := journal.UpdateParams{
				Date:   current.Date,
				From:   current.FromAccount,
				To:     current.ToAccount,
				Amount: current.Amount,
				Note:   current.Note,
			}
			if cmd.Flags().Changed("date") {
				if p.Date, err = model.ParseDate(date); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("from") {
				acct, err := a.account(cmd.Context(), from)
				if err != nil {
					return err
				}
				p.From = acct.ID
			}
			if cmd.Flags().Changed("to") {
				acct, err := a.account(cmd.Context(), to)
				if err != nil {
					return err
				}
				p.To = acct.ID
			}
			if cmd.Flags().Changed("amount") {
				if p.Amount, err = parseAmount(amount); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("note") {
				p.Note = note
			}

			txn, err := a.journal.Update(cmd.Context(), id, p)
			if err != nil {
				return err
			}
			printTxn(cmd.OutOrStdout(), "Updated", txn)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "transaction date YYYY-MM-DD")
	cmd.Flags().StringVar(&from, "from", "", "account credited")
	cmd.Flags().StringVar(&to, "to", "", "account debited")
	cmd.Flags().StringVar(&amount, "amount", "", "amount")
	cmd.Flags().StringVar(&note, "note", "", "narration")
	return cmd
}

func newTxnDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := parseRef(args[0])
			if !ok {
				return &model.ValidationError{Entity: "transaction", Field: "id", Message: fmt.Sprintf("invalid id %q", args[0])}
			}

			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.journal.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Deleted transaction %d\n", id)
			return nil
		},
	}
}

// txnFilter holds the flags shared by list and export.
type txnFilter struct {
	year, account, from, to string
}

func (f *txnFilter) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.year, "year", "", "financial year label or ID (default: active year)")
	cmd.Flags().StringVar(&f.account, "account", "", "only transactions touching this account")
	cmd.Flags().StringVar(&f.from, "from", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "end date YYYY-MM-DD")
}

func (f *txnFilter) resolve(cmd *cobra.Command, a *app) (journal.ListFilter, error) {
	var lf journal.ListFilter
	var err error
	if lf.YearID, err = a.yearID(cmd.Context(), f.year); err != nil {
		return lf, err
	}
	if f.account != "" {
		acct, err := a.account(cmd.Context(), f.account)
		if err != nil {
			return lf, err
		}
		lf.AccountID = acct.ID
	}
	if lf.Range.From, err = parseOptionalDate(f.from); err != nil {
		return lf, err
	}
	if lf.Range.To, err = parseOptionalDate(f.to); err != nil {
		return lf, err
	}
	return lf, nil
}

func newTxnListCommand(g *globals) *cobra.Command {
	var filter txnFilter
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			lf, err := filter.resolve(cmd, a)
			if err != nil {
				return err
			}
			txns, err := a.journal.List(cmd.Context(), lf)
			if err != nil {
				return err
			}
			if asJSON {
				if txns == nil {
					txns = []model.Transaction{}
				}
				return printJSON(cmd.OutOrStdout(), txns)
			}

			tw := newTable(cmd.OutOrStdout())
			printf(tw, "ID\tDATE\tFROM\tTO\tAMOUNT\tNOTE\n")
			for _, txn := range txns {
				printf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					txn.ID, formatDate(txn.Date), txn.FromName, txn.ToName, txn.Amount.StringFixed(2), txn.Note)
			}
			return tw.Flush()
		},
	}

	filter.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newTxnImportCommand(g *globals) *cobra.Command {
	var year string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import transactions from a " + journal.Header + " CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			entries, err := journal.ReadEntries(f)
			if err != nil {
				return err
			}

			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			yearID, err := a.yearID(cmd.Context(), year)
			if err != nil {
				return err
			}
			ids, err := a.journal.Import(cmd.Context(), yearID, a.userID, entries)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Imported %d transactions\n", len(ids))
			return nil
		},
	}

	cmd.Flags().StringVar(&year, "year", "", "financial year label or ID (default: active year)")
	return cmd
}

func newTxnExportCommand(g *globals) *cobra.Command {
	var filter txnFilter

	cmd := &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export transactions as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			lf, err := filter.resolve(cmd, a)
			if err != nil {
				return err
			}
			txns, err := a.journal.List(cmd.Context(), lf)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(args) > 0 {
				f, err := os.Create(args[0])
				if err != nil {
					return fmt.Errorf("creating %s: %w", args[0], err)
				}
				defer f.Close()
				w = f
			}
			return journal.WriteEntries(w, txns)
		},
	}

	filter.register(cmd)
	return cmd
}
