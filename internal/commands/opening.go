package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/model"
)

func newOpeningCommand(g *globals) *cobra.Command {
	var year string

	openingCmd := &cobra.Command{
		Use:   "opening",
		Short: "Manage opening balances",
	}
	openingCmd.PersistentFlags().StringVar(&year, "year", "", "financial year label or ID (default: active year)")

	openingCmd.AddCommand(
		&cobra.Command{
			Use:   "set <account> <amount> [Dr|Cr]",
			Short: "Declare an account's opening balance, e.g. 1500 Dr or 200 Cr",
			Args:  cobra.RangeArgs(2, 3),
			RunE: func(cmd *cobra.Command, args []string) error {
				amount, err := model.ParseBalance(strings.Join(args[1:], " "))
				if err != nil {
					return err
				}

				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				acct, err := a.account(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				yearID, err := a.yearID(cmd.Context(), year)
				if err != nil {
					return err
				}
				ob, err := a.journal.SetOpening(cmd.Context(), acct.ID, yearID, amount)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Opening balance of %s set to %s\n", ob.AccountName, ob.Amount)
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <account>",
			Short: "Show an account's opening balance",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				acct, err := a.account(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				yearID, err := a.yearID(cmd.Context(), year)
				if err != nil {
					return err
				}
				ob, err := a.journal.GetOpening(cmd.Context(), acct.ID, yearID)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s: %s\n", acct.Name, ob.Amount)
				return nil
			},
		},
		newOpeningListCommand(g, &year),
	)

	return openingCmd
}

func newOpeningListCommand(g *globals, year *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the declared opening balances of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			yearID, err := a.yearID(cmd.Context(), *year)
			if err != nil {
				return err
			}
			list, err := a.journal.ListOpenings(cmd.Context(), yearID)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), list)
			}

			tw := newTable(cmd.OutOrStdout())
			printf(tw, "ACCOUNT\tOPENING\n")
			for _, ob := range list {
				printf(tw, "%s\t%s\n", ob.AccountName, ob.Amount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
