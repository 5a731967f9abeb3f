package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/model"
)

func newYearCommand(g *globals) *cobra.Command {
	yearCmd := &cobra.Command{
		Use:   "year",
		Short: "Manage financial years",
	}

	yearCmd.AddCommand(
		&cobra.Command{
			Use:   "add <label>",
			Short: "Add a financial year, e.g. 2026-27",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				y, err := a.years.Add(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Added financial year %s (id %d)\n", y.Label, y.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List financial years",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				years, err := a.years.List(cmd.Context())
				if err != nil {
					return err
				}
				printYears(cmd, years)
				return nil
			},
		},
		&cobra.Command{
			Use:   "update <year> <new-label>",
			Short: "Relabel a financial year",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				y, err := a.year(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				y, err = a.years.Update(cmd.Context(), y.ID, args[1])
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Financial year %d is now %s\n", y.ID, y.Label)
				return nil
			},
		},
		&cobra.Command{
			Use:   "activate <year>",
			Short: "Make a financial year the active one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				y, err := a.year(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if y, err = a.years.Activate(cmd.Context(), y.ID); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Financial year %s is active\n", y.Label)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <year>",
			Short: "Delete an unused financial year",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				y, err := a.year(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := a.years.Delete(cmd.Context(), y.ID); err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "Deleted financial year %s\n", y.Label)
				return nil
			},
		},
		&cobra.Command{
			Use:   "active",
			Short: "Show the active financial year",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := g.open(cmd.Context())
				if err != nil {
					return err
				}
				defer a.Close()

				y, err := a.years.ActiveYear(cmd.Context())
				if err != nil {
					return err
				}
				printYears(cmd, []model.FinancialYear{y})
				return nil
			},
		},
	)

	return yearCmd
}

func printYears(cmd *cobra.Command, years []model.FinancialYear) {
	tw := newTable(cmd.OutOrStdout())
	printf(tw, "ID\tLABEL\tSTART\tEND\tACTIVE\n")
	for _, y := range years {
		printf(tw, "%d\t%s\t%s\t%s\t%s\n", y.ID, y.Label, formatDate(y.Start), formatDate(y.End), yesNo(y.Active))
	}
	_ = tw.Flush()
}
