package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/accounts"
	"github.com/cleared-dev/ledger/internal/model"
)

func newAccountCommand(g *globals) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage ledger accounts",
	}
	accountCmd.AddCommand(
		newAccountAddCommand(g),
		newAccountListCommand(g),
		newAccountUpdateCommand(g),
		newAccountSetActiveCommand(g, true),
		newAccountSetActiveCommand(g, false),
		newAccountDeleteCommand(g),
		newAccountImportCommand(g),
		newAccountExportCommand(g),
	)
	return accountCmd
}

func newAccountAddCommand(g *globals) *cobra.Command {
	var group, phone, address string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			grp, err := a.group(cmd.Context(), group)
			if err != nil {
				return err
			}
			acct, err := a.accounts.AddAccount(cmd.Context(), accounts.AccountParams{
				Name:    args[0],
				GroupID: grp.ID,
				Phone:   phone,
				Address: address,
			})
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Added account %s (id %d) to %s\n", acct.Name, acct.ID, acct.GroupName)
			return nil
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "group name or ID (required)")
	_ = cmd.MarkFlagRequired("group")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&address, "address", "", "contact address")
	return cmd
}

func newAccountListCommand(g *globals) *cobra.Command {
	var group, category string
	var activeOnly, asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			f := accounts.Filter{ActiveOnly: activeOnly, Category: model.Category(strings.ToLower(category))}
			if group != "" {
				grp, err := a.group(cmd.Context(), group)
				if err != nil {
					return err
				}
				f.GroupID = grp.ID
			}
			list, err := a.accounts.ListAccounts(cmd.Context(), f)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), list)
			}

			tw := newTable(cmd.OutOrStdout())
			printf(tw, "ID\tNAME\tGROUP\tCATEGORY\tPHONE\tACTIVE\n")
			for _, acct := range list {
				printf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					acct.ID, acct.Name, acct.GroupName, acct.Category, acct.Phone, yesNo(acct.Active))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&group, "group", "", "only accounts in this group")
	cmd.Flags().StringVar(&category, "category", "", "only accounts in groups of this category")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active accounts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newAccountUpdateCommand(g *globals) *cobra.Command {
	var name, group, phone, address string

	cmd := &cobra.Command{
		Use:   "update <account>",
		Short: "Edit an account",
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
			p := accounts.AccountParams{Name: acct.Name, GroupID: acct.GroupID, Phone: acct.Phone, Address: acct.Address}
			if cmd.Flags().Changed("name") {
				p.Name = name
			}
			if cmd.Flags().Changed("group") {
				grp, err := a.group(cmd.Context(), group)
				if err != nil {
					return err
				}
				p.GroupID = grp.ID
			}
			if cmd.Flags().Changed("phone") {
				p.Phone = phone
			}
			if cmd.Flags().Changed("address") {
				p.Address = address
			}

			acct, err = a.accounts.UpdateAccount(cmd.Context(), acct.ID, p)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Updated account %s (id %d) in %s\n", acct.Name, acct.ID, acct.GroupName)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new account name")
	cmd.Flags().StringVar(&group, "group", "", "move to group (name or ID)")
	cmd.Flags().StringVar(&phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&address, "address", "", "contact address")
	return cmd
}

func newAccountSetActiveCommand(g *globals, active bool) *cobra.Command {
	use, short, done := "deactivate <account>", "Hide an account from new transactions", "deactivated"
	if active {
		use, short, done = "activate <account>", "Reactivate an account", "activated"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
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
			if active {
				err = a.accounts.Activate(cmd.Context(), acct.ID)
			} else {
				err = a.accounts.Deactivate(cmd.Context(), acct.ID)
			}
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Account %s %s\n", acct.Name, done)
			return nil
		},
	}
}

func newAccountDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account>",
		Short: "Delete an account with no opening balances or transactions",
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
			if err := a.accounts.DeleteAccount(cmd.Context(), acct.ID); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Deleted account %s\n", acct.Name)
			return nil
		},
	}
}

func newAccountImportCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import accounts from an account_name,group_name,phone,address CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()

			rows, err := accounts.ReadChart(f)
			if err != nil {
				return err
			}

			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.accounts.ImportChart(cmd.Context(), rows)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Imported %d accounts (%d new groups, %d already present)\n",
				res.AccountsCreated, res.GroupsCreated, res.Skipped)
			return nil
		},
	}
}

func newAccountExportCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file.csv]",
		Short: "Export the chart of accounts as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := a.accounts.ExportChart(cmd.Context())
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
			return accounts.WriteChart(w, rows)
		},
	}
}
