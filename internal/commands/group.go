package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/model"
)

func newGroupCommand(g *globals) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Manage account groups",
	}
	groupCmd.AddCommand(
		newGroupAddCommand(g),
		newGroupListCommand(g),
		newGroupUpdateCommand(g),
		newGroupDeleteCommand(g),
	)
	return groupCmd
}

func categoryHelp() string {
	names := make([]string, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	return "category: " + strings.Join(names, ", ")
}

func newGroupAddCommand(g *globals) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an account group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			grp, err := a.accounts.AddGroup(cmd.Context(), args[0], model.Category(strings.ToLower(category)))
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Added group %s (id %d, %s)\n", grp.Name, grp.ID, grp.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", string(model.CategoryOther), categoryHelp())
	return cmd
}

func newGroupListCommand(g *globals) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List account groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.accounts.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), groups)
			}

			tw := newTable(cmd.OutOrStdout())
			printf(tw, "ID\tNAME\tCATEGORY\n")
			for _, grp := range groups {
				printf(tw, "%d\t%s\t%s\n", grp.ID, grp.Name, grp.Category)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newGroupUpdateCommand(g *globals) *cobra.Command {
	var name, category string

	cmd := &cobra.Command{
		Use:   "update <group>",
		Short: "Rename or recategorize a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			grp, err := a.group(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				grp.Name = name
			}
			if cmd.Flags().Changed("category") {
				grp.Category = model.Category(strings.ToLower(category))
			}
			grp, err = a.accounts.UpdateGroup(cmd.Context(), grp.ID, grp.Name, grp.Category)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Updated group %s (id %d, %s)\n", grp.Name, grp.ID, grp.Category)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new group name")
	cmd.Flags().StringVar(&category, "category", "", categoryHelp())
	return cmd
}

func newGroupDeleteCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <group>",
		Short: "Delete a group with no accounts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			grp, err := a.group(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.accounts.DeleteGroup(cmd.Context(), grp.ID); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Deleted group %s\n", grp.Name)
			return nil
		},
	}
}
