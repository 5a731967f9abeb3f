package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/config"
	"github.com/cleared-dev/ledger/internal/fiscal"
)

func newInitCommand(g *globals) *cobra.Command {
	var name, label, yearStart string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a new ledger with the default chart of accounts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return g.runInit(cmd, absDir, name, label, yearStart)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&label, "year", "", "first financial year label, e.g. 2025-26 (default: the current year)")
	cmd.Flags().StringVar(&yearStart, "year-start", fiscal.DefaultYearStart, "first day of the financial year (MM-DD)")

	return cmd
}

func (g *globals) runInit(cmd *cobra.Command, dir, name, label, yearStart string) error {
	if _, _, err := fiscal.ParseYearStart(yearStart); err != nil {
		return err
	}
	if label == "" {
		var err error
		if label, err = fiscal.LabelFor(time.Now(), yearStart); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	cfg := config.Default(name)
	cfg.Fiscal.YearStart = yearStart
	if g.dbPath != "" {
		cfg.Database.Path = g.cfg.Database.Path
	}
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := openApp(ctx, cfg, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	seeded, err := a.accounts.Seed(ctx)
	if err != nil {
		return fmt.Errorf("seeding chart of accounts: %w", err)
	}
	y, err := a.years.Add(ctx, label)
	if err != nil {
		return err
	}
	if _, err := a.years.Activate(ctx, y.ID); err != nil {
		return err
	}

	printf(cmd.OutOrStdout(), "Initialized ledger for %s at %s\n", name, dir)
	printf(cmd.OutOrStdout(), "  %d accounts, financial year %s (%s to %s) active\n",
		seeded.AccountsCreated, y.Label, formatDate(y.Start), formatDate(y.End))
	return nil
}
