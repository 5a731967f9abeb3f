package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func newBackupCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "backup [dest]",
		Short: "Write a consistent copy of the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.open(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			dest := filepath.Join(filepath.Dir(g.cfg.DBPath(g.configPath)), "backups",
				fmt.Sprintf("ledger-%s.db", time.Now().Format("20060102-150405")))
			if len(args) > 0 {
				dest = args[0]
			}
			if err := a.db.Backup(cmd.Context(), dest); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Backed up to %s\n", dest)
			return nil
		},
	}
}
