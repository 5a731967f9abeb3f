package commands

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledger/internal/buildinfo"
	"github.com/cleared-dev/ledger/internal/config"
)

// globals holds the persistent flags and the config they resolve to.
type globals struct {
	configPath string
	dbPath     string
	debug      bool

	cfg *config.Config
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Double-entry bookkeeping for small businesses",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.FileName, "path to ledger.yaml")
	rootCmd.PersistentFlags().StringVar(&g.dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&g.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(g),
		newYearCommand(g),
		newGroupCommand(g),
		newAccountCommand(g),
		newOpeningCommand(g),
		newTxnCommand(g),
		newReportCommand(g),
		newServeCommand(g),
		newBackupCommand(g),
	)

	return rootCmd
}

// setup resolves the config and installs the default logger.
func (g *globals) setup(cmd *cobra.Command) error {
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return err
	}
	if g.dbPath != "" {
		abs, err := filepath.Abs(g.dbPath)
		if err != nil {
			return err
		}
		cfg.Database.Path = abs
	}
	g.cfg = cfg

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if g.debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}
