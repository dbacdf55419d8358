package cmd

import (
	"context"
	"fmt"

	"github.com/bobmcallan/tradejournal/internal/app"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
	"github.com/spf13/cobra"
)

// RootConfig holds the persistent flags shared by every subcommand.
type RootConfig struct {
	ConfigPath string
	Owner      string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	rootCmd := &cobra.Command{
		Use:   "tradejournal",
		Short: "Manage trading journal data from the command line",
		Long: `tradejournal works directly against the configured store.

Use it to take or restore exports, check the account balance against its
ledger, print a data summary and prepare login credentials for the server.

Examples:
  tradejournal export --format msgpack
  tradejournal import trading-journal-export-2024-03-01.json
  tradejournal reconcile --owner alice
  tradejournal hash-password`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&rc.ConfigPath, "config", "c", "", "path to tradejournal.toml (defaults to TJ_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&rc.Owner, "owner", "o", "", "owner id (defaults to tenant.id)")

	rootCmd.AddCommand(
		newExportCmd(rc),
		newImportCmd(rc),
		newReconcileCmd(rc),
		newSummaryCmd(rc),
		newHashPasswordCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// session is an opened app plus the cache for the selected owner.
type session struct {
	app   *app.App
	cache *journal.Cache
}

func (s *session) Close() { s.app.Close() }

// openApp loads configuration and opens the store, resolving the owner.
func openApp(rc *RootConfig) (*app.App, string, error) {
	a, err := app.NewApp(rc.ConfigPath)
	if err != nil {
		return nil, "", err
	}
	owner := rc.Owner
	if owner == "" {
		owner = a.Config.Tenant.ID
	}
	return a, owner, nil
}

// open is openApp followed by loading the owner's journal.
func open(ctx context.Context, rc *RootConfig) (*session, error) {
	a, owner, err := openApp(rc)
	if err != nil {
		return nil, err
	}
	c, err := a.Journal(ctx, owner)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load journal for %s: %w", owner, err)
	}
	return &session{app: a, cache: c}, nil
}
