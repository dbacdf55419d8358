package cmd

import (
	"fmt"
	"os"

	"github.com/bobmcallan/tradejournal/internal/services/impexp"
	"github.com/spf13/cobra"
)

func newImportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the owner's data with the contents of an export file",
		Long: `Import a JSON or MessagePack export. Every kind present in the file
replaces the stored records of that kind; kinds missing from the file are
left as they are. The file is validated before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			doc, err := impexp.Decode(data, impexp.Detect(data))
			if err != nil {
				return fmt.Errorf("invalid export %s: %w", args[0], err)
			}

			s, err := open(cmd.Context(), rc)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.cache.ImportDocument(cmd.Context(), doc); err != nil {
				return fmt.Errorf("import failed, store may be partially overwritten: %w", err)
			}

			snap := s.cache.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d trades, %d assets, %d goals, %d journal entries\n",
				args[0], len(snap.Trades), len(snap.Assets), len(snap.Goals), len(snap.JournalEntries))
			return nil
		},
	}
}
