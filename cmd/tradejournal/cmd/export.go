package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/bobmcallan/tradejournal/internal/services/impexp"
	"github.com/spf13/cobra"
)

func newExportCmd(rc *RootConfig) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the owner's data to an export file",
		Long: `Export every trade, asset, goal, journal entry and the portfolio and
settings singletons to one document.

The default file name is trading-journal-export-YYYY-MM-DD.<format> in the
current directory. Use --out - to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := impexp.ParseFormat(format)
			if err != nil {
				return err
			}

			s, err := open(cmd.Context(), rc)
			if err != nil {
				return err
			}
			defer s.Close()

			now := time.Now()
			data, err := impexp.Encode(s.cache.Export(now), f)
			if err != nil {
				return fmt.Errorf("encode export: %w", err)
			}

			if out == "-" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = impexp.FileName(now, f)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%d bytes)\n", out, len(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json or msgpack")
	cmd.Flags().StringVar(&out, "out", "", "output file, - for stdout")
	return cmd
}
