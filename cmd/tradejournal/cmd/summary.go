package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSummaryCmd(rc *RootConfig) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print record counts and trade statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context(), rc)
			if err != nil {
				return err
			}
			defer s.Close()

			sum := s.cache.Summary()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(sum)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Balance\t%s\n", sum.FormattedBalance)
			fmt.Fprintf(w, "Trades\t%d\t(%d open, %d closed)\n", sum.TotalTrades, sum.OpenTrades, sum.ClosedTrades)
			fmt.Fprintf(w, "Win rate\t%.1f%%\n", sum.WinRate)
			fmt.Fprintf(w, "Net per trade\t%.2f\t(stddev %.2f)\n", sum.MeanTradeNet, sum.StdDevTradeNet)
			fmt.Fprintf(w, "Realized P&L\t%.2f\t(fees %.2f)\n", sum.RealizedPnL, sum.TotalFees)
			fmt.Fprintf(w, "Transactions\t%d\t(deposits %.2f, withdrawals %.2f)\n", sum.TotalTransactions, sum.TotalDeposits, sum.TotalWithdrawals)
			fmt.Fprintf(w, "Goals\t%d\t(%d active, %d completed)\n", sum.TotalGoals, sum.ActiveGoals, sum.CompletedGoals)
			fmt.Fprintf(w, "Assets\t%d\t(%d active)\n", sum.TotalAssets, sum.ActiveAssets)
			fmt.Fprintf(w, "Journal entries\t%d\n", sum.JournalEntries)
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the summary as JSON")
	return cmd
}
