package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/balance"
	"github.com/bobmcallan/tradejournal/internal/services/journal"
	"github.com/bobmcallan/tradejournal/internal/transform"
	"github.com/spf13/cobra"
)

func newReconcileCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Rebuild the balance from its ledger and fix any drift",
		Long: `Compare the stored currentBalance with the balance rebuilt from initial
capital, deposits, withdrawals and realized trades. Loading the journal
writes the rebuilt value back when the two differ.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, owner, err := openApp(rc)
			if err != nil {
				return err
			}
			defer a.Close()

			stored, hasStored := 0.0, false
			row, err := a.Store.SelectOne(ctx, models.TablePortfolioSettings, owner)
			switch {
			case err == nil:
				if p, perr := transform.PortfolioFromRow(row); perr == nil {
					stored, hasStored = p.CurrentBalance, true
				}
			case errors.Is(err, interfaces.ErrNoRows):
			default:
				return fmt.Errorf("read portfolio: %w", err)
			}

			c, err := a.Journal(ctx, owner)
			if err != nil {
				return fmt.Errorf("load journal for %s: %w", owner, err)
			}
			snap := c.Snapshot()
			p := snap.Portfolio
			deposits, withdrawals := balance.Totals(p)
			pnl, fees := balance.Realized(snap.Trades)
			ledger := balance.ReconcilePortfolio(p, snap.Trades)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "Owner\t%s\n", owner)
			fmt.Fprintf(w, "Initial capital\t%s\n", journal.FormatAmount(p.InitialCapital, p.Currency))
			fmt.Fprintf(w, "Deposits\t+%s\t(%d)\n", journal.FormatAmount(deposits, p.Currency), len(p.Deposits))
			fmt.Fprintf(w, "Withdrawals\t-%s\t(%d)\n", journal.FormatAmount(withdrawals, p.Currency), len(p.Withdrawals))
			fmt.Fprintf(w, "Realized P&L\t%s\n", journal.FormatAmount(pnl, p.Currency))
			fmt.Fprintf(w, "Fees\t-%s\n", journal.FormatAmount(fees, p.Currency))
			fmt.Fprintf(w, "Ledger balance\t%s\n", journal.FormatAmount(ledger, p.Currency))
			if hasStored {
				fmt.Fprintf(w, "Stored balance\t%s\n", journal.FormatAmount(stored, p.Currency))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			switch {
			case !hasStored:
				fmt.Fprintln(cmd.OutOrStdout(), "No stored portfolio, created with defaults")
			case stored != ledger && p.CurrentBalance == ledger:
				fmt.Fprintf(cmd.OutOrStdout(), "Corrected drift of %s\n", journal.FormatAmount(ledger-stored, p.Currency))
			case stored != ledger:
				return fmt.Errorf("balance drift of %s could not be written back", journal.FormatAmount(ledger-stored, p.Currency))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), "Balance matches ledger")
			}
			return nil
		},
	}
}
