package journal

import (
	"github.com/Rhymond/go-money"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/balance"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// Summary reports counts and closed-trade statistics for the cached data.
func (c *Cache) Summary() models.DataSummary {
	return Summarize(c.Snapshot())
}

// Summarize computes a DataSummary from snap. Win rate and the net P&L
// statistics cover realized trades only; win rate is a percentage.
func Summarize(snap models.Snapshot) models.DataSummary {
	s := models.DataSummary{
		TotalTrades:       len(snap.Trades),
		TotalTransactions: len(snap.Portfolio.Deposits) + len(snap.Portfolio.Withdrawals),
		TotalGoals:        len(snap.Goals),
		TotalAssets:       len(snap.Assets),
		JournalEntries:    len(snap.JournalEntries),
		CurrentBalance:    snap.Portfolio.CurrentBalance,
		FormattedBalance:  FormatAmount(snap.Portfolio.CurrentBalance, snap.Portfolio.Currency),
	}
	s.TotalDeposits, s.TotalWithdrawals = balance.Totals(snap.Portfolio)
	s.RealizedPnL, s.TotalFees = balance.Realized(snap.Trades)

	var nets []float64
	wins := 0
	for _, t := range snap.Trades {
		if t.IsOpen {
			s.OpenTrades++
			continue
		}
		s.ClosedTrades++
		if !t.Realized() {
			continue
		}
		net := balance.Contribution(t)
		nets = append(nets, net)
		if net > 0 {
			wins++
		}
	}
	if len(nets) > 0 {
		s.WinRate = float64(wins) / float64(len(nets)) * 100
		s.MeanTradeNet = stat.Mean(nets, nil)
	}
	if len(nets) > 1 {
		s.StdDevTradeNet = stat.StdDev(nets, nil)
	}

	for _, g := range snap.Goals {
		if g.IsActive {
			s.ActiveGoals++
		}
		if g.Completed() {
			s.CompletedGoals++
		}
	}
	for _, a := range snap.Assets {
		if a.IsActive {
			s.ActiveAssets++
		}
	}
	return s
}

// FormatAmount renders amount in currency code, e.g. "$1,234.50". Unknown
// codes fall back to USD.
func FormatAmount(amount float64, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(money.USD)
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
