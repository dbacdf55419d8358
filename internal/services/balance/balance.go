// Package balance derives the portfolio balance from its ledger.
//
// All sums are taken in decimal so that a balance maintained incrementally
// with Apply agrees exactly with one rebuilt by Reconcile.
package balance

import (
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/shopspring/decimal"
)

// Reconcile computes the balance from scratch:
// initial capital + deposits - withdrawals + (pnl - fees) of realized trades.
// Withdrawals are not checked against the running balance.
func Reconcile(initialCapital float64, deposits, withdrawals []models.Transaction, trades []models.Trade) float64 {
	total := decimal.NewFromFloat(initialCapital)
	total = total.Add(sumTransactions(deposits))
	total = total.Sub(sumTransactions(withdrawals))
	for _, t := range trades {
		total = total.Add(contribution(t))
	}
	return total.InexactFloat64()
}

// ReconcilePortfolio is Reconcile applied to a portfolio and its trades.
func ReconcilePortfolio(p models.Portfolio, trades []models.Trade) float64 {
	return Reconcile(p.InitialCapital, p.Deposits, p.Withdrawals, trades)
}

// Contribution is what a trade adds to the balance: pnl - fees once it is
// closed with a defined pnl, zero otherwise. A pnl of zero still counts.
func Contribution(t models.Trade) float64 {
	return contribution(t).InexactFloat64()
}

// Delta is the balance change caused by a trade moving from prev to next.
// Opening to closed yields pnl - fees; edits to a closed trade yield the
// difference; reopening reverses the earlier contribution.
func Delta(prev, next models.Trade) float64 {
	return contribution(next).Sub(contribution(prev)).InexactFloat64()
}

// Apply adds delta to balance.
func Apply(balance, delta float64) float64 {
	return decimal.NewFromFloat(balance).Add(decimal.NewFromFloat(delta)).InexactFloat64()
}

// Totals returns the summed deposits and withdrawals.
func Totals(p models.Portfolio) (deposits, withdrawals float64) {
	return sumTransactions(p.Deposits).InexactFloat64(), sumTransactions(p.Withdrawals).InexactFloat64()
}

// Realized returns the summed pnl and fees over realized trades.
func Realized(trades []models.Trade) (pnl, fees float64) {
	p, f := decimal.Zero, decimal.Zero
	for _, t := range trades {
		if !t.Realized() {
			continue
		}
		p = p.Add(decimal.NewFromFloat(*t.PnL))
		f = f.Add(decimal.NewFromFloat(t.Fees))
	}
	return p.InexactFloat64(), f.InexactFloat64()
}

func contribution(t models.Trade) decimal.Decimal {
	if !t.Realized() {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*t.PnL).Sub(decimal.NewFromFloat(t.Fees))
}

func sumTransactions(txs []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(decimal.NewFromFloat(tx.Amount))
	}
	return sum
}
