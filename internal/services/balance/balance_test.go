package balance

import (
	"math/rand"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/stretchr/testify/assert"
)

func closedTrade(pnl, fees float64) models.Trade {
	return models.Trade{IsOpen: false, PnL: models.Float(pnl), Fees: fees}
}

func TestReconcile_Example(t *testing.T) {
	got := Reconcile(2000,
		[]models.Transaction{{Amount: 500, Type: models.TransactionDeposit}},
		nil,
		[]models.Trade{closedTrade(150, 10)},
	)
	assert.Equal(t, 2640.0, got)
}

func TestReconcile_IgnoresOpenAndIncompleteTrades(t *testing.T) {
	trades := []models.Trade{
		{IsOpen: true, PnL: models.Float(999), Fees: 1},
		{IsOpen: false, Fees: 3},
		closedTrade(-40, 2),
	}
	assert.Equal(t, 958.0, Reconcile(1000, nil, nil, trades))
}

func TestReconcile_ZeroPnLCountsAsClosed(t *testing.T) {
	assert.Equal(t, 995.0, Reconcile(1000, nil, nil, []models.Trade{closedTrade(0, 5)}))
}

func TestReconcile_NoOverdraftGuard(t *testing.T) {
	got := Reconcile(100, nil, []models.Transaction{{Amount: 250, Type: models.TransactionWithdrawal}}, nil)
	assert.Equal(t, -150.0, got)
}

func TestDelta_OpenToClosed(t *testing.T) {
	prev := models.Trade{IsOpen: true}
	next := closedTrade(75, 5)
	assert.Equal(t, 70.0, Delta(prev, next))
}

func TestDelta_Reopen(t *testing.T) {
	assert.Equal(t, -70.0, Delta(closedTrade(75, 5), models.Trade{IsOpen: true}))
}

func TestDelta_EditClosed(t *testing.T) {
	assert.Equal(t, 25.0, Delta(closedTrade(75, 5), closedTrade(100, 5)))
}

func TestApply_DecimalExact(t *testing.T) {
	assert.Equal(t, 0.3, Apply(0.1, 0.2))
}

func TestTotalsAndRealized(t *testing.T) {
	p := models.Portfolio{
		Deposits:    []models.Transaction{{Amount: 100.1}, {Amount: 0.2}},
		Withdrawals: []models.Transaction{{Amount: 50}},
	}
	d, w := Totals(p)
	assert.Equal(t, 100.3, d)
	assert.Equal(t, 50.0, w)

	pnl, fees := Realized([]models.Trade{closedTrade(10.1, 0.1), closedTrade(-3, 0.2), {IsOpen: true, PnL: models.Float(5)}})
	assert.Equal(t, 7.1, pnl)
	assert.Equal(t, 0.3, fees)
}

// Incremental maintenance must land on the same value as a full rebuild for
// any sequence of ledger events.
func TestIncrementalMatchesReconcile(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cents := func(max int) float64 { return float64(rng.Intn(max)) / 100 }
	signedCents := func(max int) float64 { return float64(rng.Intn(max)-max/2) / 100 }

	for run := 0; run < 200; run++ {
		initial := cents(1_000_000)
		p := models.Portfolio{InitialCapital: initial}
		var trades []models.Trade
		running := initial

		for step := 0; step < 40; step++ {
			switch rng.Intn(5) {
			case 0:
				tx := models.Transaction{Amount: cents(100_000), Type: models.TransactionDeposit}
				p.Deposits = append(p.Deposits, tx)
				running = Apply(running, tx.Amount)
			case 1:
				tx := models.Transaction{Amount: cents(100_000), Type: models.TransactionWithdrawal}
				p.Withdrawals = append(p.Withdrawals, tx)
				running = Apply(running, -tx.Amount)
			case 2:
				tr := models.Trade{IsOpen: rng.Intn(2) == 0, Fees: cents(1_000)}
				if !tr.IsOpen {
					tr.PnL = models.Float(signedCents(200_000))
				}
				trades = append(trades, tr)
				running = Apply(running, Delta(models.Trade{IsOpen: true}, tr))
			case 3:
				if len(trades) == 0 {
					continue
				}
				i := rng.Intn(len(trades))
				prev := trades[i]
				next := prev
				next.IsOpen = false
				next.PnL = models.Float(signedCents(50_000))
				next.Fees = cents(500)
				trades[i] = next
				running = Apply(running, Delta(prev, next))
			case 4:
				if len(trades) == 0 {
					continue
				}
				i := rng.Intn(len(trades))
				running = Apply(running, -Contribution(trades[i]))
				trades = append(trades[:i], trades[i+1:]...)
			}
		}

		assert.Equal(t, ReconcilePortfolio(p, trades), running, "run %d", run)
	}
}
