package balance

import (
	"cmp"
	"slices"
	"time"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/shopspring/decimal"
)

// Point is the running balance after the ledger events of one day.
type Point struct {
	Date    time.Time `json:"date"`
	Balance float64   `json:"balance"`
}

type ledgerEvent struct {
	date   time.Time
	amount decimal.Decimal
}

// History replays the ledger in date order and returns one point per day
// with activity, preceded by the initial capital. The last point always
// equals ReconcilePortfolio. Records whose date cannot be parsed fall back
// to their creation time; records with neither are placed first.
func History(p models.Portfolio, trades []models.Trade) []Point {
	var events []ledgerEvent
	for _, tx := range p.Deposits {
		events = append(events, ledgerEvent{eventDate(tx.Date, tx.CreatedAt), decimal.NewFromFloat(tx.Amount)})
	}
	for _, tx := range p.Withdrawals {
		events = append(events, ledgerEvent{eventDate(tx.Date, tx.CreatedAt), decimal.NewFromFloat(tx.Amount).Neg()})
	}
	for _, t := range trades {
		if !t.Realized() {
			continue
		}
		events = append(events, ledgerEvent{eventDate(t.Date, t.CreatedAt), contribution(t)})
	}
	slices.SortStableFunc(events, func(a, b ledgerEvent) int {
		return a.date.Compare(b.date)
	})

	running := decimal.NewFromFloat(p.InitialCapital)
	start := time.Time{}
	if len(events) > 0 {
		start = events[0].date
	}
	points := []Point{{Date: start, Balance: running.InexactFloat64()}}

	for _, ev := range events {
		running = running.Add(ev.amount)
		last := &points[len(points)-1]
		if len(points) > 1 && last.Date.Equal(ev.date) {
			last.Balance = running.InexactFloat64()
			continue
		}
		points = append(points, Point{Date: ev.date, Balance: running.InexactFloat64()})
	}
	return points
}

func eventDate(date string, created time.Time) time.Time {
	if d, err := time.Parse(time.DateOnly, date); err == nil {
		return d
	}
	if !created.IsZero() {
		return created.UTC().Truncate(24 * time.Hour)
	}
	return time.Time{}
}

// Extent returns the lowest and highest balance in points.
func Extent(points []Point) (lo, hi float64) {
	if len(points) == 0 {
		return 0, 0
	}
	lo = slices.MinFunc(points, func(a, b Point) int { return cmp.Compare(a.Balance, b.Balance) }).Balance
	hi = slices.MaxFunc(points, func(a, b Point) int { return cmp.Compare(a.Balance, b.Balance) }).Balance
	return lo, hi
}
