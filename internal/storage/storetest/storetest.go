// Package storetest is a conformance suite every RemoteStore backend runs
// from its own tests.
package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns a fresh, empty store. It may register cleanup on t.
type Factory func(t *testing.T) interfaces.RemoteStore

// Run executes the suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s interfaces.RemoteStore)
	}{
		{"InsertAssignsIdentity", testInsertAssignsIdentity},
		{"SelectAllNewestFirst", testSelectAllNewestFirst},
		{"OwnerIsolation", testOwnerIsolation},
		{"UpdatePartial", testUpdatePartial},
		{"UpdateMissing", testUpdateMissing},
		{"SingletonUpsert", testSingletonUpsert},
		{"Delete", testDelete},
		{"DeleteAll", testDeleteAll},
		{"TransformCompatible", testTransformCompatible},
		{"UnknownTable", testUnknownTable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			tc.fn(t, s)
		})
	}
}

func sampleTrade(asset string) models.Trade {
	return models.Trade{
		Date:         "2024-06-03",
		Time:         "09:31",
		Asset:        asset,
		Direction:    models.DirectionLong,
		EntryPrice:   187.25,
		PositionSize: 100,
		Strategy:     "breakout",
		Tags:         []string{"momentum"},
		IsOpen:       true,
	}
}

func testInsertAssignsIdentity(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	row, err := s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(sampleTrade("AAPL")))
	require.NoError(t, err)
	assert.NotEmpty(t, row[transform.ColID])
	assert.NotEmpty(t, row[transform.ColCreatedAt])
	assert.Equal(t, "AAPL", row[transform.ColAsset])
	assert.NotContains(t, row, "user_id")
}

func testSelectAllNewestFirst(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	var ids []any
	for _, asset := range []string{"A", "B", "C"} {
		row, err := s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(sampleTrade(asset)))
		require.NoError(t, err)
		ids = append(ids, row[transform.ColID])
	}

	rows, err := s.SelectAll(ctx, models.TableTrades, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "C", rows[0][transform.ColAsset])
	assert.Equal(t, "B", rows[1][transform.ColAsset])
	assert.Equal(t, "A", rows[2][transform.ColAsset])
	assert.Equal(t, ids[2], rows[0][transform.ColID])
}

func testOwnerIsolation(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	_, err := s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(sampleTrade("AAPL")))
	require.NoError(t, err)
	bobRow, err := s.Insert(ctx, models.TableTrades, "bob", transform.TradeToRow(sampleTrade("MSFT")))
	require.NoError(t, err)

	rows, err := s.SelectAll(ctx, models.TableTrades, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "AAPL", rows[0][transform.ColAsset])

	// alice cannot touch bob's row
	id := bobRow[transform.ColID].(string)
	_, err = s.Update(ctx, models.TableTrades, "alice", id, models.Row{transform.ColAsset: "X"})
	assert.ErrorIs(t, err, interfaces.ErrNoRows)
	require.NoError(t, s.Delete(ctx, models.TableTrades, "alice", id))

	rows, err = s.SelectAll(ctx, models.TableTrades, "bob")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MSFT", rows[0][transform.ColAsset])
}

func testUpdatePartial(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	row, err := s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(sampleTrade("AAPL")))
	require.NoError(t, err)
	id := row[transform.ColID].(string)

	closed := false
	patch := transform.TradePatchToRow(models.TradePatch{IsOpen: &closed, PnL: models.Float(75), Fees: models.Float(5)})
	updated, err := s.Update(ctx, models.TableTrades, "alice", id, patch)
	require.NoError(t, err)

	trade, err := transform.TradeFromRow(updated)
	require.NoError(t, err)
	assert.Equal(t, id, trade.ID)
	assert.False(t, trade.IsOpen)
	require.NotNil(t, trade.PnL)
	assert.Equal(t, 75.0, *trade.PnL)
	assert.Equal(t, 5.0, trade.Fees)
	assert.Equal(t, "AAPL", trade.Asset, "untouched columns keep their value")
	assert.Equal(t, "breakout", trade.Strategy)
}

func testUpdateMissing(t *testing.T, s interfaces.RemoteStore) {
	_, err := s.Update(context.Background(), models.TableTrades, "alice", "does-not-exist", models.Row{transform.ColAsset: "X"})
	assert.True(t, errors.Is(err, interfaces.ErrNoRows))
}

func testSingletonUpsert(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	_, err := s.SelectOne(ctx, models.TablePortfolioSettings, "alice")
	require.ErrorIs(t, err, interfaces.ErrNoRows)

	p := models.DefaultPortfolio()
	p.InitialCapital = 2000
	_, err = s.Upsert(ctx, models.TablePortfolioSettings, "alice", transform.PortfolioToRow(p))
	require.NoError(t, err)

	p.CurrentBalance = 2640
	_, err = s.Upsert(ctx, models.TablePortfolioSettings, "alice", transform.PortfolioToRow(p))
	require.NoError(t, err)

	row, err := s.SelectOne(ctx, models.TablePortfolioSettings, "alice")
	require.NoError(t, err)
	got, err := transform.PortfolioFromRow(row)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, got.InitialCapital)
	assert.Equal(t, 2640.0, got.CurrentBalance)

	_, err = s.SelectOne(ctx, models.TablePortfolioSettings, "bob")
	assert.ErrorIs(t, err, interfaces.ErrNoRows)
}

func testDelete(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	a, err := s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(sampleTrade("A")))
	require.NoError(t, err)
	_, err = s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(sampleTrade("B")))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, models.TableTrades, "alice", a[transform.ColID].(string)))

	rows, err := s.SelectAll(ctx, models.TableTrades, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0][transform.ColAsset])
}

func testDeleteAll(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	for _, owner := range []string{"alice", "alice", "bob"} {
		_, err := s.Insert(ctx, models.TableGoals, owner, transform.GoalToRow(models.Goal{Type: models.GoalDaily, Target: 100, Category: models.GoalProfit}))
		require.NoError(t, err)
	}

	require.NoError(t, s.DeleteAll(ctx, models.TableGoals, "alice"))

	rows, err := s.SelectAll(ctx, models.TableGoals, "alice")
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = s.SelectAll(ctx, models.TableGoals, "bob")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func testTransformCompatible(t *testing.T, s interfaces.RemoteStore) {
	ctx := context.Background()

	in := sampleTrade("EURUSD")
	in.IsOpen = false
	in.PnL = models.Float(-12.5)
	in.Fees = 0.75
	in.ExitPrice = models.Float(1.0755)
	in.Screenshots = []string{"shot.png"}
	in.EmotionalState = models.EmotionFrustrated

	row, err := s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(in))
	require.NoError(t, err)
	out, err := transform.TradeFromRow(row)
	require.NoError(t, err)

	in.ID = out.ID
	in.CreatedAt = out.CreatedAt
	assert.Equal(t, in, out)
	assert.False(t, out.CreatedAt.IsZero())

	settings := models.DefaultUserSettings()
	settings.TradingHours.Start = "08:00"
	settings.RiskManagement.TakeProfitRequired = true
	_, err = s.Upsert(ctx, models.TableUserSettings, "alice", transform.UserSettingsToRow(settings))
	require.NoError(t, err)
	srow, err := s.SelectOne(ctx, models.TableUserSettings, "alice")
	require.NoError(t, err)
	gotSettings, err := transform.UserSettingsFromRow(srow)
	require.NoError(t, err)
	assert.Equal(t, settings, gotSettings)

	txRow, err := s.Insert(ctx, models.TableTransactions, "alice", transform.TransactionToRow(models.Transaction{
		Date: "2024-06-01", Amount: 500, Type: models.TransactionDeposit,
	}))
	require.NoError(t, err)
	tx, err := transform.TransactionFromRow(txRow)
	require.NoError(t, err)
	assert.Equal(t, 500.0, tx.Amount)
	assert.Equal(t, "", tx.Description)
}

func testUnknownTable(t *testing.T, s interfaces.RemoteStore) {
	_, err := s.SelectAll(context.Background(), "users", "alice")
	assert.Error(t, err)
}
