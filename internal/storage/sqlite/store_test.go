package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/storage/storetest"
	"github.com/bobmcallan/tradejournal/internal/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(common.NewSilentLogger(), filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Conformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) interfaces.RemoteStore {
		return newTestStore(t)
	})
}

func TestStore_NumericColumnsKeepDecimalText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	row, err := s.Insert(ctx, models.TableTrades, "alice", transform.TradeToRow(models.Trade{
		Asset: "AAPL", Direction: models.DirectionLong, EntryPrice: 0.1, PositionSize: 3, IsOpen: true,
	}))
	require.NoError(t, err)
	assert.Equal(t, "0.1", row[transform.ColEntryPrice])
	assert.Equal(t, int64(1), row[transform.ColIsOpen])
	assert.Equal(t, "[]", row[transform.ColTags])
}

func TestStore_RejectsUnknownColumn(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Insert(context.Background(), models.TableTrades, "alice", models.Row{"entry_price; --": 1.0})
	assert.Error(t, err)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s, err := NewStore(common.NewSilentLogger(), path)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, models.TablePortfolioSettings, "alice", transform.PortfolioToRow(models.DefaultPortfolio()))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(common.NewSilentLogger(), path)
	require.NoError(t, err)
	defer s.Close()

	row, err := s.SelectOne(ctx, models.TablePortfolioSettings, "alice")
	require.NoError(t, err)
	assert.Equal(t, "10000", row[transform.ColInitialCapital])
}
