package journal

import (
	"context"
	"testing"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/impexp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seed fills c with one of everything.
func seed(t *testing.T, c *Cache) {
	t.Helper()
	ctx := context.Background()

	_, err := c.SetPortfolio(ctx, PatchPortfolio(models.PortfolioPatch{InitialCapital: ptr(2000.0)}))
	require.NoError(t, err)
	_, err = c.AddDeposit(ctx, models.Transaction{Date: "2024-01-02", Amount: 500, Description: "top up"})
	require.NoError(t, err)
	_, err = c.AddWithdrawal(ctx, models.Transaction{Date: "2024-01-05", Amount: 100})
	require.NoError(t, err)

	_, err = c.AddTrade(ctx, closedTrade("AAPL", 150, 10))
	require.NoError(t, err)
	_, err = c.AddTrade(ctx, openTrade("MSFT"))
	require.NoError(t, err)
	_, err = c.AddAsset(ctx, models.Asset{Symbol: "AAPL", Name: "Apple", Category: models.AssetStocks, Exchange: "NASDAQ", IsActive: true})
	require.NoError(t, err)
	_, err = c.AddGoal(ctx, models.Goal{Type: models.GoalMonthly, Target: 1000, Current: 140, Deadline: "2024-03-31", IsActive: true, Priority: models.PriorityHigh, Category: models.GoalProfit})
	require.NoError(t, err)
	_, err = c.AddJournalEntry(ctx, models.JournalEntry{Date: "2024-03-01", Title: "Patience", Content: "Waited for the retest", Mood: models.MoodPositive, Tags: []string{"discipline"}})
	require.NoError(t, err)
	_, err = c.SetUserSettings(ctx, PatchSettings(models.SettingsPatch{Theme: ptr(models.ThemeDark)}))
	require.NoError(t, err)
}

// contents strips store-assigned identity so documents can be compared.
func contents(doc models.ExportDocument) models.ExportDocument {
	doc.ExportDate = time.Time{}
	for i := range doc.Trades {
		doc.Trades[i].ID, doc.Trades[i].CreatedAt = "", time.Time{}
	}
	for i := range doc.Assets {
		doc.Assets[i].ID, doc.Assets[i].CreatedAt = "", time.Time{}
	}
	for i := range doc.Goals {
		doc.Goals[i].ID, doc.Goals[i].CreatedAt = "", time.Time{}
	}
	for i := range doc.JournalEntries {
		doc.JournalEntries[i].ID, doc.JournalEntries[i].CreatedAt = "", time.Time{}
	}
	if doc.Portfolio != nil {
		for i := range doc.Portfolio.Deposits {
			doc.Portfolio.Deposits[i].ID, doc.Portfolio.Deposits[i].CreatedAt = "", time.Time{}
		}
		for i := range doc.Portfolio.Withdrawals {
			doc.Portfolio.Withdrawals[i].ID, doc.Portfolio.Withdrawals[i].CreatedAt = "", time.Time{}
		}
	}
	return doc
}

func TestExport_CarriesEverything(t *testing.T) {
	c, _ := loadedCache(t)
	seed(t, c)

	now := time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC)
	doc := c.Export(now)
	assert.Equal(t, models.ExportVersion, doc.Version)
	assert.Equal(t, now, doc.ExportDate)
	assert.Len(t, doc.Trades, 2)
	assert.Equal(t, "MSFT", doc.Trades[0].Asset)
	require.NotNil(t, doc.Portfolio)
	assert.Equal(t, 2000.0+500-100+140, doc.Portfolio.CurrentBalance)
	require.NotNil(t, doc.UserSettings)
	assert.Equal(t, models.ThemeDark, doc.UserSettings.Theme)
}

func TestImportExport_RoundTrip(t *testing.T) {
	src, _ := loadedCache(t)
	seed(t, src)
	original := src.Export(time.Now())

	data, err := impexp.Encode(original, impexp.FormatJSON)
	require.NoError(t, err)

	dst, _ := loadedCache(t)
	_, err = dst.AddTrade(context.Background(), openTrade("STALE"))
	require.NoError(t, err)

	require.True(t, dst.Import(context.Background(), data))
	assert.Equal(t, contents(src.Export(time.Now())), contents(dst.Export(time.Now())))

	// Identity is assigned by the destination store.
	assert.NotEqual(t, original.Trades[0].ID, dst.Trades()[0].ID)
}

func TestImportExport_RoundTripMsgpack(t *testing.T) {
	src, _ := loadedCache(t)
	seed(t, src)

	data, err := impexp.Encode(src.Export(time.Now()), impexp.FormatMsgpack)
	require.NoError(t, err)

	dst, _ := loadedCache(t)
	require.True(t, dst.Import(context.Background(), data))
	assert.Equal(t, contents(src.Export(time.Now())), contents(dst.Export(time.Now())))
}

func TestImport_InvalidJSONMakesNoStoreCalls(t *testing.T) {
	c, store := loadedCache(t)
	calls := store.callCount()

	assert.False(t, c.Import(context.Background(), []byte("{invalid json")))
	assert.Equal(t, calls, store.callCount())
}

func TestImport_LeavesAbsentKindsAlone(t *testing.T) {
	c, _ := loadedCache(t)
	ctx := context.Background()

	_, err := c.AddGoal(ctx, models.Goal{Type: models.GoalDaily, Target: 3})
	require.NoError(t, err)

	ok := c.Import(ctx, []byte(`{"trades": [{"date": "2024-01-01", "asset": "ETH", "direction": "short", "entryPrice": 3000, "positionSize": 1, "isOpen": true}], "exportDate": "2024-01-02T00:00:00Z"}`))
	require.True(t, ok)

	require.Len(t, c.Trades(), 1)
	assert.Equal(t, "ETH", c.Trades()[0].Asset)
	assert.Len(t, c.Goals(), 1)
}

func TestImport_StoreFailureReturnsFalse(t *testing.T) {
	src, _ := loadedCache(t)
	seed(t, src)
	data, err := impexp.Encode(src.Export(time.Now()), impexp.FormatJSON)
	require.NoError(t, err)

	dst, store := loadedCache(t)
	store.failOn("insert:goals", errStoreDown)
	assert.False(t, dst.Import(context.Background(), data))
}

func TestImport_RejectsNewerVersion(t *testing.T) {
	c, store := loadedCache(t)
	calls := store.callCount()
	assert.False(t, c.Import(context.Background(), []byte(`{"version": 99, "trades": []}`)))
	assert.Equal(t, calls, store.callCount())
}

func TestImport_RejectsDocumentWithoutData(t *testing.T) {
	c, store := loadedCache(t)
	_, err := c.AddGoal(context.Background(), models.Goal{Type: models.GoalDaily, Target: 3})
	require.NoError(t, err)
	calls := store.callCount()

	assert.False(t, c.Import(context.Background(), []byte(`null`)))
	assert.False(t, c.Import(context.Background(), []byte(`{"exportDate": "2024-01-02T00:00:00Z"}`)))
	assert.Equal(t, calls, store.callCount())
	assert.Len(t, c.Goals(), 1)
}

// An export of an untouched journal still imports.
func TestImport_EmptyJournalExportRoundTrips(t *testing.T) {
	src, _ := loadedCache(t)
	data, err := impexp.Encode(src.Export(time.Now()), impexp.FormatJSON)
	require.NoError(t, err)

	dst, _ := loadedCache(t)
	assert.True(t, dst.Import(context.Background(), data))
}

func TestReset_RestoresDefaults(t *testing.T) {
	c, _ := loadedCache(t)
	seed(t, c)

	snap, err := c.Reset(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Trades)
	assert.Empty(t, snap.Assets)
	assert.Empty(t, snap.Goals)
	assert.Empty(t, snap.JournalEntries)
	assert.Equal(t, models.DefaultPortfolio(), snap.Portfolio)
	assert.Equal(t, models.DefaultUserSettings(), snap.UserSettings)
}

func TestImport_ReloadsIntoFreshCache(t *testing.T) {
	src, _ := loadedCache(t)
	seed(t, src)
	data, err := impexp.Encode(src.Export(time.Now()), impexp.FormatJSON)
	require.NoError(t, err)

	dst, store := loadedCache(t)
	require.True(t, dst.Import(context.Background(), data))

	// A second cache over the same store sees the imported data.
	other := NewCache(store, testOwner, common.NewSilentLogger())
	_, err = other.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contents(dst.Export(time.Now())), contents(other.Export(time.Now())))
}
