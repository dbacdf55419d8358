package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/impexp"
	"github.com/bobmcallan/tradejournal/internal/transform"
)

// Export returns the cached state as a portable document stamped with now.
func (c *Cache) Export(now time.Time) models.ExportDocument {
	snap := c.Snapshot()
	return models.ExportDocument{
		Version:        models.ExportVersion,
		Trades:         snap.Trades,
		Portfolio:      &snap.Portfolio,
		Goals:          snap.Goals,
		JournalEntries: snap.JournalEntries,
		UserSettings:   &snap.UserSettings,
		Assets:         snap.Assets,
		ExportDate:     now.UTC(),
	}
}

// Import parses a JSON or MessagePack export and replaces the stored data
// for every kind it contains. It returns false, without touching the store,
// when data cannot be parsed, and false when any store step fails; earlier
// steps are not rolled back.
func (c *Cache) Import(ctx context.Context, data []byte) bool {
	doc, err := impexp.Decode(data, impexp.Detect(data))
	if err != nil {
		c.logger.Warn().Err(err).Str("owner", c.owner).Msg("Import rejected")
		return false
	}
	if err := c.ImportDocument(ctx, doc); err != nil {
		c.logger.Error().Err(err).Str("owner", c.owner).Msg("Import failed, store may be partially overwritten")
		return false
	}
	return true
}

// ImportDocument replaces stored data with doc, kind by kind, then reloads
// the cache from the store so ids and timestamps are the store's own.
// Kinds absent from doc (nil) are left as they are.
func (c *Cache) ImportDocument(ctx context.Context, doc models.ExportDocument) error {
	c.bulk.Lock()
	defer c.bulk.Unlock()

	if doc.Trades != nil {
		if err := replaceAll(ctx, c, tradeCollection, doc.Trades); err != nil {
			return err
		}
	}
	if doc.Assets != nil {
		if err := replaceAll(ctx, c, assetCollection, doc.Assets); err != nil {
			return err
		}
	}
	if doc.Goals != nil {
		if err := replaceAll(ctx, c, goalCollection, doc.Goals); err != nil {
			return err
		}
	}
	if doc.JournalEntries != nil {
		if err := replaceAll(ctx, c, journalCollection, doc.JournalEntries); err != nil {
			return err
		}
	}
	if doc.Portfolio != nil {
		if err := c.replacePortfolio(ctx, *doc.Portfolio); err != nil {
			return err
		}
	}
	if doc.UserSettings != nil {
		if _, err := c.store.Upsert(ctx, models.TableUserSettings, c.owner, transform.UserSettingsToRow(*doc.UserSettings)); err != nil {
			return fmt.Errorf("import settings: %w", err)
		}
	}

	if _, err := c.loadAll(ctx); err != nil {
		return fmt.Errorf("reload after import: %w", err)
	}
	c.logger.Info().
		Str("owner", c.owner).
		Int("trades", len(doc.Trades)).
		Int("assets", len(doc.Assets)).
		Int("goals", len(doc.Goals)).
		Int("journal", len(doc.JournalEntries)).
		Msg("Import complete")
	c.publish(models.KindSnapshot, models.OpReplaced, "")
	return nil
}

// replaceAll deletes every row of the collection and inserts items oldest
// first so the store's newest-first order matches the document.
func replaceAll[T any, P any](ctx context.Context, c *Cache, col collection[T, P], items []T) error {
	if err := c.store.DeleteAll(ctx, col.table, c.owner); err != nil {
		return fmt.Errorf("import %s: clear: %w", col.table, err)
	}
	for i := len(items) - 1; i >= 0; i-- {
		if _, err := c.store.Insert(ctx, col.table, c.owner, col.toRow(items[i])); err != nil {
			return fmt.Errorf("import %s: insert: %w", col.table, err)
		}
	}
	return nil
}

func (c *Cache) replacePortfolio(ctx context.Context, p models.Portfolio) error {
	if err := c.store.DeleteAll(ctx, models.TableTransactions, c.owner); err != nil {
		return fmt.Errorf("import transactions: clear: %w", err)
	}
	for _, tx := range p.Deposits {
		tx.Type = models.TransactionDeposit
		if _, err := c.store.Insert(ctx, models.TableTransactions, c.owner, transform.TransactionToRow(tx)); err != nil {
			return fmt.Errorf("import transactions: insert: %w", err)
		}
	}
	for _, tx := range p.Withdrawals {
		tx.Type = models.TransactionWithdrawal
		if _, err := c.store.Insert(ctx, models.TableTransactions, c.owner, transform.TransactionToRow(tx)); err != nil {
			return fmt.Errorf("import transactions: insert: %w", err)
		}
	}
	if _, err := c.store.Upsert(ctx, models.TablePortfolioSettings, c.owner, transform.PortfolioToRow(p)); err != nil {
		return fmt.Errorf("import portfolio: %w", err)
	}
	return nil
}

// Reset deletes every stored row for the owner and reloads, which recreates
// the default portfolio and settings.
func (c *Cache) Reset(ctx context.Context) (models.Snapshot, error) {
	c.bulk.Lock()
	defer c.bulk.Unlock()

	for _, table := range models.AllTables() {
		if err := c.store.DeleteAll(ctx, table, c.owner); err != nil {
			return models.Snapshot{}, fmt.Errorf("reset %s: %w", table, err)
		}
	}
	snap, err := c.loadAll(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	c.logger.Info().Str("owner", c.owner).Msg("Journal reset")
	c.publish(models.KindSnapshot, models.OpReplaced, "")
	return snap, nil
}
