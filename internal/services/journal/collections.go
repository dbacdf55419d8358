package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/transform"
)

// collection describes one cached, most-recent-first entity sequence.
type collection[T any, P any] struct {
	kind     models.EntityKind
	table    string
	fromRow  func(models.Row) (T, error)
	toRow    func(T) models.Row
	patchRow func(P) models.Row
	id       func(T) string
	clone    func(T) T
	list     func(*models.Snapshot) *[]T
}

func identity[T any](v T) T { return v }

var (
	tradeCollection = collection[models.Trade, models.TradePatch]{
		kind:     models.KindTrade,
		table:    models.TableTrades,
		fromRow:  transform.TradeFromRow,
		toRow:    transform.TradeToRow,
		patchRow: transform.TradePatchToRow,
		id:       func(t models.Trade) string { return t.ID },
		clone:    models.Trade.Clone,
		list:     func(s *models.Snapshot) *[]models.Trade { return &s.Trades },
	}
	assetCollection = collection[models.Asset, models.AssetPatch]{
		kind:     models.KindAsset,
		table:    models.TableAssets,
		fromRow:  transform.AssetFromRow,
		toRow:    transform.AssetToRow,
		patchRow: transform.AssetPatchToRow,
		id:       func(a models.Asset) string { return a.ID },
		clone:    identity[models.Asset],
		list:     func(s *models.Snapshot) *[]models.Asset { return &s.Assets },
	}
	goalCollection = collection[models.Goal, models.GoalPatch]{
		kind:     models.KindGoal,
		table:    models.TableGoals,
		fromRow:  transform.GoalFromRow,
		toRow:    transform.GoalToRow,
		patchRow: transform.GoalPatchToRow,
		id:       func(g models.Goal) string { return g.ID },
		clone:    identity[models.Goal],
		list:     func(s *models.Snapshot) *[]models.Goal { return &s.Goals },
	}
	journalCollection = collection[models.JournalEntry, models.JournalPatch]{
		kind:     models.KindJournalEntry,
		table:    models.TableJournalEntries,
		fromRow:  transform.JournalEntryFromRow,
		toRow:    transform.JournalEntryToRow,
		patchRow: transform.JournalPatchToRow,
		id:       func(e models.JournalEntry) string { return e.ID },
		clone:    models.JournalEntry.Clone,
		list:     func(s *models.Snapshot) *[]models.JournalEntry { return &s.JournalEntries },
	}
)

func lockKey(table, id string) string { return table + "/" + id }

// find returns the cached entity with id.
func find[T any, P any](c *Cache, col collection[T, P], id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, v := range *col.list(&c.snap) {
		if col.id(v) == id {
			return col.clone(v), true
		}
	}
	var zero T
	return zero, false
}

// addEntity inserts v and prepends the stored result to the cache.
// addEntity, updateEntity and removeEntity expect c.bulk held shared.
func addEntity[T any, P any](ctx context.Context, c *Cache, col collection[T, P], v T) (T, error) {
	var zero T
	if err := c.ensureLoaded(); err != nil {
		return zero, err
	}

	row, err := c.store.Insert(ctx, col.table, c.owner, col.toRow(v))
	if err != nil {
		return zero, fmt.Errorf("failed to add %s: %w", col.kind, err)
	}
	stored, err := col.fromRow(row)
	if err != nil {
		return zero, fmt.Errorf("failed to read stored %s: %w", col.kind, err)
	}

	c.mu.Lock()
	list := col.list(&c.snap)
	*list = append([]T{stored}, *list...)
	c.mu.Unlock()

	c.publish(col.kind, models.OpAdded, col.id(stored))
	return col.clone(stored), nil
}

// updateEntity sends the patch for id and replaces the cached entity with
// the stored result. It returns the previous cached value too.
func updateEntity[T any, P any](ctx context.Context, c *Cache, col collection[T, P], id string, patch P) (prev, next T, err error) {
	if err = c.ensureLoaded(); err != nil {
		return prev, next, err
	}
	unlock := c.locks.Lock(lockKey(col.table, id))
	defer unlock()

	prev, ok := find(c, col, id)
	if !ok {
		return prev, next, fmt.Errorf("%s %s: %w", col.kind, id, ErrNotFound)
	}

	row, err := c.store.Update(ctx, col.table, c.owner, id, col.patchRow(patch))
	if err != nil {
		if errors.Is(err, interfaces.ErrNoRows) {
			return prev, next, fmt.Errorf("%s %s: %w", col.kind, id, ErrNotFound)
		}
		return prev, next, fmt.Errorf("failed to update %s %s: %w", col.kind, id, err)
	}
	next, err = col.fromRow(row)
	if err != nil {
		return prev, next, fmt.Errorf("failed to read stored %s: %w", col.kind, err)
	}

	c.mu.Lock()
	list := *col.list(&c.snap)
	for i := range list {
		if col.id(list[i]) == id {
			list[i] = next
			break
		}
	}
	c.mu.Unlock()

	c.publish(col.kind, models.OpUpdated, id)
	return prev, col.clone(next), nil
}

// removeEntity deletes id remotely and then from the cache. A failed delete
// leaves the cache untouched.
func removeEntity[T any, P any](ctx context.Context, c *Cache, col collection[T, P], id string) (T, error) {
	var zero T
	if err := c.ensureLoaded(); err != nil {
		return zero, err
	}
	unlock := c.locks.Lock(lockKey(col.table, id))
	defer unlock()

	prev, ok := find(c, col, id)
	if !ok {
		return zero, fmt.Errorf("%s %s: %w", col.kind, id, ErrNotFound)
	}

	if err := c.store.Delete(ctx, col.table, c.owner, id); err != nil {
		return zero, fmt.Errorf("failed to remove %s %s: %w", col.kind, id, err)
	}

	c.mu.Lock()
	list := col.list(&c.snap)
	for i := range *list {
		if col.id((*list)[i]) == id {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.publish(col.kind, models.OpRemoved, id)
	return prev, nil
}

// AddTrade stores t. A trade added already closed with a pnl moves the
// balance as a second write; if that write fails the stored trade is
// returned together with the error.
func (c *Cache) AddTrade(ctx context.Context, t models.Trade) (models.Trade, error) {
	defer c.shared()()
	stored, err := addEntity(ctx, c, tradeCollection, t)
	if err != nil {
		return models.Trade{}, err
	}
	if stored.Realized() {
		if err := c.adjustBalance(ctx, models.Trade{}, stored); err != nil {
			return stored, err
		}
	}
	return stored, nil
}

// UpdateTrade applies patch to trade id. Closing a trade with a pnl, or
// editing the result of a closed one, moves the balance by the change in
// its contribution.
func (c *Cache) UpdateTrade(ctx context.Context, id string, patch models.TradePatch) (models.Trade, error) {
	defer c.shared()()
	prev, next, err := updateEntity(ctx, c, tradeCollection, id, patch)
	if err != nil {
		return models.Trade{}, err
	}
	if err := c.adjustBalance(ctx, prev, next); err != nil {
		return next, err
	}
	return next, nil
}

// RemoveTrade deletes trade id and reverses its contribution to the balance.
func (c *Cache) RemoveTrade(ctx context.Context, id string) error {
	defer c.shared()()
	prev, err := removeEntity(ctx, c, tradeCollection, id)
	if err != nil {
		return err
	}
	return c.adjustBalance(ctx, prev, models.Trade{})
}

func (c *Cache) AddAsset(ctx context.Context, a models.Asset) (models.Asset, error) {
	defer c.shared()()
	return addEntity(ctx, c, assetCollection, a)
}

func (c *Cache) UpdateAsset(ctx context.Context, id string, patch models.AssetPatch) (models.Asset, error) {
	defer c.shared()()
	_, next, err := updateEntity(ctx, c, assetCollection, id, patch)
	return next, err
}

func (c *Cache) RemoveAsset(ctx context.Context, id string) error {
	defer c.shared()()
	_, err := removeEntity(ctx, c, assetCollection, id)
	return err
}

func (c *Cache) AddGoal(ctx context.Context, g models.Goal) (models.Goal, error) {
	defer c.shared()()
	return addEntity(ctx, c, goalCollection, g)
}

func (c *Cache) UpdateGoal(ctx context.Context, id string, patch models.GoalPatch) (models.Goal, error) {
	defer c.shared()()
	_, next, err := updateEntity(ctx, c, goalCollection, id, patch)
	return next, err
}

func (c *Cache) RemoveGoal(ctx context.Context, id string) error {
	defer c.shared()()
	_, err := removeEntity(ctx, c, goalCollection, id)
	return err
}

func (c *Cache) AddJournalEntry(ctx context.Context, e models.JournalEntry) (models.JournalEntry, error) {
	defer c.shared()()
	return addEntity(ctx, c, journalCollection, e)
}

func (c *Cache) UpdateJournalEntry(ctx context.Context, id string, patch models.JournalPatch) (models.JournalEntry, error) {
	defer c.shared()()
	_, next, err := updateEntity(ctx, c, journalCollection, id, patch)
	return next, err
}

func (c *Cache) RemoveJournalEntry(ctx context.Context, id string) error {
	defer c.shared()()
	_, err := removeEntity(ctx, c, journalCollection, id)
	return err
}
