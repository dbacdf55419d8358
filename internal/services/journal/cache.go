// Package journal provides the in-memory cache and mutation façade for one
// owner's trading journal. All writes go to the RemoteStore first and reach
// the cache only once the store has acknowledged them.
package journal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/balance"
	"github.com/bobmcallan/tradejournal/internal/transform"
)

// Lock keys for the two singletons. Collection entities lock "<table>/<id>".
const (
	portfolioKey = "portfolio"
	settingsKey  = "user_settings"
)

// Cache owns the snapshot for a single owner.
type Cache struct {
	store  interfaces.RemoteStore
	owner  string
	logger *common.Logger
	now    func() time.Time

	mu     sync.RWMutex
	snap   models.Snapshot
	loaded bool

	// bulk is held shared by single-entity writes and exclusively by
	// LoadAll, Import and Reset.
	bulk   sync.RWMutex
	locks  *keyLock
	events *broadcaster
}

// NewCache creates an empty cache for owner. Call LoadAll before mutating.
func NewCache(store interfaces.RemoteStore, owner string, logger *common.Logger) *Cache {
	return &Cache{
		store:  store,
		owner:  owner,
		logger: logger,
		now:    time.Now,
		snap:   models.EmptySnapshot(),
		locks:  newKeyLock(),
		events: newBroadcaster(),
	}
}

// Owner returns the identity this cache serves.
func (c *Cache) Owner() string { return c.owner }

// Loaded reports whether LoadAll has completed successfully at least once.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Subscribe returns a channel of change events and a cancel func. Events are
// dropped for a subscriber whose buffer is full.
func (c *Cache) Subscribe(buffer int) (<-chan models.ChangeEvent, func()) {
	return c.events.subscribe(buffer)
}

// Close ends all subscriptions. The store is not closed.
func (c *Cache) Close() {
	c.events.close()
}

func (c *Cache) publish(kind models.EntityKind, op models.ChangeOp, id string) {
	ev := models.ChangeEvent{Owner: c.owner, Kind: kind, Op: op, ID: id, At: c.now().UTC()}
	if dropped := c.events.publish(ev); dropped > 0 {
		c.logger.Debug().Str("kind", string(kind)).Int("dropped", dropped).Msg("Change event dropped for slow subscribers")
	}
}

// Snapshot returns a deep copy of the cached state.
func (c *Cache) Snapshot() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Clone()
}

func (c *Cache) Trades() []models.Trade {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Trade, len(c.snap.Trades))
	for i, t := range c.snap.Trades {
		out[i] = t.Clone()
	}
	return out
}

func (c *Cache) Assets() []models.Asset {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.snap.Assets)
}

func (c *Cache) Goals() []models.Goal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.snap.Goals)
}

func (c *Cache) JournalEntries() []models.JournalEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.JournalEntry, len(c.snap.JournalEntries))
	for i, e := range c.snap.JournalEntries {
		out[i] = e.Clone()
	}
	return out
}

func (c *Cache) Portfolio() models.Portfolio {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.Portfolio.Clone()
}

func (c *Cache) UserSettings() models.UserSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.UserSettings
}

func (c *Cache) ensureLoaded() error {
	if !c.Loaded() {
		return ErrNotLoaded
	}
	return nil
}

// shared takes c.bulk for reading and returns the release func.
func (c *Cache) shared() func() {
	c.bulk.RLock()
	return c.bulk.RUnlock
}

// LoadAll queries every table concurrently and replaces the snapshot once
// all queries have settled. Missing singletons are created with defaults.
// A stored balance that disagrees with the ledger is corrected. On any
// failure the previous snapshot is kept and the failures are joined.
// LoadAll waits for in-flight writes to finish.
func (c *Cache) LoadAll(ctx context.Context) (models.Snapshot, error) {
	c.bulk.Lock()
	defer c.bulk.Unlock()
	return c.loadAll(ctx)
}

// loadAll is LoadAll for callers already holding c.bulk exclusively.
func (c *Cache) loadAll(ctx context.Context) (models.Snapshot, error) {
	var (
		wg       sync.WaitGroup
		trades   []models.Trade
		assets   []models.Asset
		goals    []models.Goal
		entries  []models.JournalEntry
		txs      []models.Transaction
		pf       models.Portfolio
		settings models.UserSettings
		errs     = make([]error, 7)
	)

	run := func(i int, fn func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn()
		}()
	}

	run(0, func() (err error) {
		trades, err = loadList(ctx, c, models.TableTrades, transform.TradeFromRow)
		return err
	})
	run(1, func() (err error) {
		assets, err = loadList(ctx, c, models.TableAssets, transform.AssetFromRow)
		return err
	})
	run(2, func() (err error) {
		goals, err = loadList(ctx, c, models.TableGoals, transform.GoalFromRow)
		return err
	})
	run(3, func() (err error) {
		entries, err = loadList(ctx, c, models.TableJournalEntries, transform.JournalEntryFromRow)
		return err
	})
	run(4, func() (err error) {
		txs, err = loadList(ctx, c, models.TableTransactions, transform.TransactionFromRow)
		return err
	})
	run(5, func() (err error) {
		pf, err = loadSingleton(ctx, c, models.TablePortfolioSettings,
			transform.PortfolioFromRow, transform.PortfolioToRow, models.DefaultPortfolio)
		return err
	})
	run(6, func() (err error) {
		settings, err = loadSingleton(ctx, c, models.TableUserSettings,
			transform.UserSettingsFromRow, transform.UserSettingsToRow, models.DefaultUserSettings)
		return err
	})

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		c.logger.Warn().Err(err).Str("owner", c.owner).Msg("Journal load failed, keeping previous snapshot")
		return models.Snapshot{}, fmt.Errorf("failed to load journal: %w", err)
	}

	// Transactions arrive newest first; the portfolio keeps them oldest first.
	slices.Reverse(txs)
	for _, tx := range txs {
		if tx.Type == models.TransactionDeposit {
			pf.Deposits = append(pf.Deposits, tx)
		} else {
			pf.Withdrawals = append(pf.Withdrawals, tx)
		}
	}

	if want := balance.ReconcilePortfolio(pf, trades); want != pf.CurrentBalance {
		c.logger.Info().
			Str("owner", c.owner).
			Float64("stored", pf.CurrentBalance).
			Float64("reconciled", want).
			Msg("Correcting portfolio balance drift")
		pf.CurrentBalance = want
		row := models.Row{transform.ColCurrentBalance: want}
		if _, err := c.store.Upsert(ctx, models.TablePortfolioSettings, c.owner, row); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to persist reconciled balance")
		}
	}

	snap := models.Snapshot{
		Trades:         trades,
		Assets:         assets,
		Goals:          goals,
		JournalEntries: entries,
		Portfolio:      pf,
		UserSettings:   settings,
		LoadedAt:       c.now().UTC(),
	}

	c.mu.Lock()
	c.snap = snap
	c.loaded = true
	out := c.snap.Clone()
	c.mu.Unlock()

	c.logger.Debug().
		Str("owner", c.owner).
		Int("trades", len(trades)).
		Int("assets", len(assets)).
		Int("goals", len(goals)).
		Int("journal", len(entries)).
		Int("transactions", len(txs)).
		Msg("Journal loaded")

	c.publish(models.KindSnapshot, models.OpLoaded, "")
	return out, nil
}

// loadList reads a collection table. Rows that fail to parse are logged and
// left out.
func loadList[T any](ctx context.Context, c *Cache, table string, fromRow func(models.Row) (T, error)) ([]T, error) {
	rows, err := c.store.SelectAll(ctx, table, c.owner)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		v, err := fromRow(row)
		if err != nil {
			c.dropRecord(table, err)
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// loadSingleton reads a singleton row, creating it with defaults when the
// owner has none.
func loadSingleton[T any](ctx context.Context, c *Cache, table string, fromRow func(models.Row) (T, error), toRow func(T) models.Row, def func() T) (T, error) {
	row, err := c.store.SelectOne(ctx, table, c.owner)
	if errors.Is(err, interfaces.ErrNoRows) {
		v := def()
		if _, err := c.store.Upsert(ctx, table, c.owner, toRow(v)); err != nil {
			var zero T
			return zero, fmt.Errorf("create default %s: %w", table, err)
		}
		c.logger.Info().Str("owner", c.owner).Str("table", table).Msg("Created default row")
		return v, nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("select %s: %w", table, err)
	}
	v, err := fromRow(row)
	if err != nil {
		c.dropRecord(table, err)
		return def(), nil
	}
	return v, nil
}

func (c *Cache) dropRecord(table string, err error) {
	var pe *transform.ParseError
	ev := c.logger.Warn().Str("owner", c.owner).Str("table", table).Err(err)
	if errors.As(err, &pe) {
		ev = ev.Str("id", pe.ID).Str("field", pe.Field)
	}
	ev.Msg("Dropping unparseable record")
}
