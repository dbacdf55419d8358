package journal

import (
	"context"
	"fmt"
	"slices"

	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/services/balance"
	"github.com/bobmcallan/tradejournal/internal/transform"
)

// PortfolioUpdate derives the next portfolio from the current one.
type PortfolioUpdate func(prev models.Portfolio) models.Portfolio

// SettingsUpdate derives the next settings from the current ones.
type SettingsUpdate func(prev models.UserSettings) models.UserSettings

// ReplacePortfolio returns an update that installs v regardless of the
// previous value.
func ReplacePortfolio(v models.Portfolio) PortfolioUpdate {
	return func(models.Portfolio) models.Portfolio { return v.Clone() }
}

// PatchPortfolio returns an update that writes the present patch fields.
func PatchPortfolio(p models.PortfolioPatch) PortfolioUpdate {
	return p.Apply
}

// ReplaceSettings returns an update that installs v regardless of the
// previous value.
func ReplaceSettings(v models.UserSettings) SettingsUpdate {
	return func(models.UserSettings) models.UserSettings { return v }
}

// PatchSettings returns an update that writes the present patch fields.
func PatchSettings(p models.SettingsPatch) SettingsUpdate {
	return p.Apply
}

// adjustBalance applies the balance change of a trade moving from prev to
// next. A zero delta writes nothing. The caller holds c.bulk shared across
// the trade write and this call, so a reload cannot count the change twice.
func (c *Cache) adjustBalance(ctx context.Context, prev, next models.Trade) error {
	delta := balance.Delta(prev, next)
	if delta == 0 {
		return nil
	}

	unlock := c.locks.Lock(portfolioKey)
	defer unlock()

	c.mu.RLock()
	current := c.snap.Portfolio.CurrentBalance
	c.mu.RUnlock()

	updated := balance.Apply(current, delta)
	row := models.Row{transform.ColCurrentBalance: updated}
	if _, err := c.store.Upsert(ctx, models.TablePortfolioSettings, c.owner, row); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	c.mu.Lock()
	c.snap.Portfolio.CurrentBalance = updated
	c.mu.Unlock()

	c.logger.Debug().
		Str("owner", c.owner).
		Float64("delta", delta).
		Float64("balance", updated).
		Msg("Portfolio balance adjusted")
	c.publish(models.KindPortfolio, models.OpUpdated, "")
	return nil
}

// SetPortfolio applies update to the cached portfolio. Deposits and
// withdrawals appended by the update are inserted one at a time and the
// balance is then reconciled; existing transactions may not be removed or
// reordered. Without new transactions the scalar fields, including
// currentBalance, are written as given.
func (c *Cache) SetPortfolio(ctx context.Context, update PortfolioUpdate) (models.Portfolio, error) {
	if err := c.ensureLoaded(); err != nil {
		return models.Portfolio{}, err
	}
	c.bulk.RLock()
	defer c.bulk.RUnlock()
	unlock := c.locks.Lock(portfolioKey)
	defer unlock()

	c.mu.RLock()
	prev := c.snap.Portfolio.Clone()
	trades := slices.Clone(c.snap.Trades)
	c.mu.RUnlock()

	next := update(prev.Clone()).Clone()

	newDeposits, err := appended(prev.Deposits, next.Deposits)
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("deposits: %w", err)
	}
	newWithdrawals, err := appended(prev.Withdrawals, next.Withdrawals)
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("withdrawals: %w", err)
	}

	storedDeposits, err := c.insertTransactions(ctx, newDeposits, models.TransactionDeposit)
	if err != nil {
		return models.Portfolio{}, err
	}
	storedWithdrawals, err := c.insertTransactions(ctx, newWithdrawals, models.TransactionWithdrawal)
	if err != nil {
		return models.Portfolio{}, err
	}

	next.Deposits = append(slices.Clone(prev.Deposits), storedDeposits...)
	next.Withdrawals = append(slices.Clone(prev.Withdrawals), storedWithdrawals...)
	if len(storedDeposits)+len(storedWithdrawals) > 0 {
		next.CurrentBalance = balance.ReconcilePortfolio(next, trades)
	}

	row, err := c.store.Upsert(ctx, models.TablePortfolioSettings, c.owner, transform.PortfolioToRow(next))
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("failed to save portfolio: %w", err)
	}
	stored, err := transform.PortfolioFromRow(row)
	if err != nil {
		return models.Portfolio{}, fmt.Errorf("failed to read stored portfolio: %w", err)
	}
	stored.Deposits = next.Deposits
	stored.Withdrawals = next.Withdrawals

	c.mu.Lock()
	c.snap.Portfolio = stored
	c.mu.Unlock()

	c.publish(models.KindPortfolio, models.OpUpdated, "")
	return stored.Clone(), nil
}

// AddDeposit appends a deposit to the portfolio.
func (c *Cache) AddDeposit(ctx context.Context, tx models.Transaction) (models.Portfolio, error) {
	tx.Type = models.TransactionDeposit
	return c.SetPortfolio(ctx, func(p models.Portfolio) models.Portfolio {
		p.Deposits = append(p.Deposits, tx)
		return p
	})
}

// AddWithdrawal appends a withdrawal to the portfolio. The amount is not
// checked against the balance.
func (c *Cache) AddWithdrawal(ctx context.Context, tx models.Transaction) (models.Portfolio, error) {
	tx.Type = models.TransactionWithdrawal
	return c.SetPortfolio(ctx, func(p models.Portfolio) models.Portfolio {
		p.Withdrawals = append(p.Withdrawals, tx)
		return p
	})
}

// appended returns the tail of next beyond prev, failing if next does not
// start with prev unchanged.
func appended(prev, next []models.Transaction) ([]models.Transaction, error) {
	if len(next) < len(prev) {
		return nil, ErrAppendOnly
	}
	for i := range prev {
		if !sameTransaction(prev[i], next[i]) {
			return nil, fmt.Errorf("transaction %s changed: %w", prev[i].ID, ErrAppendOnly)
		}
	}
	return next[len(prev):], nil
}

// sameTransaction compares the stored fields of a and b. CreatedAt is owned
// by the store and ignored.
func sameTransaction(a, b models.Transaction) bool {
	return a.ID == b.ID &&
		a.Date == b.Date &&
		a.Amount == b.Amount &&
		a.Type == b.Type &&
		a.Description == b.Description
}

func (c *Cache) insertTransactions(ctx context.Context, txs []models.Transaction, typ models.TransactionType) ([]models.Transaction, error) {
	stored := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		tx.Type = typ
		row, err := c.store.Insert(ctx, models.TableTransactions, c.owner, transform.TransactionToRow(tx))
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", typ, err)
		}
		s, err := transform.TransactionFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("failed to read stored %s: %w", typ, err)
		}
		stored = append(stored, s)
	}
	return stored, nil
}

// SetUserSettings applies update to the cached settings and writes the
// result.
func (c *Cache) SetUserSettings(ctx context.Context, update SettingsUpdate) (models.UserSettings, error) {
	if err := c.ensureLoaded(); err != nil {
		return models.UserSettings{}, err
	}
	c.bulk.RLock()
	defer c.bulk.RUnlock()
	unlock := c.locks.Lock(settingsKey)
	defer unlock()

	c.mu.RLock()
	prev := c.snap.UserSettings
	c.mu.RUnlock()

	next := update(prev)
	row, err := c.store.Upsert(ctx, models.TableUserSettings, c.owner, transform.UserSettingsToRow(next))
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to save settings: %w", err)
	}
	stored, err := transform.UserSettingsFromRow(row)
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to read stored settings: %w", err)
	}

	c.mu.Lock()
	c.snap.UserSettings = stored
	c.mu.Unlock()

	c.publish(models.KindUserSettings, models.OpUpdated, "")
	return stored, nil
}
