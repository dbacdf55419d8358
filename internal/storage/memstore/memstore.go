// Package memstore is an in-process RemoteStore. Rows are normalised through
// JSON on the way in so callers see the same value types a networked store
// returns.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/storage/rowutil"
)

// Store implements interfaces.RemoteStore in memory.
type Store struct {
	mu   sync.RWMutex
	rows map[string]map[string][]models.Row // table -> owner -> rows, oldest first
	now  func() time.Time
}

var _ interfaces.RemoteStore = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		rows: make(map[string]map[string][]models.Row),
		now:  time.Now,
	}
}

func (s *Store) Backend() string { return "memory" }

func (s *Store) Close() error { return nil }

func (s *Store) owned(table, owner string) []models.Row {
	return s.rows[table][owner]
}

func (s *Store) setOwned(table, owner string, rows []models.Row) {
	if s.rows[table] == nil {
		s.rows[table] = make(map[string][]models.Row)
	}
	s.rows[table][owner] = rows
}

func (s *Store) SelectAll(ctx context.Context, table, owner string) ([]models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.owned(table, owner)
	out := make([]models.Row, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		out = append(out, rowutil.Public(rows[i]))
	}
	return out, nil
}

func (s *Store) SelectOne(ctx context.Context, table, owner string) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.owned(table, owner)
	if len(rows) == 0 {
		return nil, interfaces.ErrNoRows
	}
	return rowutil.Public(rows[len(rows)-1]), nil
}

func (s *Store) Insert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	stored, err := rowutil.Normalize(rowutil.Strip(row))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := rowutil.Timestamp(s.now())
	stored[rowutil.ColID] = rowutil.NewID()
	stored[rowutil.ColOwner] = owner
	stored[rowutil.ColCreatedAt] = ts
	stored[rowutil.ColUpdatedAt] = ts
	s.setOwned(table, owner, append(s.owned(table, owner), stored))
	return rowutil.Public(stored), nil
}

func (s *Store) Update(ctx context.Context, table, owner, id string, patch models.Row) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	clean, err := rowutil.Normalize(rowutil.Strip(patch))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.owned(table, owner)
	for i, r := range rows {
		if r[rowutil.ColID] != id {
			continue
		}
		merged := rowutil.Merge(r, clean)
		merged[rowutil.ColUpdatedAt] = rowutil.Timestamp(s.now())
		rows[i] = merged
		return rowutil.Public(merged), nil
	}
	return nil, fmt.Errorf("update %s/%s: %w", table, id, interfaces.ErrNoRows)
}

func (s *Store) Upsert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := check(ctx, table); err != nil {
		return nil, err
	}
	clean, err := rowutil.Normalize(rowutil.Strip(row))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ts := rowutil.Timestamp(s.now())
	rows := s.owned(table, owner)
	if len(rows) > 0 {
		merged := rowutil.Merge(rows[len(rows)-1], clean)
		merged[rowutil.ColUpdatedAt] = ts
		s.setOwned(table, owner, []models.Row{merged})
		return rowutil.Public(merged), nil
	}

	clean[rowutil.ColID] = owner
	clean[rowutil.ColOwner] = owner
	clean[rowutil.ColCreatedAt] = ts
	clean[rowutil.ColUpdatedAt] = ts
	s.setOwned(table, owner, []models.Row{clean})
	return rowutil.Public(clean), nil
}

func (s *Store) Delete(ctx context.Context, table, owner, id string) error {
	if err := check(ctx, table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.owned(table, owner)
	kept := rows[:0:0]
	for _, r := range rows {
		if r[rowutil.ColID] != id {
			kept = append(kept, r)
		}
	}
	s.setOwned(table, owner, kept)
	return nil
}

func (s *Store) DeleteAll(ctx context.Context, table, owner string) error {
	if err := check(ctx, table); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rows[table] != nil {
		delete(s.rows[table], owner)
	}
	return nil
}

// Len returns how many rows owner has in table.
func (s *Store) Len(table, owner string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.owned(table, owner))
}

func check(ctx context.Context, table string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return rowutil.CheckTable(table)
}
