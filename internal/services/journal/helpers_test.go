package journal

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/bobmcallan/tradejournal/internal/storage/memstore"
	"github.com/stretchr/testify/require"
)

const testOwner = "owner-1"

var errStoreDown = errors.New("store unavailable")

// flakyStore wraps a RemoteStore, counting calls and failing the operations
// listed in fail. Keys are "<op>" or "<op>:<table>".
type flakyStore struct {
	interfaces.RemoteStore

	mu    sync.Mutex
	calls int
	fail  map[string]error
}

func newFlakyStore() *flakyStore {
	return &flakyStore{RemoteStore: memstore.New(), fail: map[string]error{}}
}

func (s *flakyStore) failOn(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[key] = err
}

func (s *flakyStore) heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = map[string]error{}
}

func (s *flakyStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *flakyStore) hit(op, table string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.fail[op+":"+table]; ok {
		return err
	}
	return s.fail[op]
}

func (s *flakyStore) SelectAll(ctx context.Context, table, owner string) ([]models.Row, error) {
	if err := s.hit("select", table); err != nil {
		return nil, err
	}
	return s.RemoteStore.SelectAll(ctx, table, owner)
}

func (s *flakyStore) SelectOne(ctx context.Context, table, owner string) (models.Row, error) {
	if err := s.hit("select", table); err != nil {
		return nil, err
	}
	return s.RemoteStore.SelectOne(ctx, table, owner)
}

func (s *flakyStore) Insert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := s.hit("insert", table); err != nil {
		return nil, err
	}
	return s.RemoteStore.Insert(ctx, table, owner, row)
}

func (s *flakyStore) Update(ctx context.Context, table, owner, id string, patch models.Row) (models.Row, error) {
	if err := s.hit("update", table); err != nil {
		return nil, err
	}
	return s.RemoteStore.Update(ctx, table, owner, id, patch)
}

func (s *flakyStore) Upsert(ctx context.Context, table, owner string, row models.Row) (models.Row, error) {
	if err := s.hit("upsert", table); err != nil {
		return nil, err
	}
	return s.RemoteStore.Upsert(ctx, table, owner, row)
}

func (s *flakyStore) Delete(ctx context.Context, table, owner, id string) error {
	if err := s.hit("delete", table); err != nil {
		return err
	}
	return s.RemoteStore.Delete(ctx, table, owner, id)
}

func (s *flakyStore) DeleteAll(ctx context.Context, table, owner string) error {
	if err := s.hit("delete_all", table); err != nil {
		return err
	}
	return s.RemoteStore.DeleteAll(ctx, table, owner)
}

// loadedCache returns a cache over a fresh flaky store after LoadAll.
func loadedCache(t *testing.T) (*Cache, *flakyStore) {
	t.Helper()
	store := newFlakyStore()
	c := NewCache(store, testOwner, common.NewSilentLogger())
	_, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, store
}

func openTrade(asset string) models.Trade {
	return models.Trade{
		Date:         "2024-03-01",
		Time:         "09:45",
		Asset:        asset,
		Direction:    models.DirectionLong,
		EntryPrice:   100,
		PositionSize: 10,
		Strategy:     "breakout",
		Tags:         []string{"momentum"},
		IsOpen:       true,
	}
}

func closedTrade(asset string, pnl, fees float64) models.Trade {
	t := openTrade(asset)
	t.IsOpen = false
	t.PnL = models.Float(pnl)
	t.Fees = fees
	return t
}

func ptr[T any](v T) *T { return &v }
