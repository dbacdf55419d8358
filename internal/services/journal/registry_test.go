package journal

import (
	"context"
	"testing"
	"time"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetLoadsOnce(t *testing.T) {
	store := newFlakyStore()
	r := NewRegistry(store, common.NewSilentLogger())
	defer r.Close()
	ctx := context.Background()

	a, err := r.Get(ctx, "alice")
	require.NoError(t, err)
	calls := store.callCount()

	again, err := r.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, calls, store.callCount())

	b, err := r.Get(ctx, "bob")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
	assert.Equal(t, []string{"alice", "bob"}, r.Owners())
}

func TestRegistry_IsolatesOwners(t *testing.T) {
	r := NewRegistry(newFlakyStore(), common.NewSilentLogger())
	defer r.Close()
	ctx := context.Background()

	alice, err := r.Get(ctx, "alice")
	require.NoError(t, err)
	_, err = alice.AddTrade(ctx, openTrade("AAPL"))
	require.NoError(t, err)

	bob, err := r.Get(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob.Trades())
}

func TestRegistry_FailedLoadIsRetried(t *testing.T) {
	store := newFlakyStore()
	store.failOn("select:trades", errStoreDown)
	r := NewRegistry(store, common.NewSilentLogger())
	defer r.Close()

	_, err := r.Get(context.Background(), "alice")
	require.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, r.Owners())

	store.heal()
	_, err = r.Get(context.Background(), "alice")
	require.NoError(t, err)
}

func TestRegistry_ForwardsEvents(t *testing.T) {
	r := NewRegistry(newFlakyStore(), common.NewSilentLogger())
	defer r.Close()
	ctx := context.Background()

	events, cancel := r.Subscribe(8)
	defer cancel()

	c, err := r.Get(ctx, "alice")
	require.NoError(t, err)
	_, err = c.AddGoal(ctx, models.Goal{Type: models.GoalDaily, Target: 1})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "alice", ev.Owner)
		assert.Equal(t, models.KindGoal, ev.Kind)
	case <-time.After(2 * time.Second):
		t.Fatal("no event forwarded")
	}
}

func TestRegistry_Evict(t *testing.T) {
	r := NewRegistry(newFlakyStore(), common.NewSilentLogger())
	defer r.Close()

	a, err := r.Get(context.Background(), "alice")
	require.NoError(t, err)
	r.Evict("alice")
	assert.Empty(t, r.Owners())

	b, err := r.Get(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}
