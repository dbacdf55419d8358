package journal

import (
	"context"
	"slices"
	"sync"

	"github.com/bobmcallan/tradejournal/internal/common"
	"github.com/bobmcallan/tradejournal/internal/interfaces"
	"github.com/bobmcallan/tradejournal/internal/models"
)

// Registry holds one loaded Cache per owner over a shared store.
type Registry struct {
	store  interfaces.RemoteStore
	logger *common.Logger

	mu     sync.RWMutex
	caches map[string]*Cache
	loads  *keyLock
	events *broadcaster
	wg     sync.WaitGroup
}

// NewRegistry creates an empty registry.
func NewRegistry(store interfaces.RemoteStore, logger *common.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
		caches: make(map[string]*Cache),
		loads:  newKeyLock(),
		events: newBroadcaster(),
	}
}

// Get returns the cache for owner, loading it on first use. A failed load is
// not remembered; the next Get retries.
func (r *Registry) Get(ctx context.Context, owner string) (*Cache, error) {
	if c := r.lookup(owner); c != nil {
		return c, nil
	}

	unlock := r.loads.Lock(owner)
	defer unlock()
	if c := r.lookup(owner); c != nil {
		return c, nil
	}

	c := NewCache(r.store, owner, r.logger)
	if _, err := c.LoadAll(ctx); err != nil {
		c.Close()
		return nil, err
	}

	r.mu.Lock()
	r.caches[owner] = c
	r.mu.Unlock()
	r.forward(c)

	r.logger.Info().Str("owner", owner).Msg("Journal cache loaded")
	return c, nil
}

func (r *Registry) lookup(owner string) *Cache {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.caches[owner]
}

// forward relays the cache's change events to registry subscribers.
func (r *Registry) forward(c *Cache) {
	ch, _ := c.Subscribe(64)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		for ev := range ch {
			r.events.publish(ev)
		}
	}()
}

// Subscribe returns change events from every cache in the registry.
func (r *Registry) Subscribe(buffer int) (<-chan models.ChangeEvent, func()) {
	return r.events.subscribe(buffer)
}

// Owners returns the ids of all loaded caches, sorted.
func (r *Registry) Owners() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owners := make([]string, 0, len(r.caches))
	for id := range r.caches {
		owners = append(owners, id)
	}
	slices.Sort(owners)
	return owners
}

// Evict drops the cache for owner; the next Get reloads it.
func (r *Registry) Evict(owner string) {
	r.mu.Lock()
	c, ok := r.caches[owner]
	delete(r.caches, owner)
	r.mu.Unlock()
	if ok {
		c.Close()
	}
}

// Close closes every cache and ends all subscriptions.
func (r *Registry) Close() {
	r.mu.Lock()
	caches := r.caches
	r.caches = make(map[string]*Cache)
	r.mu.Unlock()

	for _, c := range caches {
		c.Close()
	}
	r.wg.Wait()
	r.events.close()
}
