package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Manager hands out one initialized DataStore per tenant slug. Stores are
// built lazily on first access and kept for the life of the process; an
// explicit Invalidate forces a full reload on the next access.
type Manager struct {
	remote RemoteStore
	cache  LocalCache
	log    *zap.Logger

	// created, when set, runs once per new DataStore before its first
	// Initialize. Wiring code uses it to attach change listeners.
	created func(*DataStore)

	mu      sync.Mutex
	stores  map[string]*DataStore
	retired []*DataStore
}

// NewManager builds a Manager. cache may be nil for remote-only operation.
func NewManager(remote RemoteStore, cache LocalCache, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		remote: remote,
		cache:  cache,
		log:    log,
		stores: make(map[string]*DataStore),
	}
}

// OnStoreCreated registers the hook run for every newly constructed store.
// Must be called before the first Store call.
func (m *Manager) OnStoreCreated(fn func(*DataStore)) {
	m.created = fn
}

// Store returns the DataStore for slug, initializing it on first access.
// Unknown tenants return ErrNotFound.
func (m *Manager) Store(ctx context.Context, slug string) (*DataStore, error) {
	m.mu.Lock()
	ds, ok := m.stores[slug]
	m.mu.Unlock()
	if ok {
		return ds, nil
	}

	ds = New(slug, m.remote, m.cache, m.log)
	if m.created != nil {
		m.created(ds)
	}
	if err := ds.Initialize(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	// A concurrent first access may have won; keep the one already stored.
	if existing, ok := m.stores[slug]; ok {
		m.mu.Unlock()
		return existing, nil
	}
	m.stores[slug] = ds
	m.mu.Unlock()
	return ds, nil
}

// Invalidate drops the store for slug so the next access reloads both
// sources. Used after a slug change, which does not repoint the old route.
// The dropped store is kept until Wait so its in-flight forwards still
// drain.
func (m *Manager) Invalidate(slug string) {
	m.mu.Lock()
	if ds, ok := m.stores[slug]; ok {
		m.retired = append(m.retired, ds)
		delete(m.stores, slug)
	}
	m.mu.Unlock()
}

// Wait drains in-flight remote forwards across all stores, including ones
// already invalidated.
func (m *Manager) Wait() {
	m.mu.Lock()
	stores := make([]*DataStore, 0, len(m.stores)+len(m.retired))
	for _, ds := range m.stores {
		stores = append(stores, ds)
	}
	stores = append(stores, m.retired...)
	m.retired = nil
	m.mu.Unlock()

	for _, ds := range stores {
		ds.Wait()
	}
}
