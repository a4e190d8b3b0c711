package session

import (
	"sync"
	"time"

	"storefront/internal/service/cart"
)

type entry struct {
	store    *cart.Store
	lastSeen time.Time
}

type registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func newRegistry() *registry {
	return &registry{
		entries: make(map[string]*entry),
	}
}

func (r *registry) Get(id string, now time.Time) (*cart.Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.store, true
}

// Put registers store under id unless another goroutine got there first, in
// which case the existing store wins.
func (r *registry) Put(id string, store *cart.Store, now time.Time) *cart.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		e.lastSeen = now
		return e.store
	}
	r.entries[id] = &entry{store: store, lastSeen: now}
	return store
}

// EvictIdle drops stores not touched since cutoff. Stores with a call in
// flight are kept so a session never has two stores at once.
func (r *registry) EvictIdle(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) && !e.store.Snapshot().Loading {
			delete(r.entries, id)
			n++
		}
	}
	return n
}

func (r *registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
