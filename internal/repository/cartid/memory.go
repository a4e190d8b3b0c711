package cartid

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

type memoryRepo struct {
	mu  sync.RWMutex
	ids map[string]string
}

// NewMemory returns a process-local Repository.
func NewMemory() Repository {
	return &memoryRepo{ids: make(map[string]string)}
}

func (r *memoryRepo) Load(_ context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	r.mu.RLock()
	id, ok := r.ids[key]
	r.mu.RUnlock()
	if !ok {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (r *memoryRepo) Save(_ context.Context, key, cartID string) error {
	if err := checkSave(key, cartID); err != nil {
		return err
	}
	r.mu.Lock()
	r.ids[key] = cartID
	r.mu.Unlock()
	return nil
}

func (r *memoryRepo) Clear(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	r.mu.Lock()
	delete(r.ids, key)
	r.mu.Unlock()
	return nil
}
