package cartid

import (
	"context"
	"errors"
	"strings"
)

// Repository persists one cart identifier per shopper key. Load returns
// domain.ErrNotFound when nothing is stored for the key.
type Repository interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, cartID string) error
	Clear(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

var errEmptyKey = errors.New("cart id key required")

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errEmptyKey
	}
	return nil
}

func checkSave(key, cartID string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if strings.TrimSpace(cartID) == "" {
		return errors.New("cart id required")
	}
	return nil
}
