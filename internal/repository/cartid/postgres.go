package cartid

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by the session_carts table.
func NewPostgres(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

func (r *PostgresRepo) Load(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	const q = `
SELECT cart_id
FROM session_carts
WHERE session_key = $1
`
	var cartID string
	if err := r.pool.QueryRow(ctx, q, key).Scan(&cartID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return cartID, nil
}

func (r *PostgresRepo) Save(ctx context.Context, key, cartID string) error {
	if err := checkSave(key, cartID); err != nil {
		return err
	}
	const q = `
INSERT INTO session_carts (session_key, cart_id)
VALUES ($1, $2)
ON CONFLICT (session_key) DO UPDATE
SET cart_id = EXCLUDED.cart_id,
    updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, key, cartID)
	return err
}

func (r *PostgresRepo) Clear(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM session_carts WHERE session_key = $1`, key)
	return err
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// DeleteOlderThan removes ids not saved since cutoff and reports how many went.
func (r *PostgresRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM session_carts WHERE updated_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
