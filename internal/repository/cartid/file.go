package cartid

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"storefront/internal/domain"
)

type fileRepo struct {
	dir string
}

// NewFile returns a Repository keeping one small file per key under dir.
func NewFile(dir string) (Repository, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state dir required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &fileRepo{dir: dir}, nil
}

func (r *fileRepo) path(key string) string {
	return filepath.Join(r.dir, base64.RawURLEncoding.EncodeToString([]byte(key))+".cart")
}

func (r *fileRepo) Load(_ context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	data, err := os.ReadFile(r.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", domain.ErrNotFound
	}
	return id, nil
}

func (r *fileRepo) Save(_ context.Context, key, cartID string) error {
	if err := checkSave(key, cartID); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(r.dir, ".cart-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(cartID + "\n"); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), r.path(key))
}

func (r *fileRepo) Clear(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	err := os.Remove(r.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
