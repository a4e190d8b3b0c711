package cartid

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain"
)

func exerciseRepository(t *testing.T, repo Repository) {
	t.Helper()
	ctx := context.Background()

	if _, err := repo.Load(ctx, "session-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on empty slot, got %v", err)
	}
	if err := repo.Save(ctx, "session-1", "c1?key=abc"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx, "session-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "c1?key=abc" {
		t.Fatalf("unexpected id %q", got)
	}

	if err := repo.Save(ctx, "session-1", "c2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got, _ := repo.Load(ctx, "session-1"); got != "c2" {
		t.Fatalf("expected overwritten id, got %q", got)
	}
	if _, err := repo.Load(ctx, "session-2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("keys must be isolated, got %v", err)
	}

	if err := repo.Clear(ctx, "session-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, err := repo.Load(ctx, "session-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after clear, got %v", err)
	}
	if err := repo.Clear(ctx, "session-1"); err != nil {
		t.Fatalf("clearing an empty slot should succeed, got %v", err)
	}

	if err := repo.Save(ctx, "", "c1"); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if err := repo.Save(ctx, "session-1", " "); err == nil {
		t.Fatalf("expected error for empty cart id")
	}
}

func TestMemoryRepository(t *testing.T) {
	exerciseRepository(t, NewMemory())
}

func TestFileRepository(t *testing.T) {
	repo, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file repo: %v", err)
	}
	exerciseRepository(t, repo)
}

func TestFileRepository_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	first, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file repo: %v", err)
	}
	if err := first.Save(ctx, "default", "c9"); err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := NewFile(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := second.Load(ctx, "default")
	if err != nil || got != "c9" {
		t.Fatalf("expected persisted id, got %q (%v)", got, err)
	}
}

func TestNewFile_RequiresDir(t *testing.T) {
	if _, err := NewFile(" "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
