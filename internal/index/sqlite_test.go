package index

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcliao/happy-days/internal/model"
)

func newTestIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	dir := t.TempDir()
	x, err := NewSQLiteIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	t.Cleanup(func() { x.Close() })
	return x
}

func TestPutAndSearch(t *testing.T) {
	ctx := context.Background()
	x := newTestIndex(t)

	x.Put(ctx, "memory-1000", "hello world", "/d/memory-1000.thumb")
	x.Put(ctx, "memory-2000", "Goodbye Moon", "/d/memory-2000.thumb")

	ids, err := x.Search(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 || ids[0] != "memory-1000" {
		t.Fatalf("expected [memory-1000], got %v", ids)
	}

	// Case-insensitive substring
	ids, _ = x.Search(ctx, "MOO")
	if len(ids) != 1 || ids[0] != "memory-2000" {
		t.Fatalf("expected [memory-2000], got %v", ids)
	}

	ids, _ = x.Search(ctx, "o")
	if len(ids) != 2 {
		t.Fatalf("expected 2 results, got %v", ids)
	}
	if ids[0] != "memory-1000" || ids[1] != "memory-2000" {
		t.Errorf("expected index order, got %v", ids)
	}

	ids, _ = x.Search(ctx, "javascript")
	if len(ids) != 0 {
		t.Fatalf("expected 0 results, got %v", ids)
	}
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()
	x := newTestIndex(t)

	x.Put(ctx, "memory-1000", "first take", "thumb")
	// warm the cache so the replace has to invalidate it
	if ids, _ := x.Search(ctx, "first"); len(ids) != 1 {
		t.Fatalf("expected 1 result, got %v", ids)
	}
	x.Put(ctx, "memory-1000", "second take", "thumb")

	n, _ := x.Count(ctx)
	if n != 1 {
		t.Fatalf("expected 1 entry after re-index, got %d", n)
	}
	if ids, _ := x.Search(ctx, "first"); len(ids) != 0 {
		t.Errorf("stale body still matches: %v", ids)
	}
	e, err := x.Get(ctx, "memory-1000")
	if err != nil {
		t.Fatal(err)
	}
	if e.Body != "second take" {
		t.Errorf("expected 'second take', got %q", e.Body)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	x := newTestIndex(t)

	x.Put(ctx, "memory-1000", "hello", "thumb")
	x.Search(ctx, "hello")
	if err := x.Remove(ctx, "memory-1000"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if ids, _ := x.Search(ctx, "hello"); len(ids) != 0 {
		t.Errorf("expected no results after remove, got %v", ids)
	}
	if _, err := x.Get(ctx, "memory-1000"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows, got %v", err)
	}
	// Removing twice is fine
	if err := x.Remove(ctx, "memory-1000"); err != nil {
		t.Errorf("second remove: %v", err)
	}
}

func TestIDs(t *testing.T) {
	ctx := context.Background()
	x := newTestIndex(t)

	x.Put(ctx, "memory-1", "a", "")
	x.Put(ctx, "memory-2", "b", "")

	ids, err := x.IDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []model.ID{"memory-1", "memory-2"}
	if len(ids) != len(want) || ids[0] != want[0] || ids[1] != want[1] {
		t.Errorf("expected %v, got %v", want, ids)
	}
}

func TestSearchCanceled(t *testing.T) {
	x := newTestIndex(t)
	x.Put(context.Background(), "memory-1", "hello", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := x.Search(ctx, "hello"); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestIndexPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "index.db")
	x, err := NewSQLiteIndex(dbPath)
	if err != nil {
		t.Fatalf("create index: %v", err)
	}
	x.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestSearchUnicodeFold(t *testing.T) {
	ctx := context.Background()
	x := newTestIndex(t)

	x.Put(ctx, "memory-1", "Schöne GRÜSSE aus Köln", "")
	ids, err := x.Search(ctx, "grüsse")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 result, got %v", ids)
	}
}
