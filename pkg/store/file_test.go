package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_SetGetDelete(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer st.Close()
	ctx := context.Background()

	if err := st.Set(ctx, "session:x", "payload"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := st.Get(ctx, "session:x")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Value != "payload" {
		t.Errorf("Value mismatch: got %s", entry.Value)
	}

	if err := st.Delete(ctx, "session:x"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := st.Get(ctx, "session:x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := st.Delete(ctx, "session:x"); err != nil {
		t.Errorf("Delete of missing key returned %v", err)
	}
}

func TestFileStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	st, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := st.Set(ctx, "generation:1", `{"id":"1"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	entry, err := reopened.Get(ctx, "generation:1")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if entry.Value != `{"id":"1"}` {
		t.Errorf("Value mismatch after reopen: got %s", entry.Value)
	}

	if _, err := os.Stat(filepath.Join(dir, "store.json")); err != nil {
		t.Errorf("store file missing: %v", err)
	}
}

func TestFileStore_ListFiltersAndSorts(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	defer st.Close()
	ctx := context.Background()

	for _, k := range []string{"generation:c", "generation:a", "session:z"} {
		if err := st.Set(ctx, k, "{}"); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	keys, err := st.List(ctx, "generation:")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "generation:a" || keys[1] != "generation:c" {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func TestFileStore_Closed(t *testing.T) {
	st, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := st.Set(context.Background(), "k", "v"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("expected ErrStoreClosed, got %v", err)
	}
}
