package store

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupRedisStore(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	st := NewRedisStoreFromClient(client, "test:")

	t.Cleanup(func() {
		_ = st.Close()
	})

	return mr, st
}

func TestRedisStore_SetAndGet(t *testing.T) {
	_, st := setupRedisStore(t)
	ctx := context.Background()

	if err := st.Set(ctx, "session:abc", `{"sessionId":"abc"}`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	entry, err := st.Get(ctx, "session:abc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if entry.Key != "session:abc" {
		t.Errorf("Key mismatch: got %s, want session:abc", entry.Key)
	}
	if entry.Value != `{"sessionId":"abc"}` {
		t.Errorf("Value mismatch: got %s", entry.Value)
	}
}

func TestRedisStore_Get_NotFound(t *testing.T) {
	_, st := setupRedisStore(t)

	_, err := st.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisStore_Delete(t *testing.T) {
	_, st := setupRedisStore(t)
	ctx := context.Background()

	if err := st.Set(ctx, "generation:1", "{}"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := st.Delete(ctx, "generation:1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := st.Get(ctx, "generation:1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := st.Delete(ctx, "generation:1"); err != nil {
		t.Errorf("Delete of missing key returned %v", err)
	}
}

func TestRedisStore_List(t *testing.T) {
	_, st := setupRedisStore(t)
	ctx := context.Background()

	keys := []string{"generation:b", "generation:a", "session:x"}
	for _, k := range keys {
		if err := st.Set(ctx, k, "{}"); err != nil {
			t.Fatalf("Set %s failed: %v", k, err)
		}
	}

	got, err := st.List(ctx, "generation:")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(got), got)
	}
	if got[0] != "generation:a" || got[1] != "generation:b" {
		t.Errorf("expected sorted keys without prefix, got %v", got)
	}
}

func TestRedisStore_List_Empty(t *testing.T) {
	_, st := setupRedisStore(t)

	got, err := st.List(context.Background(), "session:")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no keys, got %v", got)
	}
}

func TestRedisStore_Closed(t *testing.T) {
	_, st := setupRedisStore(t)
	ctx := context.Background()

	if err := st.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := st.Get(ctx, "k"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Get after close: expected ErrStoreClosed, got %v", err)
	}
	if err := st.Set(ctx, "k", "v"); !errors.Is(err, ErrStoreClosed) {
		t.Errorf("Set after close: expected ErrStoreClosed, got %v", err)
	}

	// Second close is a no-op.
	if err := st.Close(); err != nil {
		t.Errorf("second Close returned %v", err)
	}
}
