package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestStore(t *testing.T) *ValkeyStore {
	t.Helper()

	srv := miniredis.RunT(t)
	store, err := NewValkeyStore(ValkeyConfig{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("NewValkeyStore failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestValkeyStore_SetGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "CustomerImages:cust:img-1", []byte(`{"status":"active"}`), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := store.Get(ctx, "CustomerImages:cust:img-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != `{"status":"active"}` {
		t.Errorf("Get = %s", val)
	}
}

func TestValkeyStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Get(context.Background(), "nope"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestValkeyStore_LastWriteWins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("first"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "k", []byte("second"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(val) != "second" {
		t.Errorf("duplicate key should be overwritten, got %s", val)
	}
}

func TestValkeyStore_TTLExpiry(t *testing.T) {
	srv := miniredis.RunT(t)
	store, err := NewValkeyStore(ValkeyConfig{Addr: srv.Addr()})
	if err != nil {
		t.Fatalf("NewValkeyStore failed: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), 30*24*time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Advance the server clock past the TTL.
	srv.FastForward(30*24*time.Hour + time.Second)

	if _, err := store.Get(ctx, "k"); err != ErrNotFound {
		t.Errorf("expected expiry after TTL, got %v", err)
	}
}

func TestValkeyStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get(ctx, "k"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing key is not an error.
	if err := store.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) = %v", err)
	}
}

func TestValkeyStore_Ping(t *testing.T) {
	store := newTestStore(t)
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}
