package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/p-n-ai/competency-compass/internal/platform/cache"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := cache.New(t.Context(), cache.Options{URL: "redis://" + mr.Addr(), Prefix: "compass:snapshot:"})
	if err != nil {
		t.Fatalf("cache.New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })

	store, err := NewRedisStore(c, time.Minute)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	return store, mr
}

func TestRedisStore_PutGet(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := t.Context()

	in := Snapshot{
		Filename:    "competency_comparison.csv",
		ContentType: "text/csv",
		Data:        []byte("Topic,File 1\nT1,Apply\n"),
	}
	id, err := store.Put(ctx, in)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if id != ID(in) {
		t.Errorf("Put() id = %q, want the content address %q", id, ID(in))
	}
	if !mr.Exists("compass:snapshot:" + id) {
		t.Errorf("snapshot should be stored under the key prefix, have %v", mr.Keys())
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Filename != in.Filename || got.ContentType != in.ContentType || string(got.Data) != string(in.Data) {
		t.Errorf("Get() = %+v, want %+v", got, in)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should survive the round trip")
	}
}

func TestRedisStore_NotFound(t *testing.T) {
	store, _ := newTestRedisStore(t)

	if _, err := store.Get(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := t.Context()

	id, err := store.Put(ctx, Snapshot{Filename: "a.csv", Data: []byte("x")})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	mr.FastForward(59 * time.Second)
	if _, err := store.Get(ctx, id); err != nil {
		t.Fatalf("Get() before expiry error = %v", err)
	}

	mr.FastForward(time.Second)
	if _, err := store.Get(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t)

	mr.Set("compass:snapshot:bad", "not json")
	_, err := store.Get(t.Context(), "bad")
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want a decode error", err)
	}
}

func TestRedisStore_HealthCheck(t *testing.T) {
	store, mr := newTestRedisStore(t)

	if err := store.HealthCheck(t.Context()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
	mr.Close()
	if err := store.HealthCheck(t.Context()); err == nil {
		t.Error("HealthCheck() should fail once the server is gone")
	}
}
