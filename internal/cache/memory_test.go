package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestCache() *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL: time.Minute,
		MaxSize:    100,
	})
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(got) != "value" {
		t.Errorf("Get() = %q, want %q", got, "value")
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := newTestCache()
	defer c.Close()

	_, err := c.Get(context.Background(), "absent")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "key", []byte("value"), 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	if _, err := c.Get(ctx, "key"); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expired entry should miss, got error %v", err)
	}
}

func TestMemoryCacheValueIsolation(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	original := []byte("value")
	if err := c.Set(ctx, "key", original, 0); err != nil {
		t.Fatal(err)
	}
	original[0] = 'X'

	got, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "value" {
		t.Errorf("cached value mutated externally: %q", got)
	}

	got[0] = 'Y'
	again, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != "value" {
		t.Errorf("cached value mutated via returned slice: %q", again)
	}
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := newTestCache()
	defer c.Close()
	ctx := context.Background()

	keys := []string{"records:Gift:20:0", "records:Gift:20:20", "records:Ad:20:0"}
	for _, k := range keys {
		if err := c.Set(ctx, k, []byte("x"), 0); err != nil {
			t.Fatal(err)
		}
	}

	if err := c.DeletePrefix(ctx, "records:Gift:"); err != nil {
		t.Fatalf("DeletePrefix() error: %v", err)
	}

	for _, k := range []string{"records:Gift:20:0", "records:Gift:20:20"} {
		if _, err := c.Get(ctx, k); !errors.Is(err, ErrCacheMiss) {
			t.Errorf("key %q should have been deleted", k)
		}
	}
	if _, err := c.Get(ctx, "records:Ad:20:0"); err != nil {
		t.Errorf("unrelated key should survive, got error %v", err)
	}
}

func TestMemoryCacheClosed(t *testing.T) {
	c := newTestCache()
	c.Close()

	if err := c.Set(context.Background(), "k", []byte("v"), 0); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Set() after Close should return ErrCacheClosed, got %v", err)
	}
	if _, err := c.Get(context.Background(), "k"); !errors.Is(err, ErrCacheClosed) {
		t.Errorf("Get() after Close should return ErrCacheClosed, got %v", err)
	}
}
