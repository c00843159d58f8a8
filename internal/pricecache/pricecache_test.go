package pricecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	c, err := New("redis://"+mr.Addr(), "", time.Minute)
	if err != nil {
		mr.Close()
		t.Fatalf("New: %v", err)
	}
	return c, mr
}

func TestGetMissing(t *testing.T) {
	c, mr := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	if _, ok := c.Get(context.Background(), "0xABC"); ok {
		t.Error("Get should miss for unknown token")
	}
}

func TestSetAndGet(t *testing.T) {
	c, mr := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", 3021.55)

	got, ok := c.Get(ctx, "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	if !ok {
		t.Fatal("Get should hit after Set, case-insensitively")
	}
	if got != 3021.55 {
		t.Errorf("Get = %v, want 3021.55", got)
	}
}

func TestTTLExpiry(t *testing.T) {
	c, mr := setupTestCache(t)
	defer mr.Close()
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "0xabc", 1.0)
	mr.FastForward(2 * time.Minute)

	if _, ok := c.Get(ctx, "0xabc"); ok {
		t.Error("entry should expire after the TTL")
	}
}

func TestNewBadURL(t *testing.T) {
	if _, err := New("not-a-url", "", time.Minute); err == nil {
		t.Error("New should reject an invalid Redis URL")
	}
}
