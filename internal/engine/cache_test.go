package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("get_video_details", "dQw4w9WgXcQ")
		k2 := CacheKey("get_video_details", "dQw4w9WgXcQ")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("get_video_details", "aaaaaaaaaaa")
		k2 := CacheKey("get_video_details", "bbbbbbbbbbb")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if !strings.HasPrefix(k, "yt:") {
			t.Errorf("expected yt: prefix, got %q", k)
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	CacheSet(ctx, key, []byte(`{"title":"hello"}`))

	got, ok := CacheGet(ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if string(got) != `{"title":"hello"}` {
		t.Errorf("got %q", got)
	}
}

func TestCacheExpiration(t *testing.T) {
	InitCache("", 1*time.Millisecond, 100, 5*time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	CacheSet(ctx, key, []byte("temp"))
	time.Sleep(5 * time.Millisecond)

	if _, ok := CacheGet(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	InitCache("", 1*time.Minute, 3, 5*time.Minute)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		CacheSet(ctx, CacheKey("evict", fmt.Sprintf("item-%d", i)), []byte(fmt.Sprintf("v%d", i)))
	}

	count := 0
	respCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestCacheStats(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	CacheGet(ctx, key)
	if _, misses := CacheStats(); misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	CacheSet(ctx, key, []byte("x"))
	CacheGet(ctx, key)

	hits, misses := CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}

func TestCacheDisabled(t *testing.T) {
	saved := respCache
	respCache = nil
	defer func() { respCache = saved }()

	CacheSet(context.Background(), "k", []byte("v"))
	if _, ok := CacheGet(context.Background(), "k"); ok {
		t.Error("nil cache must always miss")
	}
}
