package cache

import (
	"context"
	"testing"
	"time"

	"github.com/marginote/readsync/internal/readlist"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	article := readlist.Article{
		Slug:  "test-article",
		Title: "Test Article",
	}

	if err := cache.Set(ctx, "test-article", article); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	retrieved, err := cache.Get(ctx, "test-article")
	if err != nil {
		t.Fatalf("Failed to get cache entry: %v", err)
	}

	if retrieved.Article.Title != "Test Article" {
		t.Errorf("Expected title 'Test Article', got '%s'", retrieved.Article.Title)
	}

	exists, err := cache.Exists(ctx, "test-article")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if !exists {
		t.Error("Expected slug to exist")
	}

	if _, err := cache.Get(ctx, "non-existent"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestMemoryCacheExpiration(t *testing.T) {
	cache := NewMemoryCache(50 * time.Millisecond)
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "test-article", readlist.Article{Slug: "test-article"}); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	exists, err := cache.Exists(ctx, "test-article")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}
	if !exists {
		t.Error("Expected slug to exist immediately after setting")
	}

	time.Sleep(100 * time.Millisecond)

	if _, err := cache.Get(ctx, "test-article"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after expiration, got %v", err)
	}
}

func TestMemoryCacheDelete(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	if err := cache.Set(ctx, "test-article", readlist.Article{Slug: "test-article"}); err != nil {
		t.Fatalf("Failed to set cache entry: %v", err)
	}

	if err := cache.Delete(ctx, "test-article"); err != nil {
		t.Fatalf("Failed to delete cache entry: %v", err)
	}

	if _, err := cache.Get(ctx, "test-article"); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after deletion, got %v", err)
	}
}

func TestMemoryCacheClear(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	cache.Set(ctx, "one", readlist.Article{Slug: "one"})
	cache.Set(ctx, "two", readlist.Article{Slug: "two"})

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	stats, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	if stats.TotalEntries != 0 {
		t.Errorf("Expected 0 entries after clear, got %d", stats.TotalEntries)
	}
}

func TestMemoryCacheStats(t *testing.T) {
	cache := NewMemoryCache(1 * time.Hour)
	defer cache.Close()
	ctx := context.Background()

	cache.Set(ctx, "test-article", readlist.Article{Slug: "test-article"})

	cache.Get(ctx, "test-article") // hit
	cache.Get(ctx, "missing")      // miss

	stats, err := cache.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	if stats.TotalEntries != 1 {
		t.Errorf("Expected 1 entry, got %d", stats.TotalEntries)
	}

	if stats.HitCount != 1 {
		t.Errorf("Expected 1 hit, got %d", stats.HitCount)
	}

	if stats.MissCount != 1 {
		t.Errorf("Expected 1 miss, got %d", stats.MissCount)
	}

	if stats.HitRate != 0.5 {
		t.Errorf("Expected hit rate 0.5, got %v", stats.HitRate)
	}
}
