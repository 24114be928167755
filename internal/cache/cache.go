package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/marginote/readsync/internal/readlist"
)

// ErrCacheMiss is returned when a slug has no live entry
var ErrCacheMiss = errors.New("cache miss")

// Entry is a cached article with bookkeeping
type Entry struct {
	Slug        string           `json:"slug"`
	Article     readlist.Article `json:"article"`
	CreatedAt   time.Time        `json:"created_at"`
	ExpiresAt   time.Time        `json:"expires_at"`
	AccessedAt  time.Time        `json:"accessed_at"`
	AccessCount int              `json:"access_count"`
}

// Stats represents cache statistics
type Stats struct {
	TotalEntries int     `json:"total_entries"`
	HitCount     int64   `json:"hit_count"`
	MissCount    int64   `json:"miss_count"`
	HitRate      float64 `json:"hit_rate"`
}

// MemoryCache holds fetched articles keyed by slug with TTL expiry
type MemoryCache struct {
	entries   map[string]*Entry
	mutex     sync.RWMutex
	duration  time.Duration
	hitCount  int64
	missCount int64
	stopChan  chan struct{}
}

// NewMemoryCache creates a new in-memory article cache
func NewMemoryCache(duration time.Duration) *MemoryCache {
	cache := &MemoryCache{
		entries:  make(map[string]*Entry),
		duration: duration,
		stopChan: make(chan struct{}),
	}

	// Start cleanup goroutine
	go cache.cleanup()

	return cache
}

// Get retrieves the cached article for a slug
func (c *MemoryCache) Get(ctx context.Context, slug string) (*Entry, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[slug]
	if !exists {
		c.missCount++
		return nil, ErrCacheMiss
	}

	if time.Now().After(entry.ExpiresAt) {
		delete(c.entries, slug)
		c.missCount++
		return nil, ErrCacheMiss
	}

	entry.AccessedAt = time.Now()
	entry.AccessCount++
	c.hitCount++

	return entry, nil
}

// Set stores an article under its slug
func (c *MemoryCache) Set(ctx context.Context, slug string, article readlist.Article) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[slug] = &Entry{
		Slug:       slug,
		Article:    article,
		CreatedAt:  now,
		ExpiresAt:  now.Add(c.duration),
		AccessedAt: now,
	}
	return nil
}

// Delete removes the entry for a slug
func (c *MemoryCache) Delete(ctx context.Context, slug string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, slug)
	return nil
}

// Exists checks if a slug has a live entry
func (c *MemoryCache) Exists(ctx context.Context, slug string) (bool, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[slug]
	if !exists {
		return false, nil
	}
	return time.Now().Before(entry.ExpiresAt), nil
}

// Clear removes all entries
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*Entry)
	return nil
}

// GetStats returns cache statistics
func (c *MemoryCache) GetStats(ctx context.Context) (*Stats, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := &Stats{
		TotalEntries: len(c.entries),
		HitCount:     c.hitCount,
		MissCount:    c.missCount,
	}

	if total := c.hitCount + c.missCount; total > 0 {
		stats.HitRate = float64(c.hitCount) / float64(total)
	}

	return stats, nil
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() {
	close(c.stopChan)
}

// cleanup periodically drops expired entries
func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopChan:
			return
		}
	}
}

func (c *MemoryCache) removeExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	for slug, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			delete(c.entries, slug)
		}
	}
}
