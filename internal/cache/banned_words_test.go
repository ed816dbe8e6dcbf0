package cache_test

import (
	"context"
	"errors"
	"os"
	"sort"
	"testing"

	"github.com/redis/go-redis/v9"

	"blogcomments/internal/cache"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type mockLoader struct {
	words []string
	err   error
	calls int
}

func (m *mockLoader) BannedWords(ctx context.Context) ([]string, error) {
	m.calls++
	return m.words, m.err
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestRedis(t *testing.T) *redis.Client {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		t.Fatalf("Failed to parse Redis URL: %v", err)
	}

	// Use DB 1 for testing to avoid conflicts with dev data
	opts.DB = 1

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

// =============================================================================
// Integration Tests
// =============================================================================

func TestWordCache_MissLoadsAndWarms(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	loader := &mockLoader{words: []string{"fubao", "996"}}
	wc := cache.NewWordCache(client, loader)

	words, err := wc.BannedWords(ctx)
	if err != nil {
		t.Fatalf("BannedWords failed: %v", err)
	}
	if len(words) != 2 {
		t.Errorf("got %v, want 2 words", words)
	}

	// Second read is served from Redis.
	words, err = wc.BannedWords(ctx)
	if err != nil {
		t.Fatalf("BannedWords failed: %v", err)
	}
	sort.Strings(words)
	if len(words) != 2 || words[0] != "996" || words[1] != "fubao" {
		t.Errorf("cached words = %v, want [996 fubao]", words)
	}
	if loader.calls != 1 {
		t.Errorf("loader called %d times, want 1", loader.calls)
	}

	ttl, _ := client.TTL(ctx, cache.BannedWordsKey).Result()
	if ttl <= 0 {
		t.Errorf("cache key has no TTL: %v", ttl)
	}
}

func TestWordCache_EmptyListIsCached(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	loader := &mockLoader{}
	wc := cache.NewWordCache(client, loader)

	for i := 0; i < 2; i++ {
		words, err := wc.BannedWords(ctx)
		if err != nil {
			t.Fatalf("BannedWords failed: %v", err)
		}
		if len(words) != 0 {
			t.Errorf("got %v, want no words", words)
		}
	}
	if loader.calls != 1 {
		t.Errorf("loader called %d times, want 1", loader.calls)
	}
}

func TestWordCache_InvalidateReloads(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	loader := &mockLoader{words: []string{"fubao"}}
	wc := cache.NewWordCache(client, loader)

	if _, err := wc.BannedWords(ctx); err != nil {
		t.Fatalf("BannedWords failed: %v", err)
	}

	loader.words = []string{"fubao", "icu"}
	if err := wc.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}

	words, err := wc.BannedWords(ctx)
	if err != nil {
		t.Fatalf("BannedWords failed: %v", err)
	}
	if len(words) != 2 {
		t.Errorf("got %v after invalidate, want 2 words", words)
	}
}

func TestWordCache_LoaderError(t *testing.T) {
	client := setupTestRedis(t)
	loadErr := errors.New("database down")
	wc := cache.NewWordCache(client, &mockLoader{err: loadErr})

	_, err := wc.BannedWords(context.Background())
	if !errors.Is(err, loadErr) {
		t.Errorf("error = %v, want wrapped %v", err, loadErr)
	}
}

func TestWordCache_SetWithoutMarkerIsMiss(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	loader := &mockLoader{words: []string{"fubao"}}
	wc := cache.NewWordCache(client, loader)

	// A set not written by WarmCache (no marker) must not be trusted.
	client.SAdd(ctx, cache.BannedWordsKey, "stale")

	words, err := wc.BannedWords(ctx)
	if err != nil {
		t.Fatalf("BannedWords failed: %v", err)
	}
	if len(words) != 1 || words[0] != "fubao" {
		t.Errorf("got %v, want [fubao] from the loader", words)
	}
	if loader.calls != 1 {
		t.Errorf("loader called %d times, want 1", loader.calls)
	}
}

func TestWordCache_ExpiredKeyReloads(t *testing.T) {
	client := setupTestRedis(t)
	ctx := context.Background()
	loader := &mockLoader{words: []string{"fubao"}}
	wc := cache.NewWordCache(client, loader)

	if _, err := wc.BannedWords(ctx); err != nil {
		t.Fatalf("BannedWords failed: %v", err)
	}
	// Simulate TTL expiry.
	client.Del(ctx, cache.BannedWordsKey)

	words, err := wc.BannedWords(ctx)
	if err != nil {
		t.Fatalf("BannedWords failed: %v", err)
	}
	if len(words) != 1 {
		t.Errorf("got %v after expiry, want the loader's list", words)
	}
	if loader.calls != 2 {
		t.Errorf("loader called %d times, want 2", loader.calls)
	}
}
