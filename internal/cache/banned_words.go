package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// BannedWordsKey is the Redis set holding the current banned word list
	BannedWordsKey = "moderation:banned_words"

	// BannedWordsTTL bounds how stale the cached list may get (1 hour)
	BannedWordsTTL = time.Hour
)

// WordLoader supplies the authoritative banned word list on a cache miss.
type WordLoader interface {
	BannedWords(ctx context.Context) ([]string, error)
}

// WordCache defines the interface for banned word cache operations.
type WordCache interface {
	// BannedWords returns the cached list, loading and warming it from the
	// loader when the key is missing or expired.
	BannedWords(ctx context.Context) ([]string, error)

	// WarmCache replaces the cached list.
	// Uses pipeline: DEL + SADD + EXPIRE
	WarmCache(ctx context.Context, words []string) error

	// Invalidate drops the cached list so the next read reloads it.
	Invalidate(ctx context.Context) error
}

// RedisWordCache implements WordCache using a Redis Set.
type RedisWordCache struct {
	client *redis.Client
	loader WordLoader
}

// NewWordCache creates a new WordCache backed by Redis.
func NewWordCache(client *redis.Client, loader WordLoader) WordCache {
	return &RedisWordCache{client: client, loader: loader}
}

// BannedWords reads the set with a single SMEMBERS. A warmed key always
// holds the empty marker, so a reply without it means the key is missing or
// expired and the list is reloaded.
func (c *RedisWordCache) BannedWords(ctx context.Context) ([]string, error) {
	startTime := time.Now()

	members, err := c.client.SMembers(ctx, BannedWordsKey).Result()
	if err != nil {
		log.Printf("[WordCache] SMembers FAILED: err=%v", err)
		return nil, fmt.Errorf("read banned words cache: %w", err)
	}

	words := make([]string, 0, len(members))
	warmed := false
	for _, m := range members {
		if m == emptyMarker {
			warmed = true
			continue
		}
		words = append(words, m)
	}

	if !warmed {
		log.Printf("[WordCache] BannedWords MISS: loading from store")
		words, err := c.loader.BannedWords(ctx)
		if err != nil {
			return nil, fmt.Errorf("load banned words: %w", err)
		}
		if err := c.WarmCache(ctx, words); err != nil {
			// The loaded list is still authoritative.
			log.Printf("[WordCache] WarmCache after miss failed: err=%v", err)
		}
		return words, nil
	}

	log.Printf("[WordCache] BannedWords HIT: words=%d duration=%v", len(words), time.Since(startTime))
	return words, nil
}

// emptyMarker keeps the key alive when the list is empty, since Redis
// deletes empty sets.
const emptyMarker = "\x00"

// WarmCache replaces the cached list using a pipeline.
func (c *RedisWordCache) WarmCache(ctx context.Context, words []string) error {
	startTime := time.Now()

	members := make([]interface{}, 0, len(words)+1)
	members = append(members, emptyMarker)
	for _, w := range words {
		members = append(members, w)
	}

	pipe := c.client.TxPipeline()
	pipe.Del(ctx, BannedWordsKey)
	pipe.SAdd(ctx, BannedWordsKey, members...)
	pipe.Expire(ctx, BannedWordsKey, BannedWordsTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[WordCache] WarmCache FAILED: words=%d err=%v", len(words), err)
		return fmt.Errorf("warm banned words cache: %w", err)
	}

	log.Printf("[WordCache] WarmCache OK: words=%d duration=%v", len(words), time.Since(startTime))
	return nil
}

func (c *RedisWordCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, BannedWordsKey).Err(); err != nil {
		log.Printf("[WordCache] Invalidate FAILED: err=%v", err)
		return fmt.Errorf("invalidate banned words cache: %w", err)
	}
	log.Printf("[WordCache] Invalidate OK")
	return nil
}
