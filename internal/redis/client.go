package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup reachability check.
const pingTimeout = 2 * time.Second

// Client is the shared connection used by the banned word cache and the
// audit stream.
type Client struct {
	*redis.Client
}

// Connect parses redisURL (redis://[:password@]host:port[/db]) and verifies
// the server answers. Callers treat an error as "run without Redis".
func Connect(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	c := &Client{Client: redis.NewClient(opts)}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	startTime := time.Now()
	if err := c.Client.Ping(pingCtx).Err(); err != nil {
		c.Client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	log.Printf("[Redis] Connected: addr=%s db=%d duration=%v", opts.Addr, opts.DB, time.Since(startTime))
	return c, nil
}
