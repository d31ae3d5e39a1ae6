package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// pingTimeout bounds the startup connectivity check. Session reads and
// writes take their deadlines from the request context.
const pingTimeout = 5 * time.Second

// Connect dials the Redis instance that backs the session store and proves
// connectivity with a ping. Sessions are the only state kept here, so an
// unreachable Redis means nobody can log in and startup should fail loudly.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
