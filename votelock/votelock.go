// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package votelock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrTimeout = errors.New("timed out waiting for vote lock")

// Locker serializes work on a key across requests.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Key builds the lock key for one session voting on one poll.
func Key(pollID int64, sessionID string) string {
	return fmt.Sprintf("vote-lock:%d:%s", pollID, sessionID)
}

// Nop never blocks. The store's unique index still rejects duplicates.
type Nop struct{}

func (Nop) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

// Deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a Locker backed by SET NX with an expiry.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{
		client: client,
		ttl:    5 * time.Second,
		wait:   2 * time.Second,
		retry:  25 * time.Millisecond,
	}
}

// Connect parses a redis:// URL and verifies the server responds.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

func (l *Redis) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire vote lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	unlock := func() {
		// The request context may already be canceled here.
		if err := releaseScript.Run(context.Background(), l.client, []string{key}, token).Err(); err != nil {
			slog.Warn("failed to release vote lock", "key", key, "error", err)
		}
	}
	return unlock, nil
}
