package room

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// stateCacheTTL bounds staleness if an invalidation is ever missed
const stateCacheTTL = 5 * time.Minute

// Cache keeps recently read room snapshots in Redis. Every mutation to a
// room invalidates its entry before splits are recomputed.
type Cache struct {
	client *redis.Client
}

// NewCache creates a Redis-backed state cache
func NewCache(redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Cache{client: client}, nil
}

// GetState returns the cached snapshot for a room code, or nil on a miss
func (c *Cache) GetState(ctx context.Context, code string) (*State, error) {
	data, err := c.client.Get(ctx, stateKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	return state, nil
}

// SetState stores a room snapshot
func (c *Cache) SetState(ctx context.Context, code string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, stateKey(code), data, stateCacheTTL).Err()
}

// Invalidate drops the cached snapshot for a room code
func (c *Cache) Invalidate(ctx context.Context, code string) error {
	return c.client.Del(ctx, stateKey(code)).Err()
}

// Close releases the underlying Redis connection
func (c *Cache) Close() error {
	return c.client.Close()
}

func stateKey(code string) string {
	return "room:state:" + code
}
