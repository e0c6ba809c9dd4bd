package layout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/facetkit/pkg/tree"
)

// DefaultRedisPrefix namespaces the keys written by [RedisStore].
const DefaultRedisPrefix = "facetkit:"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// RedisStore keeps the grid as one JSON string and the state slot as a
// hash of JSON-encoded values, so SetState merges atomically.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStoreFromClient(client, cfg.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client. An empty prefix falls
// back to [DefaultRedisPrefix].
func NewRedisStoreFromClient(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) layoutKey() string { return s.prefix + "layout" }
func (s *RedisStore) stateKey() string  { return s.prefix + "state" }

func (s *RedisStore) Read(ctx context.Context) (tree.Grid, error) {
	data, err := s.client.Get(ctx, s.layoutKey()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get layout: %w", err)
	}
	var grid tree.Grid
	if err := json.Unmarshal(data, &grid); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return grid, nil
}

func (s *RedisStore) Publish(ctx context.Context, grid tree.Grid) error {
	data, err := json.Marshal(grid)
	if err != nil {
		return fmt.Errorf("marshal layout: %w", err)
	}
	if err := s.client.Set(ctx, s.layoutKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set layout: %w", err)
	}
	return nil
}

func (s *RedisStore) State(ctx context.Context) (map[string]any, error) {
	fields, err := s.client.HGetAll(ctx, s.stateKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get state: %w", err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	state := make(map[string]any, len(fields))
	for k, raw := range fields {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("parse state %q: %w", k, err)
		}
		state[k] = v
	}
	return state, nil
}

func (s *RedisStore) SetState(ctx context.Context, patch map[string]any) error {
	if len(patch) == 0 {
		return nil
	}
	values := make([]any, 0, 2*len(patch))
	for k, v := range patch {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal state %q: %w", k, err)
		}
		values = append(values, k, string(data))
	}
	if err := s.client.HSet(ctx, s.stateKey(), values...).Err(); err != nil {
		return fmt.Errorf("redis set state: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ HostStore = (*RedisStore)(nil)
