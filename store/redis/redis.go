package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smallnest/graphflow/graph"
)

// RedisSessionStorage implements graph.SessionStorage using Redis. Sessions
// are stored as JSON blobs under a prefixed key, optionally with a TTL so
// abandoned conversations expire on their own.
type RedisSessionStorage struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ graph.SessionStorage = (*RedisSessionStorage)(nil)

// RedisOptions configuration for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string        // Key prefix, default "graphflow:"
	TTL      time.Duration // Expiration for sessions, default 0 (no expiration)
}

// NewRedisSessionStorage creates a new Redis session storage
func NewRedisSessionStorage(opts RedisOptions) *RedisSessionStorage {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "graphflow:"
	}

	return &RedisSessionStorage{
		client: client,
		prefix: prefix,
		ttl:    opts.TTL,
	}
}

// NewRedisSessionStorageWithClient creates a session storage with an
// existing client. Useful for testing with miniredis.
func NewRedisSessionStorageWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisSessionStorage {
	if prefix == "" {
		prefix = "graphflow:"
	}
	return &RedisSessionStorage{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (s *RedisSessionStorage) sessionKey(id string) string {
	return fmt.Sprintf("%ssession:%s", s.prefix, id)
}

// Close closes the underlying client
func (s *RedisSessionStorage) Close() error {
	return s.client.Close()
}

// Save stores the session as a JSON blob
func (s *RedisSessionStorage) Save(ctx context.Context, session *graph.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.sessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return &graph.StorageError{Op: "save session", Err: err}
	}
	return nil
}

// Get loads a session by id. A missing id returns (nil, nil).
func (s *RedisSessionStorage) Get(ctx context.Context, id string) (*graph.Session, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, &graph.StorageError{Op: "get session", Err: err}
	}

	session := &graph.Session{Context: graph.NewContext()}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return session, nil
}

// Delete removes a session by id
func (s *RedisSessionStorage) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.sessionKey(id)).Err(); err != nil {
		return &graph.StorageError{Op: "delete session", Err: err}
	}
	return nil
}
