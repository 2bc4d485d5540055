// Package redis provides Redis storage for gotodo sessions.
//
// Only sessions live here; users and todos stay in the SQL store. Session
// records carry their own expiry, and Redis key TTLs are set to match, so
// expired sessions evict themselves.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aloks98/gotodo/internal/store"
)

// Key prefix for session records.
const prefixSession = "gotodo:session:"

// Store implements store.SessionStore using Redis.
type Store struct {
	client redis.UniversalClient
}

// Config holds Redis store configuration.
type Config struct {
	// Client is an existing Redis client.
	// If provided, other options are ignored.
	Client redis.UniversalClient

	// Addr is the Redis server address (host:port).
	Addr string

	// Password is the Redis password.
	Password string

	// DB is the Redis database number.
	DB int

	// PoolSize is the maximum number of connections.
	PoolSize int
}

// New creates a new Redis session store.
func New(cfg *Config) (*Store, error) {
	var client redis.UniversalClient

	if cfg.Client != nil {
		client = cfg.Client
	} else {
		opts := &redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
		if cfg.PoolSize > 0 {
			opts.PoolSize = cfg.PoolSize
		}
		client = redis.NewClient(opts)
	}

	return &Store{client: client}, nil
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping verifies the Redis connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveSession persists a session with a TTL matching its remaining lifetime.
func (s *Store) SaveSession(ctx context.Context, session *store.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second // Minimum TTL
	}

	return s.client.Set(ctx, prefixSession+session.ID, data, ttl).Err()
}

// GetSession retrieves a session by ID. Returns (nil, nil) if the key is
// missing or already evicted.
func (s *Store) GetSession(ctx context.Context, id string) (*store.Session, error) {
	data, err := s.client.Get(ctx, prefixSession+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var sess store.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session. Deleting a missing key is not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	return s.client.Del(ctx, prefixSession+id).Err()
}

// DeleteExpiredSessions is a no-op for Redis; key TTLs handle expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return 0, nil
}

// Verify Store implements store.SessionStore interface
var _ store.SessionStore = (*Store)(nil)
