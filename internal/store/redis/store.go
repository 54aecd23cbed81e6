package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/marquee/internal/termstore"
)

// Store persists search terms in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

var _ termstore.Store = (*Store)(nil)
var _ termstore.Pinger = (*Store)(nil)
var _ termstore.Lister = (*Store)(nil)

// NewStore creates a new Redis term store. A zero ttl keeps terms until removed.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves a term; ok is false on a miss
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, TermKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get term: %w", err)
	}
	return v, true, nil
}

// Set stores a term, overwriting any previous value
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, TermKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save term: %w", err)
	}
	return nil
}

// Remove deletes a term
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, TermKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete term: %w", err)
	}
	return nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Keys lists every stored term key (without the Redis prefix)
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, KeyPrefixTerm+"*", 0).Iterator()
	for iter.Next(ctx) {
		if k, ok := ExtractTermKey(iter.Val()); ok {
			keys = append(keys, k)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan terms: %w", err)
	}
	return keys, nil
}
