// Package redisstore is a Redis-backed sessionstore.Store, grounded on
// dexidp/dex's storage/redis package (storage/redis/redis.go): JSON-encode
// the record, key it under a fixed prefix, and let Redis's native
// expiration do what dex's package there does with a manual GC sweep over
// an Expiry field — here the backing SET/EXPIRE calls let Redis itself
// enforce spec.md §4.2's "MUST expire entries at or before now+ttl".
// go-redis/v9 is the client library (the version every pack repo with a
// Redis dependency — Abraxas-365-manifesto, baechuer-real-time-ressys,
// streamspace-dev-streamspace — pins).
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/andr171p/ssoauth/sessionstore"
)

// Store is a Redis-backed sessionstore.Store[T] keyed under a fixed prefix.
type Store[T any] struct {
	client *redis.Client
	prefix string
}

// New returns a Store talking to client, keyed as prefix+id.
func New[T any](client *redis.Client, prefix string) *Store[T] {
	return &Store[T]{client: client, prefix: prefix}
}

func (s *Store[T]) BuildKey(id string) string {
	return s.prefix + id
}

func (s *Store[T]) Add(ctx context.Context, id string, value T, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.BuildKey(id), data, ttl).Err()
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	raw, err := s.client.Get(ctx, s.BuildKey(id)).Bytes()
	if err == redis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.BuildKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store[T]) Pop(ctx context.Context, id string) (T, bool, error) {
	var zero T
	key := s.BuildKey(id)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	// Best-effort delete: a miss here just means another caller already
	// consumed the key, matching spec.md §4.2's "missed get returns
	// absent without deleting" contract for the loser of the race.
	s.client.Del(ctx, key)

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (s *Store[T]) RefreshTTL(ctx context.Context, id string, ttl time.Duration) (T, bool, error) {
	var zero T
	key := s.BuildKey(id)
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return zero, false, err
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false, err
	}
	return value, true, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Del(ctx, s.BuildKey(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var _ sessionstore.Store[struct{}] = (*Store[struct{}])(nil)

// Options mirrors the REDIS_* environment inputs spec.md §6 names.
type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       int
}

// NewClient builds a *redis.Client from Options.
func NewClient(o Options) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     o.Host + ":" + o.Port,
		Username: o.User,
		Password: o.Password,
		DB:       o.DB,
	})
}
