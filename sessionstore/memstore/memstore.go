// Package memstore is an in-memory sessionstore.Store, grounded on
// dexidp/dex's storage/memory package: a mutex-guarded map with lazy
// expiry checked on every read, rather than a background sweep. Concurrent
// writers to distinct keys are safe; per spec.md §5, session contents are
// write-once at creation and only TTL-extended afterward, so no
// per-key locking beyond the map mutex is needed.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/andr171p/ssoauth/sessionstore"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e entry[T]) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Store is an in-memory sessionstore.Store[T] keyed under a fixed prefix.
type Store[T any] struct {
	prefix string
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]entry[T]
}

// New returns a Store whose keys are prefix+id (spec.md §6: "session:<uuid>").
func New[T any](prefix string) *Store[T] {
	return &Store[T]{
		prefix:  prefix,
		now:     time.Now,
		entries: make(map[string]entry[T]),
	}
}

func (s *Store[T]) BuildKey(id string) string {
	return s.prefix + id
}

func (s *Store[T]) Add(ctx context.Context, id string, value T, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key := s.BuildKey(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{value: value, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, bool, error) {
	key := s.BuildKey(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		var zero T
		return zero, false, nil
	}
	return e.value, true, nil
}

func (s *Store[T]) Exists(ctx context.Context, id string) (bool, error) {
	_, ok, err := s.Get(ctx, id)
	return ok, err
}

func (s *Store[T]) Pop(ctx context.Context, id string) (T, bool, error) {
	key := s.BuildKey(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		var zero T
		return zero, false, nil
	}
	delete(s.entries, key)
	return e.value, true, nil
}

func (s *Store[T]) RefreshTTL(ctx context.Context, id string, ttl time.Duration) (T, bool, error) {
	key := s.BuildKey(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		var zero T
		return zero, false, nil
	}
	e.expiresAt = s.now().Add(ttl)
	s.entries[key] = e
	return e.value, true, nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) (bool, error) {
	key := s.BuildKey(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		delete(s.entries, key)
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

var _ sessionstore.Store[struct{}] = (*Store[struct{}])(nil)
