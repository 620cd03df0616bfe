// Package sessionstore defines the abstract TTL-keyed KV contract spec.md
// §4.2 names, generic over the record type T so the same contract backs
// both the session store (T = session.Session) and the PKCE codes store
// (T = codes.Codes, from oauthengine/codes). It is grounded on dexidp/dex's storage package
// split: a narrow interface (storage.Storage there, Store[T] here) with an
// in-memory implementation (storage/memory) and a Redis implementation
// (storage/redis) behind it.
package sessionstore

import (
	"context"
	"time"
)

// Store is the TTL KV contract of spec.md §4.2. Implementations MUST expire
// entries at or before now+ttl and MUST NOT require cross-operation
// transactionality (spec.md §5: "not required to be transactional across
// operations").
type Store[T any] interface {
	// BuildKey returns the stable string this implementation derives a
	// given id into. Exposed mainly so callers and tests can assert on
	// the wire key layout spec.md §6 fixes (e.g. "session:<uuid>").
	BuildKey(id string) string

	// Add inserts or overwrites key with value, attaching ttl. A zero or
	// past ttl is a no-op (spec.md §4.2).
	Add(ctx context.Context, id string, value T, ttl time.Duration) error

	// Get returns the value and true if present, or the zero value and
	// false if absent.
	Get(ctx context.Context, id string) (T, bool, error)

	// Exists is an O(1) presence check.
	Exists(ctx context.Context, id string) (bool, error)

	// Pop is Get followed by Delete. A concurrent miss on the Get half
	// returns (zero, false, nil) without deleting anything.
	Pop(ctx context.Context, id string) (T, bool, error)

	// RefreshTTL sets a new TTL on an existing key and returns its
	// current value, or (zero, false, nil) if the key is absent.
	RefreshTTL(ctx context.Context, id string, ttl time.Duration) (T, bool, error)

	// Delete is idempotent and reports whether a key was actually
	// removed.
	Delete(ctx context.Context, id string) (bool, error)
}
