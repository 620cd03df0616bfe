// Package ids generates the identifiers the core hands out: session IDs,
// PKCE state values, and JWT jti claims. All three are spec'd as UUIDs
// (spec.md §3, §4.1), so this wraps google/uuid rather than hand-rolling
// the base32 scheme dexidp/dex's storage package uses for Kubernetes-safe
// resource names (that constraint does not apply here).
package ids

import "github.com/google/uuid"

// New returns a fresh random (v4) UUID string.
func New() string {
	return uuid.NewString()
}
