// Package cryptoutil holds small cryptographically-secure random helpers,
// used for the PKCE code_verifier (session IDs and other identifiers come
// from internal/ids instead).
package cryptoutil

import (
	"crypto/rand"
	"errors"
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	got, err := rand.Read(b)
	if err != nil {
		return nil, err
	}
	if n != got {
		return nil, errors.New("cryptoutil: unable to generate enough random data")
	}
	return b, nil
}
